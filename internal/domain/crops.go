package domain

var cropTable = []CropRange{
	// Cereals.
	{"rice", [NumFeatures]Range{{60, 100}, {40, 70}, {35, 55}, {20, 30}, {80, 95}, {5.5, 7.5}, {150, 300}}},
	{"wheat", [NumFeatures]Range{{80, 120}, {40, 65}, {25, 45}, {12, 22}, {50, 70}, {6.0, 7.5}, {50, 100}}},
	{"maize", [NumFeatures]Range{{60, 100}, {35, 60}, {25, 45}, {18, 28}, {55, 75}, {5.5, 7.5}, {60, 120}}},
	{"barley", [NumFeatures]Range{{60, 90}, {35, 55}, {20, 40}, {10, 20}, {40, 60}, {6.0, 8.0}, {40, 80}}},
	{"sorghum", [NumFeatures]Range{{50, 80}, {30, 50}, {20, 40}, {25, 35}, {40, 60}, {5.5, 8.0}, {40, 100}}},
	{"pearl_millet", [NumFeatures]Range{{40, 70}, {20, 40}, {15, 35}, {25, 35}, {40, 60}, {6.0, 8.0}, {25, 60}}},
	{"finger_millet", [NumFeatures]Range{{25, 50}, {20, 40}, {20, 40}, {20, 30}, {50, 70}, {5.5, 7.0}, {80, 120}}},
	// Pulses.
	{"chickpea", [NumFeatures]Range{{20, 50}, {50, 80}, {60, 90}, {15, 25}, {15, 35}, {6.5, 8.0}, {60, 100}}},
	{"kidneybeans", [NumFeatures]Range{{20, 45}, {55, 80}, {15, 30}, {15, 25}, {18, 25}, {5.5, 7.0}, {60, 120}}},
	{"pigeonpeas", [NumFeatures]Range{{10, 35}, {50, 80}, {15, 30}, {20, 35}, {30, 60}, {5.0, 7.5}, {100, 180}}},
	{"mothbeans", [NumFeatures]Range{{15, 35}, {35, 60}, {15, 30}, {25, 35}, {35, 55}, {6.0, 8.0}, {30, 70}}},
	{"mungbean", [NumFeatures]Range{{10, 35}, {35, 60}, {15, 30}, {25, 35}, {80, 95}, {6.0, 8.0}, {30, 70}}},
	{"blackgram", [NumFeatures]Range{{30, 50}, {55, 75}, {15, 30}, {25, 35}, {60, 75}, {6.0, 8.0}, {60, 100}}},
	{"lentil", [NumFeatures]Range{{10, 30}, {55, 75}, {15, 30}, {18, 28}, {30, 50}, {6.0, 8.0}, {40, 80}}},
	// Fruits.
	{"pomegranate", [NumFeatures]Range{{10, 30}, {10, 25}, {30, 50}, {20, 35}, {35, 55}, {5.5, 7.5}, {35, 65}}},
	{"banana", [NumFeatures]Range{{90, 120}, {70, 95}, {45, 65}, {23, 30}, {75, 90}, {5.5, 7.0}, {100, 180}}},
	{"mango", [NumFeatures]Range{{15, 35}, {15, 35}, {25, 45}, {25, 35}, {45, 65}, {5.5, 7.0}, {90, 160}}},
	{"grapes", [NumFeatures]Range{{15, 35}, {120, 150}, {190, 210}, {20, 35}, {75, 90}, {5.5, 7.0}, {60, 90}}},
	{"watermelon", [NumFeatures]Range{{90, 110}, {15, 30}, {45, 60}, {23, 30}, {78, 90}, {6.0, 7.0}, {40, 60}}},
	{"muskmelon", [NumFeatures]Range{{90, 110}, {15, 30}, {45, 60}, {26, 32}, {88, 95}, {6.0, 7.0}, {20, 35}}},
	{"apple", [NumFeatures]Range{{15, 35}, {120, 145}, {195, 210}, {20, 27}, {88, 95}, {5.5, 7.0}, {100, 140}}},
	{"orange", [NumFeatures]Range{{15, 30}, {10, 25}, {5, 15}, {20, 30}, {88, 95}, {6.5, 8.0}, {100, 140}}},
	{"papaya", [NumFeatures]Range{{45, 65}, {55, 75}, {45, 60}, {30, 42}, {88, 95}, {6.5, 7.5}, {40, 60}}},
	{"coconut", [NumFeatures]Range{{15, 35}, {10, 30}, {25, 40}, {25, 32}, {93, 98}, {5.5, 7.0}, {150, 250}}},
	// Cash Crops.
	{"cotton", [NumFeatures]Range{{110, 140}, {35, 55}, {15, 25}, {22, 28}, {75, 85}, {5.8, 8.0}, {50, 90}}},
	{"jute", [NumFeatures]Range{{70, 90}, {35, 55}, {35, 50}, {23, 28}, {75, 90}, {6.0, 7.5}, {150, 200}}},
	{"sugarcane", [NumFeatures]Range{{100, 150}, {50, 80}, {50, 80}, {20, 35}, {70, 85}, {6.0, 8.0}, {100, 200}}},
	{"tobacco", [NumFeatures]Range{{80, 120}, {30, 60}, {40, 80}, {20, 30}, {60, 80}, {5.5, 7.5}, {50, 100}}},
	// Oilseeds.
	{"groundnut", [NumFeatures]Range{{20, 40}, {40, 70}, {25, 45}, {25, 32}, {60, 80}, {5.5, 7.0}, {50, 100}}},
	{"sunflower", [NumFeatures]Range{{60, 90}, {25, 50}, {30, 55}, {20, 28}, {50, 70}, {6.0, 7.5}, {50, 90}}},
	{"mustard", [NumFeatures]Range{{40, 70}, {30, 55}, {25, 45}, {15, 25}, {50, 70}, {6.0, 8.0}, {40, 80}}},
	{"sesame", [NumFeatures]Range{{25, 50}, {20, 45}, {20, 40}, {25, 35}, {40, 60}, {5.5, 8.0}, {40, 80}}},
	{"castor", [NumFeatures]Range{{20, 45}, {20, 40}, {15, 35}, {20, 30}, {50, 70}, {5.0, 7.0}, {40, 60}}},
	{"soybean", [NumFeatures]Range{{40, 70}, {50, 80}, {35, 55}, {20, 30}, {60, 80}, {5.5, 7.0}, {60, 120}}},
	// Spices.
	{"turmeric", [NumFeatures]Range{{80, 120}, {40, 70}, {80, 120}, {20, 30}, {70, 90}, {5.5, 7.5}, {150, 250}}},
	{"ginger", [NumFeatures]Range{{70, 100}, {50, 80}, {70, 100}, {22, 30}, {80, 95}, {5.5, 7.0}, {200, 300}}},
	{"cardamom", [NumFeatures]Range{{75, 110}, {75, 110}, {75, 110}, {15, 25}, {85, 98}, {5.0, 6.5}, {250, 400}}},
	{"pepper", [NumFeatures]Range{{50, 80}, {40, 70}, {80, 120}, {22, 30}, {85, 95}, {5.0, 6.5}, {200, 350}}},
	{"coriander", [NumFeatures]Range{{30, 60}, {40, 70}, {30, 60}, {20, 28}, {50, 70}, {6.5, 8.0}, {40, 80}}},
	// Plantation Crops.
	{"arecanut", [NumFeatures]Range{{60, 100}, {40, 70}, {80, 120}, {22, 32}, {80, 95}, {5.0, 7.0}, {200, 350}}},
	{"cashew", [NumFeatures]Range{{20, 40}, {15, 35}, {15, 35}, {25, 35}, {60, 80}, {5.0, 7.0}, {100, 200}}},
	{"rubber", [NumFeatures]Range{{40, 80}, {20, 50}, {30, 60}, {25, 32}, {80, 95}, {4.5, 6.5}, {200, 350}}},
	{"tea", [NumFeatures]Range{{40, 80}, {20, 50}, {30, 60}, {18, 28}, {80, 95}, {4.5, 5.5}, {200, 300}}},
	{"coffee", [NumFeatures]Range{{90, 110}, {15, 30}, {25, 40}, {22, 28}, {55, 70}, {6.0, 7.0}, {140, 180}}},
}
