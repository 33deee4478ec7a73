package domain

import "fmt"

// NumFeatures is the width of a model feature vector.
const NumFeatures = 7

// FeatureNames lists the feature columns in vector order.
var FeatureNames = [NumFeatures]string{"N", "P", "K", "temperature", "humidity", "ph", "rainfall"}

// Features is a single set of soil and climate readings.
type Features struct {
	N           float64 `json:"N" validate:"gte=0,lte=1000"`
	P           float64 `json:"P" validate:"gte=0,lte=1000"`
	K           float64 `json:"K" validate:"gte=0,lte=1000"`
	Temperature float64 `json:"temperature" validate:"gte=-50,lte=60"`
	Humidity    float64 `json:"humidity" validate:"gte=0,lte=100"`
	PH          float64 `json:"ph" validate:"gte=0,lte=14"`
	Rainfall    float64 `json:"rainfall" validate:"gte=0,lte=20000"`
}

// Vector returns the features in FeatureNames order.
func (f Features) Vector() [NumFeatures]float64 {
	return [NumFeatures]float64{f.N, f.P, f.K, f.Temperature, f.Humidity, f.PH, f.Rainfall}
}

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// CropRange declares the feature intervals typical for a crop.
type CropRange struct {
	Crop   string
	Ranges [NumFeatures]Range
}

// Sample is one labeled synthetic observation.
type Sample struct {
	Features [NumFeatures]float64
	Label    string
}

// CropRanges returns a copy of the static crop parameter table in declaration order.
func CropRanges() []CropRange {
	out := make([]CropRange, len(cropTable))
	copy(out, cropTable)
	return out
}

// ValidateCropRanges checks that every interval is well formed and crop names are unique.
func ValidateCropRanges(ranges []CropRange) error {
	seen := make(map[string]struct{}, len(ranges))
	for _, cr := range ranges {
		if cr.Crop == "" {
			return fmt.Errorf("crop range with empty name")
		}
		if _, dup := seen[cr.Crop]; dup {
			return fmt.Errorf("duplicate crop %q", cr.Crop)
		}
		seen[cr.Crop] = struct{}{}
		for i, r := range cr.Ranges {
			if r.Min > r.Max {
				return fmt.Errorf("crop %q: %s min %g exceeds max %g", cr.Crop, FeatureNames[i], r.Min, r.Max)
			}
		}
	}
	return nil
}
