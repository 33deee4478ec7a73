package domain

import "time"

// Prediction is a served crop recommendation as kept in the offline log.
type Prediction struct {
	ID         string    `json:"id"`
	Crop       string    `json:"crop"`
	Confidence float64   `json:"confidence"`
	Features   Features  `json:"features"`
	CreatedAt  time.Time `json:"created_at"`
	Synced     bool      `json:"synced"`
}
