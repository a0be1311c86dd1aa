package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// LabeledEvent is the JSON form of one labeled row, published to the sink
// topic for dashboard and map consumers.
type LabeledEvent struct {
	ID              string  `json:"id"`
	LocationID      string  `json:"location_id"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Timestamp       string  `json:"timestamp,omitempty"`
	PM25            float64 `json:"pm25"`
	PM10            float64 `json:"pm10"`
	NO2             float64 `json:"no2"`
	CO              float64 `json:"co"`
	SO2             float64 `json:"so2"`
	O3              float64 `json:"o3"`
	PollutionSource string  `json:"pollution_source"`
	Provenance      string  `json:"provenance"`

	ProcessedAt time.Time `json:"processed_at"`
}

// StampProcessedAt sets ProcessedAt from the package clock.
func (e *LabeledEvent) StampProcessedAt() {
	e.ProcessedAt = clock.Now()
}

// EventID produces a deterministic ID from a row's key fields, so replaying
// the same labeled table publishes the same IDs and downstream consumers can
// deduplicate.
func EventID(locationID, timestamp string, lat, lon float64, label SourceLabel) string {
	input := fmt.Sprintf("%s|%s|%.4f|%.4f|%s", locationID, timestamp, lat, lon, label)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if locationID == "" {
		return short
	}
	return locationID + "-" + short
}
