package domain

import "time"

// Represents one environmental measurement recorded for a shipment.
// Readings are immutable once recorded; a shipment's reading history is
// append-only and ordered by timestamp ascending.
type EnvironmentalReading struct {
	ID          string    `json:"id"`
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // %RH
	Location    string    `json:"location"`
	Timestamp   time.Time `json:"timestamp"`
}
