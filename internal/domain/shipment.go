package domain

import (
	"fmt"
	"time"
)

// ShipmentState is the lifecycle state of a shipment.
type ShipmentState string

const (
	StatePending   ShipmentState = "pending"
	StateInTransit ShipmentState = "in_transit"
	StateCompleted ShipmentState = "completed"
	StateAlert     ShipmentState = "alert"
)

// Immutable geographic coordinates reported by a tracking device.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Represents an actual visit to a location during transit.
// DepartureTime is nil while the cargo is still at the location. StopID links
// the visit back to the planned stop it fulfills, when known.
type ShipmentLocation struct {
	ID            string       `json:"id"`
	StopID        string       `json:"stop_id,omitempty"`
	Location      string       `json:"location"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
	ArrivalTime   time.Time    `json:"arrival_time"`
	DepartureTime *time.Time   `json:"departure_time,omitempty"`
	HandlerID     string       `json:"handler_id,omitempty"`
}

// Represents an active (or finished) journey along a planned route.
// The reading and location histories are facts appended by telemetry; the
// planned side lives on the referenced Route.
type Shipment struct {
	ID           string                 `json:"id"`
	RouteID      string                 `json:"route_id"`
	Status       ShipmentState          `json:"status"`
	StartTime    time.Time              `json:"start_time"`
	EstimatedEnd time.Time              `json:"estimated_end"`
	ActualEnd    *time.Time             `json:"actual_end,omitempty"`
	Readings     []EnvironmentalReading `json:"readings,omitempty"`
	Locations    []ShipmentLocation     `json:"locations,omitempty"`
}

// Transition moves the shipment to a new lifecycle state, enforcing the
// allowed transitions: pending -> in_transit -> {completed | alert}. An
// alerted shipment may still complete or return to in_transit once the
// excursion is resolved.
func (s *Shipment) Transition(to ShipmentState) error {
	allowed := map[ShipmentState][]ShipmentState{
		StatePending:   {StateInTransit},
		StateInTransit: {StateCompleted, StateAlert},
		StateAlert:     {StateInTransit, StateCompleted},
		StateCompleted: {},
	}

	for _, next := range allowed[s.Status] {
		if next == to {
			s.Status = to
			return nil
		}
	}

	return fmt.Errorf("shipment %s: invalid transition %s -> %s", s.ID, s.Status, to)
}
