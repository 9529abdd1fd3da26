package domain

import "time"

// Handler is the party responsible for the cargo at a stop.
type Handler struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Represents a single planned stop in a shipment route.
// A Stop is one leg of the journey: travel from Location to Destination,
// dwell there, then depart toward the next stop. Times are expressed in a
// single canonical zone chosen by the caller (UTC by convention); the engine
// never converts between zones.
type Stop struct {
	ID          string   `json:"id"`
	Location    string   `json:"location"`
	Destination string   `json:"destination"`
	Handler     *Handler `json:"handler,omitempty"`

	// TransitToNext is the travel time to the next stop. Meaningless on the
	// last stop of a route.
	TransitToNext time.Duration `json:"transit_to_next"`
	Dwell         time.Duration `json:"dwell"`

	TempRange     Band `json:"temp_range"`
	HumidityRange Band `json:"humidity_range"`

	ExpectedArrival   time.Time `json:"expected_arrival"`
	ExpectedDeparture time.Time `json:"expected_departure"`
}

// Represents a planned multi-stop route.
// Stop order is semantic: it defines the travel sequence. A Route referenced
// by a Shipment is only modified through the timeline edit operations, which
// re-propagate expected times across the whole sequence.
type Route struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Stops     []Stop    `json:"stops"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RouteSummary aggregates a route's timing totals and the environmental
// envelope the cargo must tolerate across the whole journey. The envelope is
// the union of per-stop bands: the widest range any stop allows.
type RouteSummary struct {
	Origin       string        `json:"origin"`
	Destination  string        `json:"destination"`
	StopCount    int           `json:"stop_count"`
	TotalTransit time.Duration `json:"total_transit"`
	TotalDwell   time.Duration `json:"total_dwell"`
	TotalTime    time.Duration `json:"total_time"`
	TempBand     Band          `json:"temp_band"`
	HumidityBand Band          `json:"humidity_band"`
}
