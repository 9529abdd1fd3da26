package domain

import "time"

// ParameterStatus reports one monitored parameter against its limits.
type ParameterStatus struct {
	Current float64 `json:"current"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Target  float64 `json:"target"`
}

// EnvironmentalStatus summarizes the most recent reading against the
// within-limits band. With no reading yet, IsWithinLimits is true: absence of
// telemetry is treated as presumed-compliant rather than an error.
type EnvironmentalStatus struct {
	Temperature    ParameterStatus `json:"temperature"`
	Humidity       ParameterStatus `json:"humidity"`
	LastReading    time.Time       `json:"last_reading"`
	IsWithinLimits bool            `json:"is_within_limits"`
}

// RouteProgress tracks completed stops against elapsed time.
type RouteProgress struct {
	CompletedStops    int     `json:"completed_stops"`
	TotalStops        int     `json:"total_stops"`
	TimeProgress      float64 `json:"time_progress"` // percent of total duration elapsed
	StopProgress      float64 `json:"stop_progress"` // percent of stops completed
	IsAheadOfSchedule bool    `json:"is_ahead_of_schedule"`
}

// PastEvent is a planned stop that has an actual arrival, with the variance
// between planned and actual time in whole minutes.
type PastEvent struct {
	StopID          string    `json:"stop_id"`
	Location        string    `json:"location"`
	PlannedTime     time.Time `json:"planned_time"`
	ActualTime      time.Time `json:"actual_time"`
	VarianceMinutes int       `json:"variance_minutes"`
}

// UpcomingEvent is a planned stop not yet reached, with its arrival time
// re-estimated from current schedule slip.
type UpcomingEvent struct {
	StopID       string    `json:"stop_id"`
	Location     string    `json:"location"`
	PlannedTime  time.Time `json:"planned_time"`
	ExpectedTime time.Time `json:"expected_time"`
}

// StatusTimeline splits the planned stops into those already visited and
// those still ahead.
type StatusTimeline struct {
	Past     []PastEvent     `json:"past"`
	Upcoming []UpcomingEvent `json:"upcoming"`
}

// ShipmentStatus is a point-in-time snapshot derived from a Route and a
// shipment's actual history. It is never stored or mutated in place; callers
// recompute it on demand and may serialize it directly.
type ShipmentStatus struct {
	ShipmentID      string              `json:"shipment_id"`
	Status          ShipmentState       `json:"status"`
	Message         string              `json:"message"`
	LastUpdate      time.Time           `json:"last_update"`
	CurrentLocation string              `json:"current_location,omitempty"`
	Environmental   EnvironmentalStatus `json:"environmental_conditions"`
	Progress        RouteProgress       `json:"route_progress"`
	CurrentHandler  *Handler            `json:"current_handler,omitempty"`
	NextHandler     *Handler            `json:"next_handler,omitempty"`
	Timeline        StatusTimeline      `json:"timeline"`
}
