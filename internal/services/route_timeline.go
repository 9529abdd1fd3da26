package services

import (
	"time"

	"shipment-compliance-service/internal/domain"

	"github.com/google/uuid"
)

// Defaults applied when inserting a stop after one that carries no timing of
// its own (first stop of an empty route, or zero-valued fields).
const (
	defaultTransit = 2 * time.Hour
	defaultDwell   = 1 * time.Hour
)

// StopEdit describes the fields changed by one edit to a stop. Nil fields
// are untouched. Setting Departure directly re-derives the stop's dwell so
// the departure = arrival + dwell invariant keeps holding.
type StopEdit struct {
	Arrival       *time.Time
	Departure     *time.Time
	Dwell         *time.Duration
	TransitToNext *time.Duration
}

// ApplyStopEdit applies an edit to the stop at index and re-propagates
// expected times through every subsequent stop. Stops earlier than index are
// untouched. The whole pass is a single in-memory mutation; callers that
// allow concurrent edits to one route must serialize them.
func ApplyStopEdit(route *domain.Route, index int, edit StopEdit) error {
	if err := checkIndex(route, index); err != nil {
		return err
	}

	stop := &route.Stops[index]

	if edit.Arrival != nil {
		stop.ExpectedArrival = *edit.Arrival
	}
	if edit.Dwell != nil {
		if *edit.Dwell < 0 {
			return &domain.ValidationError{Field: "dwell", Reason: "must not be negative"}
		}
		stop.Dwell = *edit.Dwell
	}
	if edit.Departure != nil {
		// A direct departure edit means the dwell changed, not the arrival.
		dwell := edit.Departure.Sub(stop.ExpectedArrival)
		if dwell < 0 {
			return &domain.ValidationError{Field: "departure", Reason: "must not precede arrival"}
		}
		stop.Dwell = dwell
	}
	if edit.TransitToNext != nil {
		if *edit.TransitToNext < 0 {
			return &domain.ValidationError{Field: "transit_to_next", Reason: "must not be negative"}
		}
		stop.TransitToNext = *edit.TransitToNext
	}

	return RecomputeFrom(route, index)
}

// RecomputeFrom walks the stop sequence forward from index, re-deriving each
// expected departure and each subsequent expected arrival:
//
//	departure[i] = arrival[i] + dwell[i]
//	arrival[i+1] = departure[i] + transit[i]
//
// Earlier stops are never touched.
func RecomputeFrom(route *domain.Route, index int) error {
	if err := checkIndex(route, index); err != nil {
		return err
	}

	for i := index; i < len(route.Stops); i++ {
		stop := &route.Stops[i]
		if stop.Dwell < 0 {
			return &domain.ValidationError{Field: "dwell", Reason: "must not be negative"}
		}
		if stop.TransitToNext < 0 {
			return &domain.ValidationError{Field: "transit_to_next", Reason: "must not be negative"}
		}

		if i > 0 {
			prev := route.Stops[i-1]
			stop.ExpectedArrival = prev.ExpectedDeparture.Add(prev.TransitToNext)
		}
		stop.ExpectedDeparture = stop.ExpectedArrival.Add(stop.Dwell)
	}

	return nil
}

// InsertStop inserts a stop after afterIndex (-1 prepends) and re-propagates.
// Unset fields default from the preceding stop: the new stop starts where the
// previous one ended, and inherits its transit and dwell durations.
func InsertStop(route *domain.Route, afterIndex int, stop domain.Stop) error {
	if route == nil {
		return &domain.ValidationError{Field: "route", Reason: "must not be nil"}
	}
	if afterIndex < -1 || afterIndex >= len(route.Stops) {
		return &domain.ValidationError{Field: "after_index", Reason: "out of range"}
	}

	if stop.ID == "" {
		stop.ID = uuid.NewString()
	}

	if afterIndex >= 0 {
		prev := route.Stops[afterIndex]
		if stop.Location == "" {
			stop.Location = prev.Destination
		}
		if stop.TransitToNext == 0 {
			stop.TransitToNext = prev.TransitToNext
		}
		if stop.Dwell == 0 {
			stop.Dwell = prev.Dwell
		}
	}
	if stop.TransitToNext == 0 {
		stop.TransitToNext = defaultTransit
	}
	if stop.Dwell == 0 {
		stop.Dwell = defaultDwell
	}

	at := afterIndex + 1
	route.Stops = append(route.Stops, domain.Stop{})
	copy(route.Stops[at+1:], route.Stops[at:])
	route.Stops[at] = stop

	return RecomputeFrom(route, at)
}

// RemoveStop removes the stop at index and re-propagates times through the
// stops that followed it.
func RemoveStop(route *domain.Route, index int) error {
	if err := checkIndex(route, index); err != nil {
		return err
	}

	route.Stops = append(route.Stops[:index], route.Stops[index+1:]...)

	// The first survivor keeps its own arrival; only chained times reflow.
	start := max(index, 1)
	if start >= len(route.Stops) {
		return nil
	}
	return RecomputeFrom(route, start)
}

// Aggregate computes the route's timing totals and environmental envelope.
// An empty route yields the zero-valued summary.
func Aggregate(route *domain.Route) domain.RouteSummary {
	if route == nil || len(route.Stops) == 0 {
		return domain.RouteSummary{}
	}

	first := route.Stops[0]
	last := route.Stops[len(route.Stops)-1]

	summary := domain.RouteSummary{
		Origin:       first.Location,
		Destination:  last.Destination,
		StopCount:    len(route.Stops),
		TempBand:     first.TempRange,
		HumidityBand: first.HumidityRange,
	}

	for i, stop := range route.Stops {
		summary.TotalDwell += stop.Dwell
		if i < len(route.Stops)-1 {
			summary.TotalTransit += stop.TransitToNext
		}

		summary.TempBand.Min = min(summary.TempBand.Min, stop.TempRange.Min)
		summary.TempBand.Max = max(summary.TempBand.Max, stop.TempRange.Max)
		summary.HumidityBand.Min = min(summary.HumidityBand.Min, stop.HumidityRange.Min)
		summary.HumidityBand.Max = max(summary.HumidityBand.Max, stop.HumidityRange.Max)
	}
	summary.TotalTime = summary.TotalTransit + summary.TotalDwell

	return summary
}

func checkIndex(route *domain.Route, index int) error {
	if route == nil {
		return &domain.ValidationError{Field: "route", Reason: "must not be nil"}
	}
	if len(route.Stops) == 0 {
		return &domain.ValidationError{Field: "stops", Reason: "must not be empty"}
	}
	if index < 0 || index >= len(route.Stops) {
		return &domain.ValidationError{Field: "index", Reason: "out of range"}
	}
	return nil
}
