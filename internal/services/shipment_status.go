package services

import (
	"math"
	"time"

	"shipment-compliance-service/internal/domain"
)

// DeriveStatus computes a point-in-time ShipmentStatus snapshot from the
// planned route and the shipment's actual history. It is a stateless
// function of its inputs: given identical route, history, and now, the
// output is identical, so it is safe to call on every poll. Now is an
// explicit parameter so derivation stays reproducible in tests and immune to
// host clock issues.
func DeriveStatus(
	route *domain.Route,
	shipment *domain.Shipment,
	th domain.Thresholds,
	now time.Time,
) (*domain.ShipmentStatus, error) {
	if route == nil {
		return nil, &domain.ValidationError{Field: "route", Reason: "must not be nil"}
	}
	if shipment == nil {
		return nil, &domain.ValidationError{Field: "shipment", Reason: "must not be nil"}
	}

	status := &domain.ShipmentStatus{
		ShipmentID: shipment.ID,
		Status:     shipment.Status,
		Message:    statusMessage(shipment.Status),
		LastUpdate: now,
	}

	var latestReading *domain.EnvironmentalReading
	if n := len(shipment.Readings); n > 0 {
		latestReading = &shipment.Readings[n-1]
	}

	current := currentLocation(shipment.Locations)
	if current != nil {
		status.CurrentLocation = current.Location
	}

	switch {
	case latestReading != nil:
		status.LastUpdate = latestReading.Timestamp
	case current != nil:
		status.LastUpdate = current.ArrivalTime
	}

	status.Environmental = environmentalStatus(latestReading, th)

	arrivals := matchArrivals(route.Stops, shipment.Locations)
	progress, rawTimeProgress := routeProgress(route, shipment, arrivals, now)
	status.Progress = progress
	status.Timeline = splitTimeline(route.Stops, arrivals, rawTimeProgress)

	status.CurrentHandler = currentHandler(route.Stops, arrivals)
	status.NextHandler = nextHandler(route.Stops, arrivals)

	return status, nil
}

func statusMessage(state domain.ShipmentState) string {
	switch state {
	case domain.StatePending:
		return "Shipment has not started"
	case domain.StateInTransit:
		return "Shipment is proceeding as planned"
	case domain.StateCompleted:
		return "Shipment has been delivered"
	case domain.StateAlert:
		return "Critical environmental conditions detected"
	default:
		return "Status unknown"
	}
}

// currentLocation picks the actual-location entry the cargo is presumed at:
// the latest arrival still lacking a departure, falling back to the most
// recent arrival overall.
func currentLocation(locations []domain.ShipmentLocation) *domain.ShipmentLocation {
	var result *domain.ShipmentLocation
	for i := range locations {
		loc := &locations[i]
		if result == nil {
			result = loc
			continue
		}
		if loc.DepartureTime == nil && result.DepartureTime != nil {
			result = loc
			continue
		}
		if (loc.DepartureTime == nil) == (result.DepartureTime == nil) &&
			loc.ArrivalTime.After(result.ArrivalTime) {
			result = loc
		}
	}
	return result
}

// environmentalStatus reports the latest reading against the warning-tier
// band. No reading yet means presumed within limits; this is a deliberate
// permissive default for shipments whose telemetry has not started, not a
// missing-data error.
func environmentalStatus(latest *domain.EnvironmentalReading, th domain.Thresholds) domain.EnvironmentalStatus {
	tempBand := th.Temperature.Warn()
	humidityBand := th.Humidity.Warn()

	env := domain.EnvironmentalStatus{
		Temperature: domain.ParameterStatus{
			Min:    tempBand.Min,
			Max:    tempBand.Max,
			Target: (tempBand.Min + tempBand.Max) / 2,
		},
		Humidity: domain.ParameterStatus{
			Min:    humidityBand.Min,
			Max:    humidityBand.Max,
			Target: (humidityBand.Min + humidityBand.Max) / 2,
		},
		IsWithinLimits: true,
	}

	if latest == nil {
		return env
	}

	env.Temperature.Current = latest.Temperature
	env.Humidity.Current = latest.Humidity
	env.LastReading = latest.Timestamp
	env.IsWithinLimits = tempBand.Contains(latest.Temperature) &&
		humidityBand.Contains(latest.Humidity)

	return env
}

// matchArrivals maps planned stop index -> actual arrival, matching by stop
// id when the telemetry carries one and by destination name otherwise.
func matchArrivals(stops []domain.Stop, locations []domain.ShipmentLocation) map[int]*domain.ShipmentLocation {
	arrivals := make(map[int]*domain.ShipmentLocation, len(stops))
	for i, stop := range stops {
		for j := range locations {
			loc := &locations[j]
			if loc.StopID != "" && loc.StopID == stop.ID {
				arrivals[i] = loc
				break
			}
			if loc.StopID == "" && loc.Location == stop.Destination {
				arrivals[i] = loc
				break
			}
		}
	}
	return arrivals
}

// routeProgress returns the reported progress block plus the unclamped
// elapsed-time percentage, which feeds the schedule-slip heuristic (the
// reported TimeProgress is clamped to [0,100]).
func routeProgress(
	route *domain.Route,
	shipment *domain.Shipment,
	arrivals map[int]*domain.ShipmentLocation,
	now time.Time,
) (domain.RouteProgress, float64) {
	progress := domain.RouteProgress{
		CompletedStops: len(arrivals),
		TotalStops:     len(route.Stops),
	}

	var rawTimeProgress float64
	total := shipment.EstimatedEnd.Sub(shipment.StartTime)
	if total > 0 {
		elapsed := now.Sub(shipment.StartTime)
		rawTimeProgress = float64(elapsed) / float64(total) * 100
		progress.TimeProgress = clampPercent(rawTimeProgress)
	}

	if progress.TotalStops > 0 {
		progress.StopProgress = float64(progress.CompletedStops) / float64(progress.TotalStops) * 100
	}

	// Ahead of schedule when more stops are done than the elapsed-time
	// fraction would predict.
	progress.IsAheadOfSchedule = progress.StopProgress > progress.TimeProgress

	return progress, rawTimeProgress
}

// splitTimeline partitions planned stops into past events (actual arrival
// known, with variance in whole minutes) and upcoming events (arrival
// re-estimated with a linear schedule-slip heuristic, not a forecast).
func splitTimeline(
	stops []domain.Stop,
	arrivals map[int]*domain.ShipmentLocation,
	timeProgress float64,
) domain.StatusTimeline {
	timeline := domain.StatusTimeline{
		Past:     []domain.PastEvent{},
		Upcoming: []domain.UpcomingEvent{},
	}

	extraDelay := scheduleSlip(timeProgress)

	for i, stop := range stops {
		if actual, ok := arrivals[i]; ok {
			variance := actual.ArrivalTime.Sub(stop.ExpectedArrival).Minutes()
			timeline.Past = append(timeline.Past, domain.PastEvent{
				StopID:          stop.ID,
				Location:        stop.Destination,
				PlannedTime:     stop.ExpectedArrival,
				ActualTime:      actual.ArrivalTime,
				VarianceMinutes: int(math.Round(variance)),
			})
			continue
		}

		timeline.Upcoming = append(timeline.Upcoming, domain.UpcomingEvent{
			StopID:       stop.ID,
			Location:     stop.Destination,
			PlannedTime:  stop.ExpectedArrival,
			ExpectedTime: stop.ExpectedArrival.Add(extraDelay),
		})
	}

	return timeline
}

// scheduleSlip converts overrun past 100% time progress into extra delay:
// 0.01 hours per percentage point over, zero when on or ahead of schedule.
func scheduleSlip(timeProgress float64) time.Duration {
	over := timeProgress - 100
	if over <= 0 {
		return 0
	}
	return time.Duration(over * 0.01 * float64(time.Hour))
}

// currentHandler is the handler of the visited stop with the latest actual
// arrival. Equal arrival times resolve to the later stop in route order.
func currentHandler(stops []domain.Stop, arrivals map[int]*domain.ShipmentLocation) *domain.Handler {
	var handler *domain.Handler
	var latest time.Time
	found := false
	for i := range stops {
		actual, ok := arrivals[i]
		if !ok {
			continue
		}
		if !found || !actual.ArrivalTime.Before(latest) {
			found = true
			latest = actual.ArrivalTime
			handler = stops[i].Handler
		}
	}
	return handler
}

// nextHandler is the handler of the earliest planned stop not yet arrived at.
func nextHandler(stops []domain.Stop, arrivals map[int]*domain.ShipmentLocation) *domain.Handler {
	for i, stop := range stops {
		if _, ok := arrivals[i]; !ok {
			return stop.Handler
		}
	}
	return nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
