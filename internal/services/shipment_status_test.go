package services

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"shipment-compliance-service/internal/domain"
)

func statusFixture() (*domain.Route, *domain.Shipment) {
	route := threeStopRoute()
	route.Stops[0].Handler = &domain.Handler{ID: "h-1", Name: "Customs"}
	route.Stops[1].Handler = &domain.Handler{ID: "h-2", Name: "Logistics"}
	route.Stops[2].Handler = &domain.Handler{ID: "h-3", Name: "Distributor"}

	start := route.Stops[0].ExpectedArrival
	shipment := &domain.Shipment{
		ID:           "ship-1",
		RouteID:      route.ID,
		Status:       domain.StateInTransit,
		StartTime:    start,
		EstimatedEnd: route.Stops[len(route.Stops)-1].ExpectedDeparture,
	}
	return route, shipment
}

func TestDeriveStatusTimelinePartition(t *testing.T) {
	route, shipment := statusFixture()

	// Stop A reached 12 minutes late; B and C still ahead.
	actual := route.Stops[0].ExpectedArrival.Add(12 * time.Minute)
	shipment.Locations = []domain.ShipmentLocation{
		{ID: "loc-1", StopID: "stop-a", Location: "A", ArrivalTime: actual},
	}

	now := actual.Add(30 * time.Minute)
	status, err := DeriveStatus(route, shipment, domain.DefaultThresholds, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(status.Timeline.Past) != 1 {
		t.Fatalf("past events = %d, want 1", len(status.Timeline.Past))
	}
	if len(status.Timeline.Upcoming) != 2 {
		t.Fatalf("upcoming events = %d, want 2", len(status.Timeline.Upcoming))
	}

	past := status.Timeline.Past[0]
	if past.VarianceMinutes != 12 {
		t.Errorf("variance = %d minutes, want 12", past.VarianceMinutes)
	}

	for i, up := range status.Timeline.Upcoming {
		if up.ExpectedTime.Before(up.PlannedTime) {
			t.Errorf("upcoming %d expected %v before planned %v", i, up.ExpectedTime, up.PlannedTime)
		}
	}

	if status.Progress.CompletedStops != 1 || status.Progress.TotalStops != 3 {
		t.Errorf("progress = %d/%d, want 1/3", status.Progress.CompletedStops, status.Progress.TotalStops)
	}

	if status.CurrentHandler == nil || status.CurrentHandler.ID != "h-1" {
		t.Errorf("current handler = %+v, want h-1", status.CurrentHandler)
	}
	if status.NextHandler == nil || status.NextHandler.ID != "h-2" {
		t.Errorf("next handler = %+v, want h-2", status.NextHandler)
	}
}

func TestDeriveStatusIdempotent(t *testing.T) {
	route, shipment := statusFixture()
	shipment.Locations = []domain.ShipmentLocation{
		{ID: "loc-1", StopID: "stop-a", Location: "A", ArrivalTime: route.Stops[0].ExpectedArrival},
	}
	shipment.Readings = []domain.EnvironmentalReading{
		{ID: "r-1", Temperature: 21, Humidity: 48, Location: "A", Timestamp: shipment.StartTime.Add(time.Hour)},
	}

	now := shipment.StartTime.Add(2 * time.Hour)

	first, err := DeriveStatus(route, shipment, domain.DefaultThresholds, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := DeriveStatus(route, shipment, domain.DefaultThresholds, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("derivation is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestProgressAheadOfSchedule(t *testing.T) {
	// 10 stops over 10 hours, 6 completed at the halfway mark: timeProgress
	// 50, stopProgress 60, ahead of schedule.
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	route := &domain.Route{ID: "route-10"}
	for i := 0; i < 10; i++ {
		route.Stops = append(route.Stops, domain.Stop{
			ID:          fmt.Sprintf("stop-%d", i),
			Destination: fmt.Sprintf("D%d", i),
			Dwell:       30 * time.Minute,
		})
	}
	route.Stops[0].ExpectedArrival = start
	if err := RecomputeFrom(route, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shipment := &domain.Shipment{
		ID:           "ship-10",
		RouteID:      route.ID,
		Status:       domain.StateInTransit,
		StartTime:    start,
		EstimatedEnd: start.Add(10 * time.Hour),
	}
	for i := 0; i < 6; i++ {
		shipment.Locations = append(shipment.Locations, domain.ShipmentLocation{
			ID:          fmt.Sprintf("loc-%d", i),
			StopID:      fmt.Sprintf("stop-%d", i),
			ArrivalTime: start.Add(time.Duration(i) * 45 * time.Minute),
		})
	}

	status, err := DeriveStatus(route, shipment, domain.DefaultThresholds, start.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if status.Progress.TimeProgress != 50 {
		t.Errorf("time progress = %v, want 50", status.Progress.TimeProgress)
	}
	if status.Progress.StopProgress != 60 {
		t.Errorf("stop progress = %v, want 60", status.Progress.StopProgress)
	}
	if !status.Progress.IsAheadOfSchedule {
		t.Error("expected ahead of schedule")
	}
}

func TestNoReadingPresumedWithinLimits(t *testing.T) {
	route, shipment := statusFixture()

	status, err := DeriveStatus(route, shipment, domain.DefaultThresholds, shipment.StartTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !status.Environmental.IsWithinLimits {
		t.Error("no readings should be presumed within limits")
	}
	if status.Environmental.Temperature.Min != 15 || status.Environmental.Temperature.Max != 25 {
		t.Errorf("temperature limits = %+v, want warning band [15,25]", status.Environmental.Temperature)
	}
}

func TestOutOfBandReadingFlagsLimits(t *testing.T) {
	route, shipment := statusFixture()
	shipment.Readings = []domain.EnvironmentalReading{
		{ID: "r-1", Temperature: 27.5, Humidity: 45, Location: "A", Timestamp: shipment.StartTime.Add(time.Hour)},
	}

	status, err := DeriveStatus(route, shipment, domain.DefaultThresholds, shipment.StartTime.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if status.Environmental.IsWithinLimits {
		t.Error("27.5°C should be outside the [15,25] limit band")
	}
	if status.Environmental.Temperature.Current != 27.5 {
		t.Errorf("current temperature = %v, want 27.5", status.Environmental.Temperature.Current)
	}
	if !status.LastUpdate.Equal(shipment.Readings[0].Timestamp) {
		t.Errorf("last update = %v, want latest reading time", status.LastUpdate)
	}
}

func TestCurrentLocationPrefersStillPresent(t *testing.T) {
	departed := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	locations := []domain.ShipmentLocation{
		{ID: "loc-1", Location: "A", ArrivalTime: departed.Add(-2 * time.Hour), DepartureTime: &departed},
		{ID: "loc-2", Location: "B", ArrivalTime: departed.Add(time.Hour)},
	}

	current := currentLocation(locations)
	if current == nil || current.Location != "B" {
		t.Fatalf("current location = %+v, want B (no departure yet)", current)
	}
}

func TestCurrentHandlerEqualArrivalsDeterministic(t *testing.T) {
	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	stops := []domain.Stop{
		{ID: "stop-a", Handler: &domain.Handler{ID: "h-1", Name: "First"}},
		{ID: "stop-b", Handler: &domain.Handler{ID: "h-2", Name: "Second"}},
	}
	arrivals := map[int]*domain.ShipmentLocation{
		0: {StopID: "stop-a", ArrivalTime: at},
		1: {StopID: "stop-b", ArrivalTime: at},
	}

	// Equal arrival times resolve to the later stop, every derivation.
	for i := 0; i < 20; i++ {
		handler := currentHandler(stops, arrivals)
		if handler == nil || handler.ID != "h-2" {
			t.Fatalf("handler = %+v, want h-2 (later stop wins ties)", handler)
		}
	}
}

func TestScheduleSlip(t *testing.T) {
	if got := scheduleSlip(80); got != 0 {
		t.Errorf("slip at 80%% = %v, want 0", got)
	}
	// 20 points over: 0.2h of extra delay.
	if got := scheduleSlip(120); got != 12*time.Minute {
		t.Errorf("slip at 120%% = %v, want 12m", got)
	}
}
