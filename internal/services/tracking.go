package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"shipment-compliance-service/internal/domain"
	"shipment-compliance-service/internal/ports"

	"github.com/google/uuid"
)

// ActivateRoute creates a shipment from a planned route and starts it:
// pending -> in_transit. The estimated end is the last stop's expected
// departure, or startTime plus the aggregate route time when the route
// carries no absolute times.
func ActivateRoute(
	ctx context.Context,
	routeID string,
	startTime time.Time,
	routes ports.RouteRepository,
	shipments ports.ShipmentRepository,
) (*domain.Shipment, error) {
	route, err := routes.GetRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("activate route: get route %q: %w", routeID, err)
	}
	if len(route.Stops) == 0 {
		return nil, &domain.ValidationError{Field: "stops", Reason: "must not be empty"}
	}

	estimatedEnd := route.Stops[len(route.Stops)-1].ExpectedDeparture
	if !estimatedEnd.After(startTime) {
		estimatedEnd = startTime.Add(Aggregate(route).TotalTime)
	}

	shipment := &domain.Shipment{
		ID:           uuid.NewString(),
		RouteID:      route.ID,
		Status:       domain.StatePending,
		StartTime:    startTime,
		EstimatedEnd: estimatedEnd,
	}
	if err := shipment.Transition(domain.StateInTransit); err != nil {
		return nil, fmt.Errorf("activate route: %w", err)
	}

	if err := shipments.SaveShipment(ctx, shipment); err != nil {
		return nil, fmt.Errorf("activate route: save shipment: %w", err)
	}

	return shipment, nil
}

// RecordReading appends a reading to a shipment's history, evaluates it
// against the thresholds, and dispatches alerts for any excursions. A
// CRITICAL excursion flips the shipment to the alert state. The returned
// reports carry per-recipient dispatch outcomes; notification failures never
// fail the recording itself.
func RecordReading(
	ctx context.Context,
	shipmentID string,
	reading domain.EnvironmentalReading,
	th domain.Thresholds,
	shipments ports.ShipmentRepository,
	staff ports.StaffRepository,
	notifier ports.Notifier,
) ([]DispatchReport, error) {
	shipment, err := shipments.GetShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("record reading: get shipment %q: %w", shipmentID, err)
	}

	if reading.ID == "" {
		reading.ID = uuid.NewString()
	}
	if err := shipments.AppendReading(ctx, shipmentID, reading); err != nil {
		return nil, fmt.Errorf("record reading: append: %w", err)
	}

	roster, err := staff.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("record reading: list contacts: %w", err)
	}

	reports := EvaluateReading(ctx, reading, th, roster, notifier)

	for _, report := range reports {
		if report.Excursion.Level != LevelCritical {
			continue
		}
		if shipment.Status != domain.StateInTransit {
			break
		}
		if err := shipment.Transition(domain.StateAlert); err != nil {
			return reports, fmt.Errorf("record reading: %w", err)
		}
		if err := shipments.UpdateStatus(ctx, shipmentID, shipment.Status); err != nil {
			return reports, fmt.Errorf("record reading: update status: %w", err)
		}
		break
	}

	return reports, nil
}

// RecordLocation appends an actual arrival (or departure update) to a
// shipment's history. Arriving at the route's final stop completes the
// shipment.
func RecordLocation(
	ctx context.Context,
	shipmentID string,
	loc domain.ShipmentLocation,
	routes ports.RouteRepository,
	shipments ports.ShipmentRepository,
) (*domain.Shipment, error) {
	shipment, err := shipments.GetShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("record location: get shipment %q: %w", shipmentID, err)
	}

	if loc.ID == "" {
		loc.ID = uuid.NewString()
	}
	if err := shipments.AppendLocation(ctx, shipmentID, loc); err != nil {
		return nil, fmt.Errorf("record location: append: %w", err)
	}
	shipment.Locations = append(shipment.Locations, loc)

	route, err := routes.GetRoute(ctx, shipment.RouteID)
	if err != nil {
		return nil, fmt.Errorf("record location: get route %q: %w", shipment.RouteID, err)
	}
	if len(route.Stops) == 0 {
		return shipment, nil
	}

	final := route.Stops[len(route.Stops)-1]
	matchesFinal := (loc.StopID != "" && loc.StopID == final.ID) ||
		(loc.StopID == "" && loc.Location == final.Destination)

	if matchesFinal && shipment.Status != domain.StateCompleted {
		if err := shipment.Transition(domain.StateCompleted); err != nil {
			return shipment, fmt.Errorf("record location: %w", err)
		}
		end := loc.ArrivalTime
		shipment.ActualEnd = &end
		if err := shipments.SaveShipment(ctx, shipment); err != nil {
			return shipment, fmt.Errorf("record location: save shipment: %w", err)
		}
	}

	return shipment, nil
}

// ShipmentStatusSnapshot loads a shipment with its histories and derives the
// status snapshot, reading through the optional cache.
func ShipmentStatusSnapshot(
	ctx context.Context,
	shipmentID string,
	th domain.Thresholds,
	now time.Time,
	routes ports.RouteRepository,
	shipments ports.ShipmentRepository,
	cache ports.StatusCache,
	cacheTTL time.Duration,
) (*domain.ShipmentStatus, error) {
	if cache != nil {
		cached, err := cache.GetStatus(ctx, shipmentID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	shipment, err := shipments.GetShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("status snapshot: get shipment %q: %w", shipmentID, err)
	}

	shipment.Readings, err = shipments.ListReadings(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("status snapshot: list readings: %w", err)
	}
	shipment.Locations, err = shipments.ListLocations(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("status snapshot: list locations: %w", err)
	}

	route, err := routes.GetRoute(ctx, shipment.RouteID)
	if err != nil {
		return nil, fmt.Errorf("status snapshot: get route %q: %w", shipment.RouteID, err)
	}

	status, err := DeriveStatus(route, shipment, th, now)
	if err != nil {
		return nil, fmt.Errorf("status snapshot: derive: %w", err)
	}

	if cache != nil {
		// Cache writes are best effort.
		if err := cache.SetStatus(ctx, status, cacheTTL); err != nil {
			log.Printf("status snapshot: cache set failed: shipment=%s err=%v", shipmentID, err)
		}
	}

	return status, nil
}
