package ports

import (
	"context"
	"shipment-compliance-service/internal/domain"
)

// Port: a boundary for shipment state and its append-only telemetry history.
// Reading and location histories are always returned ordered by timestamp
// ascending; the core treats them as read-only facts.
type ShipmentRepository interface {
	GetShipment(ctx context.Context, id string) (*domain.Shipment, error)
	SaveShipment(ctx context.Context, shipment *domain.Shipment) error
	UpdateStatus(ctx context.Context, id string, status domain.ShipmentState) error

	AppendReading(ctx context.Context, shipmentID string, r domain.EnvironmentalReading) error
	AppendLocation(ctx context.Context, shipmentID string, loc domain.ShipmentLocation) error

	ListReadings(ctx context.Context, shipmentID string) ([]domain.EnvironmentalReading, error)
	ListLocations(ctx context.Context, shipmentID string) ([]domain.ShipmentLocation, error)
}
