package ports

import (
	"context"
	"shipment-compliance-service/internal/domain"
	"time"
)

// Optional read-through cache for derived status snapshots, so polling
// dashboards do not re-derive on every hit. A miss returns (nil, nil).
type StatusCache interface {
	GetStatus(ctx context.Context, shipmentID string) (*domain.ShipmentStatus, error)
	SetStatus(ctx context.Context, status *domain.ShipmentStatus, ttl time.Duration) error
}
