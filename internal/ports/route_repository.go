package ports

import (
	"context"
	"shipment-compliance-service/internal/domain"
)

// Port: a boundary for storing and retrieving planned routes.
type RouteRepository interface {
	// Retrieve one route by id.
	GetRoute(ctx context.Context, id string) (*domain.Route, error)
	// Persist a route, inserting or replacing by id.
	SaveRoute(ctx context.Context, route *domain.Route) error
	// Retrieve all routes ordered by creation time.
	ListRoutes(ctx context.Context) ([]*domain.Route, error)
}
