package api

import (
	"net/http"
	"time"

	"shipment-compliance-service/internal/api/handlers"
	"shipment-compliance-service/internal/domain"
	"shipment-compliance-service/internal/ports"
)

// RouterDeps carries the collaborator capabilities the handlers need.
// Cache may be nil, in which case status snapshots are derived on every hit.
type RouterDeps struct {
	Routes     ports.RouteRepository
	Shipments  ports.ShipmentRepository
	Staff      ports.StaffRepository
	Notifier   ports.Notifier
	Cache      ports.StatusCache
	Thresholds domain.Thresholds
	CacheTTL   time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Repo: deps.Routes}
	shipmentHandler := &handlers.ShipmentHandler{
		Routes:     deps.Routes,
		Shipments:  deps.Shipments,
		Staff:      deps.Staff,
		Notifier:   deps.Notifier,
		Cache:      deps.Cache,
		Thresholds: deps.Thresholds,
		CacheTTL:   deps.CacheTTL,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes", routeHandler.Routes)
	mux.HandleFunc("/routes/summary", routeHandler.Summary)
	mux.HandleFunc("/routes/stops", routeHandler.Stops)
	mux.HandleFunc("/shipments", shipmentHandler.Activate)
	mux.HandleFunc("/shipments/readings", shipmentHandler.Reading)
	mux.HandleFunc("/shipments/locations", shipmentHandler.Location)
	mux.HandleFunc("/shipments/status", shipmentHandler.Status)

	return loggingMiddleware(mux)
}
