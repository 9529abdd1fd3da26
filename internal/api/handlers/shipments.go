package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"shipment-compliance-service/internal/api/dto"
	"shipment-compliance-service/internal/domain"
	"shipment-compliance-service/internal/ports"
	"shipment-compliance-service/internal/services"
)

type ShipmentHandler struct {
	Routes     ports.RouteRepository
	Shipments  ports.ShipmentRepository
	Staff      ports.StaffRepository
	Notifier   ports.Notifier
	Cache      ports.StatusCache
	Thresholds domain.Thresholds
	CacheTTL   time.Duration
}

// Activate creates a shipment from a route and starts transit.
func (h *ShipmentHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ActivateShipmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.RouteID) == "" {
		writeError(w, r, http.StatusBadRequest, "route_id is required")
		return
	}

	start := time.Now().UTC()
	if req.StartTime != nil {
		start = *req.StartTime
	}

	shipment, err := services.ActivateRoute(r.Context(), req.RouteID, start, h.Routes, h.Shipments)
	if err != nil {
		writeValidationError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.ShipmentFromDomain(shipment))
}

// Reading records an environmental reading, evaluates it against thresholds,
// and reports per-recipient alert dispatch outcomes. A failed notification
// shows up in the report; it never fails the request.
func (h *ShipmentHandler) Reading(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ReadingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ShipmentID) == "" {
		writeError(w, r, http.StatusBadRequest, "shipment_id is required")
		return
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}

	reading := domain.EnvironmentalReading{
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		Location:    req.Location,
		Timestamp:   req.Timestamp,
	}

	reports, err := services.RecordReading(
		r.Context(), req.ShipmentID, reading, h.Thresholds,
		h.Shipments, h.Staff, h.Notifier,
	)
	if err != nil {
		log.Printf("record reading failed: shipment=%s err=%v", req.ShipmentID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.RecordReadingResponse{Reports: make([]dto.DispatchReportResponse, 0, len(reports))}
	for _, report := range reports {
		res.Reports = append(res.Reports, dto.ReportFromDomain(report))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Location records an actual arrival or departure; arriving at the final
// planned stop completes the shipment.
func (h *ShipmentHandler) Location(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.LocationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ShipmentID) == "" {
		writeError(w, r, http.StatusBadRequest, "shipment_id is required")
		return
	}
	if req.ArrivalTime.IsZero() {
		writeError(w, r, http.StatusBadRequest, "arrival_time is required")
		return
	}

	loc := domain.ShipmentLocation{
		StopID:        req.StopID,
		Location:      req.Location,
		Coordinates:   req.Coordinates,
		ArrivalTime:   req.ArrivalTime,
		DepartureTime: req.DepartureTime,
		HandlerID:     req.HandlerID,
	}

	shipment, err := services.RecordLocation(r.Context(), req.ShipmentID, loc, h.Routes, h.Shipments)
	if err != nil {
		log.Printf("record location failed: shipment=%s err=%v", req.ShipmentID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ShipmentFromDomain(shipment))
}

// Status serves GET /shipments/status?id= with a derived status snapshot,
// reading through the cache when one is configured. The snapshot structure
// is serialized directly.
func (h *ShipmentHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	status, err := services.ShipmentStatusSnapshot(
		r.Context(), id, h.Thresholds, time.Now().UTC(),
		h.Routes, h.Shipments, h.Cache, h.CacheTTL,
	)
	if err != nil {
		log.Printf("status snapshot failed: shipment=%s err=%v", id, err)
		writeError(w, r, http.StatusNotFound, "shipment not found")
		return
	}

	writeJSON(w, r, http.StatusOK, status)
}
