package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shipment-compliance-service/internal/api/dto"
	"shipment-compliance-service/internal/domain"
	"shipment-compliance-service/internal/ports"
	"shipment-compliance-service/internal/services"

	"github.com/google/uuid"
)

type RouteHandler struct {
	Repo ports.RouteRepository
}

// Routes serves route collection requests: POST creates a route (validating
// and propagating expected times), GET lists all routes or fetches one by
// ?id=, PUT edits one stop's timing and re-propagates downstream stops.
func (h *RouteHandler) Routes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
			h.get(w, r, id)
			return
		}
		h.list(w, r)
	case http.MethodPut:
		h.editStop(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, PUT")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *RouteHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Stops) == 0 {
		writeError(w, r, http.StatusBadRequest, "stops must not be empty")
		return
	}

	now := time.Now().UTC()
	route := &domain.Route{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, s := range req.Stops {
		stop := s.ToDomain()
		if stop.ID == "" {
			stop.ID = uuid.NewString()
		}
		route.Stops = append(route.Stops, stop)
	}

	if err := services.RecomputeFrom(route, 0); err != nil {
		writeValidationError(w, r, err)
		return
	}

	if err := h.Repo.SaveRoute(r.Context(), route); err != nil {
		log.Printf("create route failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.RouteFromDomain(route))
}

func (h *RouteHandler) editStop(w http.ResponseWriter, r *http.Request) {
	var req dto.EditStopRequest
	if !decodeBody(w, r, &req) {
		return
	}

	route, err := h.Repo.GetRoute(r.Context(), req.RouteID)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "route not found")
		return
	}

	edit := services.StopEdit{Arrival: req.Arrival, Departure: req.Departure}
	if req.DwellHours != nil {
		d := time.Duration(*req.DwellHours * float64(time.Hour))
		edit.Dwell = &d
	}
	if req.TransitTimeHours != nil {
		d := time.Duration(*req.TransitTimeHours * float64(time.Hour))
		edit.TransitToNext = &d
	}

	if err := services.ApplyStopEdit(route, req.Index, edit); err != nil {
		writeValidationError(w, r, err)
		return
	}
	route.UpdatedAt = time.Now().UTC()

	if err := h.Repo.SaveRoute(r.Context(), route); err != nil {
		log.Printf("edit stop failed: route=%s err=%v", route.ID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RouteFromDomain(route))
}

func (h *RouteHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	route, err := h.Repo.GetRoute(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "route not found")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.RouteFromDomain(route))
}

func (h *RouteHandler) list(w http.ResponseWriter, r *http.Request) {
	routes, err := h.Repo.ListRoutes(r.Context())
	if err != nil {
		log.Printf("list routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRouteResponse{Routes: make([]dto.RouteResponse, 0, len(routes))}
	for _, route := range routes {
		res.Routes = append(res.Routes, dto.RouteFromDomain(route))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Summary serves GET /routes/summary?id= with the route's timing totals and
// environmental envelope.
func (h *RouteHandler) Summary(w http.ResponseWriter, r *http.Request) {
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

	route, err := h.Repo.GetRoute(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "route not found")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SummaryFromDomain(services.Aggregate(route)))
}

// Stops serves stop edits on a stored route: POST inserts a stop after a
// position, DELETE removes one by index. Both re-propagate downstream times
// and persist the whole route, so an edit is atomic per route.
func (h *RouteHandler) Stops(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.insertStop(w, r)
	case http.MethodDelete:
		h.removeStop(w, r)
	default:
		w.Header().Set("Allow", "POST, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *RouteHandler) insertStop(w http.ResponseWriter, r *http.Request) {
	var req dto.InsertStopRequest
	if !decodeBody(w, r, &req) {
		return
	}

	route, err := h.Repo.GetRoute(r.Context(), req.RouteID)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "route not found")
		return
	}

	if err := services.InsertStop(route, req.AfterIndex, req.Stop.ToDomain()); err != nil {
		writeValidationError(w, r, err)
		return
	}
	route.UpdatedAt = time.Now().UTC()

	if err := h.Repo.SaveRoute(r.Context(), route); err != nil {
		log.Printf("insert stop failed: route=%s err=%v", route.ID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RouteFromDomain(route))
}

func (h *RouteHandler) removeStop(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "index must be an integer")
		return
	}

	route, err := h.Repo.GetRoute(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "route not found")
		return
	}

	if err := services.RemoveStop(route, index); err != nil {
		writeValidationError(w, r, err)
		return
	}
	route.UpdatedAt = time.Now().UTC()

	if err := h.Repo.SaveRoute(r.Context(), route); err != nil {
		log.Printf("remove stop failed: route=%s err=%v", route.ID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RouteFromDomain(route))
}

// decodeBody decodes a single-object JSON body, rejecting unknown fields and
// trailing content. Writes the error response itself and reports success.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeError(w, r, http.StatusUnprocessableEntity, verr.Error())
		return
	}
	log.Printf("unexpected edit error: %v", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
