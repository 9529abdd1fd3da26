package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shipment-compliance-service/internal/api/dto"
	"shipment-compliance-service/internal/domain"
	"shipment-compliance-service/internal/services"
)

type fakeRouteRepo struct {
	routes map[string]*domain.Route
	saved  int
}

func newFakeRouteRepo(routes ...*domain.Route) *fakeRouteRepo {
	repo := &fakeRouteRepo{routes: map[string]*domain.Route{}}
	for _, r := range routes {
		repo.routes[r.ID] = r
	}
	return repo
}

func (f *fakeRouteRepo) GetRoute(_ context.Context, id string) (*domain.Route, error) {
	route, ok := f.routes[id]
	if !ok {
		return nil, errors.New("route not found")
	}
	clone := *route
	clone.Stops = append([]domain.Stop(nil), route.Stops...)
	return &clone, nil
}

func (f *fakeRouteRepo) SaveRoute(_ context.Context, route *domain.Route) error {
	f.routes[route.ID] = route
	f.saved++
	return nil
}

func (f *fakeRouteRepo) ListRoutes(_ context.Context) ([]*domain.Route, error) {
	out := make([]*domain.Route, 0, len(f.routes))
	for _, r := range f.routes {
		out = append(out, r)
	}
	return out, nil
}

func twoStopRoute() *domain.Route {
	route := &domain.Route{
		ID:   "route-1",
		Name: "Dock run",
		Stops: []domain.Stop{
			{
				ID:              "stop-a",
				Location:        "Dock",
				Destination:     "Yard",
				Dwell:           1 * time.Hour,
				TransitToNext:   2 * time.Hour,
				ExpectedArrival: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
			},
			{
				ID:          "stop-b",
				Location:    "Yard",
				Destination: "Depot",
				Dwell:       30 * time.Minute,
			},
		},
	}
	if err := services.RecomputeFrom(route, 0); err != nil {
		panic(err)
	}
	return route
}

func TestEditStopShiftsDownstream(t *testing.T) {
	repo := newFakeRouteRepo(twoStopRoute())
	h := &RouteHandler{Repo: repo}

	departure := time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)
	body, _ := json.Marshal(dto.EditStopRequest{
		RouteID:   "route-1",
		Index:     0,
		Departure: &departure,
	})

	req := httptest.NewRequest(http.MethodPut, "/routes", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var res dto.RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	wantArrival := departure.Add(2 * time.Hour)
	if !res.Stops[1].ExpectedArrival.Equal(wantArrival) {
		t.Errorf("downstream arrival = %v, want %v", res.Stops[1].ExpectedArrival, wantArrival)
	}
	if repo.saved != 1 {
		t.Errorf("saved %d times, want 1", repo.saved)
	}
	// The edit landed in the store, not just the response.
	stored := repo.routes["route-1"]
	if !stored.Stops[1].ExpectedArrival.Equal(wantArrival) {
		t.Errorf("stored arrival = %v, want %v", stored.Stops[1].ExpectedArrival, wantArrival)
	}
}

func TestEditStopInvalidDeparture(t *testing.T) {
	repo := newFakeRouteRepo(twoStopRoute())
	h := &RouteHandler{Repo: repo}

	departure := time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC)
	body, _ := json.Marshal(dto.EditStopRequest{
		RouteID:   "route-1",
		Index:     0,
		Departure: &departure,
	})

	req := httptest.NewRequest(http.MethodPut, "/routes", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
	if repo.saved != 0 {
		t.Errorf("invalid edit was saved")
	}
}

func TestEditStopUnknownRoute(t *testing.T) {
	h := &RouteHandler{Repo: newFakeRouteRepo()}

	body, _ := json.Marshal(dto.EditStopRequest{RouteID: "missing", Index: 0})
	req := httptest.NewRequest(http.MethodPut, "/routes", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
