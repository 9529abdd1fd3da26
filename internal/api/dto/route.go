package dto

import (
	"time"

	"shipment-compliance-service/internal/domain"
)

// StopRequest is one stop in a create/update route request. Durations are
// hours, matching the planning UI's units.
type StopRequest struct {
	ID               string     `json:"id"`
	Location         string     `json:"location"`
	Destination      string     `json:"destination"`
	HandlerID        string     `json:"handler_id"`
	HandlerName      string     `json:"handler_name"`
	TransitTimeHours float64    `json:"transit_time_hours"`
	DwellHours       float64    `json:"dwell_hours"`
	TempMin          float64    `json:"temp_min"`
	TempMax          float64    `json:"temp_max"`
	HumidityMin      float64    `json:"humidity_min"`
	HumidityMax      float64    `json:"humidity_max"`
	ExpectedArrival  *time.Time `json:"expected_arrival"`
}

type RouteRequest struct {
	Name  string        `json:"name"`
	Stops []StopRequest `json:"stops"`
}

type StopResponse struct {
	ID                string    `json:"id"`
	Location          string    `json:"location"`
	Destination       string    `json:"destination"`
	HandlerID         string    `json:"handler_id,omitempty"`
	HandlerName       string    `json:"handler_name,omitempty"`
	TransitTimeHours  float64   `json:"transit_time_hours"`
	DwellHours        float64   `json:"dwell_hours"`
	TempMin           float64   `json:"temp_min"`
	TempMax           float64   `json:"temp_max"`
	HumidityMin       float64   `json:"humidity_min"`
	HumidityMax       float64   `json:"humidity_max"`
	ExpectedArrival   time.Time `json:"expected_arrival"`
	ExpectedDeparture time.Time `json:"expected_departure"`
}

type RouteResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Stops     []StopResponse `json:"stops"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type ListRouteResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type SummaryResponse struct {
	Origin            string      `json:"origin"`
	Destination       string      `json:"destination"`
	StopCount         int         `json:"stop_count"`
	TotalTransitHours float64     `json:"total_transit_hours"`
	TotalDwellHours   float64     `json:"total_dwell_hours"`
	TotalHours        float64     `json:"total_hours"`
	TempBand          domain.Band `json:"temp_band"`
	HumidityBand      domain.Band `json:"humidity_band"`
}

// EditStopRequest changes the timing of one stored stop. Nil fields are left
// as they are; setting departure re-derives the stop's dwell.
type EditStopRequest struct {
	RouteID          string     `json:"route_id"`
	Index            int        `json:"index"`
	Arrival          *time.Time `json:"arrival"`
	Departure        *time.Time `json:"departure"`
	DwellHours       *float64   `json:"dwell_hours"`
	TransitTimeHours *float64   `json:"transit_time_hours"`
}

// InsertStopRequest inserts one stop after a given position (-1 prepends).
type InsertStopRequest struct {
	RouteID    string      `json:"route_id"`
	AfterIndex int         `json:"after_index"`
	Stop       StopRequest `json:"stop"`
}

// ToDomain converts a stop request, translating hour fields to durations.
func (s StopRequest) ToDomain() domain.Stop {
	stop := domain.Stop{
		ID:            s.ID,
		Location:      s.Location,
		Destination:   s.Destination,
		TransitToNext: time.Duration(s.TransitTimeHours * float64(time.Hour)),
		Dwell:         time.Duration(s.DwellHours * float64(time.Hour)),
		TempRange:     domain.Band{Min: s.TempMin, Max: s.TempMax},
		HumidityRange: domain.Band{Min: s.HumidityMin, Max: s.HumidityMax},
	}
	if s.HandlerID != "" {
		stop.Handler = &domain.Handler{ID: s.HandlerID, Name: s.HandlerName}
	}
	if s.ExpectedArrival != nil {
		stop.ExpectedArrival = *s.ExpectedArrival
	}
	return stop
}

func StopFromDomain(s domain.Stop) StopResponse {
	resp := StopResponse{
		ID:                s.ID,
		Location:          s.Location,
		Destination:       s.Destination,
		TransitTimeHours:  s.TransitToNext.Hours(),
		DwellHours:        s.Dwell.Hours(),
		TempMin:           s.TempRange.Min,
		TempMax:           s.TempRange.Max,
		HumidityMin:       s.HumidityRange.Min,
		HumidityMax:       s.HumidityRange.Max,
		ExpectedArrival:   s.ExpectedArrival,
		ExpectedDeparture: s.ExpectedDeparture,
	}
	if s.Handler != nil {
		resp.HandlerID = s.Handler.ID
		resp.HandlerName = s.Handler.Name
	}
	return resp
}

func RouteFromDomain(r *domain.Route) RouteResponse {
	stops := make([]StopResponse, 0, len(r.Stops))
	for _, s := range r.Stops {
		stops = append(stops, StopFromDomain(s))
	}
	return RouteResponse{
		ID:        r.ID,
		Name:      r.Name,
		Stops:     stops,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func SummaryFromDomain(s domain.RouteSummary) SummaryResponse {
	return SummaryResponse{
		Origin:            s.Origin,
		Destination:       s.Destination,
		StopCount:         s.StopCount,
		TotalTransitHours: s.TotalTransit.Hours(),
		TotalDwellHours:   s.TotalDwell.Hours(),
		TotalHours:        s.TotalTime.Hours(),
		TempBand:          s.TempBand,
		HumidityBand:      s.HumidityBand,
	}
}
