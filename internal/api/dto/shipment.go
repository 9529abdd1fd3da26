package dto

import (
	"time"

	"shipment-compliance-service/internal/domain"
	"shipment-compliance-service/internal/services"
)

type ActivateShipmentRequest struct {
	RouteID   string     `json:"route_id"`
	StartTime *time.Time `json:"start_time"`
}

type ShipmentResponse struct {
	ID           string     `json:"id"`
	RouteID      string     `json:"route_id"`
	Status       string     `json:"status"`
	StartTime    time.Time  `json:"start_time"`
	EstimatedEnd time.Time  `json:"estimated_end"`
	ActualEnd    *time.Time `json:"actual_end,omitempty"`
}

type ReadingRequest struct {
	ShipmentID  string    `json:"shipment_id"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Location    string    `json:"location"`
	Timestamp   time.Time `json:"timestamp"`
}

type LocationRequest struct {
	ShipmentID    string              `json:"shipment_id"`
	StopID        string              `json:"stop_id"`
	Location      string              `json:"location"`
	Coordinates   *domain.Coordinates `json:"coordinates"`
	ArrivalTime   time.Time           `json:"arrival_time"`
	DepartureTime *time.Time          `json:"departure_time"`
	HandlerID     string              `json:"handler_id"`
}

// DispatchOutcomeResponse reports one send attempt; Error is empty on
// success.
type DispatchOutcomeResponse struct {
	ContactID string `json:"contact_id"`
	Error     string `json:"error,omitempty"`
}

type DispatchReportResponse struct {
	Parameter string                    `json:"parameter"`
	Level     string                    `json:"level"`
	Message   string                    `json:"message"`
	Sent      []DispatchOutcomeResponse `json:"sent"`
	Failed    []DispatchOutcomeResponse `json:"failed"`
}

type RecordReadingResponse struct {
	Reports []DispatchReportResponse `json:"reports"`
}

func ShipmentFromDomain(s *domain.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:           s.ID,
		RouteID:      s.RouteID,
		Status:       string(s.Status),
		StartTime:    s.StartTime,
		EstimatedEnd: s.EstimatedEnd,
		ActualEnd:    s.ActualEnd,
	}
}

func ReportFromDomain(r services.DispatchReport) DispatchReportResponse {
	resp := DispatchReportResponse{
		Parameter: string(r.Excursion.Parameter),
		Level:     string(r.Excursion.Level),
		Message:   r.Excursion.Message(),
		Sent:      []DispatchOutcomeResponse{},
		Failed:    []DispatchOutcomeResponse{},
	}
	for _, o := range r.Sent {
		resp.Sent = append(resp.Sent, DispatchOutcomeResponse{ContactID: o.Contact.ID})
	}
	for _, o := range r.Failed {
		resp.Failed = append(resp.Failed, DispatchOutcomeResponse{
			ContactID: o.Contact.ID,
			Error:     o.Err.Error(),
		})
	}
	return resp
}
