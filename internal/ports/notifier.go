package ports

import (
	"context"
	"shipment-compliance-service/internal/domain"
)

// Contract for delivering one alert message to one contact.
// The transport (SMS gateway, email, chat webhook) is an adapter concern;
// alert routing calls Send once per (recipient, alert) pair and isolates
// failures per recipient.
type Notifier interface {
	Send(ctx context.Context, contact domain.StaffContact, message string) error
}
