package ports

import (
	"context"
	"shipment-compliance-service/internal/domain"
)

// Port: a boundary for retrieving the staff roster. The roster is passed
// explicitly into alert routing so the router stays free of hidden state.
type StaffRepository interface {
	ListContacts(ctx context.Context) ([]domain.StaffContact, error)
}
