package notify

import (
	"context"
	"fmt"
	"sync"

	"shipment-compliance-service/internal/domain"
)

// MockNotifier records sent messages in memory and can be told to fail for
// specific contacts. Used in tests and as a no-transport fallback when the
// server runs without SMS credentials.
type MockNotifier struct {
	mu      sync.Mutex
	sent    []MockMessage
	failFor map[string]struct{}
}

type MockMessage struct {
	ContactID string
	Message   string
}

func NewMockNotifier(failForContactIDs ...string) *MockNotifier {
	failFor := make(map[string]struct{}, len(failForContactIDs))
	for _, id := range failForContactIDs {
		failFor[id] = struct{}{}
	}
	return &MockNotifier{failFor: failFor}
}

func (m *MockNotifier) Send(ctx context.Context, contact domain.StaffContact, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.failFor[contact.ID]; ok {
		return fmt.Errorf("mock send failure for contact %s", contact.ID)
	}

	m.sent = append(m.sent, MockMessage{ContactID: contact.ID, Message: message})
	return nil
}

// Sent returns a copy of the delivered messages.
func (m *MockNotifier) Sent() []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockMessage, len(m.sent))
	copy(out, m.sent)
	return out
}
