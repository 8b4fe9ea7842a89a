package notify

import (
	"context"
	"log"
)

// MockNotifier implements the Notifier interface by logging messages to
// stdout. Used when no email provider is configured.
type MockNotifier struct{}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Publish(ctx context.Context, recipient, subject, body string) error {
	log.Printf("📨 [MockNotifier] To %s — %s: %s", recipient, subject, body)
	return nil
}
