package notify

import "context"

// Notifier delivers lifecycle notifications to the people involved in a
// feedback record. The abstraction allows swapping the email integration
// for a mock in development and tests.
type Notifier interface {
	Publish(ctx context.Context, recipient, subject, body string) error
}
