package ports

import (
	"context"
)

// Notification is a customer-facing message about an order.
type Notification struct {
	OrderID string
	Subject string
	Body    string
}

// Notifier delivers customer notifications. Delivery is best effort: callers
// run it after their transaction commits and only log failures, they never
// roll back business state because a notification could not be sent.
type Notifier interface {
	Send(ctx context.Context, notification Notification) error
}
