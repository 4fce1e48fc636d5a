package commands

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
)

// StatusChangeHook receives the id and new status of every order whose
// transition has committed outside the shipment workflow. Implementations run
// post-commit side effects (billing, customer notification) and must never
// fail the caller; the transition is already durable.
type StatusChangeHook interface {
	OrderStatusChanged(ctx context.Context, orderID kernel.UUID, newStatus order.Status)
}

// NoopStatusChangeHook ignores every status change.
type NoopStatusChangeHook struct{}

func (NoopStatusChangeHook) OrderStatusChanged(context.Context, kernel.UUID, order.Status) {}
