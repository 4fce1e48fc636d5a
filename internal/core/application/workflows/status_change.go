// Package workflows contains post-commit sagas. They run after a business
// transaction has committed, so their steps are best effort: each step is
// retried a bounded number of times and failures are logged, never unwound
// into the committed state.
package workflows

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/ports"
)

const maxStepAttempts = 3

// Unit of Work interfaces, narrowed to what the workflow actually touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderUoW provides read access to orders within a transaction.
	OrderUoW interface {
		TxManager
		OrderRepository() ports.OrderRepository
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// StatusChangeWorkflow reacts to a committed order status change. It reloads
// the order, then runs exactly one of two branches: billing (generate-bill,
// send-bill) when the order reached Finished, or a plain status notification
// for every other status.
//
// The workflow implements the post-commit hook consumed by the command
// handlers; wiring happens in the composition root.
type StatusChangeWorkflow struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	logger     *slog.Logger
	retryDelay time.Duration
}

// NewStatusChangeWorkflow creates the workflow. retryDelay is the pause
// between attempts of a failing step.
func NewStatusChangeWorkflow(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
	retryDelay time.Duration,
) *StatusChangeWorkflow {
	return &StatusChangeWorkflow{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "status_change_workflow"),
		retryDelay: retryDelay,
	}
}

// OrderStatusChanged satisfies the command handlers' post-commit hook.
func (w *StatusChangeWorkflow) OrderStatusChanged(ctx context.Context, orderID kernel.UUID, newStatus order.Status) {
	if err := w.Run(ctx, orderID, newStatus); err != nil {
		w.logger.Error("status change workflow failed",
			"orderId", orderID.String(), "newStatus", newStatus.String(), "error", err)
	}
}

type workflowStep struct {
	name string
	run  func(context.Context) error
}

// Run executes the workflow for one committed status change. A step that
// still fails after its retries aborts the remaining steps; the error reports
// which step gave up.
func (w *StatusChangeWorkflow) Run(ctx context.Context, orderID kernel.UUID, newStatus order.Status) error {
	var aggregate *order.Order
	var bill string

	steps := []workflowStep{
		{"reload-order", func(ctx context.Context) error {
			loaded, err := w.reloadOrder(ctx, orderID)
			if err != nil {
				return err
			}
			aggregate = loaded
			return nil
		}},
	}

	if newStatus == order.StatusFinished {
		steps = append(steps,
			workflowStep{"generate-bill", func(context.Context) error {
				generated, err := generateBill(aggregate)
				if err != nil {
					return err
				}
				bill = generated
				return nil
			}},
			workflowStep{"send-bill", func(ctx context.Context) error {
				return w.notifier.Send(ctx, ports.Notification{
					OrderID: orderID.String(),
					Subject: "Your bill",
					Body:    bill,
				})
			}},
		)
	} else {
		steps = append(steps, workflowStep{"notify-status-change", func(ctx context.Context) error {
			return w.notifier.Send(ctx, ports.Notification{
				OrderID: orderID.String(),
				Subject: "Order status updated",
				Body:    fmt.Sprintf("Your order %s is now %s.", orderID, newStatus),
			})
		}})
	}

	for _, step := range steps {
		if err := w.runStep(ctx, step.name, step.run); err != nil {
			return fmt.Errorf("step %s: %w", step.name, err)
		}
	}
	return nil
}

// runStep retries a failing step up to maxStepAttempts times.
func (w *StatusChangeWorkflow) runStep(ctx context.Context, name string, run func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxStepAttempts; attempt++ {
		lastErr = run(ctx)
		if lastErr == nil {
			return nil
		}
		w.logger.Warn("workflow step failed",
			"step", name, "attempt", attempt, "error", lastErr)
		if attempt < maxStepAttempts && w.retryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.retryDelay):
			}
		}
	}
	return lastErr
}

func (w *StatusChangeWorkflow) reloadOrder(ctx context.Context, orderID kernel.UUID) (*order.Order, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().Get(ctx, orderID)
}

// generateBill renders a plain-text bill mirroring the order's lines.
func generateBill(aggregate *order.Order) (string, error) {
	if err := aggregate.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Bill for order %s\n", aggregate.ID())
	for _, item := range aggregate.Items() {
		fmt.Fprintf(&b, "- product %s x%d @ %s = %s\n",
			item.ProductID(), item.Quantity(), item.UnitPrice(), item.Subtotal())
	}
	fmt.Fprintf(&b, "Total: %s\n", aggregate.TotalAmount())
	return b.String(), nil
}
