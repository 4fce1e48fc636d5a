// Package services contains stateless domain services coordinating multiple
// aggregates. Services operate purely on in-memory aggregates; persistence
// and transaction scoping belong to the application layer.
package services

import (
	"fmt"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/stock"
	"backoffice/internal/pkg/errs"
)

// OrderLifecycleService moves orders along the status graph and keeps the
// stock ledger consistent with every transition.
//
// Business rules:
//   - a transition to the current status is an idempotent no-op
//   - illegal edges fail with order.InvalidTransitionError and leave both the
//     order and every stock record untouched in persistence (the caller's
//     transaction discards any in-memory partial state)
//   - entering Pending reserves each item's quantity, cancellation releases
//     a held reservation, terminal fulfillment consumes it; all other edges
//     leave the ledger alone
//   - a failed adjustment for any single product aborts the whole order
//
// Example:
//
//	lifecycle := services.NewOrderLifecycleService()
//	changed, err := lifecycle.Transition(ord, order.StatusPending, stocks)
//	if err != nil {
//	    return err // nothing may be persisted
//	}
type OrderLifecycleService struct{}

// NewOrderLifecycleService creates a new OrderLifecycleService instance.
func NewOrderLifecycleService() OrderLifecycleService {
	return OrderLifecycleService{}
}

// Transition validates and applies a single order's status change, adjusting
// the supplied stock records per item. stocks must contain a record for every
// product the order references whenever the transition has a ledger effect.
// Returns changed=false for the idempotent same-status case.
func (s OrderLifecycleService) Transition(
	o *order.Order,
	target order.Status,
	stocks map[kernel.UUID]*stock.Record,
) (changed bool, err error) {
	if err := o.Validate(); err != nil {
		return false, err
	}

	changed, effect, err := o.TransitionTo(target)
	if err != nil {
		return false, err
	}
	if !changed || effect == order.StockEffectNone {
		return changed, nil
	}

	reason := stockReason(o.ID(), effect)
	for _, item := range o.Items() {
		record, ok := stocks[item.ProductID()]
		if !ok {
			return false, errs.NewObjectNotFoundError("stockRecord", item.ProductID().String())
		}

		var adjustErr error
		switch effect {
		case order.StockEffectReserve:
			adjustErr = record.Reserve(item.Quantity(), reason)
		case order.StockEffectRelease:
			adjustErr = record.Release(item.Quantity(), reason)
		case order.StockEffectConsume:
			adjustErr = record.Consume(item.Quantity(), reason)
		}
		if adjustErr != nil {
			return false, adjustErr
		}
	}

	return true, nil
}

// TransitionMany applies the same target status to a batch of orders,
// all-or-nothing: the first failure aborts the batch and the caller must
// discard every touched aggregate. Used by the shipment flows where a set of
// orders changes status together.
func (s OrderLifecycleService) TransitionMany(
	orders []*order.Order,
	target order.Status,
	stocks map[kernel.UUID]*stock.Record,
) error {
	for _, o := range orders {
		if _, err := s.Transition(o, target, stocks); err != nil {
			return fmt.Errorf("order %s: %w", o.ID(), err)
		}
	}
	return nil
}

func stockReason(orderID kernel.UUID, effect order.StockEffect) string {
	switch effect {
	case order.StockEffectReserve:
		return fmt.Sprintf("Order %s pending", orderID)
	case order.StockEffectRelease:
		return fmt.Sprintf("Order %s cancelled", orderID)
	case order.StockEffectConsume:
		return fmt.Sprintf("Order %s delivered", orderID)
	default:
		return fmt.Sprintf("Order %s", orderID)
	}
}
