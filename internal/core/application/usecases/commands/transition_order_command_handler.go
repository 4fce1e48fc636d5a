package commands

import (
	"context"

	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/services"
)

// TransitionOrderCommandHandler handles the business logic for a single-order
// status transition. Loads the order and its stock records under row locks,
// applies the lifecycle rules, and persists order, counters, and audit entries
// in one transaction.
//
// Example:
//
//	handler := NewTransitionOrderCommandHandler(uowFactory, lifecycle, workflow)
//	cmd, _ := NewTransitionOrderCommand(orderID, order.StatusPending)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("transition failed: %w", err)
//	}
type TransitionOrderCommandHandler struct {
	uowFactory OrderStockUoWFactory
	lifecycle  services.OrderLifecycleService
	hook       StatusChangeHook
}

// NewTransitionOrderCommandHandler creates a handler for single-order
// transitions. The hook runs after commit for every transition that actually
// changed the order's status.
func NewTransitionOrderCommandHandler(
	uowFactory OrderStockUoWFactory,
	lifecycle services.OrderLifecycleService,
	hook StatusChangeHook,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
		hook:       hook,
	}
}

// Handle processes the transition command. A transition to the order's current
// status succeeds without touching anything; an illegal edge or an
// insufficient-stock adjustment aborts the transaction and propagates the
// domain error unmodified.
func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	stockRepo := uow.StockRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	stocks, err := loadStocksForOrders(ctx, stockRepo, []*order.Order{aggregate})
	if err != nil {
		return err
	}

	changed, err := h.lifecycle.Transition(aggregate, cmd.Target(), stocks)
	if err != nil {
		return err
	}

	if !changed {
		return nil
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = persistAdjustedStocks(ctx, stockRepo, stocks); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.hook.OrderStatusChanged(ctx, aggregate.ID(), aggregate.Status())

	return nil
}
