package commands

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/pkg/errs"
)

// TransitionOrdersCommandHandler applies one target status to a batch of
// orders inside a single transaction. The first illegal edge or failed ledger
// adjustment aborts the whole batch.
type TransitionOrdersCommandHandler struct {
	uowFactory OrderStockUoWFactory
	lifecycle  services.OrderLifecycleService
	hook       StatusChangeHook
}

// NewTransitionOrdersCommandHandler creates a handler for batch transitions.
func NewTransitionOrdersCommandHandler(
	uowFactory OrderStockUoWFactory,
	lifecycle services.OrderLifecycleService,
	hook StatusChangeHook,
) TransitionOrdersCommandHandler {
	return TransitionOrdersCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
		hook:       hook,
	}
}

// Handle processes the batch transition command. Every requested order must
// exist; a missing id fails the batch before any mutation. The hook runs after
// commit once per order that changed status.
func (h *TransitionOrdersCommandHandler) Handle(ctx context.Context, cmd TransitionOrdersCommand) error {
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

	orders, err := orderRepo.GetByIDs(ctx, cmd.OrderIDs())
	if err != nil {
		return err
	}

	if missing := missingOrderID(cmd.OrderIDs(), orders); missing != nil {
		return errs.NewObjectNotFoundError("order", missing.String())
	}

	stocks, err := loadStocksForOrders(ctx, stockRepo, orders)
	if err != nil {
		return err
	}

	before := make(map[kernel.UUID]order.Status, len(orders))
	for _, o := range orders {
		before[o.ID()] = o.Status()
	}

	if err = h.lifecycle.TransitionMany(orders, cmd.Target(), stocks); err != nil {
		return err
	}

	for _, o := range orders {
		if before[o.ID()] == o.Status() {
			continue
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}
	}

	if err = persistAdjustedStocks(ctx, stockRepo, stocks); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, o := range orders {
		if before[o.ID()] != o.Status() {
			h.hook.OrderStatusChanged(ctx, o.ID(), o.Status())
		}
	}

	return nil
}

// missingOrderID returns the first requested id absent from the loaded batch,
// or nil when every order was found.
func missingOrderID(requested []kernel.UUID, loaded []*order.Order) *kernel.UUID {
	found := make(map[kernel.UUID]struct{}, len(loaded))
	for _, o := range loaded {
		found[o.ID()] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			return &id
		}
	}
	return nil
}
