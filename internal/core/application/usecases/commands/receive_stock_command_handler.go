package commands

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/core/domain/model/stock"
	"backoffice/internal/pkg/errs"
)

// ReceiveStockCommandHandler books an inbound supplier delivery into the
// ledger. The first delivery for a product creates its record; an announced
// delivery settles the outstanding ordered quantity, an unannounced one only
// raises availability.
type ReceiveStockCommandHandler struct {
	uowFactory StockUoWFactory
}

// NewReceiveStockCommandHandler creates a handler for inbound deliveries.
func NewReceiveStockCommandHandler(uowFactory StockUoWFactory) ReceiveStockCommandHandler {
	return ReceiveStockCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the delivery. Counters and audit entries commit together.
func (h *ReceiveStockCommandHandler) Handle(ctx context.Context, cmd ReceiveStockCommand) error {
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

	stockRepo := uow.StockRepository()
	reason := fmt.Sprintf("Supplier delivery of %d units", cmd.Quantity())

	record, err := stockRepo.GetByProduct(ctx, cmd.ProductID())
	switch {
	case err == nil:
		if adjustErr := receiveInto(record, cmd.Quantity(), reason); adjustErr != nil {
			return adjustErr
		}
		if updateErr := stockRepo.Update(ctx, record); updateErr != nil {
			return updateErr
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		record, err = stock.NewRecord(cmd.ProductID(), 0)
		if err != nil {
			return err
		}
		if adjustErr := receiveInto(record, cmd.Quantity(), reason); adjustErr != nil {
			return adjustErr
		}
		if addErr := stockRepo.Add(ctx, record); addErr != nil {
			return addErr
		}
	default:
		return err
	}

	return uow.Commit(ctx)
}

// receiveInto books qty inbound units. The ordered counter is settled only up
// to its current value so unannounced deliveries do not underflow it.
func receiveInto(record *stock.Record, qty int, reason string) error {
	if record.Ordered() >= qty {
		return record.Receive(qty, reason)
	}
	return record.Adjust(stock.Delta{Available: qty, Ordered: -record.Ordered()}, reason)
}
