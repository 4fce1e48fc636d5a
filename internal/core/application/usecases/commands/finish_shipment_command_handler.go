package commands

import (
	"context"
	"fmt"
	"log/slog"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/shipment"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"
)

// FinishShipmentCommandHandler completes a returning shipment in one
// transaction: every carried order moves to its outcome status, the shipment
// is marked Finished with the distance actually driven, and the vehicle's
// odometer history is advanced. Customers are notified per outcome group
// after the transaction commits.
type FinishShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	lifecycle  services.OrderLifecycleService
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewFinishShipmentCommandHandler creates a handler for shipment completion.
func NewFinishShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	lifecycle services.OrderLifecycleService,
	notifier ports.Notifier,
	logger *slog.Logger,
) FinishShipmentCommandHandler {
	return FinishShipmentCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
		notifier:   notifier,
		logger:     logger.With("component", "finish_shipment"),
	}
}

// Handle processes the completion command.
//
// Checks, in order, before anything is mutated:
//   - the shipment exists and is Shipped
//   - the request's order set equals the shipment's set exactly, otherwise
//     OrderSetMismatchError names the missing and extra ids
//   - the odometer reading and completion time do not move the vehicle's
//     recorded history backwards
//
// Orders reverting to Pending are detached from the shipment and keep their
// stock reservation; delivered orders consume theirs. The effective distance
// is the odometer delta against the vehicle's last recorded usage.
func (h *FinishShipmentCommandHandler) Handle(ctx context.Context, cmd FinishShipmentCommand) error {
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

	shipmentRepo := uow.ShipmentRepository()
	aggregate, err := shipmentRepo.Get(ctx, cmd.ShipmentID())
	if err != nil {
		return err
	}

	if aggregate.Status() != shipment.StatusShipped {
		return NewPreconditionError("shipment %s is not shipped (status %s)", aggregate.ID(), aggregate.Status())
	}

	targets := cmd.Targets()
	if err = matchOrderSet(aggregate, targets); err != nil {
		return err
	}

	vehicleRepo := uow.VehicleRepository()
	veh, err := vehicleRepo.Get(ctx, aggregate.VehicleID())
	if err != nil {
		return err
	}

	if err = veh.ValidateUsage(cmd.OdometerKm(), cmd.FinishedAt()); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	orders, err := orderRepo.GetByIDs(ctx, aggregate.OrderIDs())
	if err != nil {
		return err
	}

	if missing := missingOrderID(aggregate.OrderIDs(), orders); missing != nil {
		return errs.NewObjectNotFoundError("order", missing.String())
	}

	stockRepo := uow.StockRepository()
	stocks, err := loadStocksForOrders(ctx, stockRepo, orders)
	if err != nil {
		return err
	}

	for _, o := range orders {
		target := targets[o.ID()]
		if _, err = h.lifecycle.Transition(o, target, stocks); err != nil {
			return err
		}
		if target == order.StatusPending {
			o.ClearShipment()
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}
	}

	if err = persistAdjustedStocks(ctx, stockRepo, stocks); err != nil {
		return err
	}

	effectiveKm := cmd.OdometerKm() - veh.LastOdometerKm()
	usage, err := veh.RecordUsage(cmd.OdometerKm(), cmd.FinishedAt())
	if err != nil {
		return err
	}

	if err = aggregate.Finish(effectiveKm, cmd.FinishedAt()); err != nil {
		return err
	}

	if err = shipmentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = vehicleRepo.Update(ctx, veh); err != nil {
		return err
	}

	if err = vehicleRepo.AddUsageRecord(ctx, usage); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifyOutcomes(ctx, orders, targets)

	return nil
}

// matchOrderSet verifies the request addresses exactly the orders the
// shipment carries.
func matchOrderSet(aggregate *shipment.Shipment, targets map[kernel.UUID]order.Status) error {
	var missing, extra []kernel.UUID

	for _, id := range aggregate.OrderIDs() {
		if _, ok := targets[id]; !ok {
			missing = append(missing, id)
		}
	}
	for id := range targets {
		if !aggregate.Carries(id) {
			extra = append(extra, id)
		}
	}

	if len(missing) > 0 || len(extra) > 0 {
		return &OrderSetMismatchError{Missing: missing, Extra: extra}
	}
	return nil
}

// notifyOutcomes sends one notification batch per outcome group, best effort.
func (h *FinishShipmentCommandHandler) notifyOutcomes(
	ctx context.Context,
	orders []*order.Order,
	targets map[kernel.UUID]order.Status,
) {
	messages := map[order.Status][2]string{
		order.StatusFinished: {
			"Your order has been delivered",
			"Your order %s was delivered. Thank you for shopping with us.",
		},
		order.StatusPending: {
			"Delivery attempt unsuccessful",
			"We could not deliver your order %s. It is back at our warehouse and will be rescheduled.",
		},
	}

	for _, o := range orders {
		msg, ok := messages[targets[o.ID()]]
		if !ok {
			continue
		}
		err := h.notifier.Send(ctx, ports.Notification{
			OrderID: o.ID().String(),
			Subject: msg[0],
			Body:    fmt.Sprintf(msg[1], o.ID()),
		})
		if err != nil {
			h.logger.Error("notification failed", "orderId", o.ID().String(), "error", err)
		}
	}
}
