package commands

import (
	"context"
	"fmt"
	"log/slog"

	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/shipment"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"
)

// CreateShipmentCommandHandler forms a shipment from pending orders. In one
// transaction: every order moves to InPreparation, the shipment is created in
// Pending status, and the orders are stamped with the shipment id. Customers
// are notified after the transaction commits.
type CreateShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	lifecycle  services.OrderLifecycleService
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewCreateShipmentCommandHandler creates a handler for shipment formation.
func NewCreateShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	lifecycle services.OrderLifecycleService,
	notifier ports.Notifier,
	logger *slog.Logger,
) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
		notifier:   notifier,
		logger:     logger.With("component", "create_shipment"),
	}
}

// Handle processes the shipment formation command. Preconditions: the vehicle
// exists, every order exists, is Pending, and is not already assigned to a
// shipment. A violated precondition fails the command with an error naming
// the rule and nothing is mutated.
func (h *CreateShipmentCommandHandler) Handle(ctx context.Context, cmd CreateShipmentCommand) error {
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

	if _, err := uow.VehicleRepository().Get(ctx, cmd.VehicleID()); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	orders, err := orderRepo.GetByIDs(ctx, cmd.OrderIDs())
	if err != nil {
		return err
	}

	if missing := missingOrderID(cmd.OrderIDs(), orders); missing != nil {
		return errs.NewObjectNotFoundError("order", missing.String())
	}

	for _, o := range orders {
		if o.Status() != order.StatusPending {
			return NewPreconditionError("order %s is not pending (status %s)", o.ID(), o.Status())
		}
		if o.Shipment() != nil {
			return NewPreconditionError("order %s is already assigned to shipment %s", o.ID(), o.Shipment())
		}
	}

	stocks, err := loadStocksForOrders(ctx, uow.StockRepository(), orders)
	if err != nil {
		return err
	}

	if err = h.lifecycle.TransitionMany(orders, order.StatusInPreparation, stocks); err != nil {
		return err
	}

	aggregate, err := shipment.NewShipment(cmd.ShipmentID(), cmd.VehicleID(), cmd.OrderIDs())
	if err != nil {
		return err
	}

	if err = uow.ShipmentRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	for _, o := range orders {
		if err = o.AssignToShipment(cmd.ShipmentID()); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifyOrders(ctx, orders, "Your order is being prepared",
		"We started preparing your order for delivery.")

	return nil
}

// notifyOrders sends one notification per order, best effort.
func (h *CreateShipmentCommandHandler) notifyOrders(
	ctx context.Context,
	orders []*order.Order,
	subject, body string,
) {
	for _, o := range orders {
		err := h.notifier.Send(ctx, ports.Notification{
			OrderID: o.ID().String(),
			Subject: subject,
			Body:    fmt.Sprintf("%s Order reference: %s.", body, o.ID()),
		})
		if err != nil {
			h.logger.Error("notification failed", "orderId", o.ID().String(), "error", err)
		}
	}
}
