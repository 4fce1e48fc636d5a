package commands

import (
	"context"
	"fmt"
	"log/slog"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/shipment"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"
)

// SendShipmentCommandHandler dispatches a formed shipment. The route is
// computed against the external routing provider before the write transaction
// opens, so a slow or failing provider never holds row locks. The write
// transaction re-reads the shipment, caches the route, and marks it Shipped.
type SendShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	routing    ports.RoutingService
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewSendShipmentCommandHandler creates a handler for shipment dispatch.
func NewSendShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	routing ports.RoutingService,
	notifier ports.Notifier,
	logger *slog.Logger,
) SendShipmentCommandHandler {
	return SendShipmentCommandHandler{
		uowFactory: uowFactory,
		routing:    routing,
		notifier:   notifier,
		logger:     logger.With("component", "send_shipment"),
	}
}

// Handle processes the dispatch command. Preconditions: the shipment is
// Pending, every carried order is Prepared, and every order is home delivery.
// Each violation fails the command with an error naming the rule. Order
// statuses are not touched by dispatch.
func (h *SendShipmentCommandHandler) Handle(ctx context.Context, cmd SendShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	orders, err := h.loadAndCheck(ctx, cmd.ShipmentID())
	if err != nil {
		return err
	}

	route, err := h.computeRoute(ctx, orders)
	if err != nil {
		return fmt.Errorf("route computation for shipment %s: %w", cmd.ShipmentID(), err)
	}

	if err = h.dispatch(ctx, cmd.ShipmentID(), route); err != nil {
		return err
	}

	h.notifyOrders(ctx, orders)

	return nil
}

// loadAndCheck reads the shipment and its orders in a short transaction and
// verifies the dispatch preconditions before any routing call is made.
func (h *SendShipmentCommandHandler) loadAndCheck(
	ctx context.Context,
	shipmentID kernel.UUID,
) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.ShipmentRepository().Get(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	if aggregate.Status() != shipment.StatusPending {
		return nil, NewPreconditionError("shipment %s is not pending (status %s)", shipmentID, aggregate.Status())
	}

	orders, err := uow.OrderRepository().GetByIDs(ctx, aggregate.OrderIDs())
	if err != nil {
		return nil, err
	}

	if missing := missingOrderID(aggregate.OrderIDs(), orders); missing != nil {
		return nil, errs.NewObjectNotFoundError("order", missing.String())
	}

	for _, o := range orders {
		if o.Status() != order.StatusPrepared {
			return nil, NewPreconditionError("order %s is not prepared (status %s)", o.ID(), o.Status())
		}
		if o.DeliveryMethod() != order.HomeDelivery {
			return nil, NewPreconditionError("order %s is not a home delivery", o.ID())
		}
	}

	return orders, nil
}

// computeRoute geocodes every destination and asks the provider for an
// optimized route over the stops.
func (h *SendShipmentCommandHandler) computeRoute(
	ctx context.Context,
	orders []*order.Order,
) (ports.RouteEstimate, error) {
	stops := make([]ports.Coordinates, 0, len(orders))
	for _, o := range orders {
		point, err := h.routing.Geocode(ctx, o.DeliveryAddress())
		if err != nil {
			return ports.RouteEstimate{}, fmt.Errorf("geocode order %s: %w", o.ID(), err)
		}
		stops = append(stops, point)
	}

	return h.routing.OptimizeRoute(ctx, stops)
}

// dispatch re-reads the shipment under lock, caches the route, and marks it
// Shipped. A shipment dispatched concurrently since loadAndCheck fails here.
func (h *SendShipmentCommandHandler) dispatch(
	ctx context.Context,
	shipmentID kernel.UUID,
	route ports.RouteEstimate,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	shipmentRepo := uow.ShipmentRepository()
	aggregate, err := shipmentRepo.Get(ctx, shipmentID)
	if err != nil {
		return err
	}

	if err = aggregate.SetRoute(route.Link, route.EstimatedKm); err != nil {
		return err
	}

	if err = aggregate.Dispatch(); err != nil {
		return err
	}

	if err = shipmentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *SendShipmentCommandHandler) notifyOrders(ctx context.Context, orders []*order.Order) {
	for _, o := range orders {
		err := h.notifier.Send(ctx, ports.Notification{
			OrderID: o.ID().String(),
			Subject: "Your order is on its way",
			Body:    fmt.Sprintf("Your order %s has left the warehouse.", o.ID()),
		})
		if err != nil {
			h.logger.Error("notification failed", "orderId", o.ID().String(), "error", err)
		}
	}
}
