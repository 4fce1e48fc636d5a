package commands_test

import (
	"testing"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/shipment"
	"backoffice/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func restoreTestShipment(
	t *testing.T,
	status shipment.Status,
	vehicleID kernel.UUID,
	orderIDs []kernel.UUID,
	route *shipment.Route,
) *shipment.Shipment {
	t.Helper()
	s, err := shipment.RestoreShipment(kernel.NewUUID(), vehicleID, status, orderIDs, route, 0, nil)
	require.NoError(t, err)
	return s
}

func TestSendShipmentCommandHandler_Handle_Success(t *testing.T) {
	// Given: a pending shipment carrying two prepared home-delivery orders
	ctx := t.Context()
	productID := kernel.NewUUID()
	o1 := restoreTestOrder(t, productID, 2, order.HomeDelivery, order.StatusPrepared, true, nil)
	o2 := restoreTestOrder(t, productID, 1, order.HomeDelivery, order.StatusPrepared, true, nil)
	aggregate := restoreTestShipment(t, shipment.StatusPending, kernel.NewUUID(),
		[]kernel.UUID{o1.ID(), o2.ID()}, nil)

	cmd, err := commands.NewSendShipmentCommand(aggregate.ID())
	require.NoError(t, err)

	shipmentRepo := new(MockShipmentRepository)
	shipmentRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Twice()
	shipmentRepo.On("Update", mock.Anything, aggregate).Return(nil).Once()
	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetByIDs", mock.Anything, aggregate.OrderIDs()).Return([]*order.Order{o1, o2}, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("ShipmentRepository").Return(shipmentRepo).Twice()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Twice()

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Twice()

	routing := new(MockRoutingService)
	routing.On("Geocode", mock.Anything, "123 Main St").
		Return(ports.Coordinates{Latitude: -34.6, Longitude: -58.4}, nil).Twice()
	routing.On("OptimizeRoute", mock.Anything, mock.AnythingOfType("[]ports.Coordinates")).
		Return(ports.RouteEstimate{Link: "https://maps.example/r/abc", EstimatedKm: 42.5}, nil).Once()

	notifier := new(MockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything).Return(nil).Twice()

	// When
	h := commands.NewSendShipmentCommandHandler(factory, routing, notifier, discardLogger())
	err = h.Handle(ctx, cmd)

	// Then: shipment shipped with the cached route, orders untouched
	require.NoError(t, err)
	assert.Equal(t, shipment.StatusShipped, aggregate.Status())
	require.NotNil(t, aggregate.Route())
	assert.Equal(t, 42.5, aggregate.Route().EstimatedKm)
	assert.Equal(t, order.StatusPrepared, o1.Status())
	routing.AssertExpectations(t)
	notifier.AssertExpectations(t)
	shipmentRepo.AssertExpectations(t)
}

func TestSendShipmentCommandHandler_Handle_UnpreparedOrder(t *testing.T) {
	ctx := t.Context()
	productID := kernel.NewUUID()
	o1 := restoreTestOrder(t, productID, 2, order.HomeDelivery, order.StatusInPreparation, true, nil)
	aggregate := restoreTestShipment(t, shipment.StatusPending, kernel.NewUUID(),
		[]kernel.UUID{o1.ID()}, nil)

	cmd, err := commands.NewSendShipmentCommand(aggregate.ID())
	require.NoError(t, err)

	shipmentRepo := new(MockShipmentRepository)
	shipmentRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetByIDs", mock.Anything, aggregate.OrderIDs()).Return([]*order.Order{o1}, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ShipmentRepository").Return(shipmentRepo).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	routing := new(MockRoutingService)

	h := commands.NewSendShipmentCommandHandler(factory, routing, new(MockNotifier), discardLogger())
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrPreconditionFailed)
	routing.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestSendShipmentCommandHandler_Handle_PickupOrderCannotShip(t *testing.T) {
	ctx := t.Context()
	productID := kernel.NewUUID()
	o1 := restoreTestOrder(t, productID, 2, order.PickUpAtStore, order.StatusPrepared, false, nil)
	aggregate := restoreTestShipment(t, shipment.StatusPending, kernel.NewUUID(),
		[]kernel.UUID{o1.ID()}, nil)

	cmd, err := commands.NewSendShipmentCommand(aggregate.ID())
	require.NoError(t, err)

	shipmentRepo := new(MockShipmentRepository)
	shipmentRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetByIDs", mock.Anything, aggregate.OrderIDs()).Return([]*order.Order{o1}, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ShipmentRepository").Return(shipmentRepo).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSendShipmentCommandHandler(factory, new(MockRoutingService), new(MockNotifier), discardLogger())
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrPreconditionFailed)
}

func TestSendShipmentCommandHandler_Handle_RoutingFailureLeavesShipmentPending(t *testing.T) {
	ctx := t.Context()
	productID := kernel.NewUUID()
	o1 := restoreTestOrder(t, productID, 2, order.HomeDelivery, order.StatusPrepared, true, nil)
	aggregate := restoreTestShipment(t, shipment.StatusPending, kernel.NewUUID(),
		[]kernel.UUID{o1.ID()}, nil)

	cmd, err := commands.NewSendShipmentCommand(aggregate.ID())
	require.NoError(t, err)

	shipmentRepo := new(MockShipmentRepository)
	shipmentRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetByIDs", mock.Anything, aggregate.OrderIDs()).Return([]*order.Order{o1}, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ShipmentRepository").Return(shipmentRepo).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	routing := new(MockRoutingService)
	routing.On("Geocode", mock.Anything, mock.Anything).
		Return(ports.Coordinates{}, assert.AnError).Once()

	h := commands.NewSendShipmentCommandHandler(factory, routing, new(MockNotifier), discardLogger())
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Equal(t, shipment.StatusPending, aggregate.Status())
	shipmentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
