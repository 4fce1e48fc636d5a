package commands_test

import (
	"context"
	"sync"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/payment"
	"backoffice/internal/core/domain/model/shipment"
	"backoffice/internal/core/domain/model/stock"
	"backoffice/internal/core/domain/model/vehicle"
	"backoffice/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockStockRepository struct{ mock.Mock }

func (m *MockStockRepository) Add(ctx context.Context, record *stock.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStockRepository) Update(ctx context.Context, record *stock.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStockRepository) GetByProduct(ctx context.Context, productID kernel.UUID) (*stock.Record, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Record), args.Error(1)
}

func (m *MockStockRepository) GetByProducts(
	ctx context.Context,
	productIDs []kernel.UUID,
) (map[kernel.UUID]*stock.Record, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]*stock.Record), args.Error(1)
}

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

type MockVehicleRepository struct{ mock.Mock }

func (m *MockVehicleRepository) Add(ctx context.Context, v *vehicle.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVehicleRepository) Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vehicle.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) AddUsageRecord(ctx context.Context, record vehicle.UsageRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Add(ctx context.Context, record *payment.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, record *payment.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByExternalID(ctx context.Context, externalID string) (*payment.Record, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Record), args.Error(1)
}

// MockUoW implements every repository accessor so one mock serves all the
// narrowed unit-of-work compositions.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) StockRepository() ports.StockRepository {
	return m.Called().Get(0).(ports.StockRepository)
}

func (m *MockUoW) ShipmentRepository() ports.ShipmentRepository {
	return m.Called().Get(0).(ports.ShipmentRepository)
}

func (m *MockUoW) VehicleRepository() ports.VehicleRepository {
	return m.Called().Get(0).(ports.VehicleRepository)
}

func (m *MockUoW) PaymentRepository() ports.PaymentRepository {
	return m.Called().Get(0).(ports.PaymentRepository)
}

type MockOrderStockUoWFactory struct{ mock.Mock }

func (m *MockOrderStockUoWFactory) Create() commands.OrderStockUoW {
	return m.Called().Get(0).(commands.OrderStockUoW)
}

type MockStockUoWFactory struct{ mock.Mock }

func (m *MockStockUoWFactory) Create() commands.StockUoW {
	return m.Called().Get(0).(commands.StockUoW)
}

type MockShipmentUoWFactory struct{ mock.Mock }

func (m *MockShipmentUoWFactory) Create() commands.ShipmentUoW {
	return m.Called().Get(0).(commands.ShipmentUoW)
}

type MockWebhookUoWFactory struct{ mock.Mock }

func (m *MockWebhookUoWFactory) Create() commands.WebhookUoW {
	return m.Called().Get(0).(commands.WebhookUoW)
}

type MockRoutingService struct{ mock.Mock }

func (m *MockRoutingService) Geocode(ctx context.Context, address string) (ports.Coordinates, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(ports.Coordinates), args.Error(1)
}

func (m *MockRoutingService) OptimizeRoute(
	ctx context.Context,
	stops []ports.Coordinates,
) (ports.RouteEstimate, error) {
	args := m.Called(ctx, stops)
	return args.Get(0).(ports.RouteEstimate), args.Error(1)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) GetPaymentDetails(ctx context.Context, paymentID string) (ports.PaymentDetails, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).(ports.PaymentDetails), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Send(ctx context.Context, notification ports.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

type MockEventDeduplicator struct{ mock.Mock }

func (m *MockEventDeduplicator) AlreadyProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventDeduplicator) MarkProcessed(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

// RecordingHook captures post-commit status-change callbacks.
type RecordingHook struct {
	mu    sync.Mutex
	calls []HookCall
}

type HookCall struct {
	OrderID   kernel.UUID
	NewStatus order.Status
}

func (h *RecordingHook) OrderStatusChanged(_ context.Context, orderID kernel.UUID, newStatus order.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, HookCall{OrderID: orderID, NewStatus: newStatus})
}

func (h *RecordingHook) Calls() []HookCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	calls := make([]HookCall, len(h.calls))
	copy(calls, h.calls)
	return calls
}
