package commands_test

import (
	"testing"
	"time"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/payment"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWebhookHandler(
	factory *MockWebhookUoWFactory,
	gateway *MockPaymentGateway,
	dedup *MockEventDeduplicator,
	hook *RecordingHook,
) commands.ProcessPaymentWebhookCommandHandler {
	return commands.NewProcessPaymentWebhookCommandHandler(
		factory, gateway, dedup, services.NewOrderLifecycleService(), hook, discardLogger())
}

func webhookCommand(t *testing.T, eventID, action, paymentID string) commands.ProcessPaymentWebhookCommand {
	t.Helper()
	cmd, err := commands.NewProcessPaymentWebhookCommand(eventID, action, paymentID)
	require.NoError(t, err)
	return cmd
}

func paymentDetails(paymentID, status, orderRef string) ports.PaymentDetails {
	return ports.PaymentDetails{
		ID:                     paymentID,
		Status:                 status,
		ExternalReference:      orderRef,
		TransactionAmountCents: 2500,
		DateCreated:            time.Now(),
	}
}

func TestProcessPaymentWebhookCommandHandler_Handle_ApprovedHomeDelivery(t *testing.T) {
	// Given: a first-time approved payment for a payment-pending home delivery
	ctx := t.Context()
	productID := kernel.NewUUID()
	o := restoreTestOrder(t, productID, 2, order.HomeDelivery, order.StatusPaymentPending, false, nil)
	record := restoreTestStock(t, productID, 10, 0, 0)

	cmd := webhookCommand(t, "evt-1", "payment.updated", "pay-1")

	dedup := new(MockEventDeduplicator)
	dedup.On("AlreadyProcessed", mock.Anything, "evt-1").Return(false, nil).Once()
	dedup.On("MarkProcessed", mock.Anything, "evt-1").Return(nil).Once()

	gateway := new(MockPaymentGateway)
	gateway.On("GetPaymentDetails", mock.Anything, "pay-1").
		Return(paymentDetails("pay-1", "approved", o.ID().String()), nil).Once()

	paymentRepo := new(MockPaymentRepository)
	paymentRepo.On("GetByExternalID", mock.Anything, "pay-1").
		Return(nil, errs.NewObjectNotFoundError("payment", "pay-1")).Once()
	paymentRepo.On("Add", mock.Anything, mock.AnythingOfType("*payment.Record")).
		Run(func(args mock.Arguments) {
			created := args.Get(1).(*payment.Record)
			assert.Equal(t, payment.StatusApproved, created.Status())
			assert.True(t, created.OrderID().IsEqual(o.ID()))
		}).Return(nil).Once()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	orderRepo.On("Update", mock.Anything, o).Return(nil).Once()
	stockRepo := new(MockStockRepository)
	stockRepo.On("GetByProducts", mock.Anything, mock.Anything).Return(stockMap(record), nil).Once()
	stockRepo.On("Update", mock.Anything, record).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("PaymentRepository").Return(paymentRepo).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("StockRepository").Return(stockRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockWebhookUoWFactory)
	factory.On("Create").Return(uow).Once()
	hook := new(RecordingHook)

	// When
	h := newWebhookHandler(factory, gateway, dedup, hook)
	err := h.Handle(ctx, cmd)

	// Then: order pending with stock reserved, hook fired
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, o.Status())
	assert.Equal(t, 8, record.Available())
	assert.Equal(t, 2, record.Reserved())
	require.Len(t, hook.Calls(), 1)
	assert.Equal(t, order.StatusPending, hook.Calls()[0].NewStatus)
	paymentRepo.AssertExpectations(t)
	dedup.AssertExpectations(t)
}

func TestProcessPaymentWebhookCommandHandler_Handle_ApprovedPickup(t *testing.T) {
	ctx := t.Context()
	productID := kernel.NewUUID()
	o := restoreTestOrder(t, productID, 2, order.PickUpAtStore, order.StatusPaymentPending, false, nil)
	record := restoreTestStock(t, productID, 10, 0, 0)

	cmd := webhookCommand(t, "evt-2", "payment.created", "pay-2")

	dedup := new(MockEventDeduplicator)
	dedup.On("AlreadyProcessed", mock.Anything, "evt-2").Return(false, nil).Once()
	dedup.On("MarkProcessed", mock.Anything, "evt-2").Return(nil).Once()

	gateway := new(MockPaymentGateway)
	gateway.On("GetPaymentDetails", mock.Anything, "pay-2").
		Return(paymentDetails("pay-2", "approved", o.ID().String()), nil).Once()

	paymentRepo := new(MockPaymentRepository)
	paymentRepo.On("GetByExternalID", mock.Anything, "pay-2").
		Return(nil, errs.NewObjectNotFoundError("payment", "pay-2")).Once()
	paymentRepo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	orderRepo.On("Update", mock.Anything, o).Return(nil).Once()
	stockRepo := new(MockStockRepository)
	stockRepo.On("GetByProducts", mock.Anything, mock.Anything).Return(stockMap(record), nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("PaymentRepository").Return(paymentRepo).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("StockRepository").Return(stockRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockWebhookUoWFactory)
	factory.On("Create").Return(uow).Once()
	hook := new(RecordingHook)

	h := newWebhookHandler(factory, gateway, dedup, hook)
	err := h.Handle(ctx, cmd)

	// Then: pickup goes straight to preparation, ledger untouched
	require.NoError(t, err)
	assert.Equal(t, order.StatusInPreparation, o.Status())
	assert.Equal(t, 10, record.Available())
	assert.Equal(t, 0, record.Reserved())
}

func TestProcessPaymentWebhookCommandHandler_Handle_RejectedPayment(t *testing.T) {
	ctx := t.Context()
	productID := kernel.NewUUID()
	o := restoreTestOrder(t, productID, 2, order.HomeDelivery, order.StatusPaymentPending, false, nil)
	record := restoreTestStock(t, productID, 10, 0, 0)

	cmd := webhookCommand(t, "evt-3", "payment.updated", "pay-3")

	dedup := new(MockEventDeduplicator)
	dedup.On("AlreadyProcessed", mock.Anything, "evt-3").Return(false, nil).Once()
	dedup.On("MarkProcessed", mock.Anything, "evt-3").Return(nil).Once()

	gateway := new(MockPaymentGateway)
	gateway.On("GetPaymentDetails", mock.Anything, "pay-3").
		Return(paymentDetails("pay-3", "rejected", o.ID().String()), nil).Once()

	paymentRepo := new(MockPaymentRepository)
	paymentRepo.On("GetByExternalID", mock.Anything, "pay-3").
		Return(nil, errs.NewObjectNotFoundError("payment", "pay-3")).Once()
	paymentRepo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	orderRepo.On("Update", mock.Anything, o).Return(nil).Once()
	stockRepo := new(MockStockRepository)
	stockRepo.On("GetByProducts", mock.Anything, mock.Anything).Return(stockMap(record), nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("PaymentRepository").Return(paymentRepo).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("StockRepository").Return(stockRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockWebhookUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newWebhookHandler(factory, gateway, dedup, new(RecordingHook))
	err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusPaymentRejected, o.Status())
	assert.Equal(t, 10, record.Available())
}

func TestProcessPaymentWebhookCommandHandler_Handle_NonPaymentAction(t *testing.T) {
	ctx := t.Context()
	cmd := webhookCommand(t, "evt-4", "subscription.updated", "sub-1")

	gateway := new(MockPaymentGateway)
	factory := new(MockWebhookUoWFactory)
	dedup := new(MockEventDeduplicator)

	h := newWebhookHandler(factory, gateway, dedup, new(RecordingHook))
	err := h.Handle(ctx, cmd)

	// Then: acknowledged with zero side effects
	require.NoError(t, err)
	gateway.AssertNotCalled(t, "GetPaymentDetails", mock.Anything, mock.Anything)
	factory.AssertNotCalled(t, "Create")
	dedup.AssertNotCalled(t, "AlreadyProcessed", mock.Anything, mock.Anything)
}

func TestProcessPaymentWebhookCommandHandler_Handle_DuplicateEventAbsorbed(t *testing.T) {
	ctx := t.Context()
	cmd := webhookCommand(t, "evt-5", "payment.updated", "pay-5")

	dedup := new(MockEventDeduplicator)
	dedup.On("AlreadyProcessed", mock.Anything, "evt-5").Return(true, nil).Once()

	gateway := new(MockPaymentGateway)
	factory := new(MockWebhookUoWFactory)

	h := newWebhookHandler(factory, gateway, dedup, new(RecordingHook))
	err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	gateway.AssertNotCalled(t, "GetPaymentDetails", mock.Anything, mock.Anything)
	factory.AssertNotCalled(t, "Create")
}

func TestProcessPaymentWebhookCommandHandler_Handle_InProcessDeferred(t *testing.T) {
	ctx := t.Context()
	cmd := webhookCommand(t, "evt-6", "payment.updated", "pay-6")

	dedup := new(MockEventDeduplicator)
	dedup.On("AlreadyProcessed", mock.Anything, "evt-6").Return(false, nil).Once()

	gateway := new(MockPaymentGateway)
	gateway.On("GetPaymentDetails", mock.Anything, "pay-6").
		Return(paymentDetails("pay-6", "in_process", kernel.NewUUID().String()), nil).Once()

	factory := new(MockWebhookUoWFactory)

	h := newWebhookHandler(factory, gateway, dedup, new(RecordingHook))
	err := h.Handle(ctx, cmd)

	// Then: deferred without marking the event processed, the processor
	// notifies again on the terminal outcome
	require.NoError(t, err)
	factory.AssertNotCalled(t, "Create")
	dedup.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
}

func TestProcessPaymentWebhookCommandHandler_Handle_MissingOrderReference(t *testing.T) {
	ctx := t.Context()
	cmd := webhookCommand(t, "evt-7", "payment.updated", "pay-7")

	dedup := new(MockEventDeduplicator)
	dedup.On("AlreadyProcessed", mock.Anything, "evt-7").Return(false, nil).Once()

	gateway := new(MockPaymentGateway)
	gateway.On("GetPaymentDetails", mock.Anything, "pay-7").
		Return(paymentDetails("pay-7", "approved", ""), nil).Once()

	factory := new(MockWebhookUoWFactory)

	h := newWebhookHandler(factory, gateway, dedup, new(RecordingHook))
	err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrMissingOrderReference)
	factory.AssertNotCalled(t, "Create")
}

func TestProcessPaymentWebhookCommandHandler_Handle_UnchangedRedelivery(t *testing.T) {
	// Given: the same approved payment arrives twice; the record already
	// mirrors the approved status
	ctx := t.Context()
	productID := kernel.NewUUID()
	o := restoreTestOrder(t, productID, 2, order.HomeDelivery, order.StatusPending, true, nil)

	amount, err := kernel.NewMoney(2500)
	require.NoError(t, err)
	existing, err := payment.RestoreRecord("pay-8", o.ID(), payment.StatusApproved, amount, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	cmd := webhookCommand(t, "evt-8", "payment.updated", "pay-8")

	dedup := new(MockEventDeduplicator)
	dedup.On("AlreadyProcessed", mock.Anything, "evt-8").Return(false, nil).Once()
	dedup.On("MarkProcessed", mock.Anything, "evt-8").Return(nil).Once()

	gateway := new(MockPaymentGateway)
	gateway.On("GetPaymentDetails", mock.Anything, "pay-8").
		Return(paymentDetails("pay-8", "approved", o.ID().String()), nil).Once()

	paymentRepo := new(MockPaymentRepository)
	paymentRepo.On("GetByExternalID", mock.Anything, "pay-8").Return(existing, nil).Once()
	paymentRepo.On("Update", mock.Anything, existing).Return(nil).Once()

	orderRepo := new(MockOrderRepository)

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("PaymentRepository").Return(paymentRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockWebhookUoWFactory)
	factory.On("Create").Return(uow).Once()
	hook := new(RecordingHook)

	// When
	h := newWebhookHandler(factory, gateway, dedup, hook)
	err = h.Handle(ctx, cmd)

	// Then: metadata committed, no transition attempted, no hook
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, o.Status())
	assert.Empty(t, hook.Calls())
	orderRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	paymentRepo.AssertExpectations(t)
}
