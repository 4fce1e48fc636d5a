package commands_test

import (
	"context"
	"testing"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/stock"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReceiveStockCommand_Validation(t *testing.T) {
	t.Run("rejects_non_positive_quantity", func(t *testing.T) {
		_, err := commands.NewReceiveStockCommand(kernel.NewUUID(), 0)
		require.Error(t, err)
	})
}

func newStockUoW(ctx context.Context, repo *MockStockRepository) *MockUoW {
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("StockRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	return uow
}

func TestReceiveStockCommandHandler_Handle_AnnouncedDelivery(t *testing.T) {
	// Given: 10 units previously marked as ordered, 10 arriving
	ctx := t.Context()
	productID := kernel.NewUUID()
	record := restoreTestStock(t, productID, 3, 0, 10)

	cmd, err := commands.NewReceiveStockCommand(productID, 10)
	require.NoError(t, err)

	stockRepo := new(MockStockRepository)
	stockRepo.On("GetByProduct", mock.Anything, productID).Return(record, nil).Once()
	stockRepo.On("Update", mock.Anything, record).Return(nil).Once()
	uow := newStockUoW(ctx, stockRepo)
	uow.On("Commit", ctx).Return(nil).Once()

	factory := new(MockStockUoWFactory)
	factory.On("Create").Return(uow).Once()

	// When
	h := commands.NewReceiveStockCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	// Then: ordered settled, availability raised
	require.NoError(t, err)
	assert.Equal(t, 13, record.Available())
	assert.Equal(t, 0, record.Ordered())
	assert.Len(t, record.UncommittedChanges(), 2)
	stockRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestReceiveStockCommandHandler_Handle_UnannouncedDelivery(t *testing.T) {
	// Given: nothing on order, 5 units arriving anyway
	ctx := t.Context()
	productID := kernel.NewUUID()
	record := restoreTestStock(t, productID, 3, 0, 0)

	cmd, err := commands.NewReceiveStockCommand(productID, 5)
	require.NoError(t, err)

	stockRepo := new(MockStockRepository)
	stockRepo.On("GetByProduct", mock.Anything, productID).Return(record, nil).Once()
	stockRepo.On("Update", mock.Anything, record).Return(nil).Once()
	uow := newStockUoW(ctx, stockRepo)
	uow.On("Commit", ctx).Return(nil).Once()

	factory := new(MockStockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewReceiveStockCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 8, record.Available())
	assert.Equal(t, 0, record.Ordered())
}

func TestReceiveStockCommandHandler_Handle_FirstDeliveryCreatesRecord(t *testing.T) {
	ctx := t.Context()
	productID := kernel.NewUUID()

	cmd, err := commands.NewReceiveStockCommand(productID, 7)
	require.NoError(t, err)

	stockRepo := new(MockStockRepository)
	stockRepo.On("GetByProduct", mock.Anything, productID).
		Return(nil, errs.NewObjectNotFoundError("stockRecord", productID.String())).Once()
	stockRepo.On("Add", mock.Anything, mock.AnythingOfType("*stock.Record")).
		Run(func(args mock.Arguments) {
			created := args.Get(1).(*stock.Record)
			assert.Equal(t, 7, created.Available())
			assert.True(t, created.ProductID().IsEqual(productID))
		}).Return(nil).Once()
	uow := newStockUoW(ctx, stockRepo)
	uow.On("Commit", ctx).Return(nil).Once()

	factory := new(MockStockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewReceiveStockCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	stockRepo.AssertExpectations(t)
}
