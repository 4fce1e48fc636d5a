package services_test

import (
	"testing"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/stock"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderWithProduct(t *testing.T, productID kernel.UUID, qty int) *order.Order {
	t.Helper()
	price, err := kernel.NewMoney(1000)
	require.NoError(t, err)
	item, err := order.NewItem(productID, qty, price)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), []order.Item{item}, order.HomeDelivery, "123 Main St")
	require.NoError(t, err)
	return o
}

func stockFor(t *testing.T, productID kernel.UUID, available int) map[kernel.UUID]*stock.Record {
	t.Helper()
	record, err := stock.NewRecord(productID, available)
	require.NoError(t, err)
	return map[kernel.UUID]*stock.Record{productID: record}
}

func TestOrderLifecycleService_Transition(t *testing.T) {
	lifecycle := services.NewOrderLifecycleService()

	t.Run("payment_pending_to_pending_reserves_stock", func(t *testing.T) {
		// Given: order with 2 units of product P, stock available=10 reserved=0
		productID := kernel.NewUUID()
		o := orderWithProduct(t, productID, 2)
		stocks := stockFor(t, productID, 10)

		// When
		changed, err := lifecycle.Transition(o, order.StatusPending, stocks)

		// Then: available=8, reserved=2
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 8, stocks[productID].Available())
		assert.Equal(t, 2, stocks[productID].Reserved())
		assert.Len(t, stocks[productID].UncommittedChanges(), 2)
	})

	t.Run("pending_to_cancelled_restores_stock_exactly", func(t *testing.T) {
		// Given
		productID := kernel.NewUUID()
		o := orderWithProduct(t, productID, 2)
		stocks := stockFor(t, productID, 10)
		_, err := lifecycle.Transition(o, order.StatusPending, stocks)
		require.NoError(t, err)

		// When
		changed, err := lifecycle.Transition(o, order.StatusCancelled, stocks)

		// Then: conservation law, back to available=10 reserved=0
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 10, stocks[productID].Available())
		assert.Equal(t, 0, stocks[productID].Reserved())
	})

	t.Run("finishing_consumes_without_restoring", func(t *testing.T) {
		productID := kernel.NewUUID()
		o := orderWithProduct(t, productID, 2)
		stocks := stockFor(t, productID, 10)
		for _, target := range []order.Status{
			order.StatusPending, order.StatusInPreparation, order.StatusPrepared,
		} {
			_, err := lifecycle.Transition(o, target, stocks)
			require.NoError(t, err)
		}

		_, err := lifecycle.Transition(o, order.StatusFinished, stocks)

		require.NoError(t, err)
		assert.Equal(t, 8, stocks[productID].Available())
		assert.Equal(t, 0, stocks[productID].Reserved())
	})

	t.Run("same_status_is_noop", func(t *testing.T) {
		productID := kernel.NewUUID()
		o := orderWithProduct(t, productID, 2)
		stocks := stockFor(t, productID, 10)

		changed, err := lifecycle.Transition(o, order.StatusPaymentPending, stocks)

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, 10, stocks[productID].Available())
	})

	t.Run("illegal_edge_leaves_everything_unchanged", func(t *testing.T) {
		productID := kernel.NewUUID()
		o := orderWithProduct(t, productID, 2)
		stocks := stockFor(t, productID, 10)

		_, err := lifecycle.Transition(o, order.StatusShipped, stocks)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.StatusPaymentPending, o.Status())
		assert.Equal(t, 10, stocks[productID].Available())
		assert.Empty(t, stocks[productID].UncommittedChanges())
	})

	t.Run("insufficient_stock_aborts_the_transition", func(t *testing.T) {
		productID := kernel.NewUUID()
		o := orderWithProduct(t, productID, 5)
		stocks := stockFor(t, productID, 3)

		_, err := lifecycle.Transition(o, order.StatusPending, stocks)

		require.ErrorIs(t, err, stock.ErrInsufficientStock)
	})

	t.Run("missing_stock_record_is_not_found", func(t *testing.T) {
		o := orderWithProduct(t, kernel.NewUUID(), 1)

		_, err := lifecycle.Transition(o, order.StatusPending, map[kernel.UUID]*stock.Record{})

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("reason_names_the_order", func(t *testing.T) {
		productID := kernel.NewUUID()
		o := orderWithProduct(t, productID, 1)
		stocks := stockFor(t, productID, 5)

		_, err := lifecycle.Transition(o, order.StatusPending, stocks)

		require.NoError(t, err)
		changes := stocks[productID].UncommittedChanges()
		require.NotEmpty(t, changes)
		assert.Equal(t, "Order "+o.ID().String()+" pending", changes[0].Reason())
	})
}

func TestOrderLifecycleService_TransitionMany(t *testing.T) {
	lifecycle := services.NewOrderLifecycleService()

	t.Run("applies_target_to_every_order", func(t *testing.T) {
		productID := kernel.NewUUID()
		o1 := orderWithProduct(t, productID, 2)
		o2 := orderWithProduct(t, productID, 3)
		stocks := stockFor(t, productID, 10)

		err := lifecycle.TransitionMany([]*order.Order{o1, o2}, order.StatusPending, stocks)

		require.NoError(t, err)
		assert.Equal(t, 5, stocks[productID].Available())
		assert.Equal(t, 5, stocks[productID].Reserved())
	})

	t.Run("one_invalid_order_fails_the_batch", func(t *testing.T) {
		productID := kernel.NewUUID()
		o1 := orderWithProduct(t, productID, 2)
		o2 := orderWithProduct(t, productID, 3)
		stocks := stockFor(t, productID, 10)
		_, err := lifecycle.Transition(o2, order.StatusCancelled, stocks)
		require.NoError(t, err)

		err = lifecycle.TransitionMany([]*order.Order{o1, o2}, order.StatusPending, stocks)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}
