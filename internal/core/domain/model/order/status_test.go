package order_test

import (
	"testing"

	"backoffice/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_StableIDs(t *testing.T) {
	// Persistence and external clients depend on these exact values.
	assert.Equal(t, 1, int(order.StatusPending))
	assert.Equal(t, 2, int(order.StatusInPreparation))
	assert.Equal(t, 3, int(order.StatusShipped))
	assert.Equal(t, 4, int(order.StatusFinished))
	assert.Equal(t, 5, int(order.StatusCancelled))
	assert.Equal(t, 6, int(order.StatusPrepared))
	assert.Equal(t, 7, int(order.StatusPaymentPending))
	assert.Equal(t, 8, int(order.StatusPaymentRejected))
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    order.Status
		to      order.Status
		allowed bool
	}{
		{"payment_pending_to_pending", order.StatusPaymentPending, order.StatusPending, true},
		{"payment_pending_to_in_preparation", order.StatusPaymentPending, order.StatusInPreparation, true},
		{"payment_pending_to_cancelled", order.StatusPaymentPending, order.StatusCancelled, true},
		{"payment_pending_to_payment_rejected", order.StatusPaymentPending, order.StatusPaymentRejected, true},
		{"payment_pending_to_shipped", order.StatusPaymentPending, order.StatusShipped, false},
		{"payment_rejected_to_cancelled", order.StatusPaymentRejected, order.StatusCancelled, true},
		{"payment_rejected_to_payment_pending", order.StatusPaymentRejected, order.StatusPaymentPending, true},
		{"payment_rejected_to_pending", order.StatusPaymentRejected, order.StatusPending, false},
		{"pending_to_in_preparation", order.StatusPending, order.StatusInPreparation, true},
		{"pending_to_cancelled", order.StatusPending, order.StatusCancelled, true},
		{"pending_to_finished", order.StatusPending, order.StatusFinished, false},
		{"in_preparation_to_prepared", order.StatusInPreparation, order.StatusPrepared, true},
		{"in_preparation_to_cancelled", order.StatusInPreparation, order.StatusCancelled, true},
		{"in_preparation_to_shipped", order.StatusInPreparation, order.StatusShipped, false},
		{"prepared_to_shipped", order.StatusPrepared, order.StatusShipped, true},
		{"prepared_to_finished", order.StatusPrepared, order.StatusFinished, true},
		{"prepared_to_pending_shipment_return", order.StatusPrepared, order.StatusPending, true},
		{"prepared_to_cancelled", order.StatusPrepared, order.StatusCancelled, false},
		{"shipped_to_finished", order.StatusShipped, order.StatusFinished, true},
		{"shipped_to_pending", order.StatusShipped, order.StatusPending, false},
		{"finished_is_terminal", order.StatusFinished, order.StatusPending, false},
		{"cancelled_is_terminal", order.StatusCancelled, order.StatusPaymentPending, false},
		{"unknown_from_has_no_edges", order.StatusUnknown, order.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.StatusFinished.IsTerminal())
	assert.True(t, order.StatusCancelled.IsTerminal())
	assert.False(t, order.StatusPending.IsTerminal())
	assert.False(t, order.StatusUnknown.IsTerminal())
}

func TestStatus_Validate(t *testing.T) {
	t.Run("members_are_valid", func(t *testing.T) {
		for _, s := range []order.Status{
			order.StatusPending, order.StatusInPreparation, order.StatusShipped,
			order.StatusFinished, order.StatusCancelled, order.StatusPrepared,
			order.StatusPaymentPending, order.StatusPaymentRejected,
		} {
			require.NoError(t, s.Validate())
		}
	})

	t.Run("unknown_and_out_of_range_are_invalid", func(t *testing.T) {
		require.Error(t, order.StatusUnknown.Validate())
		require.Error(t, order.Status(99).Validate())
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "PaymentPending", order.StatusPaymentPending.String())
	assert.Equal(t, "Prepared", order.StatusPrepared.String())
	assert.Equal(t, "Unknown", order.Status(42).String())
}
