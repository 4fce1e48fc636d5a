package kernel_test

import (
	"testing"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("accepts_non_negative_amounts", func(t *testing.T) {
		m, err := kernel.NewMoney(1250)

		require.NoError(t, err)
		assert.Equal(t, int64(1250), m.Cents())
		assert.Equal(t, "12.50", m.String())
	})

	t.Run("rejects_negative_amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		a, _ := kernel.NewMoney(100)
		b, _ := kernel.NewMoney(250)

		assert.Equal(t, int64(350), a.Add(b).Cents())
	})

	t.Run("multiply_by_quantity", func(t *testing.T) {
		unit, _ := kernel.NewMoney(199)

		total, err := unit.MultiplyBy(3)
		require.NoError(t, err)
		assert.Equal(t, int64(597), total.Cents())
	})

	t.Run("multiply_rejects_negative_quantity", func(t *testing.T) {
		unit, _ := kernel.NewMoney(199)

		_, err := unit.MultiplyBy(-1)
		require.Error(t, err)
	})

	t.Run("zero_is_identity", func(t *testing.T) {
		a, _ := kernel.NewMoney(100)
		assert.True(t, a.Add(kernel.Zero()).IsEqual(a))
	})
}
