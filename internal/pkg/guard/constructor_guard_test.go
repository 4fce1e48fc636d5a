package guard_test

import (
	"errors"
	"testing"

	"backoffice/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// When
		err := g.Validate(errors.New("not constructed"))

		// Then
		require.NoError(t, err)
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expectedError := errors.New("entity not constructed")

		// When
		err := g.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(nil)

		// Then
		require.ErrorIs(t, err, guard.ErrNotConstructed)
	})
}
