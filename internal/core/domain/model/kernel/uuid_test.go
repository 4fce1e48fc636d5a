package kernel_test

import (
	"testing"

	"backoffice/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("generates_valid_unique_ids", func(t *testing.T) {
		id1 := kernel.NewUUID()
		id2 := kernel.NewUUID()

		require.NoError(t, id1.Validate())
		require.NoError(t, id2.Validate())
		assert.False(t, id1.IsEqual(id2))
	})
}

func TestUUIDFromString(t *testing.T) {
	t.Run("parses_canonical_form", func(t *testing.T) {
		id, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")
		require.Error(t, err)
	})

	t.Run("rejects_nil_uuid", func(t *testing.T) {
		_, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUID_Validate(t *testing.T) {
	t.Run("zero_value_is_invalid", func(t *testing.T) {
		var id kernel.UUID
		require.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
		assert.True(t, id.IsEmpty())
	})
}

func TestUUID_RoundTripBytes(t *testing.T) {
	id := kernel.NewUUID()
	raw := id.Bytes()

	restored, err := kernel.UUIDFromBytes(raw[:])
	require.NoError(t, err)
	assert.True(t, id.IsEqual(restored))
}
