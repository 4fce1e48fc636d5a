package kernel

import (
	"fmt"

	"backoffice/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed indicates that a UUID was not initialized through one
// of the constructor functions. Returned when validating a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID is a value object wrapping github.com/google/uuid to provide
// domain-specific behavior and immutability. It identifies entities and
// aggregates throughout the domain model.
//
// The zero value is invalid; use NewUUID, UUIDFromString, or UUIDFromBytes.
// UUID is immutable and safe for concurrent use.
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a new random UUID (version 4). This is the primary way to
// create identifiers for new entities.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses a UUID from its string representation. It accepts the
// standard formats supported by github.com/google/uuid. Typically used when
// reconstructing entities from persistence or parsing identifiers supplied by
// external systems.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}
	return newID, nil
}

// UUIDFromBytes creates a UUID from a 16-byte slice, e.g. when reading binary
// UUID columns from the database.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}
	return newID, nil
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying uuid.UUID value for persistence mapping.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual compares two UUIDs by value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// IsEmpty reports whether the UUID is the zero value.
func (u UUID) IsEmpty() bool {
	return u.id == uuid.Nil
}

// Validate returns ErrUUIDIsNotConstructed for a zero-value UUID, nil
// otherwise.
func (u UUID) Validate() error {
	if u.IsEmpty() {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
