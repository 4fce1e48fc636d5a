package ports

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/vehicle"
)

// VehicleRepository defines the persistence contract for vehicle aggregates
// and their append-only usage records.
type VehicleRepository interface {
	// Add persists a new vehicle aggregate to storage.
	Add(ctx context.Context, aggregate *vehicle.Vehicle) error

	// Update persists changes to an existing vehicle aggregate.
	Update(ctx context.Context, aggregate *vehicle.Vehicle) error

	// Get retrieves a vehicle aggregate by its unique identifier, locked for
	// update when running inside a transaction.
	// Returns errs.ObjectNotFoundError when no such vehicle exists.
	Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error)

	// AddUsageRecord appends one odometer snapshot. Usage records are never
	// updated or deleted.
	AddUsageRecord(ctx context.Context, record vehicle.UsageRecord) error
}
