package vehiclerepo

import (
	"context"
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/vehicle"
	"backoffice/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var vehicleColumns = []string{"name", "last_odometer_km", "last_used_at", "total_driven_km"}

// GormVehicleRepository implements VehicleRepository using GORM.
type GormVehicleRepository struct {
	db        *gorm.DB
	tracker   aggregateTracker
	forUpdate bool
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormVehicleRepository creates a new GORM vehicle repository. With
// forUpdate set, reads take a row-level lock on the vehicle row so concurrent
// finishes serialize their monotonicity checks.
func NewGormVehicleRepository(db *gorm.DB, tracker aggregateTracker, forUpdate bool) *GormVehicleRepository {
	return &GormVehicleRepository{
		db:        db,
		tracker:   tracker,
		forUpdate: forUpdate,
	}
}

func (r *GormVehicleRepository) reader(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// Add saves a new vehicle to the database.
func (r *GormVehicleRepository) Add(ctx context.Context, aggregate *vehicle.Vehicle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing vehicle to the database.
func (r *GormVehicleRepository) Update(ctx context.Context, aggregate *vehicle.Vehicle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&VehicleDTO{}).
		Where("id = ?", dto.ID).
		Select(vehicleColumns).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a vehicle by ID.
func (r *GormVehicleRepository) Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto VehicleDTO
	if err := r.reader(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vehicle", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// AddUsageRecord appends one odometer snapshot.
func (r *GormVehicleRepository) AddUsageRecord(ctx context.Context, record vehicle.UsageRecord) error {
	dto := usageFromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}
