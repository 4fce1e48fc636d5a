package shipmentrepo

import (
	"context"
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/shipment"
	"backoffice/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// shipmentColumns are the mutable shipment fields. The carried order set is
// immutable and excluded.
var shipmentColumns = []string{
	"status", "route_link", "route_estimated_km", "effective_km", "finished_at",
}

// GormShipmentRepository implements ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db        *gorm.DB
	tracker   aggregateTracker
	forUpdate bool
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormShipmentRepository creates a new GORM shipment repository. With
// forUpdate set, reads take a row-level lock on the shipment row.
func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker, forUpdate bool) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:        db,
		tracker:   tracker,
		forUpdate: forUpdate,
	}
}

func (r *GormShipmentRepository) reader(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// Add saves a new shipment and its order set to the database.
func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
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

// Update saves an existing shipment to the database. The order set is never
// rewritten.
func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ShipmentDTO{}).
		Where("id = ?", dto.ID).
		Select(shipmentColumns).
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

// Get retrieves a shipment by ID with its order set in formation order.
func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	err := r.reader(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
