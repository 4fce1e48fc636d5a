package orderrepo

import (
	"context"
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderColumns are the mutable order fields. Updates select them explicitly so
// zero values (StockReserved false, ShipmentID NULL) are written too.
var orderColumns = []string{
	"status", "delivery_method", "delivery_address",
	"total_amount_cents", "shipment_id", "stock_reserved",
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db        *gorm.DB
	tracker   aggregateTracker
	forUpdate bool
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository. With forUpdate
// set, reads take row-level locks on the order rows.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker, forUpdate bool) *GormOrderRepository {
	return &GormOrderRepository{
		db:        db,
		tracker:   tracker,
		forUpdate: forUpdate,
	}
}

func (r *GormOrderRepository) reader(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// Add saves a new order and its lines to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
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

// Update saves an existing order to the database. Lines are immutable and
// never rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select(orderColumns).
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

// Get retrieves an order by ID, lines included.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.reader(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByIDs retrieves the orders with the given identifiers. Missing ids are
// absent from the result.
func (r *GormOrderRepository) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	rawIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		rawIDs = append(rawIDs, id.Bytes())
	}

	var dtos []OrderDTO
	if err := r.reader(ctx).Preload("Items").Find(&dtos, "id IN ?", rawIDs).Error; err != nil {
		return nil, err
	}

	return manyToDomain(dtos)
}

// GetAllInStatus retrieves every order currently in the given status.
func (r *GormOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	if err := r.reader(ctx).Preload("Items").Find(&dtos, "status = ?", int(status)).Error; err != nil {
		return nil, err
	}

	return manyToDomain(dtos)
}

func manyToDomain(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
