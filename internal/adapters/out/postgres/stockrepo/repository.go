package stockrepo

import (
	"context"
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/stock"
	"backoffice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var counterColumns = []string{"available", "reserved", "ordered"}

// GormStockRepository implements StockRepository using GORM.
type GormStockRepository struct {
	db        *gorm.DB
	tracker   aggregateTracker
	forUpdate bool
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormStockRepository creates a new GORM stock repository. With forUpdate
// set, reads take row-level locks on the counter rows.
func NewGormStockRepository(db *gorm.DB, tracker aggregateTracker, forUpdate bool) *GormStockRepository {
	return &GormStockRepository{
		db:        db,
		tracker:   tracker,
		forUpdate: forUpdate,
	}
}

func (r *GormStockRepository) reader(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// Add persists the ledger record for a new product, together with any audit
// entries the record already collected.
func (r *GormStockRepository) Add(ctx context.Context, record *stock.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	if err := r.appendChanges(ctx, record); err != nil {
		return err
	}

	r.tracker.TrackAggregate(record.ProductID(), record)
	return nil
}

// Update persists the counters and the collected audit entries in one go,
// then clears the entries from the aggregate.
func (r *GormStockRepository) Update(ctx context.Context, record *stock.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	result := r.db.WithContext(ctx).Model(&RecordDTO{}).
		Where("product_id = ?", dto.ProductID).
		Select(counterColumns).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := r.appendChanges(ctx, record); err != nil {
		return err
	}

	r.tracker.TrackAggregate(record.ProductID(), record)
	return nil
}

func (r *GormStockRepository) appendChanges(ctx context.Context, record *stock.Record) error {
	changes := record.UncommittedChanges()
	if len(changes) == 0 {
		return nil
	}

	dtos := changesFromDomain(changes)
	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}

	record.ClearUncommittedChanges()
	return nil
}

// GetByProduct retrieves one product's ledger record.
func (r *GormStockRepository) GetByProduct(ctx context.Context, productID kernel.UUID) (*stock.Record, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}

	var dto RecordDTO
	if err := r.reader(ctx).First(&dto, "product_id = ?", productID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("stock record", productID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByProducts retrieves the ledger records for a set of products, keyed by
// product id. Missing products are absent from the map.
func (r *GormStockRepository) GetByProducts(
	ctx context.Context,
	productIDs []kernel.UUID,
) (map[kernel.UUID]*stock.Record, error) {
	rawIDs := make([]uuid.UUID, 0, len(productIDs))
	for _, id := range productIDs {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		rawIDs = append(rawIDs, id.Bytes())
	}

	var dtos []RecordDTO
	if err := r.reader(ctx).Find(&dtos, "product_id IN ?", rawIDs).Error; err != nil {
		return nil, err
	}

	records := make(map[kernel.UUID]*stock.Record, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records[record.ProductID()] = record
	}

	return records, nil
}
