package paymentrepo

import (
	"context"
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/payment"
	"backoffice/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var paymentColumns = []string{"order_id", "status", "amount_cents", "last_event_at"}

// GormPaymentRepository implements PaymentRepository using GORM.
type GormPaymentRepository struct {
	db        *gorm.DB
	tracker   aggregateTracker
	forUpdate bool
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPaymentRepository creates a new GORM payment repository. With
// forUpdate set, reads take a row-level lock so concurrent deliveries of the
// same webhook serialize.
func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker, forUpdate bool) *GormPaymentRepository {
	return &GormPaymentRepository{
		db:        db,
		tracker:   tracker,
		forUpdate: forUpdate,
	}
}

func (r *GormPaymentRepository) reader(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// Add persists the record for a payment seen for the first time.
func (r *GormPaymentRepository) Add(ctx context.Context, record *payment.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(record.OrderID(), record)
	return nil
}

// Update persists changes to an existing payment record.
func (r *GormPaymentRepository) Update(ctx context.Context, record *payment.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	result := r.db.WithContext(ctx).Model(&PaymentDTO{}).
		Where("external_id = ?", dto.ExternalID).
		Select(paymentColumns).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(record.OrderID(), record)
	return nil
}

// GetByExternalID retrieves the record for the processor's payment id.
func (r *GormPaymentRepository) GetByExternalID(ctx context.Context, externalID string) (*payment.Record, error) {
	if externalID == "" {
		return nil, errs.NewValueIsRequiredError("externalId")
	}

	var dto PaymentDTO
	if err := r.reader(ctx).First(&dto, "external_id = ?", externalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payment", externalID)
		}
		return nil, err
	}

	return toDomain(dto)
}
