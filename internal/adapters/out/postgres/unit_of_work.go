// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern. A unit of work spans one business transaction: every repository
// obtained from it runs against the same database transaction, so an order
// transition, its ledger counters, and its audit entries commit or roll back
// together.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Update(ctx, order); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each business operation gets its own instance; instances are not safe for
// concurrent use. Rollback after a successful commit is a no-op at the
// database level, which makes the deferred-rollback pattern safe.
package postgres

import (
	"context"

	"backoffice/internal/adapters/out/postgres/orderrepo"
	"backoffice/internal/adapters/out/postgres/paymentrepo"
	"backoffice/internal/adapters/out/postgres/shipmentrepo"
	"backoffice/internal/adapters/out/postgres/stockrepo"
	"backoffice/internal/adapters/out/postgres/vehiclerepo"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
// This is useful for implementing patterns like event sourcing or outbox pattern.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate interface{}
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// The provided database connection will be used for all created unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for business transaction management.
// Each instance maintains its own transaction state and aggregate tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates database transactions and tracks aggregate
// changes for business operations. Repositories obtained while a transaction
// is active are bound to it and read their aggregates with row-level locks,
// serializing concurrent mutations of the same rows.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create
// nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns error if no active transaction exists or if the commit fails.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns error if no active transaction exists or if the rollback fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// handle returns the transaction when one is active, the base connection
// otherwise. forUpdate mirrors that choice: row locks are only meaningful
// inside a transaction.
func (uow *GormUnitOfWork) handle() (db *gorm.DB, forUpdate bool) {
	if uow.tx != nil {
		return uow.tx, true
	}
	return uow.db, false
}

// OrderRepository provides access to order persistence within the unit of work.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db, forUpdate := uow.handle()
	return orderrepo.NewGormOrderRepository(db, uow, forUpdate)
}

// StockRepository provides access to the stock ledger within the unit of work.
func (uow *GormUnitOfWork) StockRepository() ports.StockRepository {
	db, forUpdate := uow.handle()
	return stockrepo.NewGormStockRepository(db, uow, forUpdate)
}

// ShipmentRepository provides access to shipment persistence within the unit of work.
func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	db, forUpdate := uow.handle()
	return shipmentrepo.NewGormShipmentRepository(db, uow, forUpdate)
}

// VehicleRepository provides access to vehicle persistence within the unit of work.
func (uow *GormUnitOfWork) VehicleRepository() ports.VehicleRepository {
	db, forUpdate := uow.handle()
	return vehiclerepo.NewGormVehicleRepository(db, uow, forUpdate)
}

// PaymentRepository provides access to payment records within the unit of work.
func (uow *GormUnitOfWork) PaymentRepository() ports.PaymentRepository {
	db, forUpdate := uow.handle()
	return paymentrepo.NewGormPaymentRepository(db, uow, forUpdate)
}

// TrackAggregate registers a domain aggregate as modified within this unit of
// work. Called by repository implementations when aggregates are added or
// updated.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
