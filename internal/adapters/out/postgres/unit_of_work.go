// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern. A unit of work spans one business operation: all repository writes
// inside it share a single database transaction, and the aggregates it touched
// are tracked for post-commit processing.
package postgres

import (
	"context"

	"forwarder/internal/adapters/out/postgres/billingrepo"
	"forwarder/internal/adapters/out/postgres/parcelrepo"
	"forwarder/internal/adapters/out/postgres/shipmentrepo"
	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database
// connections. Each business operation gets a fresh instance with proper
// isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for one business
// transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the parcel,
// shipment, invoice, and transaction repositories. The checkout use case is
// the widest consumer: it writes all four aggregates and must see them commit
// or roll back together.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls on the same instance are safe and will not nest.
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
// After commit, the transaction is closed and cannot be reused.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Rolling back an already committed unit of work returns
// gorm.ErrInvalidTransaction, which deferred-rollback callers ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// ParcelRepository provides access to parcel persistence within the unit of
// work. Operations execute inside the current transaction if one is active.
func (uow *GormUnitOfWork) ParcelRepository() ports.ParcelRepository {
	return parcelrepo.NewGormParcelRepository(uow.handle(), uow)
}

// ShipmentRepository provides access to shipment persistence within the unit
// of work.
func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.handle(), uow)
}

// InvoiceRepository provides access to invoice persistence within the unit of
// work.
func (uow *GormUnitOfWork) InvoiceRepository() ports.InvoiceRepository {
	return billingrepo.NewGormInvoiceRepository(uow.handle(), uow)
}

// TransactionRepository provides access to payment transaction persistence
// within the unit of work.
func (uow *GormUnitOfWork) TransactionRepository() ports.TransactionRepository {
	return billingrepo.NewGormTransactionRepository(uow.handle(), uow)
}

// TrackAggregate registers a domain aggregate as modified within this unit of
// work. Repository implementations call it on every add or update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) handle() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
