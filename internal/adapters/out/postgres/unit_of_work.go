// Package postgres provides the GORM-based Unit of Work of the order service.
// A unit of work wraps one database transaction and hands out repositories
// bound to it, so that creating an order (order row, address snapshot, items)
// commits or rolls back as a whole.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	created, err := uow.OrderRepository().CreateWithItems(ctx, userID, checkout)
//	if err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides an isolated transaction
//   - Multiple goroutines must use separate UnitOfWork instances
//   - Status changes rely on conditional single-row updates, not row locks
package postgres

import (
	"context"

	"fooddelivery/internal/adapters/out/postgres/catalogrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	orderOpts []orderrepo.Option
}

// NewGormUnitOfWorkFactory creates a factory; opts are applied to every order repository it hands out.
func NewGormUnitOfWorkFactory(db *gorm.DB, opts ...orderrepo.Option) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, orderOpts: opts}
}

// Create produces a fresh UnitOfWork with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:        f.db,
		orderOpts: f.orderOpts,
	}
}

// GormUnitOfWork coordinates one database transaction. Repositories it hands
// out are bound to that transaction.
type GormUnitOfWork struct {
	db        *gorm.DB
	tx        *gorm.DB
	orderOpts []orderrepo.Option
}

// Begin initiates the transaction. Calling it twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction. It returns gorm.ErrInvalidTransaction when none is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. After a successful Commit it returns
// gorm.ErrInvalidTransaction, which lets handlers defer it unconditionally.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns an order repository bound to the current transaction,
// or to the pool when no transaction is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow.orderOpts...)
}

// AddressReader returns an address reader bound to the current transaction.
func (uow *GormUnitOfWork) AddressReader() ports.AddressReader {
	return catalogrepo.NewGormAddressReader(uow.conn())
}

// ProductReader returns a product reader bound to the current transaction.
func (uow *GormUnitOfWork) ProductReader() ports.ProductReader {
	return catalogrepo.NewGormProductReader(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
