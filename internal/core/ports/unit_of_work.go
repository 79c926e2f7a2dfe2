package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh transaction scope per use case call.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork groups the repositories that must see one transaction while an
// order is placed or moved through its lifecycle. Handlers defer Rollback and
// ignore its error once Commit has succeeded.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	// Catalog lookups run inside the same transaction so the snapshot
	// taken at checkout matches what was validated.
	AddressReader() AddressReader
	ProductReader() ProductReader
}
