// Package commands holds the write side of the order lifecycle: placing,
// advancing and cancelling orders. Each handler validates its command, works
// inside one unit of work and publishes a status event only after commit.
package commands

import (
	"context"

	"fooddelivery/internal/core/ports"
)

// Handlers depend on the narrowest unit of work they need.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CatalogReaderFactory provides read access to addresses and products
	// within a transaction.
	CatalogReaderFactory interface {
		AddressReader() ports.AddressReader
		ProductReader() ports.ProductReader
	}

	// OrderUoW backs status changes and cancellation, which never touch the catalog.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CheckoutUoW reads the caller's address and the products, then writes the
	// order with their snapshot in the same transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   checkout, err := builder.Build(ctx, uow.AddressReader(), uow.ProductReader(), req)
	//   created, err := uow.OrderRepository().CreateWithItems(ctx, userID, checkout)
	//
	//   err = uow.Commit(ctx)
	CheckoutUoW interface {
		TxManager
		OrderRepoFactory
		CatalogReaderFactory
	}

	CheckoutUoWFactory interface {
		Create() CheckoutUoW
	}
)

// maxWriteAttempts bounds the re-read/re-validate loop of conditional status writes.
const maxWriteAttempts = 3
