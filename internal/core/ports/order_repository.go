package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// All methods run inside the unit of work that produced the repository.
type OrderRepository interface {
	// CreateWithItems generates a unique order code and stores the order, its
	// address snapshot and every line item. The caller's transaction makes the
	// multi-row write atomic.
	CreateWithItems(ctx context.Context, userID kernel.UUID, checkout order.Checkout) (*order.Order, error)

	// GetByUserID returns the user's orders newest first, snapshot and items attached.
	GetByUserID(ctx context.Context, userID kernel.UUID) ([]*order.Order, error)

	// Get returns the order or *errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateStatus writes next only while the stored status still equals expected.
	// It does not check transition legality. A nil order with a nil error means
	// no row matched.
	UpdateStatus(ctx context.Context, id kernel.UUID, expected, next order.Status) (*order.Order, error)

	// Cancel sets Cancelled only if the order belongs to userID, its stored
	// status equals expected and is active. A nil order with a nil error means
	// no row matched.
	Cancel(ctx context.Context, id, userID kernel.UUID, expected order.Status) (*order.Order, error)
}
