package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"
)

// OrderEventPublisher announces committed order changes to the outside world:
// the owner's live update stream, other service instances and downstream
// consumers. Implementations are best effort; handlers log a returned error
// and never fail the request because of it.
type OrderEventPublisher interface {
	OrderCreated(ctx context.Context, o *order.Order) error
	OrderStatusChanged(ctx context.Context, o *order.Order) error
}
