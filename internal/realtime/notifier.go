package realtime

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"
)

// StatusUpdate is the payload of an order_status_update event.
type StatusUpdate struct {
	OrderID     string `json:"order_id"`
	OrderCode   string `json:"order_code"`
	OrderStatus string `json:"order_status"`
}

// NewStatusUpdate renders the status event of o.
func NewStatusUpdate(o *order.Order) StatusUpdate {
	return StatusUpdate{
		OrderID:     o.ID().String(),
		OrderCode:   o.Code(),
		OrderStatus: o.Status().String(),
	}
}

// Connected is the payload of the connected event sent when a stream opens.
type Connected struct {
	Message string `json:"message"`
}

// ConnectedGreeting is sent on every new stream.
var ConnectedGreeting = Connected{Message: "Connected to order updates"}

// Notifier delivers order events to the owner's connections on this instance.
// It implements ports.OrderEventPublisher.
type Notifier struct {
	broadcaster *Broadcaster
}

// NewNotifier creates a notifier writing to b.
func NewNotifier(b *Broadcaster) *Notifier {
	return &Notifier{broadcaster: b}
}

// OrderCreated is a no-op; customers are only notified of status changes.
func (n *Notifier) OrderCreated(_ context.Context, _ *order.Order) error {
	return nil
}

// OrderStatusChanged pushes the new status to the order's owner.
func (n *Notifier) OrderStatusChanged(_ context.Context, o *order.Order) error {
	n.broadcaster.SendToUser(o.UserID(), EventOrderStatusUpdate, NewStatusUpdate(o))
	return nil
}
