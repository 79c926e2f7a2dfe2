package commands

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Snapshots the delivery address and current product prices, then stores the
// order, its address snapshot and its items in one transaction.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, publisher, logger)
//	cmd, _ := NewCreateOrderCommand(userID, addressID, lines)
//
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// created.Status() == order.Received
type CreateOrderCommandHandler struct {
	uowFactory CheckoutUoWFactory
	builder    services.SnapshotBuilder
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires a CheckoutUoWFactory for transactional persistence and a publisher
// that is notified once the order is committed.
func NewCreateOrderCommandHandler(
	uowFactory CheckoutUoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		builder:    services.NewSnapshotBuilder(),
		publisher:  publisher,
		logger:     logger.With("component", "create_order"),
	}
}

// Handle processes the order creation command.
// Any failure after Begin rolls back every row written so far. The created
// event is published only after a successful commit and its failure is logged,
// never returned.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	checkout, err := h.builder.Build(ctx, uow.AddressReader(), uow.ProductReader(), cmd.checkoutRequest())
	if err != nil {
		return nil, err
	}

	created, err := uow.OrderRepository().CreateWithItems(ctx, cmd.UserID(), checkout)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order placed",
		"order_id", created.ID().String(),
		"order_code", created.Code(),
		"items", len(created.Items()),
	)

	if pubErr := h.publisher.OrderCreated(ctx, created); pubErr != nil {
		h.logger.WarnContext(ctx, "failed to publish order created event",
			"order_id", created.ID().String(), "error", pubErr)
	}

	return created, nil
}
