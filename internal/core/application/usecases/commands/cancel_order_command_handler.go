package commands

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels an active order on behalf of its owner.
//
// Business rules:
//   - An order that does not belong to the caller is reported as not found
//   - Delivered and Cancelled orders are rejected with an *order.TransitionError
//   - The write is conditional on owner, the status just read, and that status
//     being active; a lost race is retried like a status change
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
}

// NewCancelOrderCommandHandler creates a handler for cancellations.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "cancel_order"),
	}
}

// Handle cancels the order and publishes the change to its owner.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	for range maxWriteAttempts {
		cancelled, err := h.attempt(ctx, cmd)
		if err != nil {
			return nil, err
		}
		if cancelled == nil {
			h.logger.DebugContext(ctx, "cancel lost a race, re-reading",
				"order_id", cmd.OrderID().String())
			continue
		}

		h.logger.InfoContext(ctx, "order cancelled",
			"order_id", cancelled.ID().String(), "order_code", cancelled.Code())

		if pubErr := h.publisher.OrderStatusChanged(ctx, cancelled); pubErr != nil {
			h.logger.WarnContext(ctx, "failed to publish order cancellation",
				"order_id", cancelled.ID().String(), "error", pubErr)
		}
		return cancelled, nil
	}

	return nil, errs.NewConflictError("order", cmd.OrderID().String())
}

func (h *CancelOrderCommandHandler) attempt(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	current, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !current.IsOwnedBy(cmd.UserID()) {
		return nil, errs.NewObjectNotFoundError("order", cmd.OrderID().String())
	}

	expected := current.Status()
	if err = current.Cancel(); err != nil {
		return nil, err
	}

	cancelled, err := orderRepo.Cancel(ctx, current.ID(), cmd.UserID(), expected)
	if err != nil || cancelled == nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return cancelled, nil
}
