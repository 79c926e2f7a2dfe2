package commands

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// ChangeOrderStatusCommandHandler advances an order along its lifecycle.
//
// Each attempt reads the current order, checks the transition against the
// freshly read status and issues a conditional write keyed on that status.
// Losing a race to a concurrent writer triggers a re-read, so the caller gets
// either the validator's verdict on the latest status or, after
// maxWriteAttempts lost races, an *errs.ConflictError.
//
// Example:
//
//	cmd, _ := NewChangeOrderStatusCommand(orderID, order.Preparing)
//	updated, err := handler.Handle(ctx, cmd)
//	var te *order.TransitionError
//	if errors.As(err, &te) {
//	    // 400 with te.Error()
//	}
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
}

// NewChangeOrderStatusCommandHandler creates a handler for status updates.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "change_order_status"),
	}
}

// Handle applies the status change and publishes it to the order's owner.
func (h *ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	for range maxWriteAttempts {
		updated, err := h.attempt(ctx, cmd)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			h.logger.DebugContext(ctx, "status write lost a race, re-reading",
				"order_id", cmd.OrderID().String())
			continue
		}

		if pubErr := h.publisher.OrderStatusChanged(ctx, updated); pubErr != nil {
			h.logger.WarnContext(ctx, "failed to publish order status change",
				"order_id", updated.ID().String(), "error", pubErr)
		}
		return updated, nil
	}

	return nil, errs.NewConflictError("order", cmd.OrderID().String())
}

// attempt returns nil, nil when the conditional write matched no row.
func (h *ChangeOrderStatusCommandHandler) attempt(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (*order.Order, error) {
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

	expected := current.Status()
	if err = current.ChangeStatus(cmd.Status()); err != nil {
		return nil, err
	}

	updated, err := orderRepo.UpdateStatus(ctx, current.ID(), expected, cmd.Status())
	if err != nil || updated == nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return updated, nil
}
