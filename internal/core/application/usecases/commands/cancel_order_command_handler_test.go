package commands_test

import (
	"testing"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	id, owner := kernel.NewUUID(), kernel.NewUUID()
	repo := new(MockOrderRepository)
	factory := new(MockOrderUoWFactory)
	publisher := new(MockPublisher)

	cancelled := storedOrder(t, id, owner, order.Cancelled)
	uow := expectAttempt(t, factory, repo, storedOrder(t, id, owner, order.OutForDelivery))
	mock.InOrder(
		repo.On("Cancel", ctx, id, owner, order.OutForDelivery).Return(cancelled, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("OrderStatusChanged", ctx, cancelled).Return(nil).Once(),
	)

	cmd, err := commands.NewCancelOrderCommand(id, owner)
	require.NoError(t, err)
	h := commands.NewCancelOrderCommandHandler(factory, publisher, discardLogger())
	got, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, got.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_NotOwnedIsNotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	repo := new(MockOrderRepository)
	factory := new(MockOrderUoWFactory)

	uow := expectAttempt(t, factory, repo, storedOrder(t, id, kernel.NewUUID(), order.Received))

	cmd, err := commands.NewCancelOrderCommand(id, kernel.NewUUID())
	require.NoError(t, err)
	h := commands.NewCancelOrderCommandHandler(factory, new(MockPublisher), discardLogger())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_TerminalStatuses(t *testing.T) {
	tests := []struct {
		status  order.Status
		message string
	}{
		{order.Delivered, "Order is already delivered, it cannot be cancelled"},
		{order.Cancelled, "Order is already cancelled, no further updates are allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			ctx := t.Context()
			id, owner := kernel.NewUUID(), kernel.NewUUID()
			repo := new(MockOrderRepository)
			factory := new(MockOrderUoWFactory)
			expectAttempt(t, factory, repo, storedOrder(t, id, owner, tt.status))

			cmd, err := commands.NewCancelOrderCommand(id, owner)
			require.NoError(t, err)
			h := commands.NewCancelOrderCommandHandler(factory, new(MockPublisher), discardLogger())
			_, err = h.Handle(ctx, cmd)

			require.ErrorIs(t, err, order.ErrInvalidTransition)
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestCancelOrderCommandHandler_Handle_LostRaceToDelivery(t *testing.T) {
	ctx := t.Context()
	id, owner := kernel.NewUUID(), kernel.NewUUID()
	repo := new(MockOrderRepository)
	factory := new(MockOrderUoWFactory)

	expectAttempt(t, factory, repo, storedOrder(t, id, owner, order.OutForDelivery))
	repo.On("Cancel", ctx, id, owner, order.OutForDelivery).Return(nil, nil).Once()
	expectAttempt(t, factory, repo, storedOrder(t, id, owner, order.Delivered))

	cmd, err := commands.NewCancelOrderCommand(id, owner)
	require.NoError(t, err)
	h := commands.NewCancelOrderCommandHandler(factory, new(MockPublisher), discardLogger())
	_, err = h.Handle(ctx, cmd)

	var te *order.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, order.AlreadyDelivered, te.Kind)
	repo.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockOrderUoWFactory)
	h := commands.NewCancelOrderCommandHandler(factory, new(MockPublisher), discardLogger())

	_, err := h.Handle(t.Context(), commands.CancelOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCancelOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
