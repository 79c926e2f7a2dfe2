package commands_test

import (
	"errors"
	"testing"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// expectAttempt wires one unit of work whose Get returns current.
func expectAttempt(
	t *testing.T,
	factory *MockOrderUoWFactory,
	repo *MockOrderRepository,
	current *order.Order,
) *MockOrderUoW {
	t.Helper()
	ctx := t.Context()

	uow := new(MockOrderUoW)
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, current.ID()).Return(current, nil).Once()
	return uow
}

func TestChangeOrderStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	id, owner := kernel.NewUUID(), kernel.NewUUID()
	repo := new(MockOrderRepository)
	factory := new(MockOrderUoWFactory)
	publisher := new(MockPublisher)

	current := storedOrder(t, id, owner, order.Received)
	updated := storedOrder(t, id, owner, order.Preparing)
	uow := expectAttempt(t, factory, repo, current)
	mock.InOrder(
		repo.On("UpdateStatus", ctx, id, order.Received, order.Preparing).Return(updated, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("OrderStatusChanged", ctx, updated).Return(nil).Once(),
	)

	cmd, err := commands.NewChangeOrderStatusCommand(id, order.Preparing)
	require.NoError(t, err)
	h := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger())
	got, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Preparing, got.Status())

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_RejectedTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current order.Status
		target  order.Status
		kind    order.TransitionErrorKind
		message string
	}{
		{
			name:    "skip",
			current: order.Received,
			target:  order.Delivered,
			kind:    order.WrongNextStep,
			message: `Invalid status transition from "Order Received" to "Delivered". The next allowed status is "Preparing"`,
		},
		{
			name:    "backwards",
			current: order.OutForDelivery,
			target:  order.Preparing,
			kind:    order.WrongNextStep,
			message: `Invalid status transition from "Out for Delivery" to "Preparing". The next allowed status is "Delivered"`,
		},
		{
			name:    "after delivery",
			current: order.Delivered,
			target:  order.Preparing,
			kind:    order.AlreadyDelivered,
			message: "Order is already delivered, no further updates are allowed",
		},
		{
			name:    "after cancellation",
			current: order.Cancelled,
			target:  order.Preparing,
			kind:    order.AlreadyCancelled,
			message: "Order is already cancelled, no further updates are allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			repo := new(MockOrderRepository)
			factory := new(MockOrderUoWFactory)
			publisher := new(MockPublisher)
			current := storedOrder(t, kernel.NewUUID(), kernel.NewUUID(), tt.current)
			uow := expectAttempt(t, factory, repo, current)

			cmd, err := commands.NewChangeOrderStatusCommand(current.ID(), tt.target)
			require.NoError(t, err)
			h := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger())
			_, err = h.Handle(ctx, cmd)

			var te *order.TransitionError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.kind, te.Kind)
			assert.EqualError(t, err, tt.message)

			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			publisher.AssertNotCalled(t, "OrderStatusChanged", mock.Anything, mock.Anything)
			uow.AssertExpectations(t)
		})
	}
}

func TestChangeOrderStatusCommandHandler_Handle_LostRaceRevalidates(t *testing.T) {
	ctx := t.Context()
	id, owner := kernel.NewUUID(), kernel.NewUUID()
	repo := new(MockOrderRepository)
	factory := new(MockOrderUoWFactory)
	publisher := new(MockPublisher)

	// First read sees Preparing, but a concurrent cancel lands before the write.
	first := expectAttempt(t, factory, repo, storedOrder(t, id, owner, order.Preparing))
	repo.On("UpdateStatus", ctx, id, order.Preparing, order.OutForDelivery).Return(nil, nil).Once()
	second := expectAttempt(t, factory, repo, storedOrder(t, id, owner, order.Cancelled))

	cmd, err := commands.NewChangeOrderStatusCommand(id, order.OutForDelivery)
	require.NoError(t, err)
	h := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger())
	_, err = h.Handle(ctx, cmd)

	var te *order.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, order.AlreadyCancelled, te.Kind)
	first.AssertNotCalled(t, "Commit", ctx)
	second.AssertNotCalled(t, "Commit", ctx)
	factory.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_ConflictAfterRetries(t *testing.T) {
	ctx := t.Context()
	id, owner := kernel.NewUUID(), kernel.NewUUID()
	repo := new(MockOrderRepository)
	factory := new(MockOrderUoWFactory)

	for range 3 {
		expectAttempt(t, factory, repo, storedOrder(t, id, owner, order.Received))
	}
	repo.On("UpdateStatus", ctx, id, order.Received, order.Preparing).Return(nil, nil).Times(3)

	cmd, err := commands.NewChangeOrderStatusCommand(id, order.Preparing)
	require.NoError(t, err)
	h := commands.NewChangeOrderStatusCommandHandler(factory, new(MockPublisher), discardLogger())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	factory.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)

	factory.On("Create").Return(uow).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewChangeOrderStatusCommand(id, order.Preparing)
	require.NoError(t, err)
	h := commands.NewChangeOrderStatusCommandHandler(factory, new(MockPublisher), discardLogger())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_PublishErrorIsNotFatal(t *testing.T) {
	ctx := t.Context()
	id, owner := kernel.NewUUID(), kernel.NewUUID()
	repo := new(MockOrderRepository)
	factory := new(MockOrderUoWFactory)
	publisher := new(MockPublisher)

	updated := storedOrder(t, id, owner, order.Delivered)
	uow := expectAttempt(t, factory, repo, storedOrder(t, id, owner, order.OutForDelivery))
	repo.On("UpdateStatus", ctx, id, order.OutForDelivery, order.Delivered).Return(updated, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	publisher.On("OrderStatusChanged", ctx, updated).Return(errors.New("redis down")).Once()

	cmd, err := commands.NewChangeOrderStatusCommand(id, order.Delivered)
	require.NoError(t, err)
	h := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger())
	got, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Same(t, updated, got)
	publisher.AssertExpectations(t)
}
