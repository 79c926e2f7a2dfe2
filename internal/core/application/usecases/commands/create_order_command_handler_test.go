package commands_test

import (
	"errors"
	"testing"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type createFixture struct {
	userID    kernel.UUID
	address   ports.Address
	product   ports.Product
	cmd       commands.CreateOrderCommand
	repo      *MockOrderRepository
	addresses *MockAddressReader
	products  *MockProductReader
	uow       *MockCheckoutUoW
	factory   *MockCheckoutUoWFactory
	publisher *MockPublisher
}

func newCreateFixture(t *testing.T) *createFixture {
	t.Helper()

	userID := kernel.NewUUID()
	f := &createFixture{
		userID:    userID,
		address:   ports.Address{ID: kernel.NewUUID(), UserID: userID, City: "Chennai", Pincode: "600001"},
		product:   ports.Product{ID: kernel.NewUUID(), Name: "Idli", Price: kernel.MustMoney("40")},
		repo:      new(MockOrderRepository),
		addresses: new(MockAddressReader),
		products:  new(MockProductReader),
		uow:       new(MockCheckoutUoW),
		factory:   new(MockCheckoutUoWFactory),
		publisher: new(MockPublisher),
	}

	cmd, err := commands.NewCreateOrderCommand(userID, f.address.ID, []services.RequestedLine{
		{ProductID: f.product.ID, Qty: 3},
	})
	require.NoError(t, err)
	f.cmd = cmd
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("AddressReader").Return(f.addresses).Maybe()
	f.uow.On("ProductReader").Return(f.products).Maybe()

	return f
}

func (f *createFixture) handler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(f.factory, f.publisher, discardLogger())
}

func (f *createFixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.factory.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newCreateFixture(t)
	created := storedOrder(t, kernel.NewUUID(), f.userID, order.Received)

	f.addresses.On("GetAddress", ctx, f.address.ID).Return(f.address, nil).Once()
	f.products.On("GetProduct", ctx, f.product.ID).Return(f.product, nil).Once()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("CreateWithItems", ctx, f.userID, mock.MatchedBy(func(c order.Checkout) bool {
			return c.TotalQty() == 3 && c.FinalAmount().String() == "120.00" && c.Address().City == "Chennai"
		})).Return(created, nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.publisher.On("OrderCreated", ctx, created).Return(nil).Once(),
	)
	f.uow.On("Rollback", ctx).Return(nil).Once()

	h := f.handler()
	got, err := h.Handle(ctx, f.cmd)
	require.NoError(t, err)
	assert.Same(t, created, got)
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockCheckoutUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, new(MockPublisher), discardLogger())

	_, err := h.Handle(ctx, commands.CreateOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	f := newCreateFixture(t)
	f.uow.On("Begin", ctx).Return(errors.New("begin error")).Once()

	h := f.handler()
	_, err := h.Handle(ctx, f.cmd)
	require.Error(t, err)
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AddressNotOwned(t *testing.T) {
	ctx := t.Context()
	f := newCreateFixture(t)
	foreign := f.address
	foreign.UserID = kernel.NewUUID()

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.addresses.On("GetAddress", ctx, f.address.ID).Return(foreign, nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := f.handler()
	_, err := h.Handle(ctx, f.cmd)
	require.ErrorIs(t, err, services.ErrAddressNotOwned)
	f.repo.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_CreateError(t *testing.T) {
	ctx := t.Context()
	f := newCreateFixture(t)

	f.addresses.On("GetAddress", ctx, f.address.ID).Return(f.address, nil).Once()
	f.products.On("GetProduct", ctx, f.product.ID).Return(f.product, nil).Once()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("CreateWithItems", ctx, f.userID, mock.Anything).Return(nil, errors.New("insert error")).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := f.handler()
	_, err := h.Handle(ctx, f.cmd)
	require.EqualError(t, err, "insert error")
	f.uow.AssertNotCalled(t, "Commit", ctx)
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	f := newCreateFixture(t)
	created := storedOrder(t, kernel.NewUUID(), f.userID, order.Received)

	f.addresses.On("GetAddress", ctx, f.address.ID).Return(f.address, nil).Once()
	f.products.On("GetProduct", ctx, f.product.ID).Return(f.product, nil).Once()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("CreateWithItems", ctx, f.userID, mock.Anything).Return(created, nil).Once(),
		f.uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := f.handler()
	_, err := h.Handle(ctx, f.cmd)
	require.Error(t, err)
	f.publisher.AssertNotCalled(t, "OrderCreated", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_PublishErrorIsNotFatal(t *testing.T) {
	ctx := t.Context()
	f := newCreateFixture(t)
	created := storedOrder(t, kernel.NewUUID(), f.userID, order.Received)

	f.addresses.On("GetAddress", ctx, f.address.ID).Return(f.address, nil).Once()
	f.products.On("GetProduct", ctx, f.product.ID).Return(f.product, nil).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.repo).Once()
	f.repo.On("CreateWithItems", ctx, f.userID, mock.Anything).Return(created, nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.publisher.On("OrderCreated", ctx, created).Return(errors.New("broker down")).Once()

	h := f.handler()
	got, err := h.Handle(ctx, f.cmd)
	require.NoError(t, err)
	assert.Same(t, created, got)
	f.assertExpectations(t)
}
