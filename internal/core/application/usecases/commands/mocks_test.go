package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) CreateWithItems(
	ctx context.Context,
	userID kernel.UUID,
	checkout order.Checkout,
) (*order.Order, error) {
	args := m.Called(ctx, userID, checkout)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) GetByUserID(ctx context.Context, userID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(
	ctx context.Context,
	id kernel.UUID,
	expected, next order.Status,
) (*order.Order, error) {
	args := m.Called(ctx, id, expected, next)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) Cancel(
	ctx context.Context,
	id, userID kernel.UUID,
	expected order.Status,
) (*order.Order, error) {
	args := m.Called(ctx, id, userID, expected)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func orderOrNil(v any) *order.Order {
	o, _ := v.(*order.Order)
	return o
}

type MockAddressReader struct{ mock.Mock }

func (m *MockAddressReader) GetAddress(ctx context.Context, id kernel.UUID) (ports.Address, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Address), args.Error(1)
}

type MockProductReader struct{ mock.Mock }

func (m *MockProductReader) GetProduct(ctx context.Context, id kernel.UUID) (ports.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Product), args.Error(1)
}

type MockTx struct{ mock.Mock }

func (m *MockTx) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockOrderUoW struct{ MockTx }

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCheckoutUoW struct{ MockTx }

func (m *MockCheckoutUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockCheckoutUoW) AddressReader() ports.AddressReader {
	args := m.Called()
	return args.Get(0).(ports.AddressReader)
}
func (m *MockCheckoutUoW) ProductReader() ports.ProductReader {
	args := m.Called()
	return args.Get(0).(ports.ProductReader)
}

type MockCheckoutUoWFactory struct{ mock.Mock }

func (m *MockCheckoutUoWFactory) Create() commands.CheckoutUoW {
	args := m.Called()
	return args.Get(0).(commands.CheckoutUoW)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) OrderCreated(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockPublisher) OrderStatusChanged(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// storedOrder builds an order as the repository would load it.
func storedOrder(t *testing.T, id, userID kernel.UUID, status order.Status) *order.Order {
	t.Helper()

	item := order.RestoreLineItem(kernel.NewUUID(), kernel.NewUUID(), "Thali", kernel.MustMoney("150"), 2,
		kernel.MustMoney("300"), time.Now())
	o, err := order.RestoreOrder(order.RestoreParams{
		ID:          id,
		Code:        "ORD-TEST01",
		UserID:      userID,
		Address:     order.AddressSnapshot{City: "Pune", Pincode: "411001"},
		Items:       []order.LineItem{item},
		TotalQty:    2,
		FinalAmount: kernel.MustMoney("300"),
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	require.NoError(t, err)
	return o
}
