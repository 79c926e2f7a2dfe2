package order_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckout(t *testing.T) order.Checkout {
	t.Helper()

	burger, err := order.NewLineItem(kernel.NewUUID(), "Burger", kernel.MustMoney("120"), 2)
	require.NoError(t, err)
	fries, err := order.NewLineItem(kernel.NewUUID(), "Fries", kernel.MustMoney("49.50"), 1)
	require.NoError(t, err)

	checkout, err := order.NewCheckout(order.AddressSnapshot{
		SaveAs:         "Home",
		Pincode:        "560001",
		City:           "Bengaluru",
		State:          "Karnataka",
		HouseNumber:    "12B",
		StreetLocality: "MG Road",
		Mobile:         "9876543210",
	}, []order.LineItem{burger, fries})
	require.NoError(t, err)

	return checkout
}

func TestNewLineItem(t *testing.T) {
	t.Run("computes subtotal", func(t *testing.T) {
		item, err := order.NewLineItem(kernel.NewUUID(), "Pizza", kernel.MustMoney("199.99"), 3)
		require.NoError(t, err)
		assert.Equal(t, "599.97", item.Subtotal().String())
		assert.NoError(t, item.ID().Validate())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		for _, qty := range []int{0, -1} {
			_, err := order.NewLineItem(kernel.NewUUID(), "Pizza", kernel.MustMoney("1"), qty)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("requires product id and name", func(t *testing.T) {
		_, err := order.NewLineItem(kernel.UUID{}, "Pizza", kernel.MustMoney("1"), 1)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = order.NewLineItem(kernel.NewUUID(), "", kernel.MustMoney("1"), 1)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestNewCheckout(t *testing.T) {
	t.Run("aggregates totals", func(t *testing.T) {
		checkout := newCheckout(t)
		assert.Equal(t, 3, checkout.TotalQty())
		assert.Equal(t, "289.50", checkout.FinalAmount().String())
		assert.Len(t, checkout.Items(), 2)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		_, err := order.NewCheckout(order.AddressSnapshot{}, nil)
		require.ErrorIs(t, err, order.ErrCheckoutIsEmpty)
	})

	t.Run("items cannot be modified through the accessor", func(t *testing.T) {
		checkout := newCheckout(t)
		items := checkout.Items()
		items[0] = order.LineItem{}

		assert.Equal(t, "Burger", checkout.Items()[0].ProductName())
	})

	t.Run("rejects totals beyond storage bounds", func(t *testing.T) {
		huge, err := order.NewLineItem(kernel.NewUUID(), "Pizza", kernel.MustMoney("199"), order.MaxTotalQty)
		require.NoError(t, err)
		_, err = order.NewCheckout(order.AddressSnapshot{}, []order.LineItem{huge})
		require.ErrorIs(t, err, order.ErrCheckoutExceedsLimits)

		free, err := order.NewLineItem(kernel.NewUUID(), "Mint", kernel.MustMoney("0"), order.MaxTotalQty)
		require.NoError(t, err)
		_, err = order.NewCheckout(order.AddressSnapshot{}, []order.LineItem{free, free})
		require.ErrorIs(t, err, order.ErrCheckoutExceedsLimits, "total_qty overflows 32 bits")

		pricey, err := order.NewLineItem(kernel.NewUUID(), "Catering", kernel.MustMoney("6000000000"), 1)
		require.NoError(t, err)
		_, err = order.NewCheckout(order.AddressSnapshot{}, []order.LineItem{pricey, pricey})
		require.ErrorIs(t, err, order.ErrCheckoutExceedsLimits, "final amount overflows NUMERIC(12,2)")

		atLimit, err := order.NewLineItem(kernel.NewUUID(), "Catering", order.MaxAmount, 1)
		require.NoError(t, err)
		_, err = order.NewCheckout(order.AddressSnapshot{}, []order.LineItem{atLimit})
		require.NoError(t, err)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		require.ErrorIs(t, order.Checkout{}.Validate(), order.ErrCheckoutIsNotConstructed)
	})
}

func TestNewOrder(t *testing.T) {
	userID := kernel.NewUUID()
	checkout := newCheckout(t)

	t.Run("starts in Order Received", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), "ORD-ABC123", userID, checkout)
		require.NoError(t, err)

		assert.Equal(t, order.Received, o.Status())
		assert.Equal(t, "ORD-ABC123", o.Code())
		assert.True(t, o.IsOwnedBy(userID))
		assert.False(t, o.IsOwnedBy(kernel.NewUUID()))
		assert.Equal(t, checkout.TotalQty(), o.TotalQty())
		assert.True(t, checkout.FinalAmount().Equal(o.FinalAmount()))
		assert.Equal(t, "Bengaluru", o.Address().City)
		require.NoError(t, o.Validate())
	})

	t.Run("reports every invalid argument", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, "bad", kernel.UUID{}, order.Checkout{})
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, order.ErrCheckoutIsNotConstructed)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_ChangeStatus(t *testing.T) {
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-ABC123", kernel.NewUUID(), newCheckout(t))
	require.NoError(t, err)

	require.NoError(t, o.ChangeStatus(order.Preparing))
	require.Error(t, o.ChangeStatus(order.Delivered))
	assert.Equal(t, order.Preparing, o.Status(), "rejected transition leaves status unchanged")

	require.NoError(t, o.Cancel())
	assert.Equal(t, order.Cancelled, o.Status())

	var te *order.TransitionError
	require.ErrorAs(t, o.Cancel(), &te)
	assert.Equal(t, order.AlreadyCancelled, te.Kind)
}

func TestRestoreOrder(t *testing.T) {
	item := order.RestoreLineItem(kernel.NewUUID(), kernel.NewUUID(), "Tea", kernel.MustMoney("10"), 2,
		kernel.MustMoney("20"), testTime)

	o, err := order.RestoreOrder(order.RestoreParams{
		ID:          kernel.NewUUID(),
		Code:        "ORD-TEA001",
		UserID:      kernel.NewUUID(),
		Items:       []order.LineItem{item},
		TotalQty:    2,
		FinalAmount: kernel.MustMoney("20"),
		Status:      order.OutForDelivery,
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	})
	require.NoError(t, err)
	assert.Equal(t, order.OutForDelivery, o.Status())
	assert.Equal(t, "20.00", o.Items()[0].Subtotal().String())

	_, err = order.RestoreOrder(order.RestoreParams{ID: kernel.NewUUID(), Code: "ORD-TEA001", UserID: kernel.NewUUID()})
	require.Error(t, err, "unknown status must not be restored")
}

var testTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
