package order

import (
	"errors"
	"math"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

var (
	// ErrCheckoutIsEmpty is returned when a checkout has no line items.
	ErrCheckoutIsEmpty = errs.NewValueIsRequiredError("items")

	// ErrCheckoutIsNotConstructed is returned for a zero-value Checkout.
	ErrCheckoutIsNotConstructed = errors.New("Checkout must be created via NewCheckout constructor")

	// ErrCheckoutExceedsLimits is returned when a quantity or amount does not
	// fit the stored columns (32-bit quantities, NUMERIC(12,2) amounts).
	ErrCheckoutExceedsLimits = errors.New("Order exceeds the maximum allowed quantity or amount")
)

// MaxTotalQty bounds total_qty of one order.
const MaxTotalQty = math.MaxInt32

// MaxAmount bounds every subtotal and the final amount.
var MaxAmount = kernel.MustMoney("9999999999.99")

// AddressSnapshot is the delivery address copied at checkout. Later edits or
// deletion of the saved address never reach it.
type AddressSnapshot struct {
	SaveAs         string
	Pincode        string
	City           string
	State          string
	HouseNumber    string
	StreetLocality string
	Mobile         string
}

// LineItem is one product of an order with the name and price it had at checkout.
type LineItem struct {
	id           kernel.UUID
	productID    kernel.UUID
	productName  string
	productPrice kernel.Money
	qty          int
	subtotal     kernel.Money
	createdAt    time.Time
}

// NewLineItem snapshots a product line and computes subtotal = price × qty.
func NewLineItem(productID kernel.UUID, productName string, productPrice kernel.Money, qty int) (LineItem, error) {
	if err := productID.Validate(); err != nil {
		return LineItem{}, err
	}
	if productName == "" {
		return LineItem{}, errs.NewValueIsRequiredError("product_name")
	}
	if qty <= 0 {
		return LineItem{}, errs.NewValueIsOutOfRangeError("qty", qty, 1, "unbounded")
	}

	return LineItem{
		id:           kernel.NewUUID(),
		productID:    productID,
		productName:  productName,
		productPrice: productPrice,
		qty:          qty,
		subtotal:     productPrice.MulQty(qty),
	}, nil
}

// RestoreLineItem rebuilds a persisted line item without recomputing its subtotal.
func RestoreLineItem(
	id, productID kernel.UUID,
	productName string,
	productPrice kernel.Money,
	qty int,
	subtotal kernel.Money,
	createdAt time.Time,
) LineItem {
	return LineItem{
		id:           id,
		productID:    productID,
		productName:  productName,
		productPrice: productPrice,
		qty:          qty,
		subtotal:     subtotal,
		createdAt:    createdAt,
	}
}

func (i LineItem) ID() kernel.UUID            { return i.id }
func (i LineItem) ProductID() kernel.UUID     { return i.productID }
func (i LineItem) ProductName() string        { return i.productName }
func (i LineItem) ProductPrice() kernel.Money { return i.productPrice }
func (i LineItem) Qty() int                   { return i.qty }
func (i LineItem) Subtotal() kernel.Money     { return i.subtotal }
func (i LineItem) CreatedAt() time.Time       { return i.createdAt }

// Checkout is the immutable, validated input an Order is created from:
// the address snapshot, the priced line items and the totals derived from them.
// It is produced by the snapshot builder and never persisted on its own.
type Checkout struct {
	address     AddressSnapshot
	items       []LineItem
	totalQty    int
	finalAmount kernel.Money
	constructed bool
}

// NewCheckout aggregates total_qty and final_amount from items.
func NewCheckout(address AddressSnapshot, items []LineItem) (Checkout, error) {
	if len(items) == 0 {
		return Checkout{}, ErrCheckoutIsEmpty
	}

	totalQty := 0
	finalAmount := kernel.ZeroMoney()
	for _, item := range items {
		if item.subtotal.GreaterThan(MaxAmount) {
			return Checkout{}, ErrCheckoutExceedsLimits
		}
		totalQty += item.qty
		finalAmount = finalAmount.Add(item.subtotal)
	}
	if totalQty > MaxTotalQty || finalAmount.GreaterThan(MaxAmount) {
		return Checkout{}, ErrCheckoutExceedsLimits
	}

	return Checkout{
		address:     address,
		items:       append([]LineItem(nil), items...),
		totalQty:    totalQty,
		finalAmount: finalAmount,
		constructed: true,
	}, nil
}

// Validate rejects a zero-value Checkout.
func (c Checkout) Validate() error {
	if !c.constructed {
		return ErrCheckoutIsNotConstructed
	}
	return nil
}

func (c Checkout) Address() AddressSnapshot  { return c.address }
func (c Checkout) TotalQty() int             { return c.totalQty }
func (c Checkout) FinalAmount() kernel.Money { return c.finalAmount }

// Items returns a copy; the checkout itself cannot be modified.
func (c Checkout) Items() []LineItem {
	return append([]LineItem(nil), c.items...)
}
