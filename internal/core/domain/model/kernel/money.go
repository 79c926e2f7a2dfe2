package kernel

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits kept for every amount.
const moneyScale = 2

// Money is a non-negative fixed point amount rounded to two decimal places.
// Product prices, line item subtotals and order totals are all Money, so
// repeated additions never accumulate binary floating point error.
//
// Example:
//
//	price, _ := kernel.NewMoneyFromString("12.50")
//	subtotal := price.MulQty(3)   // 37.50
//	total := kernel.ZeroMoney().Add(subtotal)
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns 0.00.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney rounds amount to two decimal places and rejects negative values.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), "0", "unbounded")
	}
	return Money{amount: amount.Round(moneyScale)}, nil
}

// NewMoneyFromString parses a decimal literal such as "199.00".
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%q is not a decimal: %w", s, err))
	}
	return NewMoney(d)
}

// MustMoney is NewMoneyFromString for literals known to be valid; it panics otherwise.
func MustMoney(s string) Money {
	m, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount).Round(moneyScale)}
}

// MulQty returns m × qty.
func (m Money) MulQty(qty int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(qty))).Round(moneyScale)}
}

// Decimal exposes the amount for persistence.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Equal compares amounts numerically, so 5 and 5.00 are equal.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String returns the amount with exactly two decimals, e.g. "37.50".
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}
