// Package kernel provides the shared value objects of the order domain.
//
// The package includes:
//   - UUID: identifier of orders, line items, users, addresses and products
//   - Money: fixed point amount used for prices, subtotals and order totals
//
// Both types are immutable and safe for concurrent use. Their zero values are
// either invalid (UUID) or meaningful (Money is 0.00).
package kernel
