// Package services provides domain services of the order subsystem: business
// operations that need collaborators outside the Order aggregate.
//
// The package includes:
//   - SnapshotBuilder: resolves the delivery address and current product prices
//     and freezes them into an order.Checkout
package services
