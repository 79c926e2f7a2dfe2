// Package order provides the Order aggregate of the food-delivery platform
// together with the rules that govern its lifecycle.
//
// The package includes:
//   - Order: the aggregate root holding identity, owner, totals, status and the
//     immutable address and price snapshot taken at checkout
//   - Checkout: the validated snapshot an order is created from
//   - Status: the forward-only state machine and its transition validator
//   - Code generation for the human readable "ORD-XXXXXX" order codes
//
// Key business rules:
//   - Status follows Order Received -> Preparing -> Out for Delivery -> Delivered
//   - Cancelled is reachable from any of the first three states
//   - Delivered and Cancelled are terminal
//   - Totals are derived from line items once, at creation, and never recomputed
package order
