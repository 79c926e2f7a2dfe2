package order

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Order Received ──> Preparing ──> Out for Delivery ──> Delivered
//	      │                │                 │
//	      └────────────────┴─────────────────┴──────────> Cancelled
//
// Delivered and Cancelled are terminal. Status persists as its exact literal
// string ("Order Received", "Out for Delivery", ...), never as the integer.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Received is the initial status of every new order.
	Received

	// Preparing means the kitchen accepted the order.
	Preparing

	// OutForDelivery means the order left the kitchen.
	OutForDelivery

	// Delivered is terminal.
	Delivered

	// Cancelled is terminal and reachable from every active status.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Received:       "Order Received",
		Preparing:      "Preparing",
		OutForDelivery: "Out for Delivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Received:       "Order Received",
		Preparing:      "Preparing",
		OutForDelivery: "Out for Delivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// successors is the linear forward chain. A status is active exactly when it
// has a successor; Cancelled is a side exit and is not part of the chain.
func successors() map[Status]Status {
	//nolint:exhaustive // terminal statuses have no successor
	return map[Status]Status{
		Received:       Preparing,
		Preparing:      OutForDelivery,
		OutForDelivery: Delivered,
	}
}

// AllStatuses returns the five valid statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{Received, Preparing, OutForDelivery, Delivered, Cancelled}
}

// ActiveStatuses returns the statuses an order can still leave, in lifecycle order.
// The order store builds its cancel guard from this list.
func ActiveStatuses() []Status {
	next := successors()
	active := make([]Status, 0, len(next))
	for _, s := range AllStatuses() {
		if _, ok := next[s]; ok {
			active = append(active, s)
		}
	}
	return active
}

// ParseStatus maps an exact literal ("Out for Delivery") to its Status.
// Matching is case sensitive; "Unknown" is not accepted.
func ParseStatus(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("order_status", fmt.Errorf("%q is not a known status", s))
}

// Validate checks that s is one of the five known statuses.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted literal, or "Unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsActive reports whether the order can still move forward or be cancelled.
func (s Status) IsActive() bool {
	_, ok := successors()[s]
	return ok
}

// IsTerminal reports whether s is Delivered or Cancelled.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Next returns the single allowed forward successor of s.
// The boolean is false for terminal and invalid statuses.
func (s Status) Next() (Status, bool) {
	next, ok := successors()[s]
	return next, ok
}

// CheckTransition decides whether an order in status s may move to next.
// It is pure and the only place transition rules live; both the status
// update and the cancel flows consult it before writing.
//
// Rules, evaluated in order:
//  1. s is Cancelled: every target is rejected (AlreadyCancelled).
//  2. s is Delivered: every target is rejected (AlreadyDelivered).
//  3. next is Cancelled and s is active: accepted.
//  4. next must equal s.Next(), otherwise WrongNextStep naming the successor.
//
// Returns:
//   - nil when the transition is allowed
//   - *TransitionError when the state machine rejects it
//   - *errs.ValueIsInvalidError when s or next is not a known status
//
// Example:
//
//	if err := current.CheckTransition(order.Cancelled); err != nil {
//	    var te *order.TransitionError
//	    if errors.As(err, &te) && te.Kind == order.AlreadyDelivered {
//	        // too late to cancel
//	    }
//	}
func (s Status) CheckTransition(next Status) error {
	if err := next.Validate(); err != nil {
		return err
	}

	switch s {
	case Cancelled:
		return &TransitionError{Kind: AlreadyCancelled, From: s, To: next}
	case Delivered:
		return &TransitionError{Kind: AlreadyDelivered, From: s, To: next}
	}

	expected, ok := s.Next()
	if !ok {
		return s.Validate()
	}

	if next == Cancelled || next == expected {
		return nil
	}

	return &TransitionError{Kind: WrongNextStep, From: s, To: next, Expected: expected}
}
