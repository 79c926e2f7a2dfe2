package order

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is the sentinel every *TransitionError unwraps to.
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionErrorKind tags why the state machine rejected a transition.
type TransitionErrorKind int

const (
	// AlreadyCancelled rejects every update of a cancelled order.
	AlreadyCancelled TransitionErrorKind = iota + 1

	// AlreadyDelivered rejects every update of a delivered order, including cancellation.
	AlreadyDelivered

	// WrongNextStep rejects skips and backward moves; Expected names the only allowed next status.
	WrongNextStep
)

func (k TransitionErrorKind) String() string {
	switch k {
	case AlreadyCancelled:
		return "AlreadyCancelled"
	case AlreadyDelivered:
		return "AlreadyDelivered"
	case WrongNextStep:
		return "WrongNextStep"
	default:
		return "Unknown"
	}
}

// TransitionError is the rejection returned by Status.CheckTransition.
// Error renders the message shown to API clients.
type TransitionError struct {
	Kind     TransitionErrorKind
	From     Status
	To       Status
	Expected Status
}

func (e *TransitionError) Error() string {
	switch e.Kind {
	case AlreadyCancelled:
		return "Order is already cancelled, no further updates are allowed"
	case AlreadyDelivered:
		if e.To == Cancelled {
			return "Order is already delivered, it cannot be cancelled"
		}
		return "Order is already delivered, no further updates are allowed"
	case WrongNextStep:
		return fmt.Sprintf("Invalid status transition from %q to %q. The next allowed status is %q",
			e.From.String(), e.To.String(), e.Expected.String())
	default:
		return ErrInvalidTransition.Error()
	}
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
