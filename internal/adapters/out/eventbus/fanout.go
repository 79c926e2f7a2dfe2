// Package eventbus combines several order event publishers into one.
package eventbus

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// FanOut calls every publisher in order. A failing publisher does not stop
// the others; their errors are joined.
type FanOut struct {
	publishers []ports.OrderEventPublisher
}

// NewFanOut skips nil publishers so optional ones can be passed unconditionally.
func NewFanOut(publishers ...ports.OrderEventPublisher) *FanOut {
	f := &FanOut{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

func (f *FanOut) OrderCreated(ctx context.Context, o *order.Order) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.OrderCreated(ctx, o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *FanOut) OrderStatusChanged(ctx context.Context, o *order.Order) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.OrderStatusChanged(ctx, o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len reports how many publishers are attached.
func (f *FanOut) Len() int {
	return len(f.publishers)
}
