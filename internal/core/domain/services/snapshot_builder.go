package services

import (
	"context"
	"errors"
	"fmt"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

var (
	// ErrAddressNotFound is returned when the requested delivery address does not exist.
	ErrAddressNotFound = errors.New("delivery address not found")

	// ErrAddressNotOwned is returned when the address belongs to another user.
	ErrAddressNotOwned = errors.New("delivery address belongs to another user")

	// ErrInvalidQuantity is returned for a line whose quantity is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// ProductNotFoundError names the product that could not be resolved at checkout.
type ProductNotFoundError struct {
	ProductID kernel.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product not found: %s. It may have been removed.", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error {
	return errs.ErrObjectNotFound
}

// RequestedLine is one (product, quantity) pair of a checkout request.
type RequestedLine struct {
	ProductID kernel.UUID
	Qty       int
}

// CheckoutRequest is what a customer submits when placing an order.
type CheckoutRequest struct {
	UserID    kernel.UUID
	AddressID kernel.UUID
	Lines     []RequestedLine
}

// SnapshotBuilder is a domain service that turns a checkout request into an
// immutable order.Checkout. Prices always come from the product catalog at
// build time; the request carries no prices at all.
//
// Business rules:
//   - The address must exist and belong to the requesting user
//   - Every quantity must be a positive integer
//   - Every product must exist
//   - subtotal = current price × qty; totals are summed over all lines
//
// The builder performs no writes. Readers are passed per call so the lookups
// run inside the caller's unit of work.
//
// Example usage:
//
//	builder := services.NewSnapshotBuilder()
//	checkout, err := builder.Build(ctx, uow.AddressReader(), uow.ProductReader(), req)
//	var notFound *services.ProductNotFoundError
//	if errors.As(err, &notFound) {
//	    // reject the request naming notFound.ProductID
//	}
type SnapshotBuilder struct{}

// NewSnapshotBuilder creates a new SnapshotBuilder instance.
func NewSnapshotBuilder() SnapshotBuilder {
	return SnapshotBuilder{}
}

// Build resolves the address and products of req and returns the checkout.
//
// Returns:
//   - order.Checkout: the frozen snapshot with totals
//   - error: ErrAddressNotFound, ErrAddressNotOwned, ErrInvalidQuantity,
//     *ProductNotFoundError, or a reader failure
func (SnapshotBuilder) Build(
	ctx context.Context,
	addresses ports.AddressReader,
	products ports.ProductReader,
	req CheckoutRequest,
) (order.Checkout, error) {
	if len(req.Lines) == 0 {
		return order.Checkout{}, order.ErrCheckoutIsEmpty
	}

	address, err := addresses.GetAddress(ctx, req.AddressID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return order.Checkout{}, fmt.Errorf("%w: %s", ErrAddressNotFound, req.AddressID)
		}
		return order.Checkout{}, err
	}
	if !address.UserID.IsEqual(req.UserID) {
		return order.Checkout{}, fmt.Errorf("%w: %s", ErrAddressNotOwned, req.AddressID)
	}

	items := make([]order.LineItem, 0, len(req.Lines))
	for i, line := range req.Lines {
		if line.Qty <= 0 {
			return order.Checkout{}, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}

		product, getErr := products.GetProduct(ctx, line.ProductID)
		if getErr != nil {
			if errors.Is(getErr, errs.ErrObjectNotFound) {
				return order.Checkout{}, &ProductNotFoundError{ProductID: line.ProductID}
			}
			return order.Checkout{}, getErr
		}

		item, itemErr := order.NewLineItem(product.ID, product.Name, product.Price, line.Qty)
		if itemErr != nil {
			return order.Checkout{}, itemErr
		}
		items = append(items, item)
	}

	return order.NewCheckout(snapshotOf(address), items)
}

func snapshotOf(a ports.Address) order.AddressSnapshot {
	return order.AddressSnapshot{
		SaveAs:         a.SaveAs,
		Pincode:        a.Pincode,
		City:           a.City,
		State:          a.State,
		HouseNumber:    a.HouseNumber,
		StreetLocality: a.StreetLocality,
		Mobile:         a.Mobile,
	}
}
