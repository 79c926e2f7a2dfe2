package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a customer's checkout request.
// It carries only identifiers and quantities; prices are always read from the
// catalog when the order is snapshotted.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(userID, addressID, []services.RequestedLine{
//	    {ProductID: burgerID, Qty: 2},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, publisher, logger)
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	fmt.Printf("Order %s placed", created.Code())
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	userID    kernel.UUID
	addressID kernel.UUID
	lines     []services.RequestedLine

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates both identifiers and requires at least one line. Quantities are
// checked by the snapshot builder so the error names the offending line.
func NewCreateOrderCommand(
	userID, addressID kernel.UUID,
	lines []services.RequestedLine,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setAddressID(addressID),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// UserID returns the customer placing the order.
func (c CreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

// AddressID returns the saved address to deliver to.
func (c CreateOrderCommand) AddressID() kernel.UUID {
	return c.addressID
}

// Lines returns a copy of the requested lines.
func (c CreateOrderCommand) Lines() []services.RequestedLine {
	out := make([]services.RequestedLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c CreateOrderCommand) checkoutRequest() services.CheckoutRequest {
	return services.CheckoutRequest{
		UserID:    c.userID,
		AddressID: c.addressID,
		Lines:     c.Lines(),
	}
}

func (c *CreateOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *CreateOrderCommand) setAddressID(addressID kernel.UUID) error {
	if err := addressID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("address_id", err)
	}

	c.addressID = addressID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []services.RequestedLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	c.lines = make([]services.RequestedLine, len(lines))
	copy(c.lines, lines)
	return nil
}
