package order

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the order lifecycle.
//
// Order follows these invariants:
//   - id, code and userID are set at creation and never change
//   - totalQty and finalAmount are derived from the line items once, at creation
//   - the address snapshot and line items are immutable
//   - status only moves along the transitions accepted by Status.CheckTransition
//
// Orders are never deleted; Cancelled is a terminal status, not a removal.
type Order struct {
	id          kernel.UUID
	code        string
	userID      kernel.UUID
	address     AddressSnapshot
	items       []LineItem
	totalQty    int
	finalAmount kernel.Money
	status      Status
	createdAt   time.Time
	updatedAt   time.Time

	isConstructed bool
}

// NewOrder creates an order in status Order Received from a validated checkout.
//
// Parameters:
//   - id: identifier of the new order
//   - code: unique human readable code, see GenerateCode
//   - userID: owner of the order
//   - checkout: address snapshot, priced items and totals
//
// Example:
//
//	code, _ := order.GenerateCode()
//	o, err := order.NewOrder(kernel.NewUUID(), code, callerID, checkout)
//	if err != nil {
//	    return err
//	}
func NewOrder(id kernel.UUID, code string, userID kernel.UUID, checkout Checkout) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		ValidateCode(code),
		userID.Validate(),
		checkout.Validate(),
	); err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		code:          code,
		userID:        userID,
		address:       checkout.Address(),
		items:         checkout.Items(),
		totalQty:      checkout.TotalQty(),
		finalAmount:   checkout.FinalAmount(),
		status:        Received,
		isConstructed: true,
	}, nil
}

// RestoreParams carries every persisted field of an order.
type RestoreParams struct {
	ID          kernel.UUID
	Code        string
	UserID      kernel.UUID
	Address     AddressSnapshot
	Items       []LineItem
	TotalQty    int
	FinalAmount kernel.Money
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RestoreOrder rebuilds an order loaded from storage. Totals are taken as
// stored, never recomputed from current prices.
func RestoreOrder(p RestoreParams) (*Order, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.UserID.Validate(),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if p.Code == "" {
		return nil, errs.NewValueIsRequiredError("order_code")
	}

	return &Order{
		id:            p.ID,
		code:          p.Code,
		userID:        p.UserID,
		address:       p.Address,
		items:         append([]LineItem(nil), p.Items...),
		totalQty:      p.TotalQty,
		finalAmount:   p.FinalAmount,
		status:        p.Status,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
		isConstructed: true,
	}, nil
}

// Validate rejects zero-value orders.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID              { return o.id }
func (o *Order) Code() string                 { return o.code }
func (o *Order) UserID() kernel.UUID          { return o.userID }
func (o *Order) Address() AddressSnapshot     { return o.address }
func (o *Order) TotalQty() int                { return o.totalQty }
func (o *Order) FinalAmount() kernel.Money    { return o.finalAmount }
func (o *Order) Status() Status               { return o.status }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }
func (o *Order) IsOwnedBy(u kernel.UUID) bool { return o.userID.IsEqual(u) }

// Items returns a copy of the line items.
func (o *Order) Items() []LineItem {
	return append([]LineItem(nil), o.items...)
}

// ChangeStatus moves the order to next if the state machine allows it.
// The aggregate is left untouched on rejection.
func (o *Order) ChangeStatus(next Status) error {
	if err := o.status.CheckTransition(next); err != nil {
		return err
	}
	o.status = next
	return nil
}

// Cancel is ChangeStatus(Cancelled).
func (o *Order) Cancel() error {
	return o.ChangeStatus(Cancelled)
}
