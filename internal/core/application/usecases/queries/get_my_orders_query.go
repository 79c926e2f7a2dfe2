package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetMyOrdersQueryIsNotConstructed = errors.New(
	"GetMyOrdersQuery must be created via NewGetMyOrdersQuery constructor",
)

// GetMyOrdersQuery lists every order of one customer, newest first.
//
// Example:
//
//	query, err := NewGetMyOrdersQuery(callerID)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
//	fmt.Printf("Found %d orders\n", len(orders))
type GetMyOrdersQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetMyOrdersQuery creates a query for the caller's orders.
func NewGetMyOrdersQuery(userID kernel.UUID) (GetMyOrdersQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetMyOrdersQuery{}, err
	}
	return GetMyOrdersQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetMyOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetMyOrdersQueryIsNotConstructed)
}

// UserID returns the owner whose orders are listed.
func (q GetMyOrdersQuery) UserID() kernel.UUID {
	return q.userID
}
