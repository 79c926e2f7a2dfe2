package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetMyOrdersQueryHandler reads a customer's order history.
type GetMyOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetMyOrdersQueryHandler creates a handler for order history queries.
func NewGetMyOrdersQueryHandler(db *gorm.DB) GetMyOrdersQueryHandler {
	return GetMyOrdersQueryHandler{db: db}
}

// Handle returns the orders sorted by creation time, newest first, each with
// its address snapshot and items. A customer without orders gets an empty slice.
func (h GetMyOrdersQueryHandler) Handle(ctx context.Context, query GetMyOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return readOrders(ctx, h.db, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, query.UserID().Bytes())
}
