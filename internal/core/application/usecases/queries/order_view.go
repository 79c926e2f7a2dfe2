// Package queries contains read-only operations of the order service.
// Query handlers read straight from the database with raw SQL and return
// flat view structs ready for JSON encoding; they never load aggregates.
package queries

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// OrderView is the API representation of an order with its snapshot.
type OrderView struct {
	ID          kernel.UUID  `json:"id"`
	OrderCode   string       `json:"order_code"`
	UserID      kernel.UUID  `json:"user_id"`
	TotalQty    int          `json:"total_qty"`
	FinalAmount kernel.Money `json:"final_amount"`
	OrderStatus string       `json:"order_status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Address     AddressView  `json:"address"`
	Items       []ItemView   `json:"items"`
}

// AddressView is the delivery address as it was at checkout.
type AddressView struct {
	SaveAs         string `json:"save_as"`
	Pincode        string `json:"pincode"`
	City           string `json:"city"`
	State          string `json:"state"`
	HouseNumber    string `json:"house_number"`
	StreetLocality string `json:"street_locality"`
	Mobile         string `json:"mobile"`
}

// ItemView is one priced line of an order.
type ItemView struct {
	ID           kernel.UUID  `json:"id"`
	ProductID    kernel.UUID  `json:"product_id"`
	ProductName  string       `json:"product_name"`
	ProductPrice kernel.Money `json:"product_price"`
	Qty          int          `json:"qty"`
	Subtotal     kernel.Money `json:"subtotal"`
	CreatedAt    time.Time    `json:"created_at"`
}

// NewOrderView renders an aggregate returned by a command handler.
func NewOrderView(o *order.Order) OrderView {
	a := o.Address()
	view := OrderView{
		ID:          o.ID(),
		OrderCode:   o.Code(),
		UserID:      o.UserID(),
		TotalQty:    o.TotalQty(),
		FinalAmount: o.FinalAmount(),
		OrderStatus: o.Status().String(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
		Address: AddressView{
			SaveAs:         a.SaveAs,
			Pincode:        a.Pincode,
			City:           a.City,
			State:          a.State,
			HouseNumber:    a.HouseNumber,
			StreetLocality: a.StreetLocality,
			Mobile:         a.Mobile,
		},
		Items: make([]ItemView, 0, len(o.Items())),
	}

	for _, item := range o.Items() {
		view.Items = append(view.Items, ItemView{
			ID:           item.ID(),
			ProductID:    item.ProductID(),
			ProductName:  item.ProductName(),
			ProductPrice: item.ProductPrice(),
			Qty:          item.Qty(),
			Subtotal:     item.Subtotal(),
			CreatedAt:    item.CreatedAt(),
		})
	}

	return view
}
