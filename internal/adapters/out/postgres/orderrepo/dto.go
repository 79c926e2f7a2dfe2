// Package orderrepo persists order aggregates with GORM across three tables:
// orders, order_addresses (1:1 address snapshot) and order_items.
// Neither snapshot table references the live addresses or products tables,
// so editing or deleting those never alters a placed order.
package orderrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Status is stored as its exact literal.
type OrderDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderCode   string          `gorm:"size:16;not null;uniqueIndex"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalQty    int             `gorm:"not null"`
	FinalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	OrderStatus string          `gorm:"size:32;not null;index"`
	CreatedAt   time.Time       `gorm:"not null;index"`
	UpdatedAt   time.Time       `gorm:"not null"`

	Address OrderAddressDTO `gorm:"foreignKey:OrderID;references:ID"`
	Items   []OrderItemDTO  `gorm:"foreignKey:OrderID;references:ID"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderAddressDTO is the address snapshot taken at checkout.
type OrderAddressDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SaveAs         string    `gorm:"size:50"`
	Pincode        string    `gorm:"size:10;not null"`
	City           string    `gorm:"size:100;not null"`
	State          string    `gorm:"size:100;not null"`
	HouseNumber    string    `gorm:"size:100;not null"`
	StreetLocality string    `gorm:"size:255;not null"`
	Mobile         string    `gorm:"size:15;not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (OrderAddressDTO) TableName() string {
	return "order_addresses"
}

// OrderItemDTO is one priced line. Position keeps request order among items
// inserted within the same clock tick.
type OrderItemDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName  string          `gorm:"size:255;not null"`
	ProductPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Qty          int             `gorm:"not null"`
	Subtotal     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Position     int             `gorm:"not null;default:0"`
	CreatedAt    time.Time       `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts a new order aggregate into rows; timestamps are filled in by GORM.
func fromDomain(o *order.Order) OrderDTO {
	a := o.Address()
	items := o.Items()

	dto := OrderDTO{
		ID:          o.ID().Bytes(),
		OrderCode:   o.Code(),
		UserID:      o.UserID().Bytes(),
		TotalQty:    o.TotalQty(),
		FinalAmount: o.FinalAmount().Decimal(),
		OrderStatus: o.Status().String(),
		Address: OrderAddressDTO{
			ID:             uuid.New(),
			OrderID:        o.ID().Bytes(),
			SaveAs:         a.SaveAs,
			Pincode:        a.Pincode,
			City:           a.City,
			State:          a.State,
			HouseNumber:    a.HouseNumber,
			StreetLocality: a.StreetLocality,
			Mobile:         a.Mobile,
		},
		Items: make([]OrderItemDTO, 0, len(items)),
	}

	for i, item := range items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:           item.ID().Bytes(),
			OrderID:      o.ID().Bytes(),
			ProductID:    item.ProductID().Bytes(),
			ProductName:  item.ProductName(),
			ProductPrice: item.ProductPrice().Decimal(),
			Qty:          item.Qty(),
			Subtotal:     item.Subtotal().Decimal(),
			Position:     i,
		})
	}

	return dto
}

// toDomain rebuilds the aggregate from rows loaded with Address and Items preloaded.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromGoogle(dto.UserID)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.OrderStatus)
	if err != nil {
		return nil, err
	}

	finalAmount, err := kernel.NewMoney(dto.FinalAmount)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:     id,
		Code:   dto.OrderCode,
		UserID: userID,
		Address: order.AddressSnapshot{
			SaveAs:         dto.Address.SaveAs,
			Pincode:        dto.Address.Pincode,
			City:           dto.Address.City,
			State:          dto.Address.State,
			HouseNumber:    dto.Address.HouseNumber,
			StreetLocality: dto.Address.StreetLocality,
			Mobile:         dto.Address.Mobile,
		},
		Items:       items,
		TotalQty:    dto.TotalQty,
		FinalAmount: finalAmount,
		Status:      status,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
	})
}

func itemToDomain(dto OrderItemDTO) (order.LineItem, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return order.LineItem{}, err
	}

	productID, err := kernel.UUIDFromGoogle(dto.ProductID)
	if err != nil {
		return order.LineItem{}, err
	}

	price, err := kernel.NewMoney(dto.ProductPrice)
	if err != nil {
		return order.LineItem{}, err
	}

	subtotal, err := kernel.NewMoney(dto.Subtotal)
	if err != nil {
		return order.LineItem{}, err
	}

	return order.RestoreLineItem(id, productID, dto.ProductName, price, dto.Qty, subtotal, dto.CreatedAt), nil
}
