// Package catalogrepo reads the addresses and products tables owned by the
// address and catalog modules. The order subsystem never writes to them.
package catalogrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressDTO maps the columns of a saved address the checkout needs.
type AddressDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	SaveAs         string    `gorm:"size:50"`
	Pincode        string    `gorm:"size:10;not null"`
	City           string    `gorm:"size:100;not null"`
	State          string    `gorm:"size:100;not null"`
	HouseNumber    string    `gorm:"size:100;not null"`
	StreetLocality string    `gorm:"size:255;not null"`
	Mobile         string    `gorm:"size:15;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (AddressDTO) TableName() string {
	return "addresses"
}

// ProductDTO maps the columns of a product the checkout needs.
type ProductDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductName string          `gorm:"size:255;not null"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProductDTO) TableName() string {
	return "products"
}

func addressToPort(dto AddressDTO) (ports.Address, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return ports.Address{}, err
	}

	userID, err := kernel.UUIDFromGoogle(dto.UserID)
	if err != nil {
		return ports.Address{}, err
	}

	return ports.Address{
		ID:             id,
		UserID:         userID,
		SaveAs:         dto.SaveAs,
		Pincode:        dto.Pincode,
		City:           dto.City,
		State:          dto.State,
		HouseNumber:    dto.HouseNumber,
		StreetLocality: dto.StreetLocality,
		Mobile:         dto.Mobile,
	}, nil
}

func productToPort(dto ProductDTO) (ports.Product, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return ports.Product{}, err
	}

	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return ports.Product{}, err
	}

	return ports.Product{ID: id, Name: dto.ProductName, Price: price}, nil
}
