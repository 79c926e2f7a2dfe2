package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
)

// Address is a saved delivery address as owned by the address module.
type Address struct {
	ID             kernel.UUID
	UserID         kernel.UUID
	SaveAs         string
	Pincode        string
	City           string
	State          string
	HouseNumber    string
	StreetLocality string
	Mobile         string
}

// Product is the current catalog view of a product.
type Product struct {
	ID    kernel.UUID
	Name  string
	Price kernel.Money
}

// AddressReader looks up saved addresses. Missing rows yield *errs.ObjectNotFoundError.
type AddressReader interface {
	GetAddress(ctx context.Context, id kernel.UUID) (Address, error)
}

// ProductReader looks up products. Missing rows yield *errs.ObjectNotFoundError.
type ProductReader interface {
	GetProduct(ctx context.Context, id kernel.UUID) (Product, error)
}
