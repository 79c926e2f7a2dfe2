package catalogrepo

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAddressReader implements ports.AddressReader.
type GormAddressReader struct {
	db *gorm.DB
}

func NewGormAddressReader(db *gorm.DB) *GormAddressReader {
	return &GormAddressReader{db: db}
}

// GetAddress retrieves a saved address by ID.
func (r *GormAddressReader) GetAddress(ctx context.Context, id kernel.UUID) (ports.Address, error) {
	if err := id.Validate(); err != nil {
		return ports.Address{}, err
	}

	var dto AddressDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Address{}, errs.NewObjectNotFoundError("address", id.String())
		}
		return ports.Address{}, err
	}

	return addressToPort(dto)
}

// GormProductReader implements ports.ProductReader.
type GormProductReader struct {
	db *gorm.DB
}

func NewGormProductReader(db *gorm.DB) *GormProductReader {
	return &GormProductReader{db: db}
}

// GetProduct retrieves a product by ID with its current price.
func (r *GormProductReader) GetProduct(ctx context.Context, id kernel.UUID) (ports.Product, error) {
	if err := id.Validate(); err != nil {
		return ports.Product{}, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Product{}, errs.NewObjectNotFoundError("product", id.String())
		}
		return ports.Product{}, err
	}

	return productToPort(dto)
}
