// Package pgtest starts a disposable PostgreSQL for integration suites.
package pgtest

import (
	"context"
	"time"

	"fooddelivery/internal/adapters/out/postgres/catalogrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Tables lists every table created by Migrate, in truncation order.
const Tables = "order_items, order_addresses, orders, addresses, products"

// StartEmpty runs postgres:15-alpine and returns its connection string.
// The database has no tables.
func StartEmpty(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	return container, connStr, err
}

// Start runs postgres:15-alpine and returns an open, migrated GORM connection.
func Start(ctx context.Context) (*postgres.PostgresContainer, *gorm.DB, error) {
	container, connStr, err := StartEmpty(ctx)
	if err != nil {
		return container, nil, err
	}

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	if err != nil {
		return container, nil, err
	}

	return container, db, Migrate(db)
}

// Migrate creates the order tables and the catalog tables they read from.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalogrepo.AddressDTO{},
		&catalogrepo.ProductDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderAddressDTO{},
		&orderrepo.OrderItemDTO{},
	)
}

// SeedAddress inserts a saved address owned by userID.
func SeedAddress(db *gorm.DB, userID kernel.UUID, city string) (kernel.UUID, error) {
	dto := catalogrepo.AddressDTO{
		ID:             uuid.New(),
		UserID:         userID.Bytes(),
		SaveAs:         "Home",
		Pincode:        "560001",
		City:           city,
		State:          "Karnataka",
		HouseNumber:    "12B",
		StreetLocality: "MG Road",
		Mobile:         "9876543210",
	}
	if err := db.Create(&dto).Error; err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromGoogle(dto.ID)
}

// SeedProduct inserts a product priced at price.
func SeedProduct(db *gorm.DB, name, price string) (kernel.UUID, error) {
	dto := catalogrepo.ProductDTO{
		ID:          uuid.New(),
		ProductName: name,
		Price:       decimal.RequireFromString(price),
	}
	if err := db.Create(&dto).Error; err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromGoogle(dto.ID)
}
