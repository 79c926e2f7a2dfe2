package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes.
const (
	uniqueViolation        = "23505"
	numericValueOutOfRange = "22003"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	newCode order.CodeGenerator
	now     func() time.Time
}

// Option customizes a GormOrderRepository.
type Option func(*GormOrderRepository)

// WithCodeGenerator replaces order.GenerateCode.
func WithCodeGenerator(gen order.CodeGenerator) Option {
	return func(r *GormOrderRepository) {
		r.newCode = gen
	}
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, opts ...Option) *GormOrderRepository {
	r := &GormOrderRepository{
		db:      db,
		newCode: order.GenerateCode,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateWithItems inserts the order row, its address snapshot and its items.
// It must run inside a transaction; a failure of any insert leaves nothing behind
// once the caller rolls back.
func (r *GormOrderRepository) CreateWithItems(
	ctx context.Context,
	userID kernel.UUID,
	checkout order.Checkout,
) (*order.Order, error) {
	if err := checkout.Validate(); err != nil {
		return nil, err
	}

	code, err := r.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(kernel.NewUUID(), code, userID, checkout)
	if err != nil {
		return nil, err
	}

	now := r.now()
	dto := fromDomain(aggregate)
	dto.CreatedAt, dto.UpdatedAt = now, now
	dto.Address.CreatedAt = now
	for i := range dto.Items {
		dto.Items[i].CreatedAt = now
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, errs.NewConflictErrorWithCause("order_code", code, err)
		}
		if isNumericOverflow(err) {
			return nil, fmt.Errorf("%w: %w", order.ErrCheckoutExceedsLimits, err)
		}
		return nil, err
	}

	return toDomain(dto)
}

// uniqueCode draws up to order.MaxCodeAttempts candidates and returns the first
// one not yet taken. When every candidate is taken the last one is returned and
// the unique index on order_code has the final word.
func (r *GormOrderRepository) uniqueCode(ctx context.Context) (string, error) {
	var code string
	for range order.MaxCodeAttempts {
		candidate, err := r.newCode()
		if err != nil {
			return "", err
		}
		code = candidate

		var count int64
		if err = r.db.WithContext(ctx).Model(&OrderDTO{}).Where("order_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return code, nil
}

// GetByUserID retrieves the user's orders, newest first.
func (r *GormOrderRepository) GetByUserID(ctx context.Context, userID kernel.UUID) ([]*order.Order, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	if err := r.withSnapshot(ctx).
		Where("user_id = ?", userID.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withSnapshot(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateStatus is a compare-and-set on order_status.
func (r *GormOrderRepository) UpdateStatus(
	ctx context.Context,
	id kernel.UUID,
	expected, next order.Status,
) (*order.Order, error) {
	if err := errors.Join(id.Validate(), expected.Validate(), next.Validate()); err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND order_status = ?", id.Bytes(), expected.String()).
		Updates(map[string]any{
			"order_status": next.String(),
			"updated_at":   r.now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil //nolint:nilnil // no row matched the expected status
	}

	return r.Get(ctx, id)
}

// Cancel is a compare-and-set to Cancelled restricted to the owner and to active statuses.
func (r *GormOrderRepository) Cancel(
	ctx context.Context,
	id, userID kernel.UUID,
	expected order.Status,
) (*order.Order, error) {
	if err := errors.Join(id.Validate(), userID.Validate(), expected.Validate()); err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND user_id = ?", id.Bytes(), userID.Bytes()).
		Where("order_status = ?", expected.String()).
		Where("order_status IN ?", activeStatusLiterals()).
		Updates(map[string]any{
			"order_status": order.Cancelled.String(),
			"updated_at":   r.now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil //nolint:nilnil // no row matched the guard
	}

	return r.Get(ctx, id)
}

func (r *GormOrderRepository) withSnapshot(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Address").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("position ASC")
		})
}

func activeStatusLiterals() []string {
	active := order.ActiveStatuses()
	literals := make([]string, 0, len(active))
	for _, s := range active {
		literals = append(literals, s.String())
	}
	return literals
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNumericOverflow(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == numericValueOutOfRange
}
