package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		want     string
		sentinel error
	}{
		{
			name:     "order not found",
			err:      errs.NewObjectNotFoundError("order", "5b0e"),
			want:     "object not found: 5b0e",
			sentinel: errs.ErrObjectNotFound,
		},
		{
			name:     "order not found with cause",
			err:      errs.NewObjectNotFoundErrorWithCause("order", "5b0e", cause),
			want:     "object not found: param is: order, ID is: 5b0e (cause: connection reset)",
			sentinel: errs.ErrObjectNotFound,
		},
		{
			name:     "invalid status",
			err:      errs.NewValueIsInvalidError("order_status"),
			want:     "value is invalid: order_status",
			sentinel: errs.ErrValueIsInvalid,
		},
		{
			name:     "invalid status with cause",
			err:      errs.NewValueIsInvalidErrorWithCause("order_status", errors.New(`"Shipped" is not a known status`)),
			want:     `value is invalid: order_status (cause: "Shipped" is not a known status)`,
			sentinel: errs.ErrValueIsInvalid,
		},
		{
			name:     "quantity out of range",
			err:      errs.NewValueIsOutOfRangeError("qty", 0, 1, 999),
			want:     "value is invalid: 0 is qty, min value is 1, max value is 999",
			sentinel: errs.ErrValueIsOutOfRange,
		},
		{
			name:     "quantity out of range with cause",
			err:      errs.NewValueIsOutOfRangeErrorWithCause("qty", -2, 1, 999, cause),
			want:     "value is invalid: -2 is qty, min value is 1, max value is 999 (cause: connection reset)",
			sentinel: errs.ErrValueIsOutOfRange,
		},
		{
			name:     "missing items",
			err:      errs.NewValueIsRequiredError("items"),
			want:     "value is required: items",
			sentinel: errs.ErrValueIsRequired,
		},
		{
			name:     "missing address with cause",
			err:      errs.NewValueIsRequiredErrorWithCause("address_id", cause),
			want:     "value is required: address_id (cause: connection reset)",
			sentinel: errs.ErrValueIsRequired,
		},
		{
			name:     "lost every race",
			err:      errs.NewConflictError("order", "5b0e"),
			want:     "object was modified concurrently: order 5b0e",
			sentinel: errs.ErrConflict,
		},
		{
			name:     "duplicate code",
			err:      errs.NewConflictErrorWithCause("order_code", "ORD-A7X3B2", cause),
			want:     "object was modified concurrently: order_code ORD-A7X3B2 (cause: connection reset)",
			sentinel: errs.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
			require.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.sentinel)
		})
	}
}

func TestObjectNotFoundError_NonStringID(t *testing.T) {
	err := errs.NewObjectNotFoundError("order", 456)
	assert.Equal(t, "object not found: %!s(int=456)", err.Error())
}

func TestErrorMessages_StayOnOneLine(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("product_name", "Masala\r\nDosa\nSpecial", 1, 255)
	assert.Contains(t, err.Error(), "Masala Dosa Special")
	assert.NotContains(t, err.Error(), "\n")

	conflict := errs.NewConflictError("order", "a\nb")
	assert.Equal(t, "object was modified concurrently: order a b", conflict.Error())
}

func TestErrorsAs_ExposesFields(t *testing.T) {
	wrapped := fmt.Errorf("loading order: %w", errs.NewObjectNotFoundError("order", "5b0e"))

	var notFound *errs.ObjectNotFoundError
	require.ErrorAs(t, wrapped, &notFound)
	assert.Equal(t, "order", notFound.ParamName)
	assert.Equal(t, "5b0e", notFound.ID)

	var conflict *errs.ConflictError
	assert.False(t, errors.As(wrapped, &conflict))
}

func TestSentinelMessages(t *testing.T) {
	assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
	assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
	assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
	assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
	assert.Equal(t, "object was modified concurrently", errs.ErrConflict.Error())
}
