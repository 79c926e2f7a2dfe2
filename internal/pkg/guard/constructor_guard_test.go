package guard_test

import (
	"errors"
	"testing"

	"fooddelivery/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
)

var errCancelNotConstructed = errors.New("cancel order command must be created via its constructor")

// cancelOrderCommand mirrors how use case commands embed the guard.
type cancelOrderCommand struct {
	orderCode string
	guard     guard.ConstructorGuard
}

func newCancelOrderCommand(orderCode string) cancelOrderCommand {
	return cancelOrderCommand{orderCode: orderCode, guard: guard.NewConstructorGuard()}
}

func (c cancelOrderCommand) Validate() error {
	return c.guard.Validate(errCancelNotConstructed)
}

func TestConstructorGuard_Validate(t *testing.T) {
	tests := []struct {
		name    string
		guard   guard.ConstructorGuard
		reason  error
		wantErr error
	}{
		{name: "constructed", guard: guard.NewConstructorGuard(), reason: errCancelNotConstructed},
		{name: "constructed with nil reason", guard: guard.NewConstructorGuard()},
		{name: "zero value", reason: errCancelNotConstructed, wantErr: errCancelNotConstructed},
		{name: "zero value with nil reason", wantErr: guard.ErrDefaultConstructorGuard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.guard.Validate(tt.reason)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	assert.NoError(t, newCancelOrderCommand("ORD-K4Q9ZP").Validate())

	literal := cancelOrderCommand{orderCode: "ORD-K4Q9ZP"}
	assert.ErrorIs(t, literal.Validate(), errCancelNotConstructed)

	copied := newCancelOrderCommand("ORD-K4Q9ZP")
	clone := copied
	assert.NoError(t, clone.Validate(), "copies keep the constructed flag")
}
