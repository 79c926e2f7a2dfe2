package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"fooddelivery/internal/pkg/errs"
)

const (
	// CodePrefix starts every order code.
	CodePrefix = "ORD-"

	// MaxCodeAttempts bounds how many candidates the store checks for uniqueness
	// before inserting the last one and letting the unique index decide.
	MaxCodeAttempts = 5

	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// CodeGenerator produces candidate order codes. GenerateCode is the production
// implementation; tests inject deterministic generators to force collisions.
type CodeGenerator func() (string, error)

// GenerateCode returns a random code such as "ORD-A7X3B2".
// Characters are drawn uniformly from A-Z0-9 using crypto/rand.
func GenerateCode() (string, error) {
	var sb strings.Builder
	sb.Grow(len(CodePrefix) + codeLength)
	sb.WriteString(CodePrefix)

	limit := big.NewInt(int64(len(codeAlphabet)))
	for range codeLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate order code: %w", err)
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}

	return sb.String(), nil
}

// ValidateCode checks the "ORD-" prefix followed by six characters from A-Z0-9.
func ValidateCode(code string) error {
	suffix, ok := strings.CutPrefix(code, CodePrefix)
	if !ok || len(suffix) != codeLength {
		return errs.NewValueIsInvalidErrorWithCause("order_code", fmt.Errorf("%q does not match %sXXXXXX", code, CodePrefix))
	}
	for _, r := range suffix {
		if !strings.ContainsRune(codeAlphabet, r) {
			return errs.NewValueIsInvalidErrorWithCause("order_code", fmt.Errorf("%q contains %q", code, r))
		}
	}
	return nil
}
