// internal/pkg/money/money.go
package money

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a fixed two decimal place amount. It is stored as a
// decimal(12,2) column and serialized as a fixed two decimal string
// ("105.00", not 105), matching how prices are shown to customers.
type Money struct {
	decimal.Decimal
}

// Zero is the zero amount.
func Zero() Money {
	return Money{decimal.Zero}
}

// New creates a Money from a decimal, rounding half-up to two places.
func New(d decimal.Decimal) Money {
	return Money{d.Round(2)}
}

// FromString parses a decimal string into a Money.
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return New(d), nil
}

// FromFloat creates a Money from a float, rounding half-up to two places.
func FromFloat(f float64) Money {
	return New(decimal.NewFromFloat(f))
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return New(m.Decimal.Add(other.Decimal))
}

// MulInt returns m multiplied by an integer quantity.
func (m Money) MulInt(qty int) Money {
	return New(m.Decimal.Mul(decimal.NewFromInt(int64(qty))))
}

// String returns the amount with exactly two decimal places.
func (m Money) String() string {
	return m.StringFixed(2)
}

// MarshalJSON serializes the amount as a fixed two decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare decimal values.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", data, err)
	}
	m.Decimal = d.Round(2)
	return nil
}
