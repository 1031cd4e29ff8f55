// Package primitives provides the decimal-precision reporting types used to
// present replay results: Decimal wraps shopspring/decimal for exact
// arithmetic, and Amount is a non-negative Decimal used for cash balances.
// Protocol math itself never uses this package — every swap/scaling/event
// computation in pkg/ammath, pkg/aave, and pkg/arb stays in *big.Int — these
// types exist purely for pkg/replay's human-readable P&L reporting.
package primitives

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeAmount indicates an invalid negative amount value
	ErrNegativeAmount = errors.New("amount cannot be negative")
	// ErrInvalidDecimal indicates an invalid decimal value
	ErrInvalidDecimal = errors.New("invalid decimal value")
)

// Decimal wraps shopspring/decimal.Decimal for precise arithmetic.
type Decimal struct {
	value decimal.Decimal
}

// NewDecimal creates a Decimal from an int64 value.
func NewDecimal(value int64) Decimal {
	return Decimal{value: decimal.NewFromInt(value)}
}

// NewDecimalFromFloat creates a Decimal from a float64 value. Used to
// convert a cycle's raw integer profit (after dividing by its token's
// decimal scale) into a reportable Decimal.
func NewDecimalFromFloat(value float64) Decimal {
	return Decimal{value: decimal.NewFromFloat(value)}
}

// NewDecimalFromString creates a Decimal from a string representation.
// Returns error if the string is not a valid decimal number.
func NewDecimalFromString(value string) (Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: %s", ErrInvalidDecimal, err)
	}
	return Decimal{value: d}, nil
}

// MustDecimalFromString creates a Decimal from a string, panicking on error.
// Only use for known-valid constants in tests or initialization.
func MustDecimalFromString(value string) Decimal {
	d, err := NewDecimalFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns a Decimal representing zero.
func Zero() Decimal {
	return Decimal{value: decimal.Zero}
}

// Add returns the sum of two Decimals.
func (d Decimal) Add(other Decimal) Decimal {
	return Decimal{value: d.value.Add(other.value)}
}

// Sub returns the difference of two Decimals.
func (d Decimal) Sub(other Decimal) Decimal {
	return Decimal{value: d.value.Sub(other.value)}
}

// IsZero returns true if the Decimal is zero.
func (d Decimal) IsZero() bool {
	return d.value.IsZero()
}

// IsNegative returns true if the Decimal is negative.
func (d Decimal) IsNegative() bool {
	return d.value.IsNegative()
}

// IsPositive returns true if the Decimal is positive.
func (d Decimal) IsPositive() bool {
	return d.value.IsPositive()
}

// GreaterThan returns true if d > other.
func (d Decimal) GreaterThan(other Decimal) bool {
	return d.value.GreaterThan(other.value)
}

// LessThan returns true if d < other.
func (d Decimal) LessThan(other Decimal) bool {
	return d.value.LessThan(other.value)
}

// Equal returns true if d == other.
func (d Decimal) Equal(other Decimal) bool {
	return d.value.Equal(other.value)
}

// String returns the string representation of the Decimal.
func (d Decimal) String() string {
	return d.value.String()
}

// Amount represents a non-negative quantity — a replay ledger's cash
// balance, reported after every update.
type Amount struct {
	value Decimal
}

// NewAmount creates an Amount from a Decimal value.
// Returns error if the value is negative.
func NewAmount(value Decimal) (Amount, error) {
	if value.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{value: value}, nil
}

// MustAmount creates an Amount from a Decimal, panicking if invalid.
// Only use for known-valid constants in tests or initialization.
func MustAmount(value Decimal) Amount {
	a, err := NewAmount(value)
	if err != nil {
		panic(err)
	}
	return a
}

// ZeroAmount returns an Amount representing zero.
func ZeroAmount() Amount {
	return Amount{value: Zero()}
}

// Decimal returns the underlying Decimal value.
func (a Amount) Decimal() Decimal {
	return a.value
}

// Add returns the sum of two Amounts.
func (a Amount) Add(other Amount) Amount {
	return Amount{value: a.value.Add(other.value)}
}

// GreaterThan returns true if a > other.
func (a Amount) GreaterThan(other Amount) bool {
	return a.value.GreaterThan(other.value)
}

// Equal returns true if a == other.
func (a Amount) Equal(other Amount) bool {
	return a.value.Equal(other.value)
}

// IsZero returns true if the Amount is zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// String returns the string representation of the Amount.
func (a Amount) String() string {
	return a.value.String()
}
