// Package money holds currency amounts as integer minor units (cents).
//
// All ledger arithmetic happens on Cents. Decimal values only appear at the
// boundary, where amounts are parsed from and rendered to two-digit strings.
package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Cents is an amount of currency in minor units.
type Cents int64

// Tolerance is the largest difference at which two amounts are still equal.
const Tolerance Cents = 1

// ErrMalformed is returned when a value cannot be read as an amount.
var ErrMalformed = errors.New("malformed amount")

var hundred = decimal.NewFromInt(100)

// FromDecimal converts d to cents, rounding half-up on the third fractional digit.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	c := d.Mul(hundred).Round(0)
	if !c.IsInteger() || c.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt64/2)) {
		return 0, fmt.Errorf("%w: %s", ErrMalformed, d.String())
	}
	return Cents(c.IntPart()), nil
}

// Parse reads a decimal string such as "12.34" into cents.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return FromDecimal(d)
}

// FromFloat converts a float amount to cents, rounding to the nearest cent.
func FromFloat(f float64) (Cents, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, f)
	}
	return FromDecimal(decimal.NewFromFloat(f))
}

// Decimal returns the amount as a decimal with two fractional digits.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float64 returns the amount in major units. Display only.
func (c Cents) Float64() float64 {
	return float64(c) / 100
}

// String renders the amount with exactly two fractional digits.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Abs returns the absolute value of c.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// IsZero reports whether c is strictly below the tolerance, i.e. settled.
func (c Cents) IsZero() bool {
	return c.Abs() < Tolerance
}

// Equal reports whether a and b differ by no more than the tolerance.
func Equal(a, b Cents) bool {
	return (a - b).Abs() <= Tolerance
}

// Min returns the smaller of a and b.
func Min(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}

// Sum adds up amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}
