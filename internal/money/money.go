// Package money implements exact fixed-point monetary amounts.
//
// A Money is a signed count of minor currency units (cents). All arithmetic
// is integer arithmetic; binary floats never touch an amount. Values cross
// the JSON boundary as decimal strings ("12.34") and are parsed with
// shopspring/decimal so no precision is lost on the way in.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (cents for a 2-decimal currency).
type Money int64

// ErrPrecision is returned when a decimal value carries more fractional
// digits than the currency's minor unit can represent.
var ErrPrecision = errors.New("amount has sub-cent precision")

// FromCents wraps a raw minor-unit count.
func FromCents(c int64) Money {
	return Money(c)
}

// Cents returns the raw minor-unit count.
func (m Money) Cents() int64 {
	return int64(m)
}

// Parse converts a decimal string such as "12.34" into a Money.
// More than two fractional digits is an error, not a rounding opportunity.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts an exact decimal into a Money, rejecting sub-cent
// precision.
func FromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrPrecision, d.String())
	}
	return Money(cents.IntPart()), nil
}

// Decimal returns the amount as an exact decimal (exponent -2).
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Money) Add(o Money) Money { return m + o }
func (m Money) Sub(o Money) Money { return m - o }
func (m Money) Neg() Money        { return -m }

// Abs returns the magnitude of the amount.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

func (m Money) IsZero() bool     { return m == 0 }
func (m Money) IsPositive() bool { return m > 0 }
func (m Money) IsNegative() bool { return m < 0 }

// Cmp returns -1, 0, or 1 comparing m to o.
func (m Money) Cmp(o Money) int {
	switch {
	case m < o:
		return -1
	case m > o:
		return 1
	default:
		return 0
	}
}

// DivRoundHalfUp divides the amount by a positive count and rounds the
// result to the nearest cent, half away from zero. This is the only
// rounding operation in the codebase; splitting policies must route
// through it so the rounding mode stays auditable in one place.
func (m Money) DivRoundHalfUp(n int64) Money {
	if n <= 0 {
		panic("money: division by non-positive count")
	}
	c := int64(m)
	if c >= 0 {
		return Money((2*c + n) / (2 * n))
	}
	return Money(-((2*(-c) + n) / (2 * n)))
}

// Percent returns pct% of the amount, rounded to the nearest cent half
// away from zero. pct is an exact decimal percentage (e.g. 33.33).
func (m Money) Percent(pct decimal.Decimal) Money {
	// cents * pct / 100, exact until the final rounding step.
	exact := m.Decimal().Mul(pct).Shift(-2)
	return Money(exact.Round(2).Shift(2).IntPart())
}

// String formats the amount with two decimal places, e.g. "-3.05".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts either a decimal string ("12.34") or a bare JSON
// number literal. The literal is parsed textually, never through float64.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*m = 0
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
