// Package money stores amounts as integer cents and converts to decimal
// only when crossing the JSON boundary.
package money

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an amount in minor units.
type Cents int64

// MaxAbs bounds parsed amounts so totals over many rows stay inside int64.
const MaxAbs Cents = 1_000_000_000_000_000

var ErrOutOfRange = errors.New("amount out of range")

var hundred = decimal.NewFromInt(100)

// FromDecimal rounds d half away from zero to the nearest cent.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Shift(2).Round(0).IntPart())
}

// Parse accepts "12", "12.5" or "12.50". Sub-cent digits are rounded, so
// "0.004" parses to zero.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	minor := d.Shift(2).Round(0)
	if minor.Abs().GreaterThan(decimal.NewFromInt(int64(MaxAbs))) {
		return 0, fmt.Errorf("invalid amount %q: %w", s, ErrOutOfRange)
	}
	return Cents(minor.IntPart()), nil
}

func FromFloat(f float64) Cents {
	return FromDecimal(decimal.NewFromFloat(f))
}

func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(hundred)
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

func (c Cents) Float64() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

// ApplyPercent returns c * pct / 100 rounded to the cent.
func (c Cents) ApplyPercent(pct decimal.Decimal) Cents {
	return FromDecimal(c.Decimal().Mul(pct).Div(hundred))
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (c *Cents) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(bytes.Trim(b, `"`))
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func Sum(values ...Cents) Cents {
	var total Cents
	for _, v := range values {
		total += v
	}
	return total
}
