// Package money converts between decimal amounts and the integer minor units
// the store keeps. Rounding is half away from zero.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MaxManualAmount bounds user-entered amounts in major units.
var MaxManualAmount = decimal.NewFromInt(1_000_000_000)

// ToCents converts a major-unit amount to minor units.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromCents converts minor units back to a major-unit decimal.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders minor units with two decimal places, e.g. 1050 -> "10.50".
func Format(cents int64) string {
	return FromCents(cents).StringFixed(2)
}

// Parse reads a user-supplied amount string.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
