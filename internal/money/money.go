// Package money defines the monetary representation shared by the pricing
// core: fixed-point decimals rounded half-up to two places at formula and
// conversion boundaries, never mid-formula.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Amount is a monetary value in a single currency.
type Amount struct {
	Value    decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// New builds an Amount, rounding to two decimal places.
func New(value decimal.Decimal, cur string) Amount {
	return Amount{Value: Round2(value), Currency: cur}
}

// Round2 rounds half-up to two decimal places. decimal.Round rounds half
// away from zero, which matches half-up for the non-negative amounts this
// domain produces.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ApplyPercent returns d increased by pct percent, unrounded.
func ApplyPercent(d decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return d.Mul(decimal.NewFromInt(100).Add(pct)).Div(decimal.NewFromInt(100))
}

// ValidateCurrency reports whether code is a well-formed ISO 4217 unit.
func ValidateCurrency(code string) error {
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("money: invalid currency %q: %w", code, err)
	}
	return nil
}
