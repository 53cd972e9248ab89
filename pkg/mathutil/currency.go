// Package mathutil provides common mathematical utility functions.
package mathutil

import "github.com/shopspring/decimal"

// RoundCents rounds a decimal currency amount to two places using
// round-half-even (banker's rounding), as required for reproducible
// tax-bracket and contribution-base arithmetic.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}
