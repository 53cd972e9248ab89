// Package uk implements the National Insurance + State Pension
// calculator described in spec.md §4.6: a banded National Insurance
// contribution, a bracketed income tax with a personal allowance, and
// a flat years-of-service state pension paid for life from age 66.
// Grounded on original_source/plugins/uk/uk_calculator.py and
// tax_calculator.py.
package uk

import (
	"github.com/finledger/pension-sim/pkg/calcerr"
	"github.com/finledger/pension-sim/pkg/constants"
	"github.com/shopspring/decimal"
)

// YearConstants is the per-calendar-year National Insurance band and
// tax parameter set (§9: data-driven, never a literal in calculator.go).
type YearConstants struct {
	NIThreshold decimal.Decimal
	NIUpper     decimal.Decimal

	PersonalAllowance decimal.Decimal
	NIDeductionCap    decimal.Decimal

	FullStatePensionWeekly decimal.Decimal

	TaxBrackets []TaxBracket
}

// TaxBracket is one marginal-rate row (no quick-deduction constant is
// published for the UK table; brackets are walked explicitly).
type TaxBracket struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

const (
	EmployeeNIRate       = 0.12
	EmployerNIRate       = 0.138
	NIDeductionRate      = 0.12
	RequiredPensionYears = 35
	RetirementAge        = 66
)

const baseYear = 2024

var brackets2024 = []TaxBracket{
	{Threshold: decimal.NewFromInt(0), Rate: decimal.NewFromFloat(0.0)},
	{Threshold: decimal.NewFromInt(12570), Rate: decimal.NewFromFloat(0.20)},
	{Threshold: decimal.NewFromInt(50270), Rate: decimal.NewFromFloat(0.40)},
	{Threshold: decimal.NewFromInt(125140), Rate: decimal.NewFromFloat(0.45)},
}

var yearTable = map[int]YearConstants{
	2024: {
		NIThreshold:            decimal.NewFromInt(12570),
		NIUpper:                decimal.NewFromInt(50270),
		PersonalAllowance:      decimal.NewFromInt(12570),
		NIDeductionCap:         decimal.NewFromInt(4524),
		FullStatePensionWeekly: decimal.NewFromFloat(185.15),
		TaxBrackets:            brackets2024,
	},
}

// ConstantsAt returns the YearConstants for year, extrapolating the NI
// bands, the personal allowance, and the state pension rate from the
// nearest known year by inflationRate; the bracket table itself is not
// extrapolated (tax law changes discretely, not by inflation index).
// Returns a ConfigError once the gap to baseYear exceeds
// constants.MaxTableExtrapolationYears (§7).
func ConstantsAt(year int, inflationRate float64) (YearConstants, error) {
	if c, ok := yearTable[year]; ok {
		return c, nil
	}
	nearest := calcerr.NearestYear(year, []int{baseYear})
	gap := year - nearest
	if gap < 0 {
		gap = -gap
	}
	if gap > constants.MaxTableExtrapolationYears {
		return YearConstants{}, &calcerr.ConfigError{Table: "uk", Year: year, NearestYear: nearest}
	}

	base := yearTable[baseYear]
	growth := decimal.NewFromFloat(1 + inflationRate)
	factor := growth.Pow(decimal.NewFromInt(int64(year - baseYear)))

	scaled := base
	scaled.NIThreshold = base.NIThreshold.Mul(factor)
	scaled.NIUpper = base.NIUpper.Mul(factor)
	scaled.PersonalAllowance = base.PersonalAllowance.Mul(factor)
	scaled.NIDeductionCap = base.NIDeductionCap.Mul(factor)
	scaled.FullStatePensionWeekly = base.FullStatePensionWeekly.Mul(factor)
	return scaled, nil
}

// ComputeTax walks the marginal bracket table.
func ComputeTax(taxable decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	if taxable.IsNegative() || taxable.IsZero() {
		return decimal.Zero
	}
	tax := decimal.Zero
	for i, b := range brackets {
		var upper decimal.Decimal
		if i+1 < len(brackets) {
			upper = brackets[i+1].Threshold
		} else {
			upper = decimal.NewFromInt(1 << 62)
		}
		if taxable.LessThanOrEqual(b.Threshold) {
			break
		}
		width := decimal.Min(taxable, upper).Sub(b.Threshold)
		if width.IsNegative() {
			width = decimal.Zero
		}
		tax = tax.Add(width.Mul(b.Rate))
	}
	return tax
}
