// Package taiwan implements the labor-insurance-pension calculator
// described in spec.md §4.6: a bracketed payroll insurance with a
// salary-capped base, a bracketed income tax with standard deductions,
// and an earnings-related annuity formula. Grounded on
// original_source/plugins/taiwan/taiwan_calculator.py and
// tax_calculator.py.
package taiwan

import (
	"github.com/finledger/pension-sim/pkg/calcerr"
	"github.com/finledger/pension-sim/pkg/constants"
	"github.com/shopspring/decimal"
)

// YearConstants is the per-calendar-year insured-salary band and tax
// parameter set (§9: data-driven, never a literal in calculator.go).
type YearConstants struct {
	InsuredSalaryFloor   decimal.Decimal
	InsuredSalaryCeiling decimal.Decimal

	BasicDeduction              decimal.Decimal
	LaborInsuranceDeductionCap  decimal.Decimal
	LaborInsuranceDeductionRate decimal.Decimal

	TaxBrackets []TaxBracket
}

// TaxBracket is one marginal-rate row (no quick-deduction constant is
// published for Taiwan's table; brackets are walked explicitly).
type TaxBracket struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

const (
	EmployeeInsuranceRate = 0.07
	EmployerInsuranceRate = 0.13
	PensionAccrualRate    = 0.0155
	PensionAdjustment     = 0.65
)

const baseYear = 2024

var brackets2024 = []TaxBracket{
	{Threshold: decimal.NewFromInt(0), Rate: decimal.NewFromFloat(0.05)},
	{Threshold: decimal.NewFromInt(560000), Rate: decimal.NewFromFloat(0.12)},
	{Threshold: decimal.NewFromInt(1260000), Rate: decimal.NewFromFloat(0.20)},
	{Threshold: decimal.NewFromInt(2520000), Rate: decimal.NewFromFloat(0.30)},
	{Threshold: decimal.NewFromInt(4720000), Rate: decimal.NewFromFloat(0.40)},
}

var yearTable = map[int]YearConstants{
	2024: {
		InsuredSalaryFloor:          decimal.NewFromInt(25250),
		InsuredSalaryCeiling:        decimal.NewFromInt(45800),
		BasicDeduction:              decimal.NewFromInt(92000),
		LaborInsuranceDeductionCap:  decimal.NewFromInt(24000),
		LaborInsuranceDeductionRate: decimal.NewFromFloat(0.02),
		TaxBrackets:                 brackets2024,
	},
}

// ConstantsAt returns the YearConstants for year, extrapolating
// insured-salary bounds and the basic deduction from the nearest known
// year by inflationRate; the bracket table itself is not extrapolated
// (tax law changes discretely, not by inflation index). Returns a
// ConfigError once the gap to baseYear exceeds
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
		return YearConstants{}, &calcerr.ConfigError{Table: "taiwan", Year: year, NearestYear: nearest}
	}

	base := yearTable[baseYear]
	growth := decimal.NewFromFloat(1 + inflationRate)
	factor := growth.Pow(decimal.NewFromInt(int64(year - baseYear)))

	scaled := base
	scaled.InsuredSalaryFloor = base.InsuredSalaryFloor.Mul(factor)
	scaled.InsuredSalaryCeiling = base.InsuredSalaryCeiling.Mul(factor)
	scaled.BasicDeduction = base.BasicDeduction.Mul(factor)
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

// RetirementAge is Taiwan's labor-insurance-pension claim age (§9: 65
// for both genders under the modeled regime).
const RetirementAge = 65
