// Package japan implements the kōsei nenkin (employee pension) +
// kokumin nenkin (national pension) calculator described in spec.md
// §4.6: a salary-capped payroll insurance, a bracketed income tax, and
// a two-tier retirement benefit combining a flat years-of-service
// amount with an earnings-related annuity. Grounded on
// original_source/plugins/japan/japan_calculator.py and
// tax_calculator.py.
package japan

import (
	"github.com/finledger/pension-sim/pkg/calcerr"
	"github.com/finledger/pension-sim/pkg/constants"
	"github.com/shopspring/decimal"
)

// YearConstants is the per-calendar-year salary-band and tax
// parameter set (§9: data-driven, never a literal in calculator.go).
type YearConstants struct {
	MonthlySalaryFloor   decimal.Decimal
	MonthlySalaryCeiling decimal.Decimal

	BasicDeduction       decimal.Decimal
	PensionDeductionCap  decimal.Decimal
	PensionDeductionRate decimal.Decimal

	NationalPensionBase decimal.Decimal

	TaxBrackets []TaxBracket
}

// TaxBracket is one marginal-rate row (no quick-deduction constant is
// published for Japan's table; brackets are walked explicitly).
type TaxBracket struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

const (
	EmployeePensionRate      = 0.0915
	EmployerPensionRate      = 0.0915
	EmployeePensionAccrual   = 0.005481
	NationalPensionFullYears = 40
	RetirementAge            = 65
)

const baseYear = 2024

var brackets2024 = []TaxBracket{
	{Threshold: decimal.NewFromInt(0), Rate: decimal.NewFromFloat(0.05)},
	{Threshold: decimal.NewFromInt(1950000), Rate: decimal.NewFromFloat(0.10)},
	{Threshold: decimal.NewFromInt(3300000), Rate: decimal.NewFromFloat(0.20)},
	{Threshold: decimal.NewFromInt(6950000), Rate: decimal.NewFromFloat(0.23)},
	{Threshold: decimal.NewFromInt(9000000), Rate: decimal.NewFromFloat(0.33)},
	{Threshold: decimal.NewFromInt(18000000), Rate: decimal.NewFromFloat(0.40)},
	{Threshold: decimal.NewFromInt(40000000), Rate: decimal.NewFromFloat(0.45)},
}

var yearTable = map[int]YearConstants{
	2024: {
		MonthlySalaryFloor:   decimal.NewFromInt(98000),
		MonthlySalaryCeiling: decimal.NewFromInt(650000),
		BasicDeduction:       decimal.NewFromInt(480000),
		PensionDeductionCap:  decimal.NewFromInt(1080000),
		PensionDeductionRate: decimal.NewFromFloat(0.09175),
		NationalPensionBase:  decimal.NewFromInt(65000),
		TaxBrackets:          brackets2024,
	},
}

// ConstantsAt returns the YearConstants for year, extrapolating the
// salary band, deductions, and national-pension base from the nearest
// known year by inflationRate; the bracket table itself is not
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
		return YearConstants{}, &calcerr.ConfigError{Table: "japan", Year: year, NearestYear: nearest}
	}

	base := yearTable[baseYear]
	growth := decimal.NewFromFloat(1 + inflationRate)
	factor := growth.Pow(decimal.NewFromInt(int64(year - baseYear)))

	scaled := base
	scaled.MonthlySalaryFloor = base.MonthlySalaryFloor.Mul(factor)
	scaled.MonthlySalaryCeiling = base.MonthlySalaryCeiling.Mul(factor)
	scaled.BasicDeduction = base.BasicDeduction.Mul(factor)
	scaled.PensionDeductionCap = base.PensionDeductionCap.Mul(factor)
	scaled.NationalPensionBase = base.NationalPensionBase.Mul(factor)
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
