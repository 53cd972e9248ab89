// Package china implements the seven-step payroll + pension
// calculator described in spec.md §4.3, grounded on
// original_source/plugins/china/china_social_security_calculator.py's
// 2024 parameter set and china_tax_calculator.py's bracket table.
package china

import (
	"github.com/finledger/pension-sim/pkg/calcerr"
	"github.com/finledger/pension-sim/pkg/constants"
	"github.com/shopspring/decimal"
)

// YearConstants is the per-calendar-year data China's calculator is
// parameterized by (§9: "data, keyed by calendar year", not hard-coded).
type YearConstants struct {
	AvgMonthlyWage     decimal.Decimal // local average monthly wage used for SI-base clamping
	HousingFundFloor   decimal.Decimal // monthly HF contribution-base floor
	HousingFundCeiling decimal.Decimal // monthly HF contribution-base ceiling
}

// baseYear is the latest tabulated year. ConstantsAt extrapolates years
// outside the table from it by the caller's inflation rate (§4.3).
const baseYear = 2024

var yearTable = map[int]YearConstants{
	2023: {AvgMonthlyWage: decimal.NewFromInt(12307), HousingFundFloor: decimal.NewFromInt(2690), HousingFundCeiling: decimal.NewFromInt(36921)},
	2024: {AvgMonthlyWage: decimal.NewFromInt(12434), HousingFundFloor: decimal.NewFromInt(2690), HousingFundCeiling: decimal.NewFromInt(36921)},
}

// ConstantsAt returns the YearConstants for year, extrapolating a
// missing year from the nearest known year by inflationRate compounded
// over the year gap (§4.3), or a ConfigError once that gap exceeds
// constants.MaxTableExtrapolationYears (§7).
func ConstantsAt(year int, inflationRate float64) (YearConstants, error) {
	if c, ok := yearTable[year]; ok {
		return c, nil
	}

	candidates := make([]int, 0, len(yearTable))
	for y := range yearTable {
		candidates = append(candidates, y)
	}
	nearest := calcerr.NearestYear(year, candidates)
	if abs(year-nearest) > constants.MaxTableExtrapolationYears {
		return YearConstants{}, &calcerr.ConfigError{Table: "china", Year: year, NearestYear: nearest}
	}

	base := yearTable[nearest]
	growth := decimal.NewFromFloat(1 + inflationRate)
	years := year - nearest
	factor := growth.Pow(decimal.NewFromInt(int64(years)))

	return YearConstants{
		AvgMonthlyWage:     base.AvgMonthlyWage.Mul(factor),
		HousingFundFloor:   base.HousingFundFloor.Mul(factor),
		HousingFundCeiling: base.HousingFundCeiling.Mul(factor),
	}, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Contribution rates (§4.3 step 2-3), fixed for the modeled regime.
var (
	EmployeePensionRate      = decimal.NewFromFloat(0.08)
	EmployeeMedicalRate      = decimal.NewFromFloat(0.02)
	EmployeeUnemploymentRate = decimal.NewFromFloat(0.005)

	EmployerPensionRate      = decimal.NewFromFloat(0.16)
	EmployerMedicalRate      = decimal.NewFromFloat(0.09)
	EmployerUnemploymentRate = decimal.NewFromFloat(0.005)
	EmployerInjuryRate       = decimal.NewFromFloat(0.0016)

	SIBaseLowerMultiple = decimal.NewFromFloat(0.6)
	SIBaseUpperMultiple = decimal.NewFromFloat(3.0)

	DefaultHousingFundRate = decimal.NewFromFloat(0.07)

	BasicDeduction = decimal.NewFromInt(60000)
)

// TaxBracket is one row of the seven-bracket progressive table (§4.3
// step 4), with the quick-deduction constant that makes marginal-rate
// application a single multiply-subtract instead of a bracket loop.
type TaxBracket struct {
	Threshold      decimal.Decimal // lower bound of taxable income for this bracket
	Rate           decimal.Decimal
	QuickDeduction decimal.Decimal
}

// TaxBrackets is ordered ascending by Threshold; the applicable
// bracket is the last one whose Threshold <= taxable income.
var TaxBrackets = []TaxBracket{
	{Threshold: decimal.NewFromInt(0), Rate: decimal.NewFromFloat(0.03), QuickDeduction: decimal.NewFromInt(0)},
	{Threshold: decimal.NewFromInt(36000), Rate: decimal.NewFromFloat(0.10), QuickDeduction: decimal.NewFromInt(2520)},
	{Threshold: decimal.NewFromInt(144000), Rate: decimal.NewFromFloat(0.20), QuickDeduction: decimal.NewFromInt(16920)},
	{Threshold: decimal.NewFromInt(300000), Rate: decimal.NewFromFloat(0.25), QuickDeduction: decimal.NewFromInt(31920)},
	{Threshold: decimal.NewFromInt(420000), Rate: decimal.NewFromFloat(0.30), QuickDeduction: decimal.NewFromInt(52920)},
	{Threshold: decimal.NewFromInt(660000), Rate: decimal.NewFromFloat(0.35), QuickDeduction: decimal.NewFromInt(85920)},
	{Threshold: decimal.NewFromInt(960000), Rate: decimal.NewFromFloat(0.45), QuickDeduction: decimal.NewFromInt(181920)},
}

// ComputeTax applies the bracket table to taxable income (§4.3 step 4).
func ComputeTax(taxable decimal.Decimal) decimal.Decimal {
	if taxable.IsNegative() || taxable.IsZero() {
		return decimal.Zero
	}
	bracket := TaxBrackets[0]
	for _, b := range TaxBrackets {
		if taxable.GreaterThanOrEqual(b.Threshold) {
			bracket = b
		}
	}
	tax := taxable.Mul(bracket.Rate).Sub(bracket.QuickDeduction)
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

// monthsDivisor is the standard individual-account payout divisor
// keyed by retirement age (§4.3 step 7).
var monthsDivisor = map[int]int{
	60: 139,
	55: 170,
	50: 195,
}

// MonthsDivisor returns the divisor for retirementAge, falling back to
// the 60-year-old divisor for an age outside the standard table.
func MonthsDivisor(retirementAge int) int {
	if d, ok := monthsDivisor[retirementAge]; ok {
		return d
	}
	return monthsDivisor[60]
}

// RetirementAge returns the statutory retirement age for the given
// gender/employment combination (§4.3 step 7, §9 civil-servant nuance).
func RetirementAge(gender string, isCivilServant bool) int {
	if gender == "female" {
		if isCivilServant {
			return 60
		}
		return 55
	}
	return 60
}
