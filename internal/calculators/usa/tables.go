// Package usa implements the Social Security + 401(k) calculator
// described in spec.md §4.4, grounded on
// original_source/plugins/usa/usa_401k_params.py (contribution limits),
// usa_tax_calculator.py (bracket table, standard deduction), and
// usa_calculator.py (FICA rates, AIME/PIA bend points).
package usa

import (
	"github.com/finledger/pension-sim/pkg/calcerr"
	"github.com/finledger/pension-sim/pkg/constants"
	"github.com/shopspring/decimal"
)

// MatchTier is one tier of the employer 401(k) match rule (§9 open
// question: match tiers are data, not a hard-coded 3%/2% pair).
type MatchTier struct {
	Rate  decimal.Decimal // match rate within this tier, e.g. 1.00 for 100%
	Limit decimal.Decimal // width of this tier as a fraction of salary, e.g. 0.03
}

// YearConstants is the per-calendar-year IRS/SSA parameter set.
type YearConstants struct {
	ElectiveDeferralLimit   decimal.Decimal
	CatchUp50Plus           decimal.Decimal
	SuperCatchUp60to63      decimal.Decimal
	CombinedLimit415c       decimal.Decimal
	CompensationCap         decimal.Decimal
	SocialSecurityWageCap   decimal.Decimal
	MedicareSurtaxThreshold decimal.Decimal
	StandardDeduction       decimal.Decimal
	MatchTiers              []MatchTier
	TaxBrackets             []TaxBracket
}

// TaxBracket is one federal single-filer bracket row.
type TaxBracket struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

var defaultMatchTiers = []MatchTier{
	{Rate: decimal.NewFromFloat(1.00), Limit: decimal.NewFromFloat(0.03)},
	{Rate: decimal.NewFromFloat(0.50), Limit: decimal.NewFromFloat(0.02)},
}

var brackets2024 = []TaxBracket{
	{Threshold: decimal.NewFromInt(0), Rate: decimal.NewFromFloat(0.10)},
	{Threshold: decimal.NewFromInt(11600), Rate: decimal.NewFromFloat(0.12)},
	{Threshold: decimal.NewFromInt(47150), Rate: decimal.NewFromFloat(0.22)},
	{Threshold: decimal.NewFromInt(100525), Rate: decimal.NewFromFloat(0.24)},
	{Threshold: decimal.NewFromInt(191950), Rate: decimal.NewFromFloat(0.32)},
	{Threshold: decimal.NewFromInt(243725), Rate: decimal.NewFromFloat(0.35)},
	{Threshold: decimal.NewFromInt(609350), Rate: decimal.NewFromFloat(0.37)},
}

const baseYear = 2024

var yearTable = map[int]YearConstants{
	2024: {
		ElectiveDeferralLimit:   decimal.NewFromInt(23000),
		CatchUp50Plus:           decimal.NewFromInt(7500),
		SuperCatchUp60to63:      decimal.NewFromInt(11250),
		CombinedLimit415c:       decimal.NewFromInt(69000),
		CompensationCap:         decimal.NewFromInt(345000),
		SocialSecurityWageCap:   decimal.NewFromInt(168600),
		MedicareSurtaxThreshold: decimal.NewFromInt(200000),
		StandardDeduction:       decimal.NewFromInt(14600),
		MatchTiers:              defaultMatchTiers,
		TaxBrackets:             brackets2024,
	},
	2025: {
		ElectiveDeferralLimit:   decimal.NewFromInt(23500),
		CatchUp50Plus:           decimal.NewFromInt(7500),
		SuperCatchUp60to63:      decimal.NewFromInt(11250),
		CombinedLimit415c:       decimal.NewFromInt(70000),
		CompensationCap:         decimal.NewFromInt(350000),
		SocialSecurityWageCap:   decimal.NewFromInt(176100),
		MedicareSurtaxThreshold: decimal.NewFromInt(200000),
		StandardDeduction:       decimal.NewFromInt(14600),
		MatchTiers:              defaultMatchTiers,
		TaxBrackets:             brackets2024,
	},
}

// ConstantsAt returns the YearConstants for year, extrapolating from
// the nearest known year by inflationRate when year falls outside the
// table (§4.4: "all yearly constants ... carried as per-year tables"),
// or a ConfigError once that gap exceeds
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
		return YearConstants{}, &calcerr.ConfigError{Table: "usa", Year: year, NearestYear: nearest}
	}
	base := yearTable[nearest]
	growth := decimal.NewFromFloat(1 + inflationRate)
	factor := growth.Pow(decimal.NewFromInt(int64(year - nearest)))

	scaled := base
	scaled.ElectiveDeferralLimit = base.ElectiveDeferralLimit.Mul(factor)
	scaled.CatchUp50Plus = base.CatchUp50Plus.Mul(factor)
	scaled.SuperCatchUp60to63 = base.SuperCatchUp60to63.Mul(factor)
	scaled.CombinedLimit415c = base.CombinedLimit415c.Mul(factor)
	scaled.CompensationCap = base.CompensationCap.Mul(factor)
	scaled.SocialSecurityWageCap = base.SocialSecurityWageCap.Mul(factor)
	scaled.MedicareSurtaxThreshold = base.MedicareSurtaxThreshold
	scaled.StandardDeduction = base.StandardDeduction.Mul(factor)
	return scaled, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// CatchUpAmount returns the additional 401(k) elective-deferral room
// available at age (§4.4: age >= 50 catch-up, 60-63 enhanced catch-up).
func (yc YearConstants) CatchUpAmount(age int) decimal.Decimal {
	switch {
	case age >= 60 && age <= 63:
		return yc.SuperCatchUp60to63
	case age >= 50:
		return yc.CatchUp50Plus
	default:
		return decimal.Zero
	}
}

// ComputeTax applies the marginal bracket table directly (no quick
// deduction constant is published for the US table; each bracket's
// width is walked explicitly).
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

// PIA bend points (§4.4 three-bend-point formula), 2024 table.
var (
	BendPoint1 = decimal.NewFromInt(1174)
	BendPoint2 = decimal.NewFromInt(7078)

	BendRate1 = decimal.NewFromFloat(0.90)
	BendRate2 = decimal.NewFromFloat(0.32)
	BendRate3 = decimal.NewFromFloat(0.15)
)

// FullRetirementAge is the age benefits are claimed at. The claim age
// always equals it, so PIA is paid without a claim-age adjustment.
const FullRetirementAge = 67

const (
	SocialSecurityEmployeeRate = 0.062
	SocialSecurityEmployerRate = 0.062
	MedicareRate               = 0.0145
	AdditionalMedicareRate     = 0.009
	DefaultDeferralRate        = 0.08
	DefaultAnnuityReturnRate   = 0.03
	DefaultAnnuityMonths       = 300
	IndexedEarningsYears       = 35
)
