// Package singapore implements the CPF account + CPF LIFE calculator
// described in spec.md §4.5, the hardest subsystem in the simulator.
// Constants are grounded on
// original_source/plugins/singapore/constants.go's AGE_RATE_CONFIG/
// AGE_ALLOCATION_CONFIG tables and cpf_comprehensive_engine.py's
// FRS/ERS/BRS and Basic-plan premium-ratio defaults.
package singapore

import "github.com/shopspring/decimal"

// AgeBand is one row of the contribution-rate / allocation tables,
// keyed by an inclusive [MinAge, MaxAge] band (§4.5: "rates are
// configurable", never hard-coded in calculation code).
type AgeBand struct {
	MinAge int
	MaxAge int // inclusive; use a large sentinel for "and above"

	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal

	OAAllocation decimal.Decimal
	SAAllocation decimal.Decimal
	MAAllocation decimal.Decimal
}

const noUpperBound = 1 << 30

// AgeBands is the default contribution-rate and account-allocation
// schedule (2024 table). Allocation fractions switch from OA/SA/MA to
// OA/MA/RA once RA exists; Calculate redirects the SA fraction into RA
// from then on.
var AgeBands = []AgeBand{
	{MinAge: 0, MaxAge: 55, EmployeeRate: decimal.NewFromFloat(0.20), EmployerRate: decimal.NewFromFloat(0.17),
		OAAllocation: decimal.NewFromFloat(0.621622), SAAllocation: decimal.NewFromFloat(0.162162), MAAllocation: decimal.NewFromFloat(0.216216)},
	{MinAge: 56, MaxAge: 60, EmployeeRate: decimal.NewFromFloat(0.125), EmployerRate: decimal.NewFromFloat(0.125),
		OAAllocation: decimal.NewFromFloat(0.21), SAAllocation: decimal.NewFromFloat(0.07), MAAllocation: decimal.NewFromFloat(0.72)},
	{MinAge: 61, MaxAge: 65, EmployeeRate: decimal.NewFromFloat(0.075), EmployerRate: decimal.NewFromFloat(0.075),
		OAAllocation: decimal.NewFromFloat(0.12), SAAllocation: decimal.NewFromFloat(0.04), MAAllocation: decimal.NewFromFloat(0.84)},
	{MinAge: 66, MaxAge: 70, EmployeeRate: decimal.NewFromFloat(0.05), EmployerRate: decimal.NewFromFloat(0.05),
		OAAllocation: decimal.NewFromFloat(0.01), SAAllocation: decimal.NewFromFloat(0.01), MAAllocation: decimal.NewFromFloat(0.98)},
	{MinAge: 71, MaxAge: noUpperBound, EmployeeRate: decimal.NewFromFloat(0.05), EmployerRate: decimal.NewFromFloat(0.05),
		OAAllocation: decimal.NewFromFloat(0.01), SAAllocation: decimal.NewFromFloat(0.01), MAAllocation: decimal.NewFromFloat(0.98)},
}

// BandFor returns the AgeBand covering age, defaulting to the first
// band when age falls outside every configured range.
func BandFor(age int) AgeBand {
	for _, b := range AgeBands {
		if age >= b.MinAge && age <= b.MaxAge {
			return b
		}
	}
	return AgeBands[0]
}

// Config carries every tunable CPF rule parameter (§4.5's closing
// paragraph: all of these are configuration, not literals).
type Config struct {
	OAInterestRate decimal.Decimal
	SAInterestRate decimal.Decimal
	MAInterestRate decimal.Decimal
	RAInterestRate decimal.Decimal

	MonthlyWageCeiling decimal.Decimal
	AnnualCPFLimit     decimal.Decimal

	BHSBaseYear int
	BHSBase     decimal.Decimal
	BHSGrowth   decimal.Decimal

	FRSBaseYear int
	FRSBase     decimal.Decimal
	FRSGrowth   decimal.Decimal
	ERSMultiple decimal.Decimal
	BRSMultiple decimal.Decimal

	BasicPlanPremiumRatio decimal.Decimal
	EscalationRate        decimal.Decimal

	RetirementAccountAge int // 55
	PayoutStartAge       int // 65
}

// DefaultConfig is the 2024 parameter set.
func DefaultConfig() Config {
	return Config{
		OAInterestRate: decimal.NewFromFloat(0.025),
		SAInterestRate: decimal.NewFromFloat(0.04),
		MAInterestRate: decimal.NewFromFloat(0.04),
		RAInterestRate: decimal.NewFromFloat(0.04),

		MonthlyWageCeiling: decimal.NewFromInt(6800),
		AnnualCPFLimit:     decimal.NewFromInt(37740),

		BHSBaseYear: 2024,
		BHSBase:     decimal.NewFromInt(71500),
		BHSGrowth:   decimal.NewFromFloat(0.03),

		FRSBaseYear: 2024,
		FRSBase:     decimal.NewFromInt(205800),
		FRSGrowth:   decimal.NewFromFloat(0.03),
		ERSMultiple: decimal.NewFromFloat(2.0),
		BRSMultiple: decimal.NewFromFloat(0.5),

		BasicPlanPremiumRatio: decimal.NewFromFloat(0.15),
		EscalationRate:        decimal.NewFromFloat(0.02),

		RetirementAccountAge: 55,
		PayoutStartAge:       65,
	}
}

// BHSAt returns the Basic Healthcare Sum for the given calendar year,
// growing from BHSBase at BHSGrowth (§4.5 step 3's "calendar year's BHS").
func (c Config) BHSAt(year int) decimal.Decimal {
	years := year - c.BHSBaseYear
	growth := decimal.NewFromInt(1).Add(c.BHSGrowth)
	return c.BHSBase.Mul(growth.Pow(decimal.NewFromInt(int64(years))))
}

// FRSAt returns the Full Retirement Sum for the given calendar year.
func (c Config) FRSAt(year int) decimal.Decimal {
	years := year - c.FRSBaseYear
	growth := decimal.NewFromInt(1).Add(c.FRSGrowth)
	return c.FRSBase.Mul(growth.Pow(decimal.NewFromInt(int64(years))))
}

// RATarget resolves the member's RA formation target for the chosen
// plan type (§4.5: "FRS, ERS, or BRS (member choice)").
func (c Config) RATarget(year int, planType RATargetType) decimal.Decimal {
	frs := c.FRSAt(year)
	switch planType {
	case RATargetERS:
		return frs.Mul(c.ERSMultiple)
	case RATargetBRS:
		return frs.Mul(c.BRSMultiple)
	default:
		return frs
	}
}

// RATargetType selects which retirement-sum schedule forms RA at 55.
type RATargetType string

const (
	RATargetFRS RATargetType = "FRS"
	RATargetERS RATargetType = "ERS"
	RATargetBRS RATargetType = "BRS"
)

// LifePlan selects which of the three CPF LIFE payout plans applies
// from age 65 (§4.5).
type LifePlan string

const (
	LifeStandard   LifePlan = "standard"
	LifeEscalating LifePlan = "escalating"
	LifeBasic      LifePlan = "basic"
)
