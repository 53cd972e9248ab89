package usa

import (
	"testing"

	"github.com/finledger/pension-sim/internal/domain"
	"github.com/shopspring/decimal"
)

func scenarioSixPerson() (domain.Person, domain.SalaryProfile, domain.EconomicFactors) {
	p := domain.Person{BirthYear: 1994, Gender: domain.Male, Employment: domain.Employee, StartWorkYear: 2024}
	s := domain.SalaryProfile{MonthlySalary: 10000, AnnualGrowthRate: 0, ContributionStartYear: 2024}
	e := domain.EconomicFactors{
		InflationRate:            0.02,
		InvestmentReturnRate:     0.07,
		SocialSecurityReturnRate: 0.03,
		BaseCurrency:             "USD",
		DisplayCurrency:          "USD",
		TerminalAge:              90,
	}
	return p, s, e
}

// TestFirstYear401kMatchesScenarioSix reproduces spec.md §8 Scenario 6's
// year-1 figures: 120,000 USD salary, 8% default deferral.
func TestFirstYear401kMatchesScenarioSix(t *testing.T) {
	p, s, e := scenarioSixPerson()
	c := New(nil)

	result, err := c.Calculate(p, s, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Ledger) == 0 {
		t.Fatal("expected non-empty ledger")
	}

	first := result.Ledger[0]
	wantDeferral := 9600.0 // 120000 * 0.08
	gotDeferral := first.EmployeeContrib.Other.InexactFloat64()
	if diff := gotDeferral - wantDeferral; diff > 1 || diff < -1 {
		t.Errorf("employee deferral = %v, want %v", gotDeferral, wantDeferral)
	}

	wantMatch := 4800.0 // 100% of first 3% (3600) + 50% of next 2% (1200) = 4800
	gotMatch := first.EmployerContrib.Other.InexactFloat64()
	if diff := gotMatch - wantMatch; diff > 1 || diff < -1 {
		t.Errorf("employer match = %v, want %v", gotMatch, wantMatch)
	}
}

func TestComputeMatchTiered(t *testing.T) {
	tiers := defaultMatchTiers
	tests := []struct {
		name      string
		deferral  float64
		salary    float64
		wantMatch float64
	}{
		{"below tier 1", 2000, 100000, 2000},
		{"exactly tier 1", 3000, 100000, 3000},
		{"into tier 2", 4000, 100000, 3000 + 500},
		{"above both tiers", 6000, 100000, 3000 + 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeMatch(decimal.NewFromFloat(tt.deferral), decimal.NewFromFloat(tt.salary), tiers).InexactFloat64()
			if diff := got - tt.wantMatch; diff > 0.5 || diff < -0.5 {
				t.Errorf("computeMatch(%v, %v) = %v, want %v", tt.deferral, tt.salary, got, tt.wantMatch)
			}
		})
	}
}

func TestComputePIABendPoints(t *testing.T) {
	tests := []struct {
		name string
		aime float64
		want float64
	}{
		{"below first bend", 1000, 900},
		{"at first bend", 1174, 1056.6},
		{"between bends", 3000, 1174*0.9 + (3000-1174)*0.32},
		{"above second bend", 9000, 1174*0.9 + (7078-1174)*0.32 + (9000-7078)*0.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computePIA(decimal.NewFromFloat(tt.aime)).InexactFloat64()
			if diff := got - tt.want; diff > 0.5 || diff < -0.5 {
				t.Errorf("computePIA(%v) = %v, want %v", tt.aime, got, tt.want)
			}
		})
	}
}

func TestComputeAIMECapsAtTopThirtyFiveYears(t *testing.T) {
	earnings := make([]decimal.Decimal, 40)
	for i := range earnings {
		earnings[i] = decimal.NewFromInt(int64(50000 + i*1000))
	}
	aime := computeAIME(earnings)
	if aime.IsZero() || aime.IsNegative() {
		t.Fatalf("expected a positive AIME, got %v", aime)
	}
	// the five lowest years (50000..54000) must be excluded from the average
	allYearsAvg := decimal.Zero
	for _, e := range earnings {
		allYearsAvg = allYearsAvg.Add(e)
	}
	allYearsAvg = allYearsAvg.Div(decimal.NewFromInt(int64(len(earnings) * 12)))
	if aime.LessThanOrEqual(allYearsAvg) {
		t.Errorf("expected top-35 AIME %v to exceed all-40-year average %v", aime, allYearsAvg)
	}
}

func TestLifetimeSimulationInvariants(t *testing.T) {
	p, s, e := scenarioSixPerson()
	c := New(nil)

	result, err := c.Calculate(p, s, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Schedule.MonotoneAge() {
		t.Error("expected monotone retirement schedule")
	}
	if result.MonthlyPensionAtRetire.IsZero() || result.MonthlyPensionAtRetire.IsNegative() {
		t.Errorf("expected positive monthly pension, got %v", result.MonthlyPensionAtRetire)
	}
}

func TestSocialSecurityWageCapIsRespected(t *testing.T) {
	p := domain.Person{BirthYear: 1994, Gender: domain.Male, Employment: domain.Employee, StartWorkYear: 2024}
	s := domain.SalaryProfile{MonthlySalary: 50000, AnnualGrowthRate: 0, ContributionStartYear: 2024}
	e := domain.EconomicFactors{InflationRate: 0, InvestmentReturnRate: 0.05, SocialSecurityReturnRate: 0.03, BaseCurrency: "USD", DisplayCurrency: "USD", TerminalAge: 90}
	c := New(nil)

	result, err := c.Calculate(p, s, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := result.Ledger[0]
	wantSS := 168600.0 * SocialSecurityEmployeeRate
	gotSS := first.EmployeeContrib.Pension.InexactFloat64()
	if diff := gotSS - wantSS; diff > 1 || diff < -1 {
		t.Errorf("employee SS contribution = %v, want %v (wage-cap not applied)", gotSS, wantSS)
	}
}
