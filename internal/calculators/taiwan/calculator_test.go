package taiwan

import (
	"testing"

	"github.com/finledger/pension-sim/internal/domain"
	"github.com/shopspring/decimal"
)

func testPerson() (domain.Person, domain.SalaryProfile, domain.EconomicFactors) {
	p := domain.Person{BirthYear: 1994, Gender: domain.Male, Employment: domain.Employee, StartWorkYear: 2024}
	s := domain.SalaryProfile{MonthlySalary: 15000, AnnualGrowthRate: 0, ContributionStartYear: 2024}
	e := domain.EconomicFactors{
		InflationRate:            0.01,
		InvestmentReturnRate:     0.03,
		SocialSecurityReturnRate: 0.03,
		BaseCurrency:             "TWD",
		DisplayCurrency:          "TWD",
		TerminalAge:              90,
	}
	return p, s, e
}

// TestFirstYearInsuredSalaryFloorsAtMinimum checks that a below-floor
// monthly salary (15,000) is clamped to the 25,250 insured-salary floor
// before contributions and tax are computed.
func TestFirstYearInsuredSalaryFloorsAtMinimum(t *testing.T) {
	p, s, e := testPerson()
	c := New(nil)

	result, err := c.Calculate(p, s, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Ledger) == 0 {
		t.Fatal("expected a non-empty ledger")
	}

	first := result.Ledger[0]

	wantEmployee := 21210.0 // 25250 * 0.07 * 12
	if diff := first.EmployeeContrib.Pension.InexactFloat64() - wantEmployee; diff > 1 || diff < -1 {
		t.Errorf("employee contrib = %v, want %v", first.EmployeeContrib.Pension.InexactFloat64(), wantEmployee)
	}

	wantTaxable := 84400.0 // 180000 - 92000 - min(180000*0.02, 24000)
	if diff := first.TaxableIncome.InexactFloat64() - wantTaxable; diff > 1 || diff < -1 {
		t.Errorf("taxable income = %v, want %v", first.TaxableIncome.InexactFloat64(), wantTaxable)
	}

	wantTax := 4220.0 // 84400 * 0.05
	if diff := first.Tax.InexactFloat64() - wantTax; diff > 1 || diff < -1 {
		t.Errorf("tax = %v, want %v", first.Tax.InexactFloat64(), wantTax)
	}

	wantNet := 154570.0 // 180000 - 21210 - 4220
	if diff := first.Net.InexactFloat64() - wantNet; diff > 1 || diff < -1 {
		t.Errorf("net = %v, want %v", first.Net.InexactFloat64(), wantNet)
	}
}

func TestLifetimeSimulationInvariants(t *testing.T) {
	p, s, e := testPerson()
	c := New(nil)

	result, err := c.Calculate(p, s, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Schedule.MonotoneAge() {
		t.Error("expected retirement schedule to be monotone by age")
	}
	if result.MonthlyPensionAtRetire.IsZero() || result.MonthlyPensionAtRetire.IsNegative() {
		t.Errorf("expected a positive monthly pension, got %v", result.MonthlyPensionAtRetire)
	}
	if result.TotalBenefit.LessThanOrEqual(result.MonthlyPensionAtRetire) {
		t.Error("expected total benefit to exceed a single month's pension")
	}
	if result.IRR == nil {
		t.Error("expected IRR to resolve for a lifetime contribution/benefit stream")
	}
}

func TestRetirementAgeIsSixtyFive(t *testing.T) {
	c := New(nil)
	p := domain.Person{BirthYear: 1990, Gender: domain.Male, Employment: domain.Employee, StartWorkYear: 2015}
	if got := c.RetirementAge(p); got != 65 {
		t.Errorf("RetirementAge() = %d, want 65", got)
	}
}

func TestComputeTaxBrackets(t *testing.T) {
	tests := []struct {
		name    string
		taxable float64
		want    float64
	}{
		{"zero taxable", 0, 0},
		{"bracket 1", 84400, 4220},
		{"bracket 2", 600000, 32800},   // 560000*0.05 + 40000*0.12
		{"bracket 3", 1300000, 120000}, // 560000*0.05 + 700000*0.12 + 40000*0.20
		{"negative clamped to zero", -500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTax(decimal.NewFromFloat(tt.taxable), brackets2024).InexactFloat64()
			if diff := got - tt.want; diff > 0.5 || diff < -0.5 {
				t.Errorf("ComputeTax(%v) = %v, want %v", tt.taxable, got, tt.want)
			}
		})
	}
}

func TestInsuredSalaryCeilingClampsHighEarners(t *testing.T) {
	p := domain.Person{BirthYear: 1994, Gender: domain.Male, Employment: domain.Employee, StartWorkYear: 2024}
	s := domain.SalaryProfile{MonthlySalary: 80000, AnnualGrowthRate: 0, ContributionStartYear: 2024}
	e := domain.EconomicFactors{
		InflationRate:            0.01,
		InvestmentReturnRate:     0.03,
		SocialSecurityReturnRate: 0.03,
		BaseCurrency:             "TWD",
		DisplayCurrency:          "TWD",
		TerminalAge:              90,
	}
	c := New(nil)

	result, err := c.Calculate(p, s, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantEmployee := 38472.0 // 45800 * 0.07 * 12
	got := result.Ledger[0].EmployeeContrib.Pension.InexactFloat64()
	if diff := got - wantEmployee; diff > 1 || diff < -1 {
		t.Errorf("employee contrib = %v, want %v (insured salary should clamp to ceiling)", got, wantEmployee)
	}
}
