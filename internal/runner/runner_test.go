package runner

import (
	"context"
	"testing"

	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/internal/registry"
	"github.com/finledger/pension-sim/pkg/currency"
	"github.com/shopspring/decimal"
)

type fakeCalculator struct {
	code          string
	ccy           string
	monthlyAmount float64
}

func (f fakeCalculator) CountryCode() string             { return f.code }
func (f fakeCalculator) CurrencyCode() string            { return f.ccy }
func (f fakeCalculator) RetirementAge(domain.Person) int { return 65 }
func (f fakeCalculator) Calculate(domain.Person, domain.SalaryProfile, domain.EconomicFactors) (domain.PensionResult, error) {
	return domain.PensionResult{
		CountryCode:            f.code,
		Currency:               f.ccy,
		MonthlyPensionAtRetire: decimal.NewFromFloat(f.monthlyAmount),
		TotalContribCombined:   decimal.NewFromFloat(f.monthlyAmount * 240),
		TotalBenefit:           decimal.NewFromFloat(f.monthlyAmount * 300),
	}, nil
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	reg := registry.New(nil)
	if err := reg.Register(fakeCalculator{code: "CN", ccy: "CNY", monthlyAmount: 1000}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(fakeCalculator{code: "US", ccy: "USD", monthlyAmount: 2000}); err != nil {
		t.Fatal(err)
	}

	mock := &currency.MockFetcher{TableOut: domain.ExchangeRateTable{
		Rates: map[string]float64{"CNY": 1.0, "USD": 0.14},
	}}
	cache := currency.NewCache(t.TempDir()+"/rates.json", nil)
	conv := currency.NewConverter(cache, []currency.Fetcher{mock}, "CNY", nil)

	return New(reg, conv, nil)
}

func TestRunnerRunWithoutConversion(t *testing.T) {
	r := newTestRunner(t)
	result, err := r.Run(context.Background(), []string{"cn", "us"}, domain.Person{}, domain.SalaryProfile{}, domain.EconomicFactors{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Countries) != 2 {
		t.Fatalf("expected 2 countries, got %d", len(result.Countries))
	}
	for _, c := range result.Countries {
		if c.Converted != nil {
			t.Errorf("expected no conversion when displayCurrency is empty")
		}
	}
}

func TestRunnerRunWithConversionAndRanking(t *testing.T) {
	r := newTestRunner(t)
	result, err := r.Run(context.Background(), []string{"CN", "US"}, domain.Person{}, domain.SalaryProfile{}, domain.EconomicFactors{}, "CNY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range result.Countries {
		if c.Converted == nil {
			t.Fatalf("expected conversion for %s", c.Result.CountryCode)
		}
	}

	ranked := result.Ranked()
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked codes, got %d", len(ranked))
	}
	// 2000 USD converts to CNY at a far higher rate than 1000 CNY, so US should rank first.
	if ranked[0] != "US" {
		t.Errorf("expected US to rank first, got %v", ranked)
	}
}

func TestRunnerUnknownCountry(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Run(context.Background(), []string{"ZZ"}, domain.Person{}, domain.SalaryProfile{}, domain.EconomicFactors{}, "")
	if err == nil {
		t.Fatal("expected an UnknownCountryError")
	}
}
