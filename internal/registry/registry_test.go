package registry

import (
	"testing"

	"github.com/finledger/pension-sim/internal/domain"
	"github.com/shopspring/decimal"
)

type stubCalculator struct {
	code string
	fail bool
}

func (s stubCalculator) CountryCode() string             { return s.code }
func (s stubCalculator) CurrencyCode() string            { return "CNY" }
func (s stubCalculator) RetirementAge(domain.Person) int { return 60 }
func (s stubCalculator) Calculate(domain.Person, domain.SalaryProfile, domain.EconomicFactors) (domain.PensionResult, error) {
	if s.fail {
		return domain.PensionResult{}, &stubError{}
	}
	return domain.PensionResult{
		CountryCode: s.code,
		Schedule: domain.RetirementSchedule{
			Payouts: []domain.MonthlyPayout{
				{Age: 60, Month: 1, Amount: decimal.NewFromInt(100)},
				{Age: 60, Month: 2, Amount: decimal.NewFromInt(100)},
				{Age: 61, Month: 1, Amount: decimal.NewFromInt(100)},
			},
		},
	}, nil
}

type stubError struct{}

func (e *stubError) Error() string { return "stub failure" }

func TestRegisterAndGet(t *testing.T) {
	r := New(nil)
	if err := r.Register(stubCalculator{code: "cn"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, err := r.Get("CN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.CountryCode() != "cn" {
		t.Errorf("got %q", c.CountryCode())
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := New(nil)
	if err := r.Register(stubCalculator{code: "CN"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := r.Register(stubCalculator{code: "cn"})
	if err == nil {
		t.Fatal("expected a DuplicateRegistrationError")
	}
}

func TestGetUnknownCountry(t *testing.T) {
	r := New(nil)
	_, err := r.Get("ZZ")
	if err == nil {
		t.Fatal("expected an UnknownCountryError")
	}
}

func TestListCodesSorted(t *testing.T) {
	r := New(nil)
	_ = r.Register(stubCalculator{code: "US"})
	_ = r.Register(stubCalculator{code: "CN"})
	_ = r.Register(stubCalculator{code: "SG"})

	got := r.ListCodes()
	want := []string{"CN", "SG", "US"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ListCodes() = %v, want %v", got, want)
		}
	}
}

func TestSelfTest(t *testing.T) {
	r := New(nil)
	_ = r.Register(stubCalculator{code: "CN"})
	_ = r.Register(stubCalculator{code: "US", fail: true})

	results := r.SelfTest(domain.Person{}, domain.SalaryProfile{}, domain.EconomicFactors{})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	byCode := map[string]SelfTestResult{}
	for _, res := range results {
		byCode[res.CountryCode] = res
	}
	if !byCode["CN"].Passed {
		t.Errorf("expected CN to pass, err=%v", byCode["CN"].Err)
	}
	if byCode["US"].Passed {
		t.Errorf("expected US to fail")
	}
}
