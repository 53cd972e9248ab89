// Package registry is the plugin registry described in §4.2/§4.7: a
// static, case-insensitive map from country code to Calculator,
// populated at process startup rather than discovered dynamically
// (§9 Design Notes — an interface/map replaces class polymorphism and
// filesystem plugin discovery).
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/pkg/calcerr"
	"go.uber.org/zap"
)

// Calculator is the contract every jurisdiction package implements
// (§4.2): given a Person, SalaryProfile and EconomicFactors, produce
// the full yearly ledger, the retirement age used, and the final
// PensionResult.
type Calculator interface {
	CountryCode() string
	CurrencyCode() string
	RetirementAge(p domain.Person) int
	Calculate(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) (domain.PensionResult, error)
}

// Registry holds the registered calculators, keyed by upper-cased
// country code.
type Registry struct {
	calculators map[string]Calculator
	logger      *zap.Logger
}

// New creates an empty Registry.
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{calculators: make(map[string]Calculator), logger: logger}
}

// Register adds a calculator under its own CountryCode(), upper-cased.
// Registering the same code twice is a *calcerr.DuplicateRegistrationError.
func (r *Registry) Register(c Calculator) error {
	code := strings.ToUpper(c.CountryCode())
	if _, exists := r.calculators[code]; exists {
		return &calcerr.DuplicateRegistrationError{Code: code}
	}
	r.calculators[code] = c
	r.logger.Debug("registered calculator", zap.String("op", "register"), zap.String("country_code", code))
	return nil
}

// Get looks up a calculator by country code (case-insensitive). On a
// miss it returns a *calcerr.UnknownCountryError naming the available
// codes (§7 user-visible behavior).
func (r *Registry) Get(code string) (Calculator, error) {
	c, ok := r.calculators[strings.ToUpper(code)]
	if !ok {
		return nil, &calcerr.UnknownCountryError{Code: code, Available: r.ListCodes()}
	}
	return c, nil
}

// ListCodes returns every registered country code, sorted.
func (r *Registry) ListCodes() []string {
	codes := make([]string, 0, len(r.calculators))
	for code := range r.calculators {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// SelfTestResult is one calculator's outcome from SelfTest.
type SelfTestResult struct {
	CountryCode string
	Passed      bool
	Err         error
}

// SelfTest runs every registered calculator against a canned profile
// and reports pass/fail per code (§C.1 — from the original's
// plugin_manager self-test, used by the CLI's --test-plugins flag). A
// calculator "passes" if it returns a result without error and its
// RetirementSchedule is monotone non-decreasing by age (§3 invariant).
func (r *Registry) SelfTest(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) []SelfTestResult {
	codes := r.ListCodes()
	results := make([]SelfTestResult, 0, len(codes))
	for _, code := range codes {
		c := r.calculators[code]
		result, err := c.Calculate(p, s, e)
		if err != nil {
			results = append(results, SelfTestResult{CountryCode: code, Passed: false, Err: err})
			continue
		}
		if !result.Schedule.MonotoneAge() {
			results = append(results, SelfTestResult{
				CountryCode: code,
				Passed:      false,
				Err:         fmt.Errorf("retirement schedule is not monotone by age"),
			})
			continue
		}
		results = append(results, SelfTestResult{CountryCode: code, Passed: true})
	}
	return results
}
