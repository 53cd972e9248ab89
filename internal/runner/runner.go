// Package runner implements the analysis runner (§4.7): resolving one
// or many requested country codes against the registry, invoking each
// calculator with identical inputs, and converting headline numbers
// into a display currency when one is given.
// Grounded on the teacher's forecast.GetForecast loop-over-scenarios
// shape (internal/forecast/forecast.go), adapted from a monthly-event
// scan to a per-country calculator invocation.
package runner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/internal/registry"
	"github.com/finledger/pension-sim/pkg/currency"
	"github.com/finledger/pension-sim/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Runner resolves country codes against a Registry and runs each
// calculator, optionally converting results into a display currency.
type Runner struct {
	registry  *registry.Registry
	converter *currency.Converter
	logger    *zap.Logger
}

// New creates a Runner.
func New(reg *registry.Registry, conv *currency.Converter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{registry: reg, converter: conv, logger: logger}
}

// CountryResult pairs a PensionResult with its display-currency
// conversion (nil when no conversion was requested or needed).
type CountryResult struct {
	Result    domain.PensionResult
	Converted *domain.Converted
}

// CompareResult is the outcome of running every requested country
// code against the same profile (§4.7, §C.2).
type CompareResult struct {
	Countries []CountryResult
}

// Ranked returns the requested country codes ordered best-to-worst by
// converted monthly pension (falling back to native-currency monthly
// pension when no display-currency conversion was requested),
// grounded on the original's analysis_runner.py comparison table
// (§C.2).
func (c CompareResult) Ranked() []string {
	type scored struct {
		code  string
		value float64
	}
	scores := make([]scored, 0, len(c.Countries))
	for _, cr := range c.Countries {
		value, _ := cr.Result.MonthlyPensionAtRetire.Float64()
		if cr.Converted != nil {
			value, _ = cr.Converted.MonthlyPensionAtRetire.Float64()
		}
		scores = append(scores, scored{code: cr.Result.CountryCode, value: value})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].value > scores[j].value })

	codes := make([]string, len(scores))
	for i, s := range scores {
		codes[i] = s.code
	}
	return codes
}

// Run resolves each requested country code, invokes its calculator
// with identical inputs, and — when displayCurrency is non-empty —
// converts the headline numbers into that currency (§4.7 step 4).
func (r *Runner) Run(
	ctx context.Context,
	codes []string,
	p domain.Person,
	s domain.SalaryProfile,
	e domain.EconomicFactors,
	displayCurrency string,
) (CompareResult, error) {
	var table domain.ExchangeRateTable
	if displayCurrency != "" {
		table = r.converter.Resolve(ctx)
	}

	countries := make([]CountryResult, 0, len(codes))
	for _, code := range codes {
		calc, err := r.registry.Get(code)
		if err != nil {
			return CompareResult{}, err
		}

		result, err := calc.Calculate(p, s, e)
		if err != nil {
			return CompareResult{}, fmt.Errorf("calculate %s: %w", strings.ToUpper(code), err)
		}

		cr := CountryResult{Result: result}
		if displayCurrency != "" {
			converted, err := convertHeadline(result, table, displayCurrency)
			if err != nil {
				return CompareResult{}, err
			}
			cr.Converted = &converted
		}

		r.logger.Debug("ran calculator",
			zap.String("op", "run"),
			zap.String("country_code", code),
		)
		countries = append(countries, cr)
	}

	return CompareResult{Countries: countries}, nil
}

func convertHeadline(result domain.PensionResult, table domain.ExchangeRateTable, displayCurrency string) (domain.Converted, error) {
	monthly, err := convertDecimal(table, result.MonthlyPensionAtRetire, result.Currency, displayCurrency)
	if err != nil {
		return domain.Converted{}, err
	}
	totalContrib, err := convertDecimal(table, result.TotalContribCombined, result.Currency, displayCurrency)
	if err != nil {
		return domain.Converted{}, err
	}
	totalBenefit, err := convertDecimal(table, result.TotalBenefit, result.Currency, displayCurrency)
	if err != nil {
		return domain.Converted{}, err
	}

	return domain.Converted{
		Currency:               displayCurrency,
		MonthlyPensionAtRetire: monthly,
		TotalContribCombined:   totalContrib,
		TotalBenefit:           totalBenefit,
	}, nil
}

func convertDecimal(table domain.ExchangeRateTable, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	converted, err := currency.Convert(table, amount.InexactFloat64(), from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return mathutil.RoundCents(decimal.NewFromFloat(converted)), nil
}
