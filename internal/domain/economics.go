package domain

import (
	"fmt"

	"github.com/finledger/pension-sim/pkg/calcerr"
	"github.com/finledger/pension-sim/pkg/constants"
)

// EconomicFactors carries the macro assumptions driving a simulation.
type EconomicFactors struct {
	InflationRate            float64
	InvestmentReturnRate     float64
	SocialSecurityReturnRate float64
	BaseCurrency             string
	DisplayCurrency          string
	TerminalAge              int // default constants.DefaultTerminalAge when zero
}

// Validate enforces the §3 rate bounds and that currency codes belong
// to the supported set.
func (e EconomicFactors) Validate(supportedCurrencies map[string]bool) error {
	for _, r := range []struct {
		name string
		val  float64
	}{
		{"InflationRate", e.InflationRate},
		{"InvestmentReturnRate", e.InvestmentReturnRate},
		{"SocialSecurityReturnRate", e.SocialSecurityReturnRate},
	} {
		if r.val < constants.MinRate || r.val > constants.MaxRate {
			return &calcerr.InvalidProfileError{
				Field:  r.name,
				Reason: fmt.Sprintf("rate %.4f outside [%.2f, %.2f]", r.val, constants.MinRate, constants.MaxRate),
			}
		}
	}
	if !supportedCurrencies[e.BaseCurrency] {
		return &calcerr.InvalidProfileError{Field: "BaseCurrency", Reason: fmt.Sprintf("unsupported currency %q", e.BaseCurrency)}
	}
	if !supportedCurrencies[e.DisplayCurrency] {
		return &calcerr.InvalidProfileError{Field: "DisplayCurrency", Reason: fmt.Sprintf("unsupported currency %q", e.DisplayCurrency)}
	}
	return nil
}

// TerminalAgeOrDefault returns the configured terminal age, or the
// documented default of 90 when unset.
func (e EconomicFactors) TerminalAgeOrDefault() int {
	if e.TerminalAge == 0 {
		return constants.DefaultTerminalAge
	}
	return e.TerminalAge
}
