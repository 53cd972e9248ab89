package domain

import "testing"

func supportedSetForTest() map[string]bool {
	return map[string]bool{"CNY": true, "USD": true, "SGD": true}
}

func TestEconomicFactorsValidate(t *testing.T) {
	tests := []struct {
		name    string
		factors EconomicFactors
		wantErr bool
	}{
		{
			"valid",
			EconomicFactors{InflationRate: 0.02, InvestmentReturnRate: 0.05, SocialSecurityReturnRate: 0.04, BaseCurrency: "CNY", DisplayCurrency: "USD"},
			false,
		},
		{
			"rate out of bounds",
			EconomicFactors{InflationRate: 2.0, InvestmentReturnRate: 0.05, SocialSecurityReturnRate: 0.04, BaseCurrency: "CNY", DisplayCurrency: "USD"},
			true,
		},
		{
			"unsupported base currency",
			EconomicFactors{InflationRate: 0.02, InvestmentReturnRate: 0.05, SocialSecurityReturnRate: 0.04, BaseCurrency: "ZZZ", DisplayCurrency: "USD"},
			true,
		},
		{
			"unsupported display currency",
			EconomicFactors{InflationRate: 0.02, InvestmentReturnRate: 0.05, SocialSecurityReturnRate: 0.04, BaseCurrency: "CNY", DisplayCurrency: "ZZZ"},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.factors.Validate(supportedSetForTest())
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTerminalAgeOrDefault(t *testing.T) {
	if got := (EconomicFactors{}).TerminalAgeOrDefault(); got != 90 {
		t.Errorf("default TerminalAge = %d, want 90", got)
	}
	if got := (EconomicFactors{TerminalAge: 85}).TerminalAgeOrDefault(); got != 85 {
		t.Errorf("explicit TerminalAge = %d, want 85", got)
	}
}
