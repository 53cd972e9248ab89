package domain

import "github.com/shopspring/decimal"

// CurrencyAmount pairs an amount with its 3-letter currency code (§3, §6).
type CurrencyAmount struct {
	Amount   decimal.Decimal
	Currency string
}

// ExchangeRateTable maps a 3-letter currency code to units of that
// currency per one unit of the base currency (§3, §8).
type ExchangeRateTable struct {
	Date         string             `json:"date"`      // ISO date of validity
	Timestamp    string             `json:"timestamp"` // ISO-8601
	Source       string             `json:"api_source"`
	BaseCurrency string             `json:"base_currency"`
	Version      string             `json:"cache_version"`
	ExpiresAt    string             `json:"expires_at"`
	Rates        map[string]float64 `json:"rates"`
}

// Rate returns the rate for a currency code, and whether it was found.
func (t ExchangeRateTable) Rate(code string) (float64, bool) {
	r, ok := t.Rates[code]
	return r, ok
}
