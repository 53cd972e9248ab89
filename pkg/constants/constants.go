// Package constants provides shared constants for the pension simulator.
package constants

// DateLayout is the calendar-date format used wherever a bare ISO date
// (cache validity, rate-table timestamps) is rendered or parsed.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year.
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places).
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions.
	PercentageMultiplier = 100.0

	// DefaultTerminalAge is the assumed age through which retirement
	// benefits are paid absent an override.
	DefaultTerminalAge = 90

	// MinStartWorkAgeOffset is the minimum number of years that must
	// separate a Person's birth year from their start-work year.
	MinStartWorkAgeOffset = 16

	// MaxTableExtrapolationYears bounds how far a per-year constants
	// table may extrapolate away from its nearest known year before a
	// calculator reports ConfigError instead of a guessed value (§7).
	MaxTableExtrapolationYears = 50
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format.
	OutputFormatPretty = "pretty"

	// OutputFormatJSON is the machine-readable annual-ledger output format.
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default simulation-request file name.
	DefaultConfigFile = "simulation.yaml"
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent).
	CurrencyTolerance = 0.01

	// RateTolerance is the tolerance used when comparing economic rates.
	RateTolerance = 1e-9

	// MinRate and MaxRate bound every configurable rate per spec (§3).
	MinRate = -0.5
	MaxRate = 1.0
)

// SupportedCurrencies is the exact supported-currency set (§6).
var SupportedCurrencies = []string{
	"CNY", "USD", "EUR", "GBP", "JPY", "HKD", "SGD", "AUD",
	"CAD", "TWD", "NOK", "SEK", "DKK", "CHF", "INR", "KRW", "RUB", "BRL",
}

// SupportedCountryCodes is the registrable country-code set (§6), kept
// extensible: the registry itself accepts any code, this is only what
// ships with the default calculator set.
var SupportedCountryCodes = []string{"CN", "US", "SG", "TW", "JP", "UK"}

// CurrencySymbols maps a 3-letter code to the symbol(s) accepted by the
// currency parser (§4.8), including the multi-character dollar variants.
var CurrencySymbols = map[string]string{
	"CNY": "¥",
	"USD": "$",
	"SGD": "S$",
	"HKD": "HK$",
	"TWD": "NT$",
	"JPY": "¥",
	"GBP": "£",
	"EUR": "€",
}
