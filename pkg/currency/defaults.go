package currency

// defaultRates is the hard-coded fallback table baked into the
// binary, used only when every configured fetcher fails (§4.8). The
// CNY-based figures are the simplified 2024 table carried over from
// the original conversion helper; a stale baked-in table is always
// preferable to no conversion at all.
var defaultRates = map[string]float64{
	"CNY": 1.0,
	"USD": 0.14,
	"EUR": 0.13,
	"GBP": 0.11,
	"JPY": 20.5,
	"HKD": 1.08,
	"SGD": 0.19,
	"AUD": 0.21,
	"CAD": 0.19,
	"TWD": 4.4,
	"NOK": 1.45,
	"SEK": 1.48,
	"DKK": 0.95,
	"CHF": 0.12,
	"INR": 11.6,
	"KRW": 184.0,
	"RUB": 12.7,
	"BRL": 0.70,
}

// DefaultDate is the as-of date documented for the baked-in table.
const DefaultDate = "2024-01-01"
