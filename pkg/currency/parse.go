package currency

import (
	"strconv"
	"strings"

	"github.com/finledger/pension-sim/pkg/calcerr"
	"github.com/finledger/pension-sim/pkg/constants"
)

// defaultBaseCurrency is used for a bare-digits amount with no code
// or symbol (§4.8).
const defaultBaseCurrency = "CNY"

// symbolsByLength orders the symbol table longest-first so a
// multi-character symbol like "HK$" is matched before its "$" suffix
// would otherwise win.
var symbolsByLength []symbolEntry

type symbolEntry struct {
	symbol string
	code   string
}

// symbolCodeOrder is iteration order for a fixed code set rather than
// constants.CurrencySymbols directly: two codes (CNY, JPY) share the
// "¥" symbol, and a map iteration would make that ambiguity
// nondeterministic. CNY wins the tie as the default base currency.
var symbolCodeOrder = []string{"CNY", "USD", "SGD", "HKD", "TWD", "JPY", "GBP", "EUR"}

func init() {
	for _, code := range symbolCodeOrder {
		symbolsByLength = append(symbolsByLength, symbolEntry{symbol: constants.CurrencySymbols[code], code: code})
	}
	// Stable longest-first order without importing sort for a handful
	// of entries: simple insertion by length.
	for i := 1; i < len(symbolsByLength); i++ {
		for j := i; j > 0 && len(symbolsByLength[j].symbol) > len(symbolsByLength[j-1].symbol); j-- {
			symbolsByLength[j], symbolsByLength[j-1] = symbolsByLength[j-1], symbolsByLength[j]
		}
	}
}

var supportedSet = func() map[string]bool {
	m := make(map[string]bool, len(constants.SupportedCurrencies))
	for _, c := range constants.SupportedCurrencies {
		m[c] = true
	}
	return m
}()

func suggestCurrency(code string) string {
	return calcerr.NearestMatch(code, constants.SupportedCurrencies)
}

// ParseAmount parses an amount string per §4.8:
//   - "<code><digits>"   e.g. "cny10000"
//   - "<digits><code>"   e.g. "10000cny"
//   - "<symbol><digits>" e.g. "¥10000", "S$10000"
//   - bare "<digits>"    defaults to CNY
//
// Whitespace and commas are ignored; code matching is case-insensitive.
func ParseAmount(input string) (float64, string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == ',' || r == '\t' {
			return -1
		}
		return r
	}, input)
	if cleaned == "" {
		return 0, "", &calcerr.ParseError{Input: input}
	}

	for _, entry := range symbolsByLength {
		if strings.HasPrefix(cleaned, entry.symbol) {
			digits := cleaned[len(entry.symbol):]
			amount, err := strconv.ParseFloat(digits, 64)
			if err != nil {
				return 0, "", &calcerr.ParseError{Input: input, Err: err}
			}
			return amount, entry.code, nil
		}
	}

	if amount, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return amount, defaultBaseCurrency, nil
	}

	if code, digits, ok := splitLeadingCode(cleaned); ok {
		amount, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return 0, "", &calcerr.ParseError{Input: input, Err: err}
		}
		return amount, code, nil
	}

	if code, digits, ok := splitTrailingCode(cleaned); ok {
		amount, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return 0, "", &calcerr.ParseError{Input: input, Err: err}
		}
		return amount, code, nil
	}

	return 0, "", &calcerr.ParseError{Input: input}
}

func splitLeadingCode(s string) (code, rest string, ok bool) {
	if len(s) < 4 {
		return "", "", false
	}
	candidate := strings.ToUpper(s[:3])
	if !supportedSet[candidate] {
		return "", "", false
	}
	return candidate, s[3:], true
}

func splitTrailingCode(s string) (code, rest string, ok bool) {
	if len(s) < 4 {
		return "", "", false
	}
	candidate := strings.ToUpper(s[len(s)-3:])
	if !supportedSet[candidate] {
		return "", "", false
	}
	return candidate, s[:len(s)-3], true
}
