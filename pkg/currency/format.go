package currency

import (
	"fmt"
	"math"
	"strings"

	"github.com/finledger/pension-sim/pkg/constants"
)

// Format returns a currency string with the code's symbol (falling
// back to the bare code) and thousands separators, e.g.
// "¥1,234.56" or "-S$1,234.56".
func Format(amount float64, code string) string {
	symbol, ok := constants.CurrencySymbols[code]
	if !ok {
		symbol = code + " "
	}
	formatted := formatPositiveAmount(math.Abs(amount))
	if amount < 0 {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// NumericAmount returns a currency amount without a symbol but with
// thousands separators, e.g. "-1,234.56".
func NumericAmount(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + formatPositiveAmount(math.Abs(amount))
}

func formatPositiveAmount(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
