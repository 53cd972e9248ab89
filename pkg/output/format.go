// Package output renders a PensionResult (and multi-country
// comparisons) for the CLI, adapted from the teacher's
// pkg/output/format.go PrettyFormat/CsvFormat pair — a cash-flow
// timeline table there becomes a per-year ledger and headline-number
// table here.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/internal/runner"
	"github.com/finledger/pension-sim/pkg/currency"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Pretty writes a human-readable summary of one country's result to w
// (§6 PensionResult summary).
func Pretty(w io.Writer, result domain.PensionResult, converted *domain.Converted, annual bool) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "--- %s (%s) ---\n", result.CountryCode, result.Currency)
	_, _ = p.Fprintf(w, "Monthly pension at retirement: %s\n", currency.Format(floatOf(result.MonthlyPensionAtRetire), result.Currency))
	_, _ = p.Fprintf(w, "Total employee contributions:  %s\n", currency.Format(floatOf(result.TotalEmployeeContrib), result.Currency))
	_, _ = p.Fprintf(w, "Total employer contributions:  %s\n", currency.Format(floatOf(result.TotalEmployerContrib), result.Currency))
	_, _ = p.Fprintf(w, "Total lifetime benefit:        %s\n", currency.Format(floatOf(result.TotalBenefit), result.Currency))

	if result.ROI != nil {
		fmt.Fprintf(w, "ROI:                           %.2f\n", *result.ROI)
	}
	if result.IRR != nil {
		fmt.Fprintf(w, "IRR:                           %.4f\n", *result.IRR)
	} else {
		fmt.Fprintf(w, "IRR:                           n/a\n")
	}
	if result.PaybackAge != nil {
		fmt.Fprintf(w, "Payback age:                   %.1f\n", *result.PaybackAge)
	} else {
		fmt.Fprintf(w, "Payback age:                   n/a\n")
	}

	if converted != nil {
		fmt.Fprintf(w, "-- converted to %s --\n", converted.Currency)
		_, _ = p.Fprintf(w, "Monthly pension at retirement: %s\n", currency.Format(floatOf(converted.MonthlyPensionAtRetire), converted.Currency))
		_, _ = p.Fprintf(w, "Total contributions combined:  %s\n", currency.Format(floatOf(converted.TotalContribCombined), converted.Currency))
		_, _ = p.Fprintf(w, "Total lifetime benefit:        %s\n", currency.Format(floatOf(converted.TotalBenefit), converted.Currency))
	}

	if annual {
		fmt.Fprintf(w, "\nYear | Age | Gross | Employee Contrib | Tax | Net\n")
		fmt.Fprintf(w, "____ | ___ | _____ | _________________ | ___ | ___\n")
		for _, entry := range result.Ledger {
			fmt.Fprintf(w, "%d | %d | %s | %s | %s | %s\n",
				entry.CalendarYear, entry.Age,
				currency.Format(floatOf(entry.GrossSalary), result.Currency),
				currency.Format(floatOf(entry.EmployeeContrib.Total()), result.Currency),
				currency.Format(floatOf(entry.Tax), result.Currency),
				currency.Format(floatOf(entry.Net), result.Currency),
			)
		}
	}
	fmt.Fprintln(w)
}

// PrettyComparison writes the ranked cross-country comparison table
// (§C.2).
func PrettyComparison(w io.Writer, compare runner.CompareResult) {
	fmt.Fprintf(w, "--- Comparison (ranked best to worst) ---\n")
	for i, code := range compare.Ranked() {
		fmt.Fprintf(w, "%d. %s\n", i+1, code)
	}
}

// jsonResult is the wire shape for JSON output (output.format = json):
// the headline PensionResult fields and a per-year ledger, floats
// rounded to 2 decimals, plus a converted block (§6). The retirement
// schedule is not included.
type jsonResult struct {
	CountryCode            string            `json:"country_code"`
	Currency               string            `json:"currency"`
	MonthlyPensionAtRetire float64           `json:"monthly_pension_at_retire"`
	TotalEmployeeContrib   float64           `json:"total_employee_contrib"`
	TotalEmployerContrib   float64           `json:"total_employer_contrib"`
	TotalContribCombined   float64           `json:"total_contrib_combined"`
	TotalBenefit           float64           `json:"total_benefit"`
	ROI                    *float64          `json:"roi"`
	IRR                    *float64          `json:"irr"`
	PaybackAge             *float64          `json:"payback_age"`
	Ledger                 []jsonLedgerEntry `json:"ledger,omitempty"`
	Converted              *jsonConverted    `json:"converted,omitempty"`
}

type jsonLedgerEntry struct {
	CalendarYear    int     `json:"calendar_year"`
	Age             int     `json:"age"`
	GrossSalary     float64 `json:"gross_salary"`
	EmployeeContrib float64 `json:"employee_contrib"`
	EmployerContrib float64 `json:"employer_contrib"`
	TaxableIncome   float64 `json:"taxable_income"`
	Tax             float64 `json:"tax"`
	Net             float64 `json:"net"`
}

type jsonConverted struct {
	Currency               string  `json:"currency"`
	MonthlyPensionAtRetire float64 `json:"monthly_pension_at_retire"`
	TotalContribCombined   float64 `json:"total_contrib_combined"`
	TotalBenefit           float64 `json:"total_benefit"`
}

// JSON writes the machine-readable result, including the full
// per-year ledger, to w (§6, output.format = json).
func JSON(w io.Writer, result domain.PensionResult, converted *domain.Converted) error {
	out := jsonResult{
		CountryCode:            result.CountryCode,
		Currency:               result.Currency,
		MonthlyPensionAtRetire: round2(floatOf(result.MonthlyPensionAtRetire)),
		TotalEmployeeContrib:   round2(floatOf(result.TotalEmployeeContrib)),
		TotalEmployerContrib:   round2(floatOf(result.TotalEmployerContrib)),
		TotalContribCombined:   round2(floatOf(result.TotalContribCombined)),
		TotalBenefit:           round2(floatOf(result.TotalBenefit)),
		ROI:                    result.ROI,
		IRR:                    result.IRR,
		PaybackAge:             result.PaybackAge,
	}
	for _, entry := range result.Ledger {
		out.Ledger = append(out.Ledger, jsonLedgerEntry{
			CalendarYear:    entry.CalendarYear,
			Age:             entry.Age,
			GrossSalary:     round2(floatOf(entry.GrossSalary)),
			EmployeeContrib: round2(floatOf(entry.EmployeeContrib.Total())),
			EmployerContrib: round2(floatOf(entry.EmployerContrib.Total())),
			TaxableIncome:   round2(floatOf(entry.TaxableIncome)),
			Tax:             round2(floatOf(entry.Tax)),
			Net:             round2(floatOf(entry.Net)),
		})
	}
	if converted != nil {
		out.Converted = &jsonConverted{
			Currency:               converted.Currency,
			MonthlyPensionAtRetire: round2(floatOf(converted.MonthlyPensionAtRetire)),
			TotalContribCombined:   round2(floatOf(converted.TotalContribCombined)),
			TotalBenefit:           round2(floatOf(converted.TotalBenefit)),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func floatOf(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
