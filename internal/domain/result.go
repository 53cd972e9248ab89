package domain

import "github.com/shopspring/decimal"

// PensionResult is the common output contract every calculator produces (§3).
type PensionResult struct {
	CountryCode            string
	Currency               string
	MonthlyPensionAtRetire decimal.Decimal
	TotalEmployeeContrib   decimal.Decimal
	TotalEmployerContrib   decimal.Decimal
	TotalContribCombined   decimal.Decimal
	TotalBenefit           decimal.Decimal
	ROI                    *float64 // (total_benefits - employee_contributions) / employee_contributions
	IRR                    *float64 // nil when NoSignChange/NoConvergence (§4.1, §7)
	PaybackAge             *float64 // nil when never reached within the horizon
	Ledger                 []YearLedgerEntry
	Schedule               RetirementSchedule
}

// Converted restates the headline numbers of a PensionResult in a
// display currency (§4.7 step 4, §6 "converted" block).
type Converted struct {
	Currency               string
	MonthlyPensionAtRetire decimal.Decimal
	TotalContribCombined   decimal.Decimal
	TotalBenefit           decimal.Decimal
}
