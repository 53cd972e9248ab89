package domain

import "github.com/shopspring/decimal"

// ContributionLines splits a contribution total into jurisdictional
// categories. Not every calculator populates every field; a
// jurisdiction without a housing-fund equivalent simply leaves it zero.
type ContributionLines struct {
	Pension      decimal.Decimal
	Medical      decimal.Decimal
	Unemployment decimal.Decimal
	HousingFund  decimal.Decimal
	Other        decimal.Decimal
}

// Total sums every line.
func (c ContributionLines) Total() decimal.Decimal {
	return c.Pension.Add(c.Medical).Add(c.Unemployment).Add(c.HousingFund).Add(c.Other)
}

// YearLedgerEntry is the per-working-year cash-flow and balance record (§3).
type YearLedgerEntry struct {
	CalendarYear     int
	Age              int
	GrossSalary      decimal.Decimal
	ContributionBase decimal.Decimal
	EmployeeContrib  ContributionLines
	EmployerContrib  ContributionLines
	TaxableIncome    decimal.Decimal
	Tax              decimal.Decimal
	Net              decimal.Decimal
	AccountBalances  map[string]decimal.Decimal // sub-account name -> end-of-year balance
}

// Validate checks the §3 ledger invariant: net = gross - employee
// contributions - tax, and every line item is non-negative.
func (y YearLedgerEntry) Validate() bool {
	for _, v := range []decimal.Decimal{
		y.EmployeeContrib.Pension, y.EmployeeContrib.Medical, y.EmployeeContrib.Unemployment,
		y.EmployeeContrib.HousingFund, y.EmployeeContrib.Other,
		y.EmployerContrib.Pension, y.EmployerContrib.Medical, y.EmployerContrib.Unemployment,
		y.EmployerContrib.HousingFund, y.EmployerContrib.Other,
		y.Tax,
	} {
		if v.IsNegative() {
			return false
		}
	}
	expectedNet := y.GrossSalary.Sub(y.EmployeeContrib.Total()).Sub(y.Tax)
	return expectedNet.Sub(y.Net).Abs().LessThanOrEqual(decimal.NewFromFloat(0.01))
}
