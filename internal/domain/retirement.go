package domain

import "github.com/shopspring/decimal"

// MonthlyPayout is one month's retirement benefit at a given age.
type MonthlyPayout struct {
	Age    int
	Month  int // 1-12 within Age
	Amount decimal.Decimal
}

// RetirementSchedule holds the monthly payout sequence from retirement
// through the terminal age (default 90, §3). Plan-specific schedules
// (CPF LIFE Basic's two-phase drawdown) are just a schedule whose
// amounts change when the plan transitions phase.
type RetirementSchedule struct {
	Payouts []MonthlyPayout
}

// MonotoneAge verifies the §3 invariant: monotone non-decreasing age index.
func (r RetirementSchedule) MonotoneAge() bool {
	for i := 1; i < len(r.Payouts); i++ {
		if r.Payouts[i].Age < r.Payouts[i-1].Age {
			return false
		}
	}
	return true
}

// TotalBenefit sums every monthly payout.
func (r RetirementSchedule) TotalBenefit() decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.Payouts {
		total = total.Add(p.Amount)
	}
	return total
}

// FirstMonthlyAmount returns the initial payout, or zero if empty.
func (r RetirementSchedule) FirstMonthlyAmount() decimal.Decimal {
	if len(r.Payouts) == 0 {
		return decimal.Zero
	}
	return r.Payouts[0].Amount
}
