package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRetirementScheduleMonotoneAge(t *testing.T) {
	monotone := RetirementSchedule{Payouts: []MonthlyPayout{
		{Age: 65, Month: 1, Amount: decimal.NewFromInt(100)},
		{Age: 65, Month: 2, Amount: decimal.NewFromInt(100)},
		{Age: 66, Month: 1, Amount: decimal.NewFromInt(100)},
	}}
	if !monotone.MonotoneAge() {
		t.Error("expected monotone schedule to pass")
	}

	broken := RetirementSchedule{Payouts: []MonthlyPayout{
		{Age: 66, Month: 1, Amount: decimal.NewFromInt(100)},
		{Age: 65, Month: 1, Amount: decimal.NewFromInt(100)},
	}}
	if broken.MonotoneAge() {
		t.Error("expected out-of-order schedule to fail")
	}
}

func TestRetirementScheduleTotalBenefit(t *testing.T) {
	s := RetirementSchedule{Payouts: []MonthlyPayout{
		{Age: 65, Month: 1, Amount: decimal.NewFromInt(100)},
		{Age: 65, Month: 2, Amount: decimal.NewFromInt(200)},
	}}
	want := decimal.NewFromInt(300)
	if !s.TotalBenefit().Equal(want) {
		t.Errorf("TotalBenefit() = %v, want %v", s.TotalBenefit(), want)
	}
}

func TestRetirementScheduleFirstMonthlyAmountEmpty(t *testing.T) {
	s := RetirementSchedule{}
	if !s.FirstMonthlyAmount().IsZero() {
		t.Error("expected zero for empty schedule")
	}
}
