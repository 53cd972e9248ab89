package kernel

import (
	"math"
	"testing"
)

func TestFutureValue(t *testing.T) {
	tests := []struct {
		name     string
		pmt      float64
		rate     float64
		n        int
		expected float64
	}{
		{"zero rate sums payments", 1000, 0, 10, 10000},
		{"positive rate compounds", 1000, 0.05, 10, 1000 * (math.Pow(1.05, 10) - 1) / 0.05},
		{"zero years", 1000, 0.05, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FutureValue(tt.pmt, tt.rate, tt.n)
			if math.Abs(got-tt.expected) > 0.01 {
				t.Errorf("FutureValue(%v,%v,%v) = %v, expected %v", tt.pmt, tt.rate, tt.n, got, tt.expected)
			}
		})
	}
}

func TestMonthlyAnnuity(t *testing.T) {
	tests := []struct {
		name       string
		balance    float64
		yearlyRate float64
		months     int
	}{
		{"zero rate divides evenly", 120000, 0, 120},
		{"positive rate", 300000, 0.04, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyAnnuity(tt.balance, tt.yearlyRate, tt.months)
			if tt.yearlyRate == 0 {
				want := tt.balance / float64(tt.months)
				if math.Abs(got-want) > 0.01 {
					t.Errorf("MonthlyAnnuity = %v, want %v", got, want)
				}
				return
			}
			// Verify the payment actually exhausts the balance at that rate.
			i := tt.yearlyRate / 12
			remaining := tt.balance
			for m := 0; m < tt.months; m++ {
				remaining = remaining*(1+i) - got
			}
			if math.Abs(remaining) > 1.0 {
				t.Errorf("MonthlyAnnuity(%v,%v,%v) = %v left remaining balance %v", tt.balance, tt.yearlyRate, tt.months, got, remaining)
			}
		})
	}
}

func TestEscalatingAnnuityPresentValueMatchesBalance(t *testing.T) {
	balance := 300000.0
	yearlyRate := 0.04
	escalation := 0.02
	months := 300

	initial := EscalatingAnnuity(balance, yearlyRate, escalation, months)
	if initial <= 0 {
		t.Fatalf("expected positive initial payment, got %v", initial)
	}

	i := yearlyRate / 12
	pv := 0.0
	cohort := initial
	for m := 0; m < months; m++ {
		if m > 0 && m%12 == 0 {
			cohort *= 1 + escalation
		}
		pv += cohort / math.Pow(1+i, float64(m+1))
	}
	if math.Abs(pv-balance) > balance*0.001 {
		t.Errorf("present value of escalating schedule = %v, want ~%v", pv, balance)
	}
}

func TestNPV(t *testing.T) {
	cashFlows := []float64{-1000, 500, 500, 500}
	got := NPV(cashFlows, 0)
	want := 500.0
	if math.Abs(got-want) > 0.001 {
		t.Errorf("NPV = %v, want %v", got, want)
	}
}

func TestIRRKnownCashFlow(t *testing.T) {
	// Scenario from spec §8.7: cash_flows = [-1000, -1000, 0, +3500] -> IRR ~= 0.1659.
	cashFlows := []float64{-1000, -1000, 0, 3500}
	irr, err := IRR(cashFlows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if irr == nil {
		t.Fatal("expected a non-nil IRR")
	}
	if math.Abs(*irr-0.1659) > 1e-4 {
		t.Errorf("IRR = %v, want ~0.1659", *irr)
	}
}

func TestIRRNoSignChange(t *testing.T) {
	cashFlows := []float64{100, 200, 300}
	irr, err := IRR(cashFlows)
	if err == nil {
		t.Fatal("expected NoSignChangeError")
	}
	if irr != nil {
		t.Errorf("expected nil IRR on error, got %v", *irr)
	}
}

func TestPaybackAge(t *testing.T) {
	ages := []int{65, 66, 67, 68}
	cumContrib := []float64{100000, 100000, 100000, 100000}
	cumBenefit := []float64{0, 40000, 90000, 140000}

	age := PaybackAge(ages, cumContrib, cumBenefit)
	if age == nil {
		t.Fatal("expected a payback age")
	}
	// Between age 67 (gap -10000) and 68 (gap +40000): crosses at 67.2.
	if *age < 67 || *age > 68 {
		t.Errorf("PaybackAge = %v, expected in [67,68]", *age)
	}
}

func TestPaybackAgeNeverReached(t *testing.T) {
	ages := []int{65, 66, 67}
	cumContrib := []float64{100000, 100000, 100000}
	cumBenefit := []float64{0, 10000, 20000}

	age := PaybackAge(ages, cumContrib, cumBenefit)
	if age != nil {
		t.Errorf("expected nil payback age, got %v", *age)
	}
}
