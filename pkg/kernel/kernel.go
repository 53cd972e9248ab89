// Package kernel implements the shared financial primitives every
// calculator builds on: future-value accumulation, annuity-factor
// evaluation, and IRR/NPV root-finding (§4.1). Every function here is
// pure and does no I/O.
package kernel

import (
	"math"

	"github.com/finledger/pension-sim/pkg/calcerr"
)

// FutureValue is the future value of a level yearly payment pmt over n
// years at yearly rate r.
func FutureValue(pmt, rate float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	if rate == 0 {
		return pmt * float64(n)
	}
	return pmt * (math.Pow(1+rate, float64(n)) - 1) / rate
}

// MonthlyAnnuity is the level monthly payment that exhausts balance
// over months months at monthly rate i = yearlyRate/12.
func MonthlyAnnuity(balance, yearlyRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	i := yearlyRate / 12
	if i == 0 {
		return balance / float64(months)
	}
	return balance * i / (1 - math.Pow(1+i, -float64(months)))
}

// EscalatingAnnuity is the initial monthly payment such that, growing
// by yearlyEscalation every 12-payment cohort, its present value (at
// the monthly rate derived from yearlyRate) equals balance. Solved by
// bisection on the initial payment per §4.1 (no closed form required).
func EscalatingAnnuity(balance, yearlyRate, yearlyEscalation float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	i := yearlyRate / 12
	pv := func(initial float64) float64 {
		total := 0.0
		cohortPayment := initial
		for m := 0; m < months; m++ {
			if m > 0 && m%12 == 0 {
				cohortPayment *= 1 + yearlyEscalation
			}
			discount := math.Pow(1+i, float64(m+1))
			total += cohortPayment / discount
		}
		return total
	}

	lo, hi := 0.0, balance
	if hi <= 0 {
		return 0
	}
	// Expand hi until its present value exceeds balance, guarding against
	// a pathological escalation/rate combination.
	for pv(hi) < balance && hi < balance*1e6 {
		hi *= 2
	}
	for iter := 0; iter < 200; iter++ {
		mid := (lo + hi) / 2
		if pv(mid) < balance {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// NPV is the net present value of cash flows discounted at rate,
// indexed from period 0.
func NPV(cashFlows []float64, rate float64) float64 {
	total := 0.0
	for t, cf := range cashFlows {
		total += cf / math.Pow(1+rate, float64(t))
	}
	return total
}

// IRR finds the yearly rate r satisfying NPV(cashFlows, r) = 0 by
// bisection on [-0.99, 5.00] with tolerance 1e-7 and a 200-iteration
// cap (§4.1). Returns nil rather than diverging: a sign-change failure
// or non-convergence is reported as the corresponding error kind and
// the caller is expected to treat the result as "IRR = None" (§7).
func IRR(cashFlows []float64) (*float64, error) {
	const (
		lowRate  = -0.99
		highRate = 5.00
		epsilon  = 1e-7
		maxIter  = 200
	)

	flow := func(r float64) float64 { return NPV(cashFlows, r) }

	lo, hi := lowRate, highRate
	fLo, fHi := flow(lo), flow(hi)
	if sameSign(fLo, fHi) {
		return nil, &calcerr.NoSignChangeError{}
	}

	for iter := 0; iter < maxIter; iter++ {
		mid := (lo + hi) / 2
		fMid := flow(mid)
		if math.Abs(hi-lo) < epsilon {
			return &mid, nil
		}
		if sameSign(fMid, fLo) {
			lo, fLo = mid, fMid
		} else {
			hi, fHi = mid, fMid
		}
	}
	return nil, &calcerr.NoConvergenceError{}
}

func sameSign(a, b float64) bool {
	if a == 0 || b == 0 {
		return false
	}
	return (a > 0) == (b > 0)
}

// PaybackAge finds the smallest age a with benefit(a) >= contrib(a),
// linearly interpolated to a fractional age between a-1 and a. Returns
// nil if the benefit never catches up within the horizon (§4.1).
//
// Both slices are indexed in parallel by age, starting at the first
// age in ages.
func PaybackAge(ages []int, cumulativeContrib, cumulativeBenefit []float64) *float64 {
	for i := range ages {
		if cumulativeBenefit[i] >= cumulativeContrib[i] {
			if i == 0 {
				age := float64(ages[i])
				return &age
			}
			prevContrib, prevBenefit := cumulativeContrib[i-1], cumulativeBenefit[i-1]
			currContrib, currBenefit := cumulativeContrib[i], cumulativeBenefit[i]

			prevGap := prevBenefit - prevContrib
			currGap := currBenefit - currContrib
			if currGap == prevGap {
				age := float64(ages[i])
				return &age
			}
			frac := -prevGap / (currGap - prevGap)
			age := float64(ages[i-1]) + frac
			return &age
		}
	}
	return nil
}
