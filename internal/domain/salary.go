package domain

import (
	"fmt"
	"math"

	"github.com/finledger/pension-sim/pkg/calcerr"
)

// SalaryProfile describes a member's pre-retirement earnings trajectory.
type SalaryProfile struct {
	MonthlySalary         float64 // salary at the start of the career
	AnnualGrowthRate      float64 // real; typically 0-0.10
	ContributionStartYear int     // the calendar year contributions begin; required, no silent default (§9)
}

// Validate rejects a negative MonthlySalary, a missing
// ContributionStartYear, and an AnnualGrowthRate below -1. It does not
// check the typical 0-0.10 range of AnnualGrowthRate.
func (s SalaryProfile) Validate() error {
	if s.MonthlySalary < 0 {
		return &calcerr.InvalidProfileError{Field: "MonthlySalary", Reason: "must be non-negative"}
	}
	if s.ContributionStartYear == 0 {
		return &calcerr.InvalidProfileError{Field: "ContributionStartYear", Reason: "must be set explicitly, no default is assumed"}
	}
	if s.AnnualGrowthRate < -1 {
		return &calcerr.InvalidProfileError{Field: "AnnualGrowthRate", Reason: fmt.Sprintf("growth rate %.4f would produce negative salary", s.AnnualGrowthRate)}
	}
	return nil
}

// MonthlySalaryAtYear computes the monthly salary in working year y:
// monthly_salary * (1+g)^(y - contribution_start_year).
func (s SalaryProfile) MonthlySalaryAtYear(year int) float64 {
	years := year - s.ContributionStartYear
	return s.MonthlySalary * math.Pow(1+s.AnnualGrowthRate, float64(years))
}

// AnnualSalaryAtYear is 12x the monthly salary for that working year.
func (s SalaryProfile) AnnualSalaryAtYear(year int) float64 {
	return s.MonthlySalaryAtYear(year) * 12
}
