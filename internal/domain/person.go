// Package domain defines the shared data model used by every calculator:
// Person, SalaryProfile, EconomicFactors, the per-year ledger, the
// retirement schedule, and the final PensionResult (§3).
package domain

import (
	"fmt"

	"github.com/finledger/pension-sim/pkg/calcerr"
	"github.com/finledger/pension-sim/pkg/constants"
)

// Gender is the member's gender, which several jurisdictions use to
// index retirement age.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// EmploymentType categorizes the member's contribution regime.
type EmploymentType string

const (
	Employee     EmploymentType = "employee"
	CivilServant EmploymentType = "civil_servant"
	SelfEmployed EmploymentType = "self_employed"
	Farmer       EmploymentType = "farmer"
)

// Person is an immutable descriptor of the simulated member.
type Person struct {
	BirthYear     int
	Gender        Gender
	Employment    EmploymentType
	StartWorkYear int
}

// Validate enforces the §3 invariant: start-work year >= birth year + 16.
func (p Person) Validate() error {
	if p.Gender != Male && p.Gender != Female {
		return &calcerr.InvalidProfileError{Field: "Gender", Reason: fmt.Sprintf("unsupported gender %q", p.Gender)}
	}
	switch p.Employment {
	case Employee, CivilServant, SelfEmployed, Farmer:
	default:
		return &calcerr.InvalidProfileError{Field: "Employment", Reason: fmt.Sprintf("unsupported employment type %q", p.Employment)}
	}
	if p.StartWorkYear < p.BirthYear+constants.MinStartWorkAgeOffset {
		return &calcerr.InvalidProfileError{
			Field:  "StartWorkYear",
			Reason: fmt.Sprintf("start-work year %d must be at least %d years after birth year %d", p.StartWorkYear, constants.MinStartWorkAgeOffset, p.BirthYear),
		}
	}
	return nil
}

// AgeAt returns the member's age at the end of the given calendar year.
func (p Person) AgeAt(year int) int {
	return year - p.BirthYear
}
