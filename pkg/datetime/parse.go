// Package datetime provides date utility functions used by the
// currency rate cache and the simulation clock (§4.8, §6).
package datetime

import (
	"time"

	"github.com/finledger/pension-sim/pkg/constants"
)

// DateLayout is the ISO date format used for cache validity and
// rate-table timestamps.
const DateLayout = constants.DateLayout

// MustParseDate parses a date string using DateLayout and panics on
// error. Intended for tests where the date string is known valid.
func MustParseDate(dateStr string) time.Time {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// IsSameCalendarDay reports whether two ISO date strings name the
// same day, used to decide whether a cached rate table is still
// valid for "today" (§6: a rate table is valid for the calendar day
// it was fetched).
func IsSameCalendarDay(dateStr, todayStr string) (bool, error) {
	d, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return false, err
	}
	today, err := time.Parse(DateLayout, todayStr)
	if err != nil {
		return false, err
	}
	return d.Equal(today), nil
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate, secondDate string) (bool, error) {
	firstDateT, err := time.Parse(DateLayout, firstDate)
	if err != nil {
		return false, err
	}
	secondDateT, err := time.Parse(DateLayout, secondDate)
	if err != nil {
		return false, err
	}
	return firstDateT.Before(secondDateT), nil
}

// YearsBetween returns the number of whole calendar years separating
// fromYear and toYear (toYear - fromYear).
func YearsBetween(fromYear, toYear int) int {
	return toYear - fromYear
}

// AddYears returns year shifted by n calendar years.
func AddYears(year, n int) int {
	return year + n
}
