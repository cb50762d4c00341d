// Package fiscal computes Indian financial-year codes and boundaries.
// The financial year runs April 1 through March 31.
package fiscal

import (
	"fmt"
	"time"
)

// fyStartMonth is the first month of the financial year.
const fyStartMonth = time.April

// startYear returns the calendar year in which the financial year
// containing date begins.
func startYear(date time.Time) int {
	if date.Month() >= fyStartMonth {
		return date.Year()
	}
	return date.Year() - 1
}

// YearCode returns the short financial-year code for a date: the last two
// digits of the start year followed by the last two digits of the end
// year. A date in February 2024 falls in the FY that started April 2023,
// so its code is "2324".
func YearCode(date time.Time) string {
	start := startYear(date)
	return fmt.Sprintf("%02d%02d", start%100, (start+1)%100)
}

// YearEndDate returns the expiry boundary of the financial year holding
// date. The boundary is March 30 of the ending year, one day before the
// accounting year closes: a long-standing billing policy, kept on
// purpose. Time of day is carried over from the input.
func YearEndDate(date time.Time) time.Time {
	endYear := startYear(date) + 1
	return time.Date(endYear, time.March, 30,
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}
