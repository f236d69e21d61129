package datetime

import (
	"time"

	"github.com/haschdl/casa-finan/pkg/constants"
)

// AddMonths returns the date offset by the given number of calendar months,
// clamping the day to the last day of the target month. This differs from
// time.Time.AddDate, which normalizes overflowing days into the next month
// (January 31 plus one month must land on the last day of February, not on
// March 2 or 3).
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + months
	year += total / constants.MonthsPerYear
	total %= constants.MonthsPerYear
	if total < 0 {
		total += constants.MonthsPerYear
		year--
	}
	target := time.Month(total + 1)
	if last := DaysIn(year, target); day > last {
		day = last
	}
	return time.Date(year, target, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EndOfMonth returns the last day of the month containing t.
func EndOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, DaysIn(year, month), 0, 0, 0, 0, t.Location())
}

// MonthLabel returns the "2006-01" key for the month reached by offsetting
// start by the given number of calendar months.
func MonthLabel(start time.Time, months int) string {
	return AddMonths(start, months).Format(DateTimeLayout)
}

// MonthYearLabel returns the human-readable "January/2006" label for the
// month reached by offsetting start by the given number of calendar months.
func MonthYearLabel(start time.Time, months int) string {
	return AddMonths(start, months).Format(constants.MonthYearLayout)
}
