// Package datetime provides calendar-month arithmetic and date utilities.
package datetime

import (
	"time"

	"github.com/haschdl/casa-finan/pkg/constants"
)

const (
	// DateTimeLayout is the month key format used in schedule rows.
	DateTimeLayout = constants.DateTimeLayout

	// StartDateLayout is the format expected for plan start dates.
	StartDateLayout = constants.StartDateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}
