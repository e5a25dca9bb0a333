package utils

import (
	"fmt"
	"time"

	"github.com/schiang418/cyclescope-domain-api/pkg/common"
)

// Clock abstracts the wall clock so date arithmetic can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

// TruncateToDate drops the time component, keeping the calendar date of t in its own location,
// and returns it as midnight UTC so it compares equal to values read back from DATE columns.
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date according to clock.
func Today(clock Clock) time.Time {
	return TruncateToDate(clock.Now())
}

// DaysAgo returns the calendar date n days before today.
func DaysAgo(clock Clock, n int) time.Time {
	return Today(clock).AddDate(0, 0, -n)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(common.DATE_LAYOUT, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}

// FormatDate formats a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(common.DATE_LAYOUT)
}

// PrettyDate renders a timestamp for human-facing notifications.
func PrettyDate(date time.Time) string {
	return date.Format("02 Jan 2006 - 15:04 MST")
}
