package statistics

import (
	"fmt"
	"pomodoro-api-svc/src/internal/models"
	"time"
)

const (
	DefaultCalendarDays = 90
	minYear             = 1
	maxYear             = 9999
)

// ValidateMonth rejects years and months a calendar cannot represent.
func ValidateMonth(year, month int) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: year %d out of range", models.ErrInvalidRange, year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d out of range", models.ErrInvalidRange, month)
	}
	return nil
}

// ResolveCalendarRange applies the defaults (end = today, start = end - 90 days) and
// checks ordering and span. start and end are calendar dates, today is an instant.
// maxDays <= 0 disables the span check.
func ResolveCalendarRange(start, end *time.Time, today time.Time, loc *time.Location, maxDays int) (time.Time, time.Time, error) {
	last := DayOf(today, loc)
	if end != nil {
		last = civilDate(*end)
	}

	first := addDays(last, -DefaultCalendarDays)
	if start != nil {
		first = civilDate(*start)
	}

	if first.After(last) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %s is after end %s",
			models.ErrInvalidRange, first.Format(DateLayout), last.Format(DateLayout))
	}

	if maxDays > 0 && DaysInRange(first, last) > maxDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range exceeds %d days", models.ErrInvalidRange, maxDays)
	}

	return first, last, nil
}

// DaysInRange counts calendar dates from first to last inclusive.
func DaysInRange(first, last time.Time) int {
	return int(civilDate(last).Sub(civilDate(first)).Hours()/24) + 1
}

// DayBounds returns the instant range [from, to) covering the dates first..last in loc.
func DayBounds(first, last time.Time, loc *time.Location) (time.Time, time.Time) {
	return startOfDay(civilDate(first), loc), startOfDay(addDays(civilDate(last), 1), loc)
}
