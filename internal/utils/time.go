package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/reflekt/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// DateIn returns t's calendar date as observed in loc. Calendar dates are
// carried as midnight UTC so they compare and serialize independently of
// the timezone they were observed in.
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfDayIn returns the instant at which t's calendar day begins in loc.
func StartOfDayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDate parses a YYYY-MM-DD calendar date in the DateIn representation.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(constants.DateFormat, s)
}

// CalendarDaysBetween returns the number of calendar days from a to b as
// observed in loc. It is negative when b falls on an earlier date than a.
// Daylight saving transitions do not affect the result.
func CalendarDaysBetween(a, b time.Time, loc *time.Location) int {
	return DaysBetweenDates(DateIn(a, loc), DateIn(b, loc))
}

// DaysBetweenDates returns b-a in whole days for two DateIn values.
func DaysBetweenDates(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// AddDays moves a DateIn calendar date by n days.
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// TrailingDays returns the instants bounding the last days calendar days in
// loc, today included, as a half-open [from, to) range. offset shifts the
// window back by that many whole windows, so offset 1 is the period before.
func TrailingDays(now time.Time, days, offset int, loc *time.Location) (from, to time.Time) {
	y, m, d := now.In(loc).Date()
	end := d + 1 - offset*days
	return time.Date(y, m, end-days, 0, 0, 0, 0, loc), time.Date(y, m, end, 0, 0, 0, 0, loc)
}
