// Package timemath holds the calendar and interval arithmetic the scheduler
// and ledger are built on. Everything here is pure: callers pass an explicit
// "now" and get deterministic results back.
package timemath

import (
	"time"

	"github.com/jmuslu/prodlog/internal/constants"
)

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayKey returns the calendar-day grouping key (YYYY-MM-DD) used by the
// points ledger and history queries.
func DayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDayKey parses a day key back into local midnight in the given location.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// FloorToHour truncates t to the top of its hour.
func FloorToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not count.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FixedSlotBoundaries returns the hour-aligned slot containing now for the
// given fixed interval. The slot never spans a calendar day: with the
// supported interval menu the day divides evenly, and a non-positive or
// oversized interval degrades to one hour rather than erroring.
func FixedSlotBoundaries(now time.Time, intervalHours int) (time.Time, time.Time) {
	if intervalHours < 1 || intervalHours > 24 {
		intervalHours = 1
	}
	slotHour := (now.Hour() / intervalHours) * intervalHours
	start := time.Date(now.Year(), now.Month(), now.Day(), slotHour, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day(), slotHour+intervalHours, 0, 0, 0, now.Location())
	return start, end
}

// NextFixedBoundary returns the next aligned slot boundary strictly after
// now's current slot start. When the boundary would land at or past hour 24
// it rolls to midnight of the following day.
func NextFixedBoundary(now time.Time, intervalHours int) time.Time {
	if intervalHours < 1 || intervalHours > 24 {
		intervalHours = 1
	}
	nextHour := ((now.Hour() / intervalHours) + 1) * intervalHours
	if nextHour >= 24 {
		return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	}
	return time.Date(now.Year(), now.Month(), now.Day(), nextHour, 0, 0, 0, now.Location())
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}
