// Package scheduler computes candidate slots and boundary times from the
// stored slot log. It keeps no state of its own; every call recomputes from
// history, the clock, and the interval setting.
package scheduler

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/models"
	"github.com/jmuslu/prodlog/internal/timemath"
)

// WindowStart returns the beginning of the candidate window: local noon on
// the day before now. Slots older than that are no longer offered for
// categorization.
func WindowStart(now time.Time) time.Time {
	y := now.AddDate(0, 0, -1)
	return time.Date(y.Year(), y.Month(), y.Day(), 12, 0, 0, 0, now.Location())
}

// GenerateCandidates walks the candidate window and returns every slot range
// that has fully elapsed and does not overlap a stored slot, sorted
// descending by start time. Candidates are transient; they carry fresh ids
// and are never persisted until committed.
func GenerateCandidates(now time.Time, settings models.Settings, stored []models.Slot) []models.Slot {
	var candidates []models.Slot
	cursor := WindowStart(now)

	if settings.Auto() {
		for cursor.Before(now) {
			// A stored slot covering the cursor owns this stretch of time.
			if end, ok := coveringSlotEnd(cursor, stored); ok {
				cursor = end
				continue
			}
			end := findLargestPossibleInterval(cursor, now, stored)
			if end.After(cursor) {
				candidates = append(candidates, models.Slot{
					ID:    uuid.NewString(),
					Start: cursor,
					End:   end,
				})
				cursor = end
				continue
			}
			cursor = advanceFallback(cursor, stored)
		}
	} else {
		interval := normalizeInterval(settings.IntervalHours)
		for cursor.Before(now) {
			// The fixed grid never bends around stored slots; ranges that
			// collide are simply not offered again.
			end := addHours(cursor, interval)
			if !end.After(now) && !overlapsAny(cursor, end, stored) {
				candidates = append(candidates, models.Slot{
					ID:    uuid.NewString(),
					Start: cursor,
					End:   end,
				})
			}
			cursor = end
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Start.After(candidates[j].Start)
	})
	return candidates
}

// NextBoundary returns when the current slot ends. Fixed mode uses the
// aligned hour grid; auto mode ends with the stored slot containing now, or
// the next clean hour when nothing contains it.
func NextBoundary(now time.Time, settings models.Settings, stored []models.Slot) time.Time {
	if !settings.Auto() {
		return timemath.NextFixedBoundary(now, normalizeInterval(settings.IntervalHours))
	}
	if end, ok := coveringSlotEnd(now, stored); ok {
		return end
	}
	return timemath.FloorToHour(now).Add(time.Hour)
}

// findLargestPossibleInterval tries the auto durations longest-first and
// returns the end of the largest range from start that has fully elapsed and
// is clear of stored slots. Returns start itself when nothing fits; the
// caller falls back to a smaller step.
func findLargestPossibleInterval(start, now time.Time, stored []models.Slot) time.Time {
	for _, hours := range constants.AutoDurations {
		end := addHours(start, hours)
		if end.After(now) {
			continue
		}
		if !overlapsAny(start, end, stored) {
			return end
		}
	}
	return start
}

// advanceFallback moves the cursor when no candidate fits: jump to the next
// stored slot's start if one lies ahead within reach, otherwise step a single
// hour. Always returns a time strictly after cursor.
func advanceFallback(cursor time.Time, stored []models.Slot) time.Time {
	oneHour := addHours(cursor, 1)
	next := oneHour
	for _, s := range stored {
		if s.Start.After(cursor) && s.Start.Before(next) {
			next = s.Start
		}
	}
	return next
}

func coveringSlotEnd(t time.Time, stored []models.Slot) (time.Time, bool) {
	for _, s := range stored {
		if !s.Start.After(t) && s.End.After(t) {
			return s.End, true
		}
	}
	return time.Time{}, false
}

func overlapsAny(start, end time.Time, stored []models.Slot) bool {
	for _, s := range stored {
		if timemath.Overlaps(start, end, s.Start, s.End) {
			return true
		}
	}
	return false
}

// addHours advances by whole hours through calendar normalization so the
// result stays on a clean hour across day rollovers.
func addHours(t time.Time, hours int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+hours, 0, 0, 0, t.Location())
}

func normalizeInterval(hours int) int {
	if hours < 1 || hours > 24 {
		return 1
	}
	return hours
}
