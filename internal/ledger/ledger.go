// Package ledger derives and stores per-day integer point totals from
// completed slots. Subtotals are keyed by category name, not id: renaming a
// category strands its old totals under the old name. That matches the
// behavior users have lived with; see DESIGN.md before "fixing" it.
package ledger

import (
	"math"
	"sort"
	"time"

	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/models"
	"github.com/jmuslu/prodlog/internal/storage"
	"github.com/jmuslu/prodlog/internal/timemath"
)

type Ledger struct {
	store          storage.Provider
	dailyTotals    map[string]int            // day key -> points
	categoryTotals map[string]map[string]int // day key -> category name -> points
}

// CategoryPoints joins a current category to its stored subtotal for a day.
type CategoryPoints struct {
	Category models.Category
	Points   int
}

// New loads both point maps from the store. Missing or corrupt blobs start
// empty.
func New(store storage.Provider) *Ledger {
	l := &Ledger{
		store:          store,
		dailyTotals:    make(map[string]int),
		categoryTotals: make(map[string]map[string]int),
	}
	storage.LoadJSON(store, constants.KeyDailyPoints, &l.dailyTotals)
	storage.LoadJSON(store, constants.KeyCategoryPoints, &l.categoryTotals)
	if l.dailyTotals == nil {
		l.dailyTotals = make(map[string]int)
	}
	if l.categoryTotals == nil {
		l.categoryTotals = make(map[string]map[string]int)
	}
	return l
}

func (l *Ledger) save() {
	storage.SaveJSON(l.store, constants.KeyDailyPoints, l.dailyTotals)
	storage.SaveJSON(l.store, constants.KeyCategoryPoints, l.categoryTotals)
}

// PointsForSlot scores a completed slot against the given categories. Each
// allocated share earns floor(minutes * pct/100 * pointsPerMinute); rounding
// is per-category truncation with no redistribution, so the total can trail a
// continuous-allocation ideal slightly. Categories missing from the list earn
// nothing.
func PointsForSlot(slot models.Slot, categories []models.Category) int {
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	minutes := slot.DurationMinutes()
	total := 0
	for id, pct := range slot.Allocation {
		category, ok := byID[id]
		if !ok {
			continue
		}
		total += int(math.Floor(minutes * pct / 100.0 * category.PointsPerMinute))
	}
	if total < 0 {
		total = 0
	}
	return total
}

// RecordPoints adds points to the day total for date and distributes them
// across the per-category subtotals proportionally to shares (category name ->
// percentage). Per-category shares round half-up; the last category in name
// order absorbs the residual so the subtotals added by one call always sum to
// exactly points.
func (l *Ledger) RecordPoints(points int, date time.Time, shares map[string]float64) {
	if points < 0 || len(shares) == 0 {
		return
	}

	day := timemath.DayKey(date)
	l.dailyTotals[day] += points

	names := make([]string, 0, len(shares))
	for name := range shares {
		names = append(names, name)
	}
	sort.Strings(names)

	rounded := make(map[string]int, len(names))
	distributed := 0
	for _, name := range names {
		share := int(math.Floor(float64(points)*shares[name]/100.0 + 0.5))
		rounded[name] = share
		distributed += share
	}
	// Reconcile rounding drift onto the last name so the call's subtotals
	// sum to exactly points.
	rounded[names[len(names)-1]] += points - distributed

	forDay := l.categoryTotals[day]
	if forDay == nil {
		forDay = make(map[string]int)
		l.categoryTotals[day] = forDay
	}
	for name, share := range rounded {
		forDay[name] += share
	}

	l.save()
}

// DailyTotal returns the stored point total for the day containing date.
func (l *Ledger) DailyTotal(date time.Time) int {
	return l.dailyTotals[timemath.DayKey(date)]
}

// WeeklyTotal sums the stored daily totals for the 7 days ending at date.
func (l *Ledger) WeeklyTotal(date time.Time) int {
	total := 0
	for i := 0; i < 7; i++ {
		total += l.dailyTotals[timemath.DayKey(date.AddDate(0, 0, -i))]
	}
	return total
}

// CategoryTotals joins the stored name-keyed subtotals for the day back to
// the given categories, in their order. Subtotals whose category name no
// longer exists are dropped; categories without a subtotal report zero.
func (l *Ledger) CategoryTotals(date time.Time, categories []models.Category) []CategoryPoints {
	forDay := l.categoryTotals[timemath.DayKey(date)]
	out := make([]CategoryPoints, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryPoints{Category: c, Points: forDay[c.Name]})
	}
	return out
}

// ResetAll clears both point maps entirely.
func (l *Ledger) ResetAll() {
	l.dailyTotals = make(map[string]int)
	l.categoryTotals = make(map[string]map[string]int)
	l.save()
}

// ClearWindow removes the stored totals for every day in the inclusive range
// [from, to].
func (l *Ledger) ClearWindow(from, to time.Time) {
	for day := timemath.StartOfDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		key := timemath.DayKey(day)
		delete(l.dailyTotals, key)
		delete(l.categoryTotals, key)
	}
	l.save()
}
