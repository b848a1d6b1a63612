// Package app wires the storage provider and the domain services together
// and exposes the query and command surface the CLI and TUI consume.
package app

import (
	"time"

	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/history"
	"github.com/jmuslu/prodlog/internal/ledger"
	"github.com/jmuslu/prodlog/internal/logger"
	"github.com/jmuslu/prodlog/internal/models"
	"github.com/jmuslu/prodlog/internal/registry"
	"github.com/jmuslu/prodlog/internal/scheduler"
	"github.com/jmuslu/prodlog/internal/storage"
	"github.com/jmuslu/prodlog/internal/timemath"
	"github.com/jmuslu/prodlog/internal/validation"
)

// App owns the composed services over one loaded storage provider. All
// mutations run on the caller's goroutine; the surface is single-user by
// construction and needs no locking.
type App struct {
	store     storage.Provider
	registry  *registry.Registry
	history   *history.History
	ledger    *ledger.Ledger
	validator *validation.Validator
	settings  models.Settings
}

func New(store storage.Provider) *App {
	a := &App{
		store:     store,
		registry:  registry.New(store),
		history:   history.New(store),
		ledger:    ledger.New(store),
		validator: validation.New(),
	}
	a.settings = loadSettings(store)
	return a
}

func loadSettings(store storage.Provider) models.Settings {
	settings := models.Settings{
		IntervalHours: constants.DefaultIntervalHours,
		Display24h:    false,
	}
	storage.LoadJSON(store, constants.KeySettings, &settings)
	return settings
}

// localize converts t into the configured timezone so slot grids and day
// keys follow the setting rather than the caller's zone. With no timezone
// configured the caller's zone is kept, as is an unknown zone name.
func (a *App) localize(t time.Time) time.Time {
	tz := a.settings.Timezone
	if tz == "" || tz == "Local" {
		return t
	}
	loc, err := timemath.LoadLocation(tz)
	if err != nil {
		logger.Warn("unknown timezone in settings", "timezone", tz, "error", err)
		return t
	}
	return t.In(loc)
}

// Reload re-reads all state from the provider so long-lived surfaces pick up
// changes made by another process.
func (a *App) Reload() error {
	if err := a.store.Load(); err != nil {
		return err
	}
	a.registry = registry.New(a.store)
	a.history = history.New(a.store)
	a.ledger = ledger.New(a.store)
	a.settings = loadSettings(a.store)
	return nil
}

// Store exposes the underlying provider for surfaces that need the config
// path or raw key access.
func (a *App) Store() storage.Provider {
	return a.store
}

func (a *App) Registry() *registry.Registry {
	return a.registry
}

func (a *App) Settings() models.Settings {
	return a.settings
}

// UpdateSettings validates and persists the interval setting along with the
// display preferences. Returns the validation result; nothing changes when
// it carries conflicts.
func (a *App) UpdateSettings(settings models.Settings) validation.ValidationResult {
	result := a.validator.ValidateInterval(settings.IntervalHours)
	if result.HasConflicts() {
		return result
	}
	a.settings = settings
	storage.SaveJSON(a.store, constants.KeySettings, a.settings)
	return result
}

// ActiveCategories returns the categories available for allocation as of
// now, tombstoned ones past their grace window excluded.
func (a *App) ActiveCategories(now time.Time) []models.Category {
	return a.registry.Active(now)
}

// CandidateSlots returns the uncategorized slot ranges in the trailing
// window, newest first.
func (a *App) CandidateSlots(now time.Time) []models.Slot {
	return scheduler.GenerateCandidates(a.localize(now), a.settings, a.history.All())
}

// CompletedSlots returns the logged slots for the given calendar day,
// newest first.
func (a *App) CompletedSlots(date time.Time) []models.Slot {
	return a.history.ForDay(a.localize(date))
}

// RecentSlots returns every logged slot inside the trailing window.
func (a *App) RecentSlots(now time.Time) []models.Slot {
	return a.history.AllSince(now.Add(-time.Duration(constants.RecentLogWindowHours) * time.Hour))
}

// NextBoundary reports when the slot containing now ends.
func (a *App) NextBoundary(now time.Time) time.Time {
	return scheduler.NextBoundary(a.localize(now), a.settings, a.history.All())
}

func (a *App) DailyPoints(date time.Time) int {
	return a.ledger.DailyTotal(a.localize(date))
}

func (a *App) WeeklyPoints(now time.Time) int {
	return a.ledger.WeeklyTotal(a.localize(now))
}

// CategoryPoints returns per-category subtotals for the day, joined against
// the categories active as of now so recently deleted ones still show.
func (a *App) CategoryPoints(date, now time.Time) []ledger.CategoryPoints {
	return a.ledger.CategoryTotals(a.localize(date), a.registry.Active(now))
}

// CommitSlot records a categorized candidate: the allocation must sum to
// exactly 100 across known categories, after which the slot supersedes
// anything it overlaps in history and its points are booked to the slot's
// start day. The returned result carries the refusal reasons when the
// allocation is not committable.
func (a *App) CommitSlot(candidate models.Slot, allocation map[string]float64) validation.ValidationResult {
	result := a.validator.ValidateSlotRange(candidate)
	if result.HasConflicts() {
		return result
	}
	result = a.validator.ValidateAllocation(allocation, a.registry.All())
	if result.HasConflicts() {
		return result
	}

	// Points book to the start's calendar day in the configured timezone.
	candidate.Start = a.localize(candidate.Start)
	candidate.End = a.localize(candidate.End)
	candidate.Allocation = allocation
	candidate.IsComplete = true
	a.history.Insert(candidate)

	categories := a.registry.All()
	points := ledger.PointsForSlot(candidate, categories)
	shares := make(map[string]float64, len(allocation))
	for id, pct := range allocation {
		for _, c := range categories {
			if c.ID == id {
				shares[c.Name] = pct
				break
			}
		}
	}
	a.ledger.RecordPoints(points, candidate.Start, shares)

	logger.Debug("slot committed", "start", candidate.Start, "end", candidate.End, "points", points)
	return result
}

// AddCategory validates and creates a category. On success the returned
// category carries its generated id.
func (a *App) AddCategory(name string, color models.Color, pointsPerMinute float64) (models.Category, validation.ValidationResult) {
	result := a.validator.ValidateCategoryInput("", name, color, pointsPerMinute, a.registry.All())
	if result.HasConflicts() {
		return models.Category{}, result
	}
	return a.registry.Add(name, color, pointsPerMinute), result
}

// UpdateCategory validates and applies an edit. Unknown ids are a silent
// no-op, matching the registry.
func (a *App) UpdateCategory(id, name string, color models.Color, pointsPerMinute float64) validation.ValidationResult {
	result := a.validator.ValidateCategoryInput(id, name, color, pointsPerMinute, a.registry.All())
	if result.HasConflicts() {
		return result
	}
	a.registry.Update(id, name, color, pointsPerMinute)
	return result
}

// RemoveCategory tombstones a category. Historical ledger entries keep the
// name and survive the grace window.
func (a *App) RemoveCategory(id string) {
	a.registry.Remove(id)
}

// ResetToDefaults replaces the category set with the built-in list.
func (a *App) ResetToDefaults() {
	a.registry.ResetToDefaults()
}

// ResetRecentLogs clears the logged slots in the trailing window together
// with the points they earned, returning those ranges to candidate state.
func (a *App) ResetRecentLogs(now time.Time) {
	now = a.localize(now)
	from := now.Add(-time.Duration(constants.RecentLogWindowHours) * time.Hour)
	a.history.ClearSince(from)
	a.ledger.ClearWindow(from, now)
	logger.Info("recent logs cleared", "from", from, "to", now)
}

// ResetPoints wipes the ledger entirely. Slot history is untouched.
func (a *App) ResetPoints() {
	a.ledger.ResetAll()
	logger.Info("points ledger reset")
}
