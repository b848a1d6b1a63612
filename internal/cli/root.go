package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmuslu/prodlog/internal/app"
	"github.com/jmuslu/prodlog/internal/backup"
	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/logger"
	"github.com/jmuslu/prodlog/internal/models"
	"github.com/jmuslu/prodlog/internal/storage"
)

type Context struct {
	Store storage.Provider
	App   *app.App
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ClockFormat returns the time layout matching the display preference
func ClockFormat(settings models.Settings) string {
	if settings.Display24h {
		return constants.TimeFormat
	}
	return constants.Time12Format
}

// FormatSlotRange renders a slot's time range for display, including the day
// when the slot did not start today
func FormatSlotRange(slot models.Slot, settings models.Settings, now time.Time) string {
	clock := ClockFormat(settings)
	rangeStr := fmt.Sprintf("%s - %s", slot.Start.Format(clock), slot.End.Format(clock))
	if slot.Start.Format(constants.DateFormat) != now.Format(constants.DateFormat) {
		return fmt.Sprintf("%s %s", slot.Start.Format("Mon"), rangeStr)
	}
	return rangeStr
}

// FormatInterval renders an interval setting for display
func FormatInterval(hours int) string {
	if hours == constants.IntervalAuto {
		return "auto"
	}
	return fmt.Sprintf("%dh", hours)
}

// ParseAllocation parses "Name=pct,Name=pct" flag syntax into a
// category-id keyed allocation map using the given categories. Percentages
// accept decimals; names match case-insensitively.
func ParseAllocation(s string, categories []models.Category) (map[string]float64, error) {
	allocation := make(map[string]float64)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, pctStr, found := strings.Cut(part, "=")
		if !found {
			return nil, fmt.Errorf("invalid allocation entry %q, expected Name=percentage", part)
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(pctStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percentage in %q", part)
		}

		id := ""
		for _, c := range categories {
			if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
				id = c.ID
				break
			}
		}
		if id == "" {
			return nil, fmt.Errorf("unknown category %q", strings.TrimSpace(name))
		}
		allocation[id] += pct
	}
	if len(allocation) == 0 {
		return nil, fmt.Errorf("allocation is empty")
	}
	return allocation, nil
}

// SortedCategoryNames returns active category names in alphabetical order
func SortedCategoryNames(categories []models.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// ParseDateFlag parses a --date flag value, defaulting to today
func ParseDateFlag(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	parsed, err := time.ParseInLocation(constants.DateFormat, value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return parsed, nil
}
