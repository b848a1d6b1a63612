package system

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jmuslu/prodlog/internal/backup"
	"github.com/jmuslu/prodlog/internal/cli"
	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/models"
	"github.com/jmuslu/prodlog/internal/storage"
	"github.com/jmuslu/prodlog/internal/timemath"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: Storage reachable
	if err := checkStoreReachable(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		storeReachable = true
	}

	// Check 2: Settings decodable (only if storage is reachable)
	if storeReachable {
		if err := checkSettings(ctx); err != nil {
			fmt.Printf("❌ Settings: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Settings: OK\n")
		}
	} else {
		fmt.Printf("⊘ Settings: SKIPPED (storage not reachable)\n")
	}

	// Check 3: Category integrity (only if storage is reachable)
	if storeReachable {
		if err := checkCategoryIntegrity(ctx); err != nil {
			fmt.Printf("❌ Category integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Category integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Category integrity: SKIPPED (storage not reachable)\n")
	}

	// Check 4: Slot log integrity (only if storage is reachable)
	if storeReachable {
		if err := checkSlotLogIntegrity(ctx); err != nil {
			fmt.Printf("❌ Slot log integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Slot log integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Slot log integrity: SKIPPED (storage not reachable)\n")
	}

	// Check 5: Points ledger consistency (only if storage is reachable)
	if storeReachable {
		if err := checkLedgerConsistency(ctx); err != nil {
			fmt.Printf("❌ Points ledger: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Points ledger: OK\n")
		}
	} else {
		fmt.Printf("⊘ Points ledger: SKIPPED (storage not reachable)\n")
	}

	// Check 6: Backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 7: Clock/timezone sanity
	if err := checkClockTimezone(ctx); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	// For SQLite, also try a simple query
	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSettings(ctx *cli.Context) error {
	raw, ok, err := ctx.Store.Get(constants.KeySettings)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if !ok {
		// Missing settings fall back to defaults at load time.
		return nil
	}

	var settings models.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return fmt.Errorf("settings blob is not valid JSON: %w", err)
	}

	if settings.IntervalHours != constants.IntervalAuto {
		valid := false
		for _, h := range constants.AvailableIntervals {
			if settings.IntervalHours == h {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("stored interval %dh is not an allowed interval", settings.IntervalHours)
		}
	}

	if settings.Timezone != "" {
		if _, err := timemath.LoadLocation(settings.Timezone); err != nil {
			return fmt.Errorf("stored timezone %q is invalid: %w", settings.Timezone, err)
		}
	}

	return nil
}

func checkCategoryIntegrity(ctx *cli.Context) error {
	raw, ok, err := ctx.Store.Get(constants.KeyCategories)
	if err != nil {
		return fmt.Errorf("failed to read categories: %w", err)
	}
	if !ok {
		return nil
	}

	var categories []models.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		return fmt.Errorf("categories blob is not valid JSON: %w", err)
	}

	seenIDs := make(map[string]bool)
	seenNames := make(map[string]bool)
	for _, c := range categories {
		if seenIDs[c.ID] {
			return fmt.Errorf("duplicate category ID found: %s", c.ID)
		}
		seenIDs[c.ID] = true

		if c.DeletedAt == nil {
			if seenNames[c.Name] {
				return fmt.Errorf("duplicate category name found: %s", c.Name)
			}
			seenNames[c.Name] = true
		}

		if c.PointsPerMinute < 0 {
			return fmt.Errorf("category %q has negative points per minute", c.Name)
		}
	}

	return nil
}

func checkSlotLogIntegrity(ctx *cli.Context) error {
	raw, ok, err := ctx.Store.Get(constants.KeySlotLog)
	if err != nil {
		return fmt.Errorf("failed to read slot log: %w", err)
	}
	if !ok {
		return nil
	}

	var slots []models.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return fmt.Errorf("slot log blob is not valid JSON: %w", err)
	}

	for i, slot := range slots {
		if !slot.End.After(slot.Start) {
			return fmt.Errorf("slot %s has a non-positive duration", slot.ID)
		}
		for _, other := range slots[i+1:] {
			if timemath.Overlaps(slot.Start, slot.End, other.Start, other.End) {
				return fmt.Errorf("slots %s and %s overlap", slot.ID, other.ID)
			}
		}
	}

	return nil
}

func checkLedgerConsistency(ctx *cli.Context) error {
	var dailyTotals map[string]int
	var categoryTotals map[string]map[string]int

	if raw, ok, err := ctx.Store.Get(constants.KeyDailyPoints); err != nil {
		return fmt.Errorf("failed to read daily points: %w", err)
	} else if ok {
		if err := json.Unmarshal(raw, &dailyTotals); err != nil {
			return fmt.Errorf("daily points blob is not valid JSON: %w", err)
		}
	}

	if raw, ok, err := ctx.Store.Get(constants.KeyCategoryPoints); err != nil {
		return fmt.Errorf("failed to read category points: %w", err)
	} else if ok {
		if err := json.Unmarshal(raw, &categoryTotals); err != nil {
			return fmt.Errorf("category points blob is not valid JSON: %w", err)
		}
	}

	days := make(map[string]bool)
	for day := range dailyTotals {
		days[day] = true
	}
	for day := range categoryTotals {
		days[day] = true
	}

	sorted := make([]string, 0, len(days))
	for day := range days {
		sorted = append(sorted, day)
	}
	sort.Strings(sorted)

	for _, day := range sorted {
		if _, err := time.Parse(constants.DateFormat, day); err != nil {
			return fmt.Errorf("ledger day key %q is not a valid date", day)
		}

		sum := 0
		for _, points := range categoryTotals[day] {
			if points < 0 {
				return fmt.Errorf("negative category subtotal on %s", day)
			}
			sum += points
		}
		if sum != dailyTotals[day] {
			return fmt.Errorf("on %s the category subtotals sum to %d but the daily total is %d", day, sum, dailyTotals[day])
		}
	}

	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'prodlog backup create'")
	}

	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	return nil
}
