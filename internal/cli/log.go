package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/jmuslu/prodlog/internal/models"
)

type LogCmd struct {
	List     bool   `short:"l" help:"List uncategorized slots without logging."`
	Slot     int    `short:"s" help:"Slot number to log (1 = most recent), as shown by --list." default:"1"`
	Allocate string `short:"a" help:"Allocation as \"Name=pct,Name=pct\" summing to 100. Omit for an interactive form."`
}

func (c *LogCmd) Run(ctx *Context) error {
	now := time.Now()
	candidates := ctx.App.CandidateSlots(now)
	settings := ctx.App.Settings()

	if len(candidates) == 0 {
		fmt.Println("Nothing to log. All recent slots are categorized.")
		return nil
	}

	if c.List {
		fmt.Printf("Uncategorized slots (%d):\n", len(candidates))
		for i, slot := range candidates {
			fmt.Printf("  %d. %s (%.0f min)\n", i+1, FormatSlotRange(slot, settings, now), slot.DurationMinutes())
		}
		return nil
	}

	if c.Slot < 1 || c.Slot > len(candidates) {
		return fmt.Errorf("slot %d does not exist, pick 1-%d (see 'prodlog log --list')", c.Slot, len(candidates))
	}
	target := candidates[c.Slot-1]
	categories := ctx.App.ActiveCategories(now)

	var allocation map[string]float64
	var err error
	if c.Allocate != "" {
		allocation, err = ParseAllocation(c.Allocate, categories)
		if err != nil {
			return err
		}
	} else {
		allocation, err = promptAllocation(target, categories, settings, now)
		if err != nil {
			return err
		}
		if allocation == nil {
			fmt.Println("Canceled.")
			return nil
		}
	}

	if result := ctx.App.CommitSlot(target, allocation); result.HasConflicts() {
		return fmt.Errorf("%s", strings.TrimSpace(result.FormatReport()))
	}

	fmt.Printf("Logged %s.\n", FormatSlotRange(target, settings, now))
	fmt.Printf("Today: %d points\n", ctx.App.DailyPoints(now))
	return nil
}

// promptAllocation collects a percentage per category through a form. A nil
// map with a nil error means the user backed out.
func promptAllocation(slot models.Slot, categories []models.Category, settings models.Settings, now time.Time) (map[string]float64, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories available, add one with 'prodlog category add'")
	}

	values := make([]string, len(categories))
	for i := range values {
		values[i] = "0"
	}

	fields := make([]huh.Field, 0, len(categories))
	for i, c := range categories {
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("%s (%% of slot)", c.Name)).
			Value(&values[i]).
			Validate(func(s string) error {
				pct, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
				if err != nil {
					return fmt.Errorf("enter a number")
				}
				if pct < 0 || pct > 100 {
					return fmt.Errorf("must be between 0 and 100")
				}
				return nil
			}))
	}

	confirm := true
	form := huh.NewForm(
		huh.NewGroup(fields...).
			Title(fmt.Sprintf("How did you spend %s?", FormatSlotRange(slot, settings, now))).
			Description("Percentages must sum to exactly 100."),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Log this slot?").
				Value(&confirm),
		),
	)

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return nil, nil
		}
		return nil, err
	}
	if !confirm {
		return nil, nil
	}

	allocation := make(map[string]float64)
	for i, c := range categories {
		pct, err := strconv.ParseFloat(strings.TrimSpace(values[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percentage for %s", c.Name)
		}
		if pct > 0 {
			allocation[c.ID] = pct
		}
	}
	return allocation, nil
}
