package cli

import (
	"fmt"
	"sort"
	"time"
)

type CompletedCmd struct {
	Date string `short:"d" help:"Day to show (YYYY-MM-DD). Defaults to today."`
}

func (c *CompletedCmd) Run(ctx *Context) error {
	now := time.Now()
	date, err := ParseDateFlag(c.Date, now)
	if err != nil {
		return err
	}

	slots := ctx.App.CompletedSlots(date)
	if len(slots) == 0 {
		fmt.Printf("No logged slots on %s.\n", date.Format("Mon Jan 2"))
		return nil
	}

	settings := ctx.App.Settings()
	categories := ctx.App.Registry().All()
	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	fmt.Printf("Logged slots on %s:\n", date.Format("Mon Jan 2"))
	for _, slot := range slots {
		fmt.Printf("  %s (%.0f min)\n", FormatSlotRange(slot, settings, now), slot.DurationMinutes())

		type share struct {
			name string
			pct  float64
		}
		shares := make([]share, 0, len(slot.Allocation))
		for id, pct := range slot.Allocation {
			if name, ok := names[id]; ok {
				shares = append(shares, share{name, pct})
			}
		}
		sort.Slice(shares, func(i, j int) bool {
			if shares[i].pct != shares[j].pct {
				return shares[i].pct > shares[j].pct
			}
			return shares[i].name < shares[j].name
		})
		for _, s := range shares {
			fmt.Printf("      %.0f%% %s\n", s.pct, s.name)
		}
	}
	return nil
}
