package cli

import (
	"fmt"
	"time"
)

type PointsCmd struct {
	Date string `short:"d" help:"Day to show (YYYY-MM-DD). Defaults to today."`
	Week bool   `short:"w" help:"Include the trailing 7-day total."`
}

func (c *PointsCmd) Run(ctx *Context) error {
	now := time.Now()
	date, err := ParseDateFlag(c.Date, now)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d points\n", date.Format("Mon Jan 2"), ctx.App.DailyPoints(date))

	for _, cp := range ctx.App.CategoryPoints(date, now) {
		if cp.Points == 0 {
			continue
		}
		fmt.Printf("  %-20s %d\n", cp.Category.Name, cp.Points)
	}

	if c.Week {
		fmt.Printf("Last 7 days: %d points\n", ctx.App.WeeklyPoints(date))
	}
	return nil
}
