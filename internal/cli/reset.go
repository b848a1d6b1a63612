package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/jmuslu/prodlog/internal/constants"
)

type ResetLogsCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ResetLogsCmd) Run(ctx *Context) error {
	now := time.Now()
	recent := ctx.App.RecentSlots(now)
	if len(recent) == 0 {
		fmt.Println("No logged slots in the recent window.")
		return nil
	}

	if !c.Yes {
		ok, err := confirm(fmt.Sprintf(
			"Clear %d logged slots from the last %d hours and their points?", len(recent), constants.RecentLogWindowHours))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Canceled.")
			return nil
		}
	}

	ctx.App.ResetRecentLogs(now)
	fmt.Printf("Cleared %d slots. They are available to log again.\n", len(recent))
	return nil
}

type ResetPointsCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ResetPointsCmd) Run(ctx *Context) error {
	if !c.Yes {
		ok, err := confirm("Erase all point totals? Logged slots are kept.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Canceled.")
			return nil
		}
	}

	ctx.App.ResetPoints()
	fmt.Println("All point totals erased.")
	return nil
}

func confirm(title string) (bool, error) {
	ok := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Value(&ok),
	))
	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
