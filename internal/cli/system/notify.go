package system

import (
	"fmt"
	"time"

	"github.com/jmuslu/prodlog/internal/cli"
	"github.com/jmuslu/prodlog/internal/notifier"
)

type NotifyCmd struct {
	DryRun bool `help:"Print the notification to stdout instead of sending it."`
}

// NotifyCmd is fired by external schedulers (launchd, systemd timers) as an
// alternative to the foreground watch command: if a slot just became
// available, tell the user.
func (c *NotifyCmd) Run(ctx *cli.Context) error {
	settings := ctx.App.Settings()
	if !settings.NotificationsEnabled {
		if c.DryRun {
			fmt.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	now := time.Now()
	candidates := ctx.App.CandidateSlots(now)
	if len(candidates) == 0 {
		if c.DryRun {
			fmt.Println("No uncategorized slots.")
		}
		return nil
	}

	latest := candidates[0]
	clock := cli.ClockFormat(settings)
	msg := fmt.Sprintf("Slot %s - %s is ready to log (%d open)",
		latest.Start.Format(clock), latest.End.Format(clock), len(candidates))

	if c.DryRun {
		fmt.Println("[DryRun] " + msg)
		return nil
	}

	if err := notifier.New().Notify(msg); err != nil {
		fmt.Printf("Failed to send notification: %v\n", err)
	}
	return nil
}
