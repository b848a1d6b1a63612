// Package settings holds the settings command.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmuslu/prodlog/internal/cli"
	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/timemath"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Interval             *string `help:"Slot interval: 'auto' or hours (1, 2, 3, 4, 6, 12)."`
	Display24h           *bool   `help:"Show times in 24-hour format."`
	NotificationsEnabled *bool   `help:"Enable or disable slot notifications."`
	Timezone             *string `help:"IANA timezone name, or 'Local'."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings := ctx.App.Settings()

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Interval:              %s\n", cli.FormatInterval(settings.IntervalHours))
		fmt.Printf("  24-hour display:       %v\n", settings.Display24h)
		fmt.Printf("  Notifications enabled: %v\n", settings.NotificationsEnabled)
		tz := settings.Timezone
		if tz == "" {
			tz = "Local"
		}
		fmt.Printf("  Timezone:              %s\n", tz)
		return nil
	}

	updated := false
	if c.Interval != nil {
		hours, err := parseInterval(*c.Interval)
		if err != nil {
			return err
		}
		settings.IntervalHours = hours
		updated = true
	}
	if c.Display24h != nil {
		settings.Display24h = *c.Display24h
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.Timezone != nil {
		if _, err := timemath.LoadLocation(*c.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if result := ctx.App.UpdateSettings(settings); result.HasConflicts() {
		return fmt.Errorf("%s", strings.TrimSpace(result.FormatReport()))
	}
	fmt.Println("Settings updated successfully.")
	if c.Interval != nil {
		fmt.Println("A running boundary watcher picks up the new interval at its next slot boundary.")
	}
	return nil
}

func parseInterval(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "auto" {
		return constants.IntervalAuto, nil
	}
	hours, err := strconv.Atoi(strings.TrimSuffix(s, "h"))
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q, expected 'auto' or hours", s)
	}
	return hours, nil
}
