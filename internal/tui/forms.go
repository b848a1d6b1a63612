package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/jmuslu/prodlog/internal/cli"
	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/models"
)

// AllocationFormModel backs the embedded allocation form. Values holds one
// percentage string per category, in the same order as Categories.
type AllocationFormModel struct {
	Categories []models.Category
	Values     []string
}

type SettingsFormModel struct {
	Interval             string
	Display24h           bool
	NotificationsEnabled bool
	Timezone             string
}

type CategoryFormModel struct {
	Name   string
	Color  string
	Points string
}

func newAllocationFormModel(categories []models.Category) *AllocationFormModel {
	values := make([]string, len(categories))
	for i := range values {
		values[i] = "0"
	}
	return &AllocationFormModel{Categories: categories, Values: values}
}

func newAllocationForm(fm *AllocationFormModel, slotLabel string) *huh.Form {
	fields := make([]huh.Field, 0, len(fm.Categories))
	for i, c := range fm.Categories {
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("%s (%% of slot)", c.Name)).
			Value(&fm.Values[i]).
			Validate(validatePercent))
	}
	return huh.NewForm(
		huh.NewGroup(fields...).
			Title(fmt.Sprintf("How did you spend %s?", slotLabel)).
			Description("Percentages must sum to exactly 100."),
	).WithShowHelp(false)
}

// Allocation converts the form values to a category-id keyed map. Zero shares
// are dropped.
func (fm *AllocationFormModel) Allocation() (map[string]float64, error) {
	allocation := make(map[string]float64)
	for i, c := range fm.Categories {
		pct, err := strconv.ParseFloat(strings.TrimSpace(fm.Values[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percentage for %s", c.Name)
		}
		if pct > 0 {
			allocation[c.ID] = pct
		}
	}
	return allocation, nil
}

func validatePercent(s string) error {
	pct, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if pct < 0 || pct > 100 {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}

func newSettingsFormModel(settings models.Settings) *SettingsFormModel {
	return &SettingsFormModel{
		Interval:             cli.FormatInterval(settings.IntervalHours),
		Display24h:           settings.Display24h,
		NotificationsEnabled: settings.NotificationsEnabled,
		Timezone:             settings.Timezone,
	}
}

func newSettingsForm(fm *SettingsFormModel) *huh.Form {
	options := []huh.Option[string]{huh.NewOption("auto", "auto")}
	for _, h := range constants.AvailableIntervals {
		label := fmt.Sprintf("%dh", h)
		options = append(options, huh.NewOption(label, label))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Slot interval").
				Options(options...).
				Value(&fm.Interval),
			huh.NewConfirm().
				Title("24-hour clock").
				Value(&fm.Display24h),
			huh.NewConfirm().
				Title("Slot notifications").
				Value(&fm.NotificationsEnabled),
			huh.NewInput().
				Title("Timezone").
				Description("IANA name like America/New_York, or Local.").
				Value(&fm.Timezone),
		).Title("Settings"),
	).WithShowHelp(false)
}

// Apply writes the form values onto settings. The interval string is "auto"
// or an hour count with an optional trailing "h".
func (fm *SettingsFormModel) Apply(settings models.Settings) (models.Settings, error) {
	raw := strings.TrimSpace(strings.ToLower(fm.Interval))
	if raw == "auto" {
		settings.IntervalHours = constants.IntervalAuto
	} else {
		hours, err := strconv.Atoi(strings.TrimSuffix(raw, "h"))
		if err != nil {
			return settings, fmt.Errorf("invalid interval %q", fm.Interval)
		}
		settings.IntervalHours = hours
	}
	settings.Display24h = fm.Display24h
	settings.NotificationsEnabled = fm.NotificationsEnabled
	settings.Timezone = strings.TrimSpace(fm.Timezone)
	return settings, nil
}

func newCategoryFormModel() *CategoryFormModel {
	return &CategoryFormModel{
		Color:  "#8E8E93",
		Points: fmt.Sprintf("%g", constants.DefaultPointsPerMinute),
	}
}

func newCategoryForm(fm *CategoryFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Color").
				Description("Hex like #8E8E93.").
				Value(&fm.Color).
				Validate(func(s string) error {
					_, err := models.ParseHexColor(strings.TrimSpace(s))
					return err
				}),
			huh.NewInput().
				Title("Points per minute").
				Value(&fm.Points).
				Validate(func(s string) error {
					pts, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil {
						return fmt.Errorf("enter a number")
					}
					if pts < 0 {
						return fmt.Errorf("must not be negative")
					}
					return nil
				}),
		).Title("New category"),
	).WithShowHelp(false)
}
