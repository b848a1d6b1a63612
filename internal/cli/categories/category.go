// Package categories holds the category management commands.
package categories

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmuslu/prodlog/internal/cli"
	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/models"
)

type CategoryAddCmd struct {
	Name   string  `arg:"" help:"Category name."`
	Color  string  `short:"c" help:"Display color as #RRGGBB." default:"#8E8E93"`
	Points float64 `short:"p" help:"Points earned per minute." default:"5"`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	color, err := models.ParseHexColor(c.Color)
	if err != nil {
		return err
	}

	category, result := ctx.App.AddCategory(c.Name, color, c.Points)
	if result.HasConflicts() {
		return fmt.Errorf("%s", strings.TrimSpace(result.FormatReport()))
	}

	fmt.Printf("Added category %s (%.1f points/min)\n", swatch(category), category.PointsPerMinute)
	return nil
}

type CategoryEditCmd struct {
	Name string `arg:"" help:"Current name of the category to edit."`

	Rename string   `help:"New name."`
	Color  string   `short:"c" help:"New display color as #RRGGBB."`
	Points *float64 `short:"p" help:"New points per minute."`
}

func (c *CategoryEditCmd) Run(ctx *cli.Context) error {
	category, err := findByName(ctx, c.Name)
	if err != nil {
		return err
	}

	name := category.Name
	if c.Rename != "" {
		name = c.Rename
	}
	color := category.Color
	if c.Color != "" {
		color, err = models.ParseHexColor(c.Color)
		if err != nil {
			return err
		}
	}
	points := category.PointsPerMinute
	if c.Points != nil {
		points = *c.Points
	}

	if result := ctx.App.UpdateCategory(category.ID, name, color, points); result.HasConflicts() {
		return fmt.Errorf("%s", strings.TrimSpace(result.FormatReport()))
	}

	if c.Rename != "" && c.Rename != category.Name {
		fmt.Printf("Renamed %q to %q. Points already earned stay under the old name.\n", category.Name, c.Rename)
	} else {
		fmt.Printf("Updated %q.\n", name)
	}
	return nil
}

type CategoryRemoveCmd struct {
	Name string `arg:"" help:"Name of the category to remove."`
}

func (c *CategoryRemoveCmd) Run(ctx *cli.Context) error {
	category, err := findByName(ctx, c.Name)
	if err != nil {
		return err
	}

	ctx.App.RemoveCategory(category.ID)
	fmt.Printf("Removed %q. It stays visible in history for %d days.\n", category.Name, constants.CategoryGraceDays)
	return nil
}

type CategoryListCmd struct {
	All bool `help:"Include removed categories still inside the grace window."`
}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	now := time.Now()
	categories := ctx.App.ActiveCategories(now)
	if len(categories) == 0 {
		fmt.Println("No categories. Add one with 'prodlog category add'.")
		return nil
	}

	fmt.Println("Categories:")
	for _, category := range categories {
		if category.IsDeleted() && !c.All {
			continue
		}
		marker := ""
		if category.IsDeleted() {
			marker = " (removed)"
		} else if category.IsDefault {
			marker = " (built-in)"
		}
		fmt.Printf("  %s  %.1f points/min%s\n", swatch(category), category.PointsPerMinute, marker)
	}
	return nil
}

type CategoryResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *CategoryResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		fmt.Println("This replaces all categories with the built-in set. Re-run with --yes to confirm.")
		return nil
	}
	ctx.App.ResetToDefaults()
	fmt.Println("Categories reset to the built-in set.")
	return nil
}

// findByName resolves a live category case-insensitively.
func findByName(ctx *cli.Context, name string) (models.Category, error) {
	for _, c := range ctx.App.Registry().All() {
		if c.IsDeleted() {
			continue
		}
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return models.Category{}, fmt.Errorf("no category named %q (see 'prodlog category list')", name)
}

func swatch(category models.Category) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(category.Color.Hex()))
	return fmt.Sprintf("%s %s", style.Render("■"), category.Name)
}
