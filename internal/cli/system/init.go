// Package system holds the lifecycle and diagnostic commands.
package system

import (
	"fmt"
	"os"

	"github.com/jmuslu/prodlog/internal/app"
	"github.com/jmuslu/prodlog/internal/cli"
	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing storage before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			fmt.Printf("Deleted existing storage at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized prodlog storage at: %s\n", ctx.Store.GetConfigPath())

	// Seed the default categories and settings so first run has something to
	// offer.
	storage.SaveJSON(ctx.Store, constants.KeyOnboarded, true)
	a := app.New(ctx.Store)
	a.ResetToDefaults()
	fmt.Printf("Seeded %d default categories. Run 'prodlog' to start logging.\n", len(a.Registry().All()))
	return nil
}
