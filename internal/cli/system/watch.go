package system

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmuslu/prodlog/internal/cli"
	"github.com/jmuslu/prodlog/internal/watch"
)

type WatchCmd struct{}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	now := time.Now()
	fmt.Printf("Watching slot boundaries (interval: %s). Next boundary: %s. Ctrl-C to stop.\n",
		cli.FormatInterval(ctx.App.Settings().IntervalHours),
		ctx.App.NextBoundary(now).Format(cli.ClockFormat(ctx.App.Settings())))

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watch.New(ctx.App).Run(runCtx)
	fmt.Println("\nStopped.")
	return nil
}
