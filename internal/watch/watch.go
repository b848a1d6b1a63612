// Package watch runs the boundary timer: a background job that fires exactly
// when the current slot ends, announces the newly loggable slot, and
// reschedules itself for the following boundary.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jmuslu/prodlog/internal/app"
	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/logger"
	"github.com/jmuslu/prodlog/internal/notifier"
)

// boundarySchedule adapts the slot grid to cron's Schedule interface. After
// every fire cron asks for the next activation, which walks the timer from
// boundary to boundary without any recurring expression.
type boundarySchedule struct {
	app *app.App
}

func (s boundarySchedule) Next(t time.Time) time.Time {
	return s.app.NextBoundary(t)
}

// Watcher owns one running cron instance. Restart replaces the instance
// wholesale so a changed interval setting never leaves a stale fire time
// behind.
type Watcher struct {
	app      *app.App
	notifier *notifier.Notifier
	cron     *cron.Cron

	// notify is swappable for tests.
	notify func(text string) error
}

func New(a *app.App) *Watcher {
	n := notifier.New()
	return &Watcher{
		app:      a,
		notifier: n,
		notify:   n.Notify,
	}
}

// Start schedules the boundary job. No-op when already running.
func (w *Watcher) Start() {
	if w.cron != nil {
		return
	}
	w.cron = cron.New()
	w.cron.Schedule(boundarySchedule{app: w.app}, cron.FuncJob(w.fire))
	w.cron.Start()
	logger.Debug("boundary watcher started", "next", w.app.NextBoundary(time.Now()))
}

// Stop halts the cron instance and waits for an in-flight fire to finish
// before returning.
func (w *Watcher) Stop() {
	if w.cron == nil {
		return
	}
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.cron = nil
	logger.Debug("boundary watcher stopped")
}

// Restart tears the timer down and rebuilds it against the current settings.
// Must be called after any interval change; the stop is synchronous so the
// old fire time cannot race the new one.
func (w *Watcher) Restart() {
	w.Stop()
	w.Start()
}

// Run blocks until the context is canceled, keeping the watcher alive for
// the foreground watch command.
func (w *Watcher) Run(ctx context.Context) {
	w.Start()
	<-ctx.Done()
	w.Stop()
}

// fire runs at each slot boundary: re-read state so settings changes from
// another process apply, recompute the candidate list, and when notifications
// are on, tell the user a slot is ready to log.
func (w *Watcher) fire() {
	if err := w.app.Reload(); err != nil {
		logger.Warn("state reload failed", "error", err)
	}
	now := time.Now()
	candidates := w.app.CandidateSlots(now)
	logger.Info("slot boundary reached", "at", now, "open_slots", len(candidates))

	if !w.app.Settings().NotificationsEnabled || len(candidates) == 0 {
		return
	}

	latest := candidates[0]
	format := constants.Time12Format
	if w.app.Settings().Display24h {
		format = constants.TimeFormat
	}
	text := fmt.Sprintf("Slot %s - %s is ready to log (%d open)",
		latest.Start.Format(format), latest.End.Format(format), len(candidates))
	if err := w.notify(text); err != nil {
		logger.Warn("notification delivery failed", "error", err)
	}
}
