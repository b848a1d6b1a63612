package watch

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmuslu/prodlog/internal/app"
	"github.com/jmuslu/prodlog/internal/models"
	"github.com/jmuslu/prodlog/internal/storage"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "prodlog.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	return app.New(store)
}

func TestBoundaryScheduleFollowsGrid(t *testing.T) {
	a := newTestApp(t)
	s := boundarySchedule{app: a}

	from := time.Date(2025, 3, 14, 14, 5, 0, 0, time.UTC)
	next := s.Next(from)
	if want := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}

	// Chained activations walk the grid.
	after := s.Next(next)
	if want := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC); !after.Equal(want) {
		t.Errorf("chained Next = %v, want %v", after, want)
	}
}

func TestBoundaryScheduleAlwaysAdvances(t *testing.T) {
	a := newTestApp(t)
	s := boundarySchedule{app: a}

	cursor := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 48; i++ {
		next := s.Next(cursor)
		if !next.After(cursor) {
			t.Fatalf("schedule stalled at %v", cursor)
		}
		cursor = next
	}
}

func TestFireNotifiesWhenEnabled(t *testing.T) {
	a := newTestApp(t)
	a.UpdateSettings(models.Settings{IntervalHours: 3, NotificationsEnabled: true})

	w := New(a)
	var sent []string
	w.notify = func(text string) error {
		sent = append(sent, text)
		return nil
	}

	w.fire()

	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sent))
	}
	if !strings.Contains(sent[0], "ready to log") {
		t.Errorf("unexpected notification text: %q", sent[0])
	}
}

func TestFireStaysQuietWhenDisabled(t *testing.T) {
	a := newTestApp(t)
	a.UpdateSettings(models.Settings{IntervalHours: 3, NotificationsEnabled: false})

	w := New(a)
	w.notify = func(text string) error {
		t.Errorf("unexpected notification: %q", text)
		return nil
	}

	w.fire()
}

func TestStartStopRestart(t *testing.T) {
	a := newTestApp(t)
	w := New(a)
	w.notify = func(string) error { return nil }

	w.Start()
	if w.cron == nil {
		t.Fatal("watcher not running after Start")
	}

	// Start is idempotent.
	running := w.cron
	w.Start()
	if w.cron != running {
		t.Error("second Start replaced the running instance")
	}

	w.Restart()
	if w.cron == nil {
		t.Fatal("watcher not running after Restart")
	}
	if w.cron == running {
		t.Error("Restart kept the old instance")
	}

	w.Stop()
	if w.cron != nil {
		t.Error("watcher still running after Stop")
	}

	// Stop is safe when already stopped.
	w.Stop()
}

func TestFirePicksUpExternalSettingsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prodlog.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	a := app.New(store)
	a.UpdateSettings(models.Settings{IntervalHours: 3, NotificationsEnabled: true})

	w := New(a)
	var sent []string
	w.notify = func(text string) error {
		sent = append(sent, text)
		return nil
	}

	// A settings change from another process lands in the store file while
	// the watcher keeps running.
	other := storage.NewJSONStore(path)
	if err := other.Load(); err != nil {
		t.Fatalf("second store load failed: %v", err)
	}
	app.New(other).UpdateSettings(models.Settings{IntervalHours: 2, NotificationsEnabled: true, Display24h: true})

	w.fire()

	got := a.Settings()
	if got.IntervalHours != 2 || !got.Display24h {
		t.Errorf("settings after fire = %+v, want interval 2 and 24-hour display", got)
	}
	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sent))
	}
	if strings.Contains(sent[0], "AM") || strings.Contains(sent[0], "PM") {
		t.Errorf("notification still uses 12-hour clock: %q", sent[0])
	}
}
