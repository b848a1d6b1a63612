package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmuslu/prodlog/internal/models"
	"github.com/jmuslu/prodlog/internal/storage"
)

func newTestLedger(t *testing.T) (*Ledger, storage.Provider) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "prodlog.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	return New(store), store
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", value, err)
	}
	return parsed
}

func TestPointsForSlot(t *testing.T) {
	work := models.Category{ID: "work", Name: "Work", PointsPerMinute: 5}
	relax := models.Category{ID: "relax", Name: "Relax", PointsPerMinute: 2}
	categories := []models.Category{work, relax}

	tests := []struct {
		name string
		slot models.Slot
		want int
	}{
		{
			name: "single category full allocation",
			slot: models.Slot{
				Start:      mustTime(t, "2025-03-14 09:00"),
				End:        mustTime(t, "2025-03-14 13:00"),
				Allocation: map[string]float64{"work": 100},
			},
			want: 1200, // 240 min * 1.0 * 5
		},
		{
			name: "split allocation truncates per category",
			slot: models.Slot{
				Start:      mustTime(t, "2025-03-14 09:00"),
				End:        mustTime(t, "2025-03-14 10:00"),
				Allocation: map[string]float64{"work": 50, "relax": 50},
			},
			want: 210, // floor(30*5) + floor(30*2)
		},
		{
			name: "unknown category earns nothing",
			slot: models.Slot{
				Start:      mustTime(t, "2025-03-14 09:00"),
				End:        mustTime(t, "2025-03-14 10:00"),
				Allocation: map[string]float64{"gone": 100},
			},
			want: 0,
		},
		{
			name: "empty allocation",
			slot: models.Slot{
				Start: mustTime(t, "2025-03-14 09:00"),
				End:   mustTime(t, "2025-03-14 10:00"),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointsForSlot(tt.slot, categories); got != tt.want {
				t.Errorf("PointsForSlot() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecordPointsExactDistribution(t *testing.T) {
	tests := []struct {
		name   string
		points int
		shares map[string]float64
		want   map[string]int
	}{
		{
			name:   "clean split needs no residual",
			points: 100,
			shares: map[string]float64{"A": 33, "B": 33, "C": 34},
			want:   map[string]int{"A": 33, "B": 33, "C": 34},
		},
		{
			name:   "last name in sort order absorbs residual",
			points: 10,
			shares: map[string]float64{"A": 33, "B": 33, "C": 34},
			want:   map[string]int{"A": 3, "B": 3, "C": 4},
		},
		{
			name:   "single category takes everything",
			points: 7,
			shares: map[string]float64{"Work": 100},
			want:   map[string]int{"Work": 7},
		},
		{
			name:   "round half up before reconciliation",
			points: 5,
			shares: map[string]float64{"A": 50, "B": 50},
			want:   map[string]int{"A": 3, "B": 2},
		},
	}

	day := mustTime(t, "2025-03-14 12:00")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLedger(t)
			l.RecordPoints(tt.points, day, tt.shares)

			if got := l.DailyTotal(day); got != tt.points {
				t.Errorf("DailyTotal = %d, want %d", got, tt.points)
			}

			categories := make([]models.Category, 0, len(tt.want))
			for name := range tt.want {
				categories = append(categories, models.Category{ID: name, Name: name})
			}
			sum := 0
			for _, cp := range l.CategoryTotals(day, categories) {
				if cp.Points != tt.want[cp.Category.Name] {
					t.Errorf("category %q = %d, want %d", cp.Category.Name, cp.Points, tt.want[cp.Category.Name])
				}
				sum += cp.Points
			}
			if sum != tt.points {
				t.Errorf("category subtotals sum to %d, want exactly %d", sum, tt.points)
			}
		})
	}
}

func TestRecordPointsNoLeakageProperty(t *testing.T) {
	day := mustTime(t, "2025-03-14 12:00")
	allocations := []map[string]float64{
		{"A": 1, "B": 99},
		{"A": 5, "B": 5, "C": 5, "D": 85},
		{"A": 20, "B": 20, "C": 20, "D": 20, "E": 20},
		{"A": 33, "B": 67},
		{"Entertainment": 15, "Sleep": 35, "Work": 45, "Relax": 5},
	}
	points := []int{0, 1, 3, 10, 99, 100, 12345}

	for _, shares := range allocations {
		for _, p := range points {
			l, _ := newTestLedger(t)
			l.RecordPoints(p, day, shares)

			categories := make([]models.Category, 0, len(shares))
			for name := range shares {
				categories = append(categories, models.Category{ID: name, Name: name})
			}
			sum := 0
			for _, cp := range l.CategoryTotals(day, categories) {
				sum += cp.Points
			}
			if sum != p {
				t.Errorf("shares %v, points %d: subtotals sum to %d", shares, p, sum)
			}
		}
	}
}

func TestRecordPointsAccumulates(t *testing.T) {
	l, _ := newTestLedger(t)
	day := mustTime(t, "2025-03-14 08:00")
	later := mustTime(t, "2025-03-14 20:00")

	l.RecordPoints(100, day, map[string]float64{"Work": 100})
	l.RecordPoints(50, later, map[string]float64{"Work": 60, "Relax": 40})

	if got := l.DailyTotal(day); got != 150 {
		t.Errorf("DailyTotal = %d, want 150", got)
	}

	categories := []models.Category{
		{ID: "w", Name: "Work"},
		{ID: "r", Name: "Relax"},
	}
	totals := l.CategoryTotals(day, categories)
	if totals[0].Points != 130 {
		t.Errorf("Work = %d, want 130", totals[0].Points)
	}
	if totals[1].Points != 20 {
		t.Errorf("Relax = %d, want 20", totals[1].Points)
	}
}

func TestRenamedCategoryStrandsOldTotals(t *testing.T) {
	l, _ := newTestLedger(t)
	day := mustTime(t, "2025-03-14 12:00")
	l.RecordPoints(100, day, map[string]float64{"Work": 100})

	// After a rename the join finds nothing under the new name.
	renamed := []models.Category{{ID: "w", Name: "Deep Work"}}
	totals := l.CategoryTotals(day, renamed)
	if totals[0].Points != 0 {
		t.Errorf("renamed category sees %d stranded points", totals[0].Points)
	}
}

func TestWeeklyTotal(t *testing.T) {
	l, _ := newTestLedger(t)
	end := mustTime(t, "2025-03-14 12:00")

	for i := 0; i < 9; i++ {
		l.RecordPoints(10, end.AddDate(0, 0, -i), map[string]float64{"Work": 100})
	}

	// Only the trailing 7 days count.
	if got := l.WeeklyTotal(end); got != 70 {
		t.Errorf("WeeklyTotal = %d, want 70", got)
	}
}

func TestResetAll(t *testing.T) {
	l, store := newTestLedger(t)
	day := mustTime(t, "2025-03-14 12:00")
	l.RecordPoints(100, day, map[string]float64{"Work": 100})

	l.ResetAll()

	if got := l.DailyTotal(day); got != 0 {
		t.Errorf("DailyTotal after reset = %d", got)
	}

	// Reset must persist.
	reloaded := New(store)
	if got := reloaded.DailyTotal(day); got != 0 {
		t.Errorf("DailyTotal after reload = %d", got)
	}
}

func TestClearWindow(t *testing.T) {
	l, _ := newTestLedger(t)
	for i := 0; i < 4; i++ {
		l.RecordPoints(10, mustTime(t, "2025-03-14 12:00").AddDate(0, 0, -i), map[string]float64{"Work": 100})
	}

	// Clear Mar 13-14; Mar 11-12 survive.
	l.ClearWindow(mustTime(t, "2025-03-13 03:30"), mustTime(t, "2025-03-14 23:00"))

	if got := l.DailyTotal(mustTime(t, "2025-03-14 00:00")); got != 0 {
		t.Errorf("Mar 14 = %d after clear", got)
	}
	if got := l.DailyTotal(mustTime(t, "2025-03-13 00:00")); got != 0 {
		t.Errorf("Mar 13 = %d after clear", got)
	}
	if got := l.DailyTotal(mustTime(t, "2025-03-12 00:00")); got != 10 {
		t.Errorf("Mar 12 = %d, want 10", got)
	}
	if got := l.DailyTotal(mustTime(t, "2025-03-11 00:00")); got != 10 {
		t.Errorf("Mar 11 = %d, want 10", got)
	}
}

func TestPersistsAcrossReload(t *testing.T) {
	l, store := newTestLedger(t)
	day := mustTime(t, "2025-03-14 12:00")
	l.RecordPoints(120, day, map[string]float64{"Work": 75, "Relax": 25})

	reloaded := New(store)
	if got := reloaded.DailyTotal(day); got != 120 {
		t.Errorf("DailyTotal after reload = %d, want 120", got)
	}
	totals := reloaded.CategoryTotals(day, []models.Category{{ID: "w", Name: "Work"}})
	if totals[0].Points != 90 {
		t.Errorf("Work after reload = %d, want 90", totals[0].Points)
	}
}
