package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jmuslu/prodlog/internal/models"
	"github.com/jmuslu/prodlog/internal/storage"
	"github.com/jmuslu/prodlog/internal/timemath"
)

func newTestStore(t *testing.T) storage.Provider {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "prodlog.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	return store
}

func slotAt(t *testing.T, start, end string) models.Slot {
	t.Helper()
	parse := func(value string) time.Time {
		parsed, err := time.Parse("2006-01-02 15:04", value)
		if err != nil {
			t.Fatalf("failed to parse time %q: %v", value, err)
		}
		return parsed
	}
	return models.Slot{
		ID:         uuid.New().String(),
		Start:      parse(start),
		End:        parse(end),
		Allocation: map[string]float64{"cat": 100},
		IsComplete: true,
	}
}

func assertNoOverlaps(t *testing.T, slots []models.Slot) {
	t.Helper()
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			if timemath.Overlaps(slots[i].Start, slots[i].End, slots[j].Start, slots[j].End) {
				t.Fatalf("stored slots overlap: [%v,%v) and [%v,%v)",
					slots[i].Start, slots[i].End, slots[j].Start, slots[j].End)
			}
		}
	}
}

func TestInsertKeepsDescendingOrder(t *testing.T) {
	h := New(newTestStore(t))
	h.Insert(slotAt(t, "2025-03-14 09:00", "2025-03-14 12:00"))
	h.Insert(slotAt(t, "2025-03-14 15:00", "2025-03-14 18:00"))
	h.Insert(slotAt(t, "2025-03-14 12:00", "2025-03-14 15:00"))

	slots := h.All()
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].Start.After(slots[i-1].Start) {
			t.Errorf("slots not sorted descending at index %d", i)
		}
	}
	assertNoOverlaps(t, slots)
}

func TestInsertSupersedesOverlapping(t *testing.T) {
	h := New(newTestStore(t))
	h.Insert(slotAt(t, "2025-03-14 09:00", "2025-03-14 12:00"))
	h.Insert(slotAt(t, "2025-03-14 12:00", "2025-03-14 15:00"))

	// Covers both existing slots; they must both be removed.
	replacement := slotAt(t, "2025-03-14 10:00", "2025-03-14 14:00")
	h.Insert(replacement)

	slots := h.All()
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot after superseding insert, got %d", len(slots))
	}
	if slots[0].ID != replacement.ID {
		t.Error("surviving slot is not the replacement")
	}
	assertNoOverlaps(t, slots)
}

func TestInsertIdenticalRangeIsIdempotent(t *testing.T) {
	h := New(newTestStore(t))
	h.Insert(slotAt(t, "2025-03-14 09:00", "2025-03-14 12:00"))
	second := slotAt(t, "2025-03-14 09:00", "2025-03-14 12:00")
	h.Insert(second)

	slots := h.All()
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot for a duplicate range, got %d", len(slots))
	}
	if slots[0].ID != second.ID {
		t.Error("second insert did not supersede the first")
	}
}

func TestInsertTouchingRangesBothSurvive(t *testing.T) {
	h := New(newTestStore(t))
	h.Insert(slotAt(t, "2025-03-14 09:00", "2025-03-14 12:00"))
	h.Insert(slotAt(t, "2025-03-14 12:00", "2025-03-14 15:00"))

	if got := len(h.All()); got != 2 {
		t.Errorf("touching ranges should not supersede each other, got %d slots", got)
	}
}

func TestAllSince(t *testing.T) {
	h := New(newTestStore(t))
	h.Insert(slotAt(t, "2025-03-13 09:00", "2025-03-13 12:00"))
	h.Insert(slotAt(t, "2025-03-14 09:00", "2025-03-14 12:00"))
	h.Insert(slotAt(t, "2025-03-14 12:00", "2025-03-14 15:00"))

	cutoff, _ := time.Parse("2006-01-02 15:04", "2025-03-14 09:00")
	since := h.AllSince(cutoff)
	if len(since) != 2 {
		t.Fatalf("expected 2 slots since cutoff, got %d", len(since))
	}
	for _, slot := range since {
		if slot.Start.Before(cutoff) {
			t.Errorf("slot starting %v predates cutoff", slot.Start)
		}
	}
}

func TestForDay(t *testing.T) {
	h := New(newTestStore(t))
	h.Insert(slotAt(t, "2025-03-13 21:00", "2025-03-14 00:00"))
	h.Insert(slotAt(t, "2025-03-14 09:00", "2025-03-14 12:00"))

	day, _ := time.Parse("2006-01-02 15:04", "2025-03-14 16:30")
	slots := h.ForDay(day)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot for the day, got %d", len(slots))
	}
	if slots[0].Start.Day() != 14 {
		t.Error("ForDay returned a slot from the wrong day")
	}
}

func TestClearSince(t *testing.T) {
	h := New(newTestStore(t))
	h.Insert(slotAt(t, "2025-03-13 09:00", "2025-03-13 12:00"))
	h.Insert(slotAt(t, "2025-03-14 09:00", "2025-03-14 12:00"))

	cutoff, _ := time.Parse("2006-01-02 15:04", "2025-03-14 00:00")
	h.ClearSince(cutoff)

	slots := h.All()
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot after clear, got %d", len(slots))
	}
	if !slots[0].Start.Before(cutoff) {
		t.Error("surviving slot should predate the cutoff")
	}
}

func TestPersistsAcrossReload(t *testing.T) {
	store := newTestStore(t)
	h := New(store)
	inserted := slotAt(t, "2025-03-14 09:00", "2025-03-14 12:00")
	h.Insert(inserted)

	reloaded := New(store)
	slots := reloaded.All()
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot after reload, got %d", len(slots))
	}
	if slots[0].ID != inserted.ID || !slots[0].Start.Equal(inserted.Start) {
		t.Errorf("reloaded slot = %+v", slots[0])
	}
	if slots[0].Allocation["cat"] != 100 {
		t.Error("allocation lost in round trip")
	}
}

func TestOverlapInvariantUnderMixedInserts(t *testing.T) {
	h := New(newTestStore(t))
	ranges := [][2]string{
		{"2025-03-14 08:00", "2025-03-14 10:00"},
		{"2025-03-14 09:00", "2025-03-14 11:00"},
		{"2025-03-14 10:30", "2025-03-14 12:00"},
		{"2025-03-14 08:00", "2025-03-14 12:00"},
		{"2025-03-14 06:00", "2025-03-14 07:00"},
		{"2025-03-14 11:00", "2025-03-14 13:00"},
	}
	for _, r := range ranges {
		h.Insert(slotAt(t, r[0], r[1]))
		assertNoOverlaps(t, h.All())
	}
}
