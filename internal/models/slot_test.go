package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"testing"
	"time"
)

func TestSlotDurationMinutes(t *testing.T) {
	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	slot := Slot{Start: start, End: start.Add(3 * time.Hour)}
	if got := slot.DurationMinutes(); got != 180 {
		t.Errorf("DurationMinutes() = %v, want 180", got)
	}
}

func TestSlotAllocationTotal(t *testing.T) {
	slot := Slot{Allocation: map[string]float64{"a": 62.5, "b": 37.5}}
	if got := slot.AllocationTotal(); got != 100 {
		t.Errorf("AllocationTotal() = %v, want 100", got)
	}

	empty := Slot{}
	if got := empty.AllocationTotal(); got != 0 {
		t.Errorf("AllocationTotal() on empty = %v, want 0", got)
	}
}

func TestSlotAllocationSurvivesJSON(t *testing.T) {
	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	slot := Slot{
		ID:         "slot-1",
		Start:      start,
		End:        start.Add(2 * time.Hour),
		Allocation: map[string]float64{"work": 60, "relax": 40},
		IsComplete: true,
	}

	data, err := json.Marshal(slot)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got Slot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !got.IsComplete {
		t.Error("IsComplete lost in round trip")
	}
	if len(got.Allocation) != 2 || got.Allocation["work"] != 60 || got.Allocation["relax"] != 40 {
		t.Errorf("Allocation = %v, want work=60 relax=40", got.Allocation)
	}
}

func TestSlotMarshalIsByteStable(t *testing.T) {
	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	slot := Slot{
		ID:    "slot-1",
		Start: start,
		End:   start.Add(3 * time.Hour),
		Allocation: map[string]float64{
			"charlie": 20,
			"alpha":   50,
			"bravo":   30,
		},
		IsComplete: true,
	}

	first, err := json.Marshal(slot)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := json.Marshal(slot)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("marshal output unstable:\n%s\n%s", first, again)
		}
	}

	var persisted slotJSON
	if err := json.Unmarshal(first, &persisted); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	ids := make([]string, 0, len(persisted.Allocation))
	for _, entry := range persisted.Allocation {
		ids = append(ids, entry.CategoryID)
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("allocation entries not sorted by category id: %v", ids)
	}
}
