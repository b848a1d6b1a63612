// Package history is the append-only log of completed slots. The one
// invariant it defends is that no two stored slots overlap: inserting over an
// existing range silently supersedes it, last write wins.
package history

import (
	"sort"
	"time"

	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/models"
	"github.com/jmuslu/prodlog/internal/storage"
	"github.com/jmuslu/prodlog/internal/timemath"
)

type History struct {
	store storage.Provider
	slots []models.Slot // sorted descending by start time
}

// New loads the slot log from the store. Missing or corrupt data starts empty.
func New(store storage.Provider) *History {
	h := &History{store: store}
	storage.LoadJSON(store, constants.KeySlotLog, &h.slots)
	h.sortSlots()
	return h
}

func (h *History) save() {
	storage.SaveJSON(h.store, constants.KeySlotLog, h.slots)
}

func (h *History) sortSlots() {
	sort.Slice(h.slots, func(i, j int) bool {
		return h.slots[i].Start.After(h.slots[j].Start)
	})
}

// Insert stores a completed slot, first removing every stored slot whose
// range overlaps it. A corrected categorization therefore replaces the
// original instead of erroring or duplicating.
func (h *History) Insert(slot models.Slot) {
	kept := h.slots[:0]
	for _, existing := range h.slots {
		if !timemath.Overlaps(existing.Start, existing.End, slot.Start, slot.End) {
			kept = append(kept, existing)
		}
	}
	h.slots = append(kept, slot)
	h.sortSlots()
	h.save()
}

// All returns every stored slot, newest first.
func (h *History) All() []models.Slot {
	out := make([]models.Slot, len(h.slots))
	copy(out, h.slots)
	return out
}

// AllSince returns the stored slots starting at or after t, newest first.
func (h *History) AllSince(t time.Time) []models.Slot {
	var out []models.Slot
	for _, slot := range h.slots {
		if !slot.Start.Before(t) {
			out = append(out, slot)
		}
	}
	return out
}

// ForDay returns the stored slots whose start falls on the same calendar day
// as date, newest first.
func (h *History) ForDay(date time.Time) []models.Slot {
	key := timemath.DayKey(date)
	var out []models.Slot
	for _, slot := range h.slots {
		if timemath.DayKey(slot.Start) == key {
			out = append(out, slot)
		}
	}
	return out
}

// ClearSince removes every stored slot starting at or after t. Irreversible.
func (h *History) ClearSince(t time.Time) {
	kept := h.slots[:0]
	for _, slot := range h.slots {
		if slot.Start.Before(t) {
			kept = append(kept, slot)
		}
	}
	h.slots = kept
	h.save()
}
