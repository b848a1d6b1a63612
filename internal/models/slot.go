package models

import (
	"encoding/json"
	"sort"
	"time"
)

// Slot is one categorizable time range. Start/End are half-open [Start, End).
// Allocation maps category id to a percentage of the slot (0-100); a slot is
// complete once its allocation sums to exactly 100 and it has been committed
// to the history.
type Slot struct {
	ID         string             `json:"id"`
	Start      time.Time          `json:"start_time"`
	End        time.Time          `json:"end_time"`
	Allocation map[string]float64 `json:"-"`
	IsComplete bool               `json:"is_complete"`
}

// allocationEntry is the persisted shape of one allocation pair. The map is
// flattened to an array so the stored schema does not depend on map ordering.
type allocationEntry struct {
	CategoryID string  `json:"category_id"`
	Percentage float64 `json:"percentage"`
}

type slotJSON struct {
	ID         string            `json:"id"`
	Start      time.Time         `json:"start_time"`
	End        time.Time         `json:"end_time"`
	Allocation []allocationEntry `json:"allocation"`
	IsComplete bool              `json:"is_complete"`
}

func (s Slot) MarshalJSON() ([]byte, error) {
	out := slotJSON{
		ID:         s.ID,
		Start:      s.Start,
		End:        s.End,
		IsComplete: s.IsComplete,
	}
	for id, pct := range s.Allocation {
		out.Allocation = append(out.Allocation, allocationEntry{CategoryID: id, Percentage: pct})
	}
	// Sorted so the persisted bytes for a slot are stable across writes.
	sort.Slice(out.Allocation, func(i, j int) bool {
		return out.Allocation[i].CategoryID < out.Allocation[j].CategoryID
	})
	return json.Marshal(out)
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	var in slotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.ID = in.ID
	s.Start = in.Start
	s.End = in.End
	s.IsComplete = in.IsComplete
	s.Allocation = make(map[string]float64, len(in.Allocation))
	for _, entry := range in.Allocation {
		s.Allocation[entry.CategoryID] = entry.Percentage
	}
	return nil
}

// DurationMinutes returns the slot length in whole minutes.
func (s Slot) DurationMinutes() float64 {
	return s.End.Sub(s.Start).Minutes()
}

// AllocationTotal sums the allocation percentages.
func (s Slot) AllocationTotal() float64 {
	var total float64
	for _, pct := range s.Allocation {
		total += pct
	}
	return total
}
