package validation

import (
	"fmt"
	"math"
	"sort"

	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictAllocationSum      ConflictType = "allocation_sum"
	ConflictPercentageRange    ConflictType = "percentage_range"
	ConflictUnknownCategory    ConflictType = "unknown_category"
	ConflictDuplicateName      ConflictType = "duplicate_category_name"
	ConflictEmptyName          ConflictType = "empty_category_name"
	ConflictNegativePoints     ConflictType = "negative_points_per_minute"
	ConflictColorRange         ConflictType = "color_range"
	ConflictIntervalNotAllowed ConflictType = "interval_not_allowed"
	ConflictInvalidSlotRange   ConflictType = "invalid_slot_range"
)

// Conflict represents a detected validation conflict
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Category names involved (if applicable)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No problems detected."
	}

	report := "Problems detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator validates allocations, categories, and settings
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateAllocation checks a candidate slot's category split. A commit is
// only allowed when every referenced category exists and the percentages sum
// to exactly 100.
func (v *Validator) ValidateAllocation(allocation map[string]float64, categories []models.Category) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	known := make(map[string]models.Category)
	for _, c := range categories {
		known[c.ID] = c
	}

	ids := make([]string, 0, len(allocation))
	for id := range allocation {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	total := 0.0
	for _, id := range ids {
		pct := allocation[id]
		c, ok := known[id]
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownCategory,
				Description: fmt.Sprintf("Allocation references unknown category id: %s", id),
			})
			continue
		}
		if pct < 0 || pct > 100 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictPercentageRange,
				Description: fmt.Sprintf("\"%s\" has percentage %.1f outside 0-100", c.Name, pct),
				Items:       []string{c.Name},
			})
			continue
		}
		total += pct
	}

	// Percentages arrive from increment steppers, so a small epsilon covers
	// float accumulation without admitting genuinely short splits.
	if math.Abs(total-100) > 1e-9 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictAllocationSum,
			Description: fmt.Sprintf("Allocation sums to %.1f%%, must be exactly 100%%", total),
		})
	}

	return result
}

// ValidateCategoryInput checks a proposed category create or edit against the
// existing set. The id of the category being edited is excluded from the
// duplicate-name check; pass an empty id for a new category.
func (v *Validator) ValidateCategoryInput(id, name string, color models.Color, pointsPerMinute float64, existing []models.Category) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if name == "" {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictEmptyName,
			Description: "Category name must not be empty",
		})
	}

	for _, c := range existing {
		if c.ID == id || c.IsDeleted() {
			continue
		}
		if c.Name == name && name != "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateName,
				Description: fmt.Sprintf("A category named \"%s\" already exists", name),
				Items:       []string{name},
			})
			break
		}
	}

	if pointsPerMinute < 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictNegativePoints,
			Description: fmt.Sprintf("Points per minute %.2f must not be negative", pointsPerMinute),
		})
	}

	for _, component := range []float64{color.R, color.G, color.B, color.A} {
		if component < 0 || component > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictColorRange,
				Description: "Color components must be between 0 and 1",
			})
			break
		}
	}

	return result
}

// ValidateInterval checks an interval setting against the allowed menu.
// Zero is the auto sentinel and always valid.
func (v *Validator) ValidateInterval(hours int) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if hours == constants.IntervalAuto {
		return result
	}
	for _, allowed := range constants.AvailableIntervals {
		if hours == allowed {
			return result
		}
	}

	result.Conflicts = append(result.Conflicts, Conflict{
		Type:        ConflictIntervalNotAllowed,
		Description: fmt.Sprintf("Interval %dh is not available; choose auto or one of %v", hours, constants.AvailableIntervals),
	})
	return result
}

// ValidateSlotRange checks that a slot's time range is well formed.
func (v *Validator) ValidateSlotRange(slot models.Slot) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if !slot.End.After(slot.Start) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidSlotRange,
			Description: fmt.Sprintf("Slot end %s is not after start %s", slot.End.Format(constants.TimeFormat), slot.Start.Format(constants.TimeFormat)),
		})
	}

	return result
}
