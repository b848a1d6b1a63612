// Package registry owns the mutable set of weighted categories. Categories
// are never hard-deleted: removal plants a tombstone timestamp, and historical
// views decide for themselves how stale a tombstone may be.
package registry

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/models"
	"github.com/jmuslu/prodlog/internal/storage"
)

type Registry struct {
	store      storage.Provider
	categories []models.Category
}

// New loads the category list from the store. A missing or corrupt blob falls
// back to the built-in defaults.
func New(store storage.Provider) *Registry {
	r := &Registry{store: store}
	if !storage.LoadJSON(store, constants.KeyCategories, &r.categories) || len(r.categories) == 0 {
		r.categories = DefaultCategories()
	}
	return r
}

// DefaultCategories returns the built-in category set applied on first run
// and by ResetToDefaults.
func DefaultCategories() []models.Category {
	defaults := []struct {
		name  string
		color models.Color
	}{
		{"Entertainment", models.Color{R: 0.0, G: 0.48, B: 1.0, A: 1.0}},
		{"Sleep", models.Color{R: 0.69, G: 0.32, B: 0.87, A: 1.0}},
		{"Physical Activity", models.Color{R: 0.2, G: 0.78, B: 0.35, A: 1.0}},
		{"Work", models.Color{R: 1.0, G: 0.58, B: 0.0, A: 1.0}},
		{"Relax", models.Color{R: 0.19, G: 0.69, B: 0.78, A: 1.0}},
	}

	categories := make([]models.Category, 0, len(defaults))
	for _, d := range defaults {
		categories = append(categories, models.Category{
			ID:              uuid.New().String(),
			Name:            d.name,
			Color:           d.color,
			PointsPerMinute: constants.DefaultPointsPerMinute,
			IsDefault:       true,
		})
	}
	return categories
}

func (r *Registry) save() {
	storage.SaveJSON(r.store, constants.KeyCategories, r.categories)
}

// All returns every category, tombstoned or not, in stored order.
func (r *Registry) All() []models.Category {
	out := make([]models.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Get returns the category with the given id.
func (r *Registry) Get(id string) (models.Category, bool) {
	for _, c := range r.categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// Add creates and persists a new category.
func (r *Registry) Add(name string, color models.Color, pointsPerMinute float64) models.Category {
	if pointsPerMinute < 0 {
		pointsPerMinute = 0
	}
	category := models.Category{
		ID:              uuid.New().String(),
		Name:            name,
		Color:           color,
		PointsPerMinute: pointsPerMinute,
	}
	r.categories = append(r.categories, category)
	r.save()
	return category
}

// Update replaces the name, color, and weight of the category with the given
// id, preserving its identity, default flag, and tombstone. An unknown id is
// a no-op.
func (r *Registry) Update(id, name string, color models.Color, pointsPerMinute float64) {
	for i, c := range r.categories {
		if c.ID != id {
			continue
		}
		if pointsPerMinute < 0 {
			pointsPerMinute = 0
		}
		r.categories[i].Name = name
		r.categories[i].Color = color
		r.categories[i].PointsPerMinute = pointsPerMinute
		r.save()
		return
	}
}

// Remove plants a tombstone on the category with the given id. Already
// tombstoned and unknown ids are no-ops.
func (r *Registry) Remove(id string) {
	for i, c := range r.categories {
		if c.ID != id || c.DeletedAt != nil {
			continue
		}
		now := time.Now().UTC().Format(time.RFC3339)
		r.categories[i].DeletedAt = &now
		r.save()
		return
	}
}

// ResetToDefaults replaces the entire category set with the built-in list.
func (r *Registry) ResetToDefaults() {
	r.categories = DefaultCategories()
	r.save()
}

// Active returns the categories visible for allocation as of the given time:
// everything live, plus tombstones younger than the grace window. Soft-deleted
// categories stay visible so freshly generated slots covering the deletion can
// still be allocated against them.
func (r *Registry) Active(asOf time.Time) []models.Category {
	cutoff := asOf.AddDate(0, 0, -constants.CategoryGraceDays)
	var active []models.Category
	for _, c := range r.categories {
		if c.DeletedAt == nil || c.DeletedTime().After(cutoff) {
			active = append(active, c)
		}
	}
	return active
}
