package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Color is an opaque RGBA value carried for the presentation layer. Channels
// are 0.0-1.0.
type Color struct {
	R float64 `json:"red"`
	G float64 `json:"green"`
	B float64 `json:"blue"`
	A float64 `json:"alpha"`
}

// Hex renders the color as #RRGGBB. Alpha is dropped.
func (c Color) Hex() string {
	clamp := func(v float64) int {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 255
		}
		return int(v*255 + 0.5)
	}
	return fmt.Sprintf("#%02X%02X%02X", clamp(c.R), clamp(c.G), clamp(c.B))
}

// ParseHexColor parses #RGB or #RRGGBB into a fully opaque Color.
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q, expected #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q, expected #RRGGBB", s)
	}
	return Color{
		R: float64(v>>16&0xFF) / 255,
		G: float64(v>>8&0xFF) / 255,
		B: float64(v&0xFF) / 255,
		A: 1,
	}, nil
}

// Category is a weighted activity bucket. Identity is the ID; the Name is what
// the points ledger keys its historical subtotals by.
type Category struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Color           Color   `json:"color"`
	PointsPerMinute float64 `json:"points_per_minute"`
	IsDefault       bool    `json:"is_default"`
	DeletedAt       *string `json:"deleted_at,omitempty"` // RFC3339 timestamp
}

// IsDeleted reports whether the category carries a tombstone.
func (c Category) IsDeleted() bool {
	return c.DeletedAt != nil
}

// DeletedTime parses the tombstone timestamp. The zero time is returned for
// live categories or unparseable tombstones, so callers can compare directly.
func (c Category) DeletedTime() time.Time {
	if c.DeletedAt == nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, *c.DeletedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
