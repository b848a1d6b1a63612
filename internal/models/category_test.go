package models

import (
	"testing"
	"time"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantHex string
		wantErr bool
	}{
		{name: "six digit", input: "#8E8E93", wantHex: "#8E8E93"},
		{name: "lowercase", input: "#ff6b35", wantHex: "#FF6B35"},
		{name: "three digit expands", input: "#F80", wantHex: "#FF8800"},
		{name: "no hash prefix", input: "34C759", wantHex: "#34C759"},
		{name: "surrounding whitespace", input: "  #007AFF ", wantHex: "#007AFF"},
		{name: "too short", input: "#12345", wantErr: true},
		{name: "not hex", input: "#GGGGGG", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseHexColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHexColor(%q) expected error, got %+v", tt.input, c)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q) error = %v", tt.input, err)
			}
			if got := c.Hex(); got != tt.wantHex {
				t.Errorf("Hex() = %q, want %q", got, tt.wantHex)
			}
			if c.A != 1 {
				t.Errorf("alpha = %v, want 1", c.A)
			}
		})
	}
}

func TestColorHexClamps(t *testing.T) {
	c := Color{R: 1.5, G: -0.2, B: 0.5, A: 0.3}
	if got := c.Hex(); got != "#FF0080" {
		t.Errorf("Hex() = %q, want %q", got, "#FF0080")
	}
}

func TestCategoryDeletedTime(t *testing.T) {
	stamp := "2026-08-01T09:00:00Z"
	bad := "not-a-time"

	tests := []struct {
		name     string
		category Category
		deleted  bool
		wantZero bool
	}{
		{name: "live", category: Category{Name: "Work"}, deleted: false, wantZero: true},
		{name: "tombstoned", category: Category{Name: "Work", DeletedAt: &stamp}, deleted: true, wantZero: false},
		{name: "corrupt tombstone", category: Category{Name: "Work", DeletedAt: &bad}, deleted: true, wantZero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.category.IsDeleted(); got != tt.deleted {
				t.Errorf("IsDeleted() = %v, want %v", got, tt.deleted)
			}
			if got := tt.category.DeletedTime().IsZero(); got != tt.wantZero {
				t.Errorf("DeletedTime().IsZero() = %v, want %v", got, tt.wantZero)
			}
		})
	}

	want := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	c := Category{DeletedAt: &stamp}
	if !c.DeletedTime().Equal(want) {
		t.Errorf("DeletedTime() = %v, want %v", c.DeletedTime(), want)
	}
}
