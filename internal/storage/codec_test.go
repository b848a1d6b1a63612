package storage

import "testing"

func TestLoadJSONMissingKeyLeavesDefault(t *testing.T) {
	store := newTestJSONStore(t)

	value := map[string]int{"2025-03-14": 50}
	if ok := LoadJSON(store, "daily_points", &value); ok {
		t.Error("expected LoadJSON to report false for a missing key")
	}
	if value["2025-03-14"] != 50 {
		t.Error("LoadJSON modified the value on a missing key")
	}
}

func TestLoadJSONCorruptBlobLeavesDefault(t *testing.T) {
	store := newTestJSONStore(t)

	// A valid JSON blob of the wrong shape still fails to decode into the
	// target type and must be treated as absent.
	if err := store.Set("daily_points", []byte(`"oops"`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value := map[string]int{}
	if ok := LoadJSON(store, "daily_points", &value); ok {
		t.Error("expected LoadJSON to report false for a mismatched blob")
	}
}

func TestSaveLoadJSONRoundTrip(t *testing.T) {
	store := newTestJSONStore(t)

	SaveJSON(store, "daily_points", map[string]int{"2025-03-14": 1200})

	loaded := map[string]int{}
	if ok := LoadJSON(store, "daily_points", &loaded); !ok {
		t.Fatal("expected LoadJSON to succeed")
	}
	if loaded["2025-03-14"] != 1200 {
		t.Errorf("round trip lost data: %v", loaded)
	}
}
