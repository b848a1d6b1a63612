package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prodlog.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

func TestJSONStoreInitRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prodlog.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := NewJSONStore(path).Init(); err == nil {
		t.Error("expected second Init to fail on existing file")
	}
}

func TestJSONStoreSetGet(t *testing.T) {
	store := newTestJSONStore(t)

	if err := store.Set("settings", []byte(`{"interval_hours":3}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := store.Get("settings")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
	if string(value) != `{"interval_hours":3}` {
		t.Errorf("Get returned %q", value)
	}
}

func TestJSONStoreGetMissingKey(t *testing.T) {
	store := newTestJSONStore(t)

	_, ok, err := store.Get("nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected missing key to report !ok")
	}
}

func TestJSONStoreRejectsNonJSONBlob(t *testing.T) {
	store := newTestJSONStore(t)

	if err := store.Set("bad", []byte{0xff, 0xfe}); err == nil {
		t.Error("expected Set to reject a non-JSON blob")
	}
}

func TestJSONStorePersistsAcrossLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prodlog.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Set("categories", []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	value, ok, err := reopened.Get("categories")
	if err != nil || !ok {
		t.Fatalf("Get after reload: ok=%v err=%v", ok, err)
	}
	if string(value) != `[]` {
		t.Errorf("Get after reload returned %q", value)
	}
}

func TestJSONStoreDelete(t *testing.T) {
	store := newTestJSONStore(t)

	if err := store.Set("slot_log", []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete("slot_log"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := store.Get("slot_log"); ok {
		t.Error("expected key to be gone after Delete")
	}
}

func TestJSONStoreLoadMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Error("expected Load to fail on missing file")
	}
}

func TestJSONStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prodlog.json")
	if err := os.WriteFile(path, []byte("not json at all"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	store := NewJSONStore(path)
	if err := store.Load(); err == nil {
		t.Error("expected Load to fail on corrupt file")
	}
}
