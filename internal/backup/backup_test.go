package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/storage"
)

func newStoreFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prodlog.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	if err := store.Set(constants.KeySettings, []byte(`{"interval_hours":3}`)); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}
	return path
}

func TestCreateAndListBackups(t *testing.T) {
	path := newStoreFile(t)
	mgr := NewManager(path)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() failed: %v", err)
	}
	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if backups[0].Path != backupPath {
		t.Errorf("listed path %s, want %s", backups[0].Path, backupPath)
	}
	if backups[0].Size == 0 {
		t.Error("backup has zero size")
	}
}

func TestCreateBackupMissingSource(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error for missing storage file")
	}
}

func TestListBackupsEmptyDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "prodlog.json"))
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	path := newStoreFile(t)
	mgr := NewManager(path)

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "prodlog-garbage.db", "other-20250314-1200.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected foreign files ignored, got %d backups", len(backups))
	}
}

func TestParseBackupTimestamp(t *testing.T) {
	tests := []struct {
		name string
		file string
		ok   bool
	}{
		{"minute precision", "prodlog-20250314-1405.db", true},
		{"second precision", "prodlog-20250314-140503.db", true},
		{"with counter", "prodlog-20250314-140503-2.db", true},
		{"garbage", "prodlog-garbage.db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseBackupTimestamp(tt.file)
			if ok != tt.ok {
				t.Errorf("parseBackupTimestamp(%q) ok = %v, want %v", tt.file, ok, tt.ok)
			}
		})
	}
}

func TestRestoreBackupRoundTrip(t *testing.T) {
	path := newStoreFile(t)
	mgr := NewManager(path)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() failed: %v", err)
	}

	// Corrupt the live file, then restore.
	if err := os.WriteFile(path, []byte("corrupted"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup() failed: %v", err)
	}

	store := storage.NewJSONStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("restored store does not load: %v", err)
	}
	if _, ok, err := store.Get(constants.KeySettings); err != nil || !ok {
		t.Errorf("restored store missing seeded key: ok=%v err=%v", ok, err)
	}
}

func TestRestoreBackupMissingFile(t *testing.T) {
	path := newStoreFile(t)
	mgr := NewManager(path)

	if err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error for missing backup file")
	}
}
