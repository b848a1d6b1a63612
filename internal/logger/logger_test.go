package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesLogDirAndFile(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after Init")
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); err != nil {
		t.Fatalf("log directory not created: %v", err)
	}

	// Warn is at the default level, so it must land in the file.
	Warn("interval changed", "interval", 3)

	data, err := os.ReadFile(filepath.Join(logDir, "prodlog.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "interval changed") {
		t.Errorf("log file missing warn entry, got: %s", data)
	}
}

func TestDebugLevelGating(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: false, ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Debug("slot committed", "points", 900)

	data, _ := os.ReadFile(filepath.Join(configDir, "logs", "prodlog.log"))
	if strings.Contains(string(data), "slot committed") {
		t.Error("debug entry written at warn level")
	}

	if err := Init(Config{Debug: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Init(debug) error = %v", err)
	}
	Debug("slot committed", "points", 900)

	data, _ = os.ReadFile(filepath.Join(configDir, "logs", "prodlog.log"))
	if !strings.Contains(string(data), "slot committed") {
		t.Error("debug entry missing in debug mode")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// Must not panic before Init has run.
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
}
