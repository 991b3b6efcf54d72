package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
database:
  path: /tmp/lint.db
logging:
  level: debug
queue:
  opener: xdg-open
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	s, err := LoadSettingsFromFile(path)
	if err != nil {
		t.Fatalf("LoadSettingsFromFile failed: %v", err)
	}
	if s.Database.Path != "/tmp/lint.db" {
		t.Errorf("Database.Path = %q", s.Database.Path)
	}
	if s.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", s.Logging.Level)
	}
	if s.Queue.Opener != "xdg-open" {
		t.Errorf("Queue.Opener = %q", s.Queue.Opener)
	}
	// Unset fields keep defaults
	if s.Queue.URLTemplate != "omnifocus:///tag/{tag}" {
		t.Errorf("Queue.URLTemplate = %q, want default", s.Queue.URLTemplate)
	}
	if !s.Output.Color {
		t.Error("Output.Color should default to true")
	}
}

func TestLoadSettingsFromFile_InvalidLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	if _, err := LoadSettingsFromFile(path); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("REVLINT_DB", filepath.Join(home, "custom.db"))
	t.Setenv("REVLINT_LOG_LEVEL", "trace")
	t.Setenv("NO_COLOR", "1")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.Database.Path != filepath.Join(home, "custom.db") {
		t.Errorf("Database.Path = %q", s.Database.Path)
	}
	if s.Logging.Level != "trace" {
		t.Errorf("Logging.Level = %q, want trace", s.Logging.Level)
	}
	if s.Output.Color {
		t.Error("NO_COLOR should disable color")
	}
}

func TestLoadSettings_DefaultDatabasePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("REVLINT_DB", "")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	want := filepath.Join(home, ".revlint", "revlint.db")
	if s.Database.Path != want {
		t.Errorf("Database.Path = %q, want %q", s.Database.Path, want)
	}
}
