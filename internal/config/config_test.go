package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 500ms", cfg.PollInterval)
	}
	if cfg.CloseDelay != 750*time.Millisecond {
		t.Errorf("CloseDelay = %v, want 750ms", cfg.CloseDelay)
	}
	if !cfg.Board.AltScreen {
		t.Error("Board.AltScreen = false, want true")
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `poll_interval: 250ms
close_delay: 1s
board:
  alt_screen: false
history:
  enabled: false
  path: /tmp/custom-history.db
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", cfg.PollInterval)
	}
	if cfg.CloseDelay != time.Second {
		t.Errorf("CloseDelay = %v, want 1s", cfg.CloseDelay)
	}
	if cfg.Board.AltScreen {
		t.Error("Board.AltScreen = true, want false")
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.History.Path != "/tmp/custom-history.db" {
		t.Errorf("History.Path = %q, want /tmp/custom-history.db", cfg.History.Path)
	}
}

func TestLoadFromPathPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("poll_interval: 100ms\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	if cfg.PollInterval != 100*time.Millisecond {
		t.Errorf("PollInterval = %v, want 100ms", cfg.PollInterval)
	}
	if cfg.CloseDelay != 750*time.Millisecond {
		t.Errorf("CloseDelay = %v, want default 750ms", cfg.CloseDelay)
	}
	if !cfg.Board.AltScreen {
		t.Error("Board.AltScreen lost its default, want true")
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFromPath() on a missing file succeeded, want error")
	}
}
