package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
[watch]
mode = "notify"
interval = "2s"
debounce = "100ms"

[history]
enabled = false
path = "/tmp/quire-test.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Watch.Mode != ModeNotify {
		t.Fatalf("mode = %q", cfg.Watch.Mode)
	}
	if cfg.Watch.Interval.Std() != 2*time.Second {
		t.Fatalf("interval = %s", cfg.Watch.Interval.Std())
	}
	if cfg.Watch.Debounce.Std() != 100*time.Millisecond {
		t.Fatalf("debounce = %s", cfg.Watch.Debounce.Std())
	}
	if cfg.History.Enabled || cfg.History.Path != "/tmp/quire-test.db" {
		t.Fatalf("history = %+v", cfg.History)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[watch]
interval = "5s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Watch.Interval.Std() != 5*time.Second {
		t.Fatalf("interval = %s", cfg.Watch.Interval.Std())
	}
	if cfg.Watch.Mode != ModePoll {
		t.Fatalf("mode = %q, want default poll", cfg.Watch.Mode)
	}
	if !cfg.History.Enabled {
		t.Fatal("history must stay enabled by default")
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	path := writeConfig(t, `
[watch]
mode = "telepathy"
`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "telepathy") {
		t.Fatalf("err = %v, want unknown mode error", err)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `
[watch]
interval = "soon"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for bad duration")
	}
}

func TestValidateNegativeInterval(t *testing.T) {
	cfg := Default()
	cfg.Watch.Interval = Duration(-time.Second)
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}
