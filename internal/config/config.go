// Package config loads viewer settings from a TOML file, with
// command-line overrides applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Watch modes.
const (
	ModePoll   = "poll"
	ModeNotify = "notify"
)

// Duration wraps time.Duration so TOML values can be written as "1s"
// or "250ms".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration in Go notation.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// WatchConfig controls change detection.
type WatchConfig struct {
	Mode     string   `toml:"mode"`
	Interval Duration `toml:"interval"`
	Debounce Duration `toml:"debounce"`
}

// HistoryConfig controls reading-position persistence.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config is the top-level viewer configuration.
type Config struct {
	Watch   WatchConfig   `toml:"watch"`
	History HistoryConfig `toml:"history"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Watch: WatchConfig{
			Mode:     ModePoll,
			Interval: Duration(time.Second),
			Debounce: Duration(250 * time.Millisecond),
		},
		History: HistoryConfig{Enabled: true},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "quire", "config.toml"), nil
}

// Load reads the config at path, layered over Default. A missing file
// is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the viewer cannot run with.
func (c Config) Validate() error {
	switch c.Watch.Mode {
	case ModePoll, ModeNotify:
	default:
		return fmt.Errorf("unknown watch mode %q", c.Watch.Mode)
	}
	if c.Watch.Interval < 0 {
		return errors.New("watch interval must not be negative")
	}
	if c.Watch.Debounce < 0 {
		return errors.New("watch debounce must not be negative")
	}
	return nil
}
