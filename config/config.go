package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go-jammer/layout"
	"go-jammer/midi"
	"go-jammer/tuning"
)

// AppName names the config directory
const AppName = "go-jammer"

// OutputConfig selects the MIDI output
type OutputConfig struct {
	Backend midi.Backend `json:"backend,omitempty"`
	Port    string       `json:"port,omitempty"`    // name, fragment or index
	Channel int          `json:"channel,omitempty"` // 1-16
}

// InputConfig selects the keyboard input
type InputConfig struct {
	Device string `json:"device,omitempty"` // evdev node, "auto", or empty for terminal only
	Grab   bool   `json:"grab,omitempty"`

	// ReleaseAfterMS is the quiet time after which a terminal key counts as
	// released.
	ReleaseAfterMS int `json:"releaseAfterMs,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty"` // .gpl file, empty for built-in
}

// Config is the main configuration structure
type Config struct {
	Tuning  tuning.ID    `json:"tuning"`
	Layout  layout.ID    `json:"layout"`
	Output  OutputConfig `json:"output,omitempty"`
	Input   InputConfig  `json:"input,omitempty"`
	UI      UIConfig     `json:"ui,omitempty"`
	LogFile string       `json:"logFile,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tuning: tuning.EDO12,
		Layout: layout.QWERTZ,
		Output: OutputConfig{
			Backend: midi.BackendRtMidi,
			Channel: 1,
		},
		Input: InputConfig{
			ReleaseAfterMS: 600,
		},
	}
}

// ReleaseAfter returns the terminal key release delay
func (c *Config) ReleaseAfter() time.Duration {
	return time.Duration(c.Input.ReleaseAfterMS) * time.Millisecond
}

// Validate checks the selections against the built-in tables and the value
// ranges. It reports every problem, joined.
func (c *Config) Validate(tunings *tuning.Set, layouts *layout.Set) error {
	var errs []error
	if !tunings.Has(c.Tuning) {
		errs = append(errs, fmt.Errorf("%w: %q (have %v)", tuning.ErrUnknownTuning, c.Tuning, tunings.IDs()))
	}
	if !layouts.Has(c.Layout) {
		errs = append(errs, fmt.Errorf("%w: %q (have %v)", layout.ErrUnknownLayout, c.Layout, layouts.IDs()))
	}
	if !slices.Contains(midi.Backends(), c.Output.Backend) {
		errs = append(errs, fmt.Errorf("%w: %q", midi.ErrUnsupportedBackend, c.Output.Backend))
	}
	if c.Output.Channel < 1 || c.Output.Channel > 16 {
		errs = append(errs, fmt.Errorf("output channel %d out of range 1-16", c.Output.Channel))
	}
	if c.Input.ReleaseAfterMS < 50 || c.Input.ReleaseAfterMS > 5000 {
		errs = append(errs, fmt.Errorf("release delay %dms out of range 50-5000", c.Input.ReleaseAfterMS))
	}
	if c.Input.Grab && c.Input.Device == "" {
		errs = append(errs, errors.New("grab needs an input device"))
	}
	return errors.Join(errs...)
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Fields missing from the file keep
// their defaults; a missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating the directory
func (c *Config) SaveTo(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
