package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the config file, if any, and applies environment overrides.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		cfg, err = Parse(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".roomeditrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	if path := DefaultPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// DefaultPath is where `config save` writes when no file exists yet.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "roomedit", "config.rc")
}

// ApplyEnv overrides fields from ROOMEDIT_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("ROOMEDIT_SAVE_DIR"); v != "" {
		c.SaveDir = v
	}
	if v := getenv("ROOMEDIT_ORIGIN"); v != "" {
		c.Origin = v
	}
	if v := getenv("ROOMEDIT_MAX_DIMENSION"); v != "" {
		if err := setRootField(c, "max_dimension", v); err != nil {
			return fmt.Errorf("ROOMEDIT_MAX_DIMENSION: %w", err)
		}
	}
	if v := getenv("ROOMEDIT_MASK_THRESHOLD"); v != "" {
		if err := setMaskField(&c.Mask, "threshold", v); err != nil {
			return fmt.Errorf("ROOMEDIT_MASK_THRESHOLD: %w", err)
		}
	}
	if v := getenv("ROOMEDIT_BRUSH_SIZE"); v != "" {
		if err := setEditorField(&c.Editor, "brush_size", v); err != nil {
			return fmt.Errorf("ROOMEDIT_BRUSH_SIZE: %w", err)
		}
	}
	return nil
}
