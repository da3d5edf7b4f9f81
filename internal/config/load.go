package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		err := loadFromFile(cfg, configPath)
		// --write-config may target a file that does not exist yet
		if err != nil && !(WriteRequested() && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "SurfaceDecals")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "SurfaceDecals")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "surface-decals")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "surface-decals")
	}
}

// Validate rejects settings the editor and decal placer cannot work with.
func (c *Config) Validate() error {
	if c.Decals.MinRadius <= 0 || c.Decals.MaxRadius < c.Decals.MinRadius {
		return fmt.Errorf("invalid decal radius range [%v, %v)", c.Decals.MinRadius, c.Decals.MaxRadius)
	}
	if c.Decals.Intensity <= 0 {
		return fmt.Errorf("decal intensity must be positive, got %v", c.Decals.Intensity)
	}
	if c.Editor.MaxBrushRadius <= 0 || c.Editor.MaxWeightRate < 0 {
		return fmt.Errorf("invalid editor limits: radius %v, rate %v", c.Editor.MaxBrushRadius, c.Editor.MaxWeightRate)
	}
	if c.Graphics.SunLatitude < -90 || c.Graphics.SunLatitude > 90 {
		return fmt.Errorf("sun latitude out of range: %v", c.Graphics.SunLatitude)
	}
	return nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
