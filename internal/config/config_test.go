package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if cfg.Graphics.ScreenshotDir != "screenshots" {
		t.Errorf("expected screenshot dir 'screenshots', got %s", cfg.Graphics.ScreenshotDir)
	}

	// Test editor defaults
	if cfg.Editor.BrushRadius != 50 {
		t.Errorf("expected brush radius 50, got %f", cfg.Editor.BrushRadius)
	}
	if cfg.Editor.MaxBrushRadius != 700 {
		t.Errorf("expected max brush radius 700, got %f", cfg.Editor.MaxBrushRadius)
	}
	if cfg.Editor.WeightRate != 1 {
		t.Errorf("expected weight rate 1, got %f", cfg.Editor.WeightRate)
	}

	// Test decal defaults
	if cfg.Decals.Intensity != 10 {
		t.Errorf("expected decal intensity 10, got %f", cfg.Decals.Intensity)
	}
	if cfg.Decals.MinRadius != 120 || cfg.Decals.MaxRadius != 200 {
		t.Errorf("expected decal radius [120, 200), got [%f, %f)", cfg.Decals.MinRadius, cfg.Decals.MaxRadius)
	}
	if cfg.Decals.RayLength != 4000 {
		t.Errorf("expected ray length 4000, got %f", cfg.Decals.RayLength)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

scene:
  mesh_path: "maps/hall.obj"
  weights_path: "maps/hall.vd"

editor:
  brush_radius: 80
  weight_rate: 2.5

decals:
  intensity: 4
  min_radius: 10
  max_radius: 20
  seed: 42

logging:
  level: "debug"
  log_file: "decals.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Scene.MeshPath != "maps/hall.obj" {
		t.Errorf("expected mesh path maps/hall.obj, got %s", cfg.Scene.MeshPath)
	}
	if cfg.Scene.WeightsPath != "maps/hall.vd" {
		t.Errorf("expected weights path maps/hall.vd, got %s", cfg.Scene.WeightsPath)
	}

	if cfg.Editor.BrushRadius != 80 {
		t.Errorf("expected brush radius 80, got %f", cfg.Editor.BrushRadius)
	}
	// Unset keys keep their defaults
	if cfg.Editor.MaxBrushRadius != 700 {
		t.Errorf("expected max brush radius to stay 700, got %f", cfg.Editor.MaxBrushRadius)
	}

	if cfg.Decals.Intensity != 4 {
		t.Errorf("expected decal intensity 4, got %f", cfg.Decals.Intensity)
	}
	if cfg.Decals.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Decals.Seed)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "decals.log" {
		t.Errorf("expected log file 'decals.log', got %s", cfg.Logging.LogFile)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min radius", func(c *Config) { c.Decals.MinRadius = 0 }},
		{"inverted radius range", func(c *Config) { c.Decals.MaxRadius = c.Decals.MinRadius - 1 }},
		{"zero intensity", func(c *Config) { c.Decals.Intensity = 0 }},
		{"zero brush limit", func(c *Config) { c.Editor.MaxBrushRadius = 0 }},
		{"sun below nadir", func(c *Config) { c.Graphics.SunLatitude = -91 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Scene.WeightsPath = "saved.vd"
	cfg.Editor.BrushRadius = 75
	cfg.Decals.Seed = 42
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !strings.HasPrefix(string(data), fileHeader) {
		t.Errorf("expected file to start with header, got %q", string(data[:20]))
	}
	if !strings.Contains(string(data), "\neditor:\n  brush_radius: 75\n") {
		t.Errorf("expected two-space indented editor section, got:\n%s", data)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Scene.WeightsPath != "saved.vd" {
		t.Errorf("expected weights path saved.vd, got %s", loaded.Scene.WeightsPath)
	}
	if loaded.Editor.BrushRadius != 75 {
		t.Errorf("expected brush radius 75, got %f", loaded.Editor.BrushRadius)
	}
	if loaded.Decals.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Decals.Seed)
	}
}

func TestSaveTo_DefaultPath(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("default path only follows XDG_CONFIG_HOME on linux")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := Default().SaveTo(""); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	if _, err := os.Stat(DefaultPath()); err != nil {
		t.Errorf("expected config at %s: %v", DefaultPath(), err)
	}
	if got := findConfigFile(); got == "" {
		t.Error("expected saved config to be found")
	}
}

func TestSaveTo_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Decals.Intensity = 0
	if err := cfg.SaveTo(path); err == nil {
		t.Fatal("expected error saving invalid config")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file to be written, stat err = %v", err)
	}
}

func TestLoad_WriteToNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh", "config.yaml")

	*flagConfig = path
	*flagWrite = true
	*flagWidth = 1024
	defer func() {
		*flagConfig = ""
		*flagWrite = false
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed for a config that does not exist yet: %v", err)
	}
	if err := cfg.SaveTo(ConfigPath()); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Graphics.Width != 1024 {
		t.Errorf("expected width 1024 from flag, got %d", loaded.Graphics.Width)
	}
}

func TestLoadFromMissingExplicitPath(t *testing.T) {
	*flagConfig = filepath.Join(t.TempDir(), "missing.yaml")
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected error for missing --config file")
	}
}

func TestWriteRequested(t *testing.T) {
	if WriteRequested() {
		t.Fatal("expected write-config to default to false")
	}
	*flagWrite = true
	defer func() { *flagWrite = false }()
	if !WriteRequested() {
		t.Error("expected write-config to be reported")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config) error
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) error {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				return nil
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "mesh and weights flags",
			setup: func() {
				*flagMesh = "other.obj"
				*flagWeights = "other.vd"
			},
			verify: func(cfg *Config) error {
				if cfg.Scene.MeshPath != "other.obj" {
					t.Errorf("expected mesh other.obj, got %s", cfg.Scene.MeshPath)
				}
				if cfg.Scene.WeightsPath != "other.vd" {
					t.Errorf("expected weights other.vd, got %s", cfg.Scene.WeightsPath)
				}
				return nil
			},
			teardown: func() {
				*flagMesh = ""
				*flagWeights = ""
			},
		},
		{
			name: "seed flag",
			setup: func() {
				*flagSeed = 7
			},
			verify: func(cfg *Config) error {
				if cfg.Decals.Seed != 7 {
					t.Errorf("expected seed 7, got %d", cfg.Decals.Seed)
				}
				return nil
			},
			teardown: func() {
				*flagSeed = 0
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
				return nil
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) error {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
				return nil
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
				return nil
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}
