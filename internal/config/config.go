// Package config handles demo configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Editor   EditorConfig   `yaml:"editor"`
	Decals   DecalConfig    `yaml:"decals"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`

	SunLongitude  float32 `yaml:"sun_longitude"` // degrees around Y
	SunLatitude   float32 `yaml:"sun_latitude"`  // degrees above horizon
	ScreenshotDir string  `yaml:"screenshot_dir"`
	ScreenshotFmt string  `yaml:"screenshot_format"` // png or bmp
}

// SceneConfig holds the paths of the painted mesh and its weight stream.
type SceneConfig struct {
	MeshPath    string `yaml:"mesh_path"`
	WeightsPath string `yaml:"weights_path"` // .vd material-weight stream
}

// EditorConfig holds brush settings for vertex painting.
type EditorConfig struct {
	BrushRadius    float32 `yaml:"brush_radius"`
	MaxBrushRadius float32 `yaml:"max_brush_radius"`
	WeightRate     float32 `yaml:"weight_rate"`      // weight change per second
	MaxWeightRate  float32 `yaml:"max_weight_rate"`  // upper clamp for WeightRate
	WeightRateStep float32 `yaml:"weight_rate_step"` // change per key press
	SphereOffset   float32 `yaml:"sphere_offset"`    // brush pulled toward camera by radius * offset
}

// DecalConfig holds decal placement settings.
type DecalConfig struct {
	Intensity float32 `yaml:"intensity"` // initial intensity, also lifetime in seconds
	MinRadius float32 `yaml:"min_radius"`
	MaxRadius float32 `yaml:"max_radius"`
	RayLength float32 `yaml:"ray_length"`
	Seed      int64   `yaml:"seed"` // 0 picks a time-based seed
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,

			SunLongitude:  215,
			SunLatitude:   65,
			ScreenshotDir: "screenshots",
			ScreenshotFmt: "png",
		},
		Scene: SceneConfig{
			MeshPath:    "data/room/map.obj",
			WeightsPath: "data/room/map.vd",
		},
		Editor: EditorConfig{
			BrushRadius:    50,
			MaxBrushRadius: 700,
			WeightRate:     1,
			MaxWeightRate:  3,
			WeightRateStep: 0.1,
			SphereOffset:   0.3,
		},
		Decals: DecalConfig{
			Intensity: 10,
			MinRadius: 120,
			MaxRadius: 200,
			RayLength: 4000,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
