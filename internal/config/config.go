// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/philipparndt/gomesh/pkg/viewer"
)

// Config holds all viewer settings.
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer"`
	Render  RenderConfig  `yaml:"render"`
	Loader  LoaderConfig  `yaml:"loader"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewerConfig holds the orbit camera settings. Angles are in radians.
type ViewerConfig struct {
	InitialPitch    float64 `yaml:"initial_pitch"`
	InitialYaw      float64 `yaml:"initial_yaw"`
	InitialDistance float64 `yaml:"initial_distance"`
	MinDistance     float64 `yaml:"min_distance"`
	MaxDistance     float64 `yaml:"max_distance"`
	DragSensitivity float64 `yaml:"drag_sensitivity"`
	ZoomInFactor    float64 `yaml:"zoom_in_factor"`
	ZoomOutFactor   float64 `yaml:"zoom_out_factor"`
}

// RenderConfig holds the software renderer settings.
type RenderConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	FOV        float64 `yaml:"fov"` // degrees
	Background string  `yaml:"background"`
	Model      string  `yaml:"model"`
	Grid       bool    `yaml:"grid"`
}

// LoaderConfig holds mesh loading settings.
type LoaderConfig struct {
	Strict    bool   `yaml:"strict"`
	BaseURL   string `yaml:"base_url"`
	ScanDepth int    `yaml:"scan_depth"`
}

// WatchConfig holds auto-reload settings.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	limits := viewer.DefaultLimits()
	return &Config{
		Viewer: ViewerConfig{
			InitialPitch:    limits.InitialPitch,
			InitialYaw:      limits.InitialYaw,
			InitialDistance: limits.InitialDistance,
			MinDistance:     limits.MinDistance,
			MaxDistance:     limits.MaxDistance,
			DragSensitivity: limits.DragSensitivity,
			ZoomInFactor:    limits.ZoomInFactor,
			ZoomOutFactor:   limits.ZoomOutFactor,
		},
		Render: RenderConfig{
			Width:      800,
			Height:     600,
			FOV:        45,
			Background: "#1f2937",
			Model:      "#6366f1",
			Grid:       true,
		},
		Loader: LoaderConfig{
			Strict:    false,
			ScanDepth: 5,
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	var errs []error
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.FOV <= 0 || c.Render.FOV >= 180 {
		errs = append(errs, fmt.Errorf("render fov must be within (0, 180), got %v", c.Render.FOV))
	}
	if _, _, err := c.Colors(); err != nil {
		errs = append(errs, err)
	}
	if c.Viewer.MinDistance <= 0 || c.Viewer.MinDistance > c.Viewer.MaxDistance {
		errs = append(errs, fmt.Errorf("viewer distance range [%v, %v] is invalid", c.Viewer.MinDistance, c.Viewer.MaxDistance))
	}
	if c.Viewer.ZoomInFactor <= 0 || c.Viewer.ZoomOutFactor <= 0 {
		errs = append(errs, errors.New("viewer zoom factors must be positive"))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch debounce must not be negative, got %v", c.Watch.Debounce))
	}
	return errors.Join(errs...)
}

// Limits converts the viewer section for the view state transitions.
func (c *Config) Limits() viewer.Limits {
	return viewer.Limits{
		MinDistance:     c.Viewer.MinDistance,
		MaxDistance:     c.Viewer.MaxDistance,
		DragSensitivity: c.Viewer.DragSensitivity,
		ZoomInFactor:    c.Viewer.ZoomInFactor,
		ZoomOutFactor:   c.Viewer.ZoomOutFactor,
		InitialPitch:    c.Viewer.InitialPitch,
		InitialYaw:      c.Viewer.InitialYaw,
		InitialDistance: c.Viewer.InitialDistance,
	}
}

// Colors parses the background and model colors of the render section
func (c *Config) Colors() (background, model color.RGBA, err error) {
	if background, err = viewer.ParseColor(c.Render.Background); err != nil {
		return background, model, fmt.Errorf("render background: %w", err)
	}
	if model, err = viewer.ParseColor(c.Render.Model); err != nil {
		return background, model, fmt.Errorf("render model: %w", err)
	}
	return background, model, nil
}

// NewSnapshot creates a software renderer from the render section. Call
// Validate first; unparsable colors fall back to the defaults.
func (c *Config) NewSnapshot() *viewer.Snapshot {
	s := viewer.NewSnapshot(c.Render.Width, c.Render.Height)
	s.FOV = c.Render.FOV * math.Pi / 180
	if background, model, err := c.Colors(); err == nil {
		s.Background = background
		s.Model = model
	}
	if !c.Render.Grid {
		s.Grid = nil
	}
	return s
}
