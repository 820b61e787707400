package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/debug"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
)

// MaxConfigFileBytes is the largest config file Load accepts.
const MaxConfigFileBytes = 1 << 20

// PlanConfig describes the drawing scale.
type PlanConfig struct {
	PixelsPerMeter float64 `yaml:"pixels_per_meter"` // plan pixels per metre (default 17.5)
	IconSize       float64 `yaml:"icon_size"`        // device icon size in pixels
}

// DefaultsConfig holds the values given to new cameras.
type DefaultsConfig struct {
	StartAngleDeg float64 `yaml:"start_angle_deg"`
	EndAngleDeg   float64 `yaml:"end_angle_deg"`
	MaxRangeM     float64 `yaml:"max_range_m"`
	CameraHeightM float64 `yaml:"camera_height_m"`
	CameraTiltDeg float64 `yaml:"camera_tilt_deg"` // 0 = level, 90 = straight down
	SideFOVDeg    float64 `yaml:"side_fov_deg"`    // vertical FOV when no optics are set
	FocalLengthMm float64 `yaml:"focal_length_mm"` // 0 = no optics
	SensorSize    string  `yaml:"sensor_size"`     // e.g. "1/2.8"
	Resolution    string  `yaml:"resolution"`      // e.g. "4MP" or "2560x1440"
	Projection    string  `yaml:"projection"`      // circular | rectangular
	EdgeStyle     string  `yaml:"edge_style"`      // solid | dashed | dotted
	Opacity       float64 `yaml:"opacity"`         // 0-1
	Color         string  `yaml:"color"`           // e.g. "#007acc"
}

// InteractionConfig tunes handle dragging.
type InteractionConfig struct {
	WallReenableDelayMs int     `yaml:"wall_reenable_delay_ms"` // walls stay locked this long after release
	HandleHitRadiusPx   float64 `yaml:"handle_hit_radius_px"`   // pointer tolerance around a handle
}

// WebConfig configures the HTTP server.
type WebConfig struct {
	Addr string `yaml:"addr"`
}

// StoreConfig locates the project database.
type StoreConfig struct {
	Path    string `yaml:"path"`
	Project string `yaml:"project"` // project loaded at start-up and saved to
}

// LoggingConfig configures internal/debug.
type LoggingConfig struct {
	Level string           `yaml:"level"` // off | info | live | verbose | trace
	File  debug.FileConfig `yaml:"file"`
}

// Config aggregates all application configuration.
type Config struct {
	Plan        PlanConfig          `yaml:"plan"`
	Defaults    DefaultsConfig      `yaml:"defaults"`
	Projection  geometry.RectTuning `yaml:"projection"`
	Interaction InteractionConfig   `yaml:"interaction"`
	Web         WebConfig           `yaml:"web"`
	Store       StoreConfig         `yaml:"store"`
	Logging     LoggingConfig       `yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	d := coverage.StandardDefaults()
	return &Config{
		Plan: PlanConfig{PixelsPerMeter: 17.5, IconSize: 24},
		Defaults: DefaultsConfig{
			StartAngleDeg: d.StartAngle,
			EndAngleDeg:   d.EndAngle,
			MaxRangeM:     d.MaxRange,
			CameraHeightM: d.CameraHeight,
			CameraTiltDeg: d.CameraTilt,
			SideFOVDeg:    d.SideFOV,
			SensorSize:    d.SensorSize,
			Resolution:    d.Resolution,
			Projection:    d.Projection.String(),
			EdgeStyle:     d.EdgeStyle.String(),
			Opacity:       d.Opacity,
			Color:         "#007acc",
		},
		Projection:  geometry.DefaultRectTuning(),
		Interaction: InteractionConfig{WallReenableDelayMs: 100, HandleHitRadiusPx: 10},
		Web:         WebConfig{Addr: ":8080"},
		Store:       StoreConfig{Path: "coverplan.db", Project: "default"},
		Logging:     LoggingConfig{Level: "info"},
	}
}

// ValidateConfigPath accepts only .yaml files directly inside a
// "configs" directory.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	if strings.Contains(filepath.ToSlash(path), "..") {
		return fmt.Errorf("config path %q must not contain '..'", path)
	}
	clean := filepath.Clean(path)
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config path %q must end in .yaml", path)
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("config path %q must be inside a configs/ directory", path)
	}
	return nil
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if info.Size() > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file %s is %d bytes, limit is %d", path, info.Size(), MaxConfigFileBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and fills zero values with defaults.
func (c *Config) Validate() error {
	if c.Plan.PixelsPerMeter < 0 {
		return fmt.Errorf("plan.pixels_per_meter must be > 0, got %.2f", c.Plan.PixelsPerMeter)
	}
	if c.Plan.PixelsPerMeter == 0 {
		c.Plan.PixelsPerMeter = 17.5 // reasonable default
	}
	if c.Plan.IconSize <= 0 {
		c.Plan.IconSize = 24
	}

	d := &c.Defaults
	if d.StartAngleDeg < 0 || d.StartAngleDeg >= 360 || d.EndAngleDeg < 0 || d.EndAngleDeg >= 360 {
		return fmt.Errorf("defaults angles must be in [0, 360), got %.1f..%.1f", d.StartAngleDeg, d.EndAngleDeg)
	}
	if d.MaxRangeM <= 0 {
		d.MaxRangeM = 15
	}
	if d.CameraHeightM < 0 {
		return fmt.Errorf("defaults.camera_height_m must be >= 0, got %.2f", d.CameraHeightM)
	}
	if d.CameraTiltDeg < 0 || d.CameraTiltDeg > 90 {
		return fmt.Errorf("defaults.camera_tilt_deg must be between 0 and 90, got %.2f", d.CameraTiltDeg)
	}
	if d.SideFOVDeg <= 0 {
		d.SideFOVDeg = 60
	}
	if d.SideFOVDeg >= 180 {
		return fmt.Errorf("defaults.side_fov_deg must be < 180, got %.2f", d.SideFOVDeg)
	}
	if d.FocalLengthMm < 0 {
		return fmt.Errorf("defaults.focal_length_mm must be >= 0, got %.2f", d.FocalLengthMm)
	}
	if d.Opacity < 0 || d.Opacity > 1 {
		return fmt.Errorf("defaults.opacity must be between 0 and 1, got %.2f", d.Opacity)
	}
	if _, err := c.CoverageDefaults(); err != nil {
		return err
	}

	if c.Projection.MaxSpanDeg <= 0 || c.Projection.MaxOffsetRad <= 0 {
		c.Projection = geometry.DefaultRectTuning()
	}
	if c.Interaction.WallReenableDelayMs < 0 {
		return fmt.Errorf("interaction.wall_reenable_delay_ms must be >= 0, got %d", c.Interaction.WallReenableDelayMs)
	}
	if c.Interaction.HandleHitRadiusPx <= 0 {
		c.Interaction.HandleHitRadiusPx = 10
	}
	if c.Web.Addr == "" {
		c.Web.Addr = ":8080"
	}
	if c.Store.Project == "" {
		c.Store.Project = "default"
	}
	if _, err := debug.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.File.Path != "" && c.Logging.File.MaxSizeMB == 0 {
		c.Logging.File = debug.DefaultFileConfig(c.Logging.File.Path)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// CoverageDefaults converts the defaults section for the coverage engine.
func (c *Config) CoverageDefaults() (coverage.Defaults, error) {
	d := c.Defaults
	proj, err := geometry.ParseProjection(d.Projection)
	if err != nil {
		return coverage.Defaults{}, fmt.Errorf("defaults.projection: %w", err)
	}
	edge, err := coverage.ParseEdgeStyle(d.EdgeStyle)
	if err != nil {
		return coverage.Defaults{}, fmt.Errorf("defaults.edge_style: %w", err)
	}
	col, err := coverage.ParseColor(d.Color)
	if err != nil {
		return coverage.Defaults{}, fmt.Errorf("defaults.color: %w", err)
	}
	return coverage.Defaults{
		StartAngle:   d.StartAngleDeg,
		EndAngle:     d.EndAngleDeg,
		MaxRange:     d.MaxRangeM,
		CameraHeight: d.CameraHeightM,
		CameraTilt:   d.CameraTiltDeg,
		SideFOV:      d.SideFOVDeg,
		FocalLength:  d.FocalLengthMm,
		SensorSize:   d.SensorSize,
		Resolution:   d.Resolution,
		Projection:   proj,
		EdgeStyle:    edge,
		Opacity:      d.Opacity,
		Color:        col,
	}, nil
}

// WallReenableDelay returns how long walls stay locked after a drag.
func (c *Config) WallReenableDelay() time.Duration {
	return time.Duration(c.Interaction.WallReenableDelayMs) * time.Millisecond
}

// LogLevel returns the debug level of the logging section.
func (c *Config) LogLevel() int {
	lvl, _ := debug.ParseLevel(c.Logging.Level)
	return lvl
}
