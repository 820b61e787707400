// Package coverage holds the per-camera coverage configuration, its
// one-time defaulting and the change hash that gates recomputation.
package coverage

import (
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
)

// Config is the coverage configuration owned by one camera.
// Radius and MinRange are plan pixels; MaxRange and CameraHeight are
// metres; angles are degrees clockwise from the +X axis.
type Config struct {
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	Radius     float64 `json:"radius"`
	MinRange   float64 `json:"min_range"`
	MaxRange   float64 `json:"max_range"`

	CameraHeight float64 `json:"camera_height"`
	CameraTilt   float64 `json:"camera_tilt"`
	SideFOV      float64 `json:"side_fov"`

	FocalLength float64 `json:"focal_length"`
	SensorSize  string  `json:"sensor_size"`
	Resolution  string  `json:"resolution"`

	Projection           geometry.Projection `json:"projection_mode"`
	EdgeStyle            EdgeStyle           `json:"edge_style"`
	DoriEnabled          bool                `json:"dori_enabled"`
	AspectRatioMode      bool                `json:"aspect_ratio_mode"`
	LockDistanceOnRotate bool                `json:"lock_distance_on_rotate"`
	Visible              bool                `json:"visible"`

	Opacity   float64 `json:"opacity"`
	FillColor Color   `json:"fill_color"`
	BaseColor Color   `json:"base_color"`

	IsInitialized bool `json:"is_initialized"`
}

// Defaults are the values given to a camera's fields that were never set.
type Defaults struct {
	StartAngle   float64
	EndAngle     float64
	MaxRange     float64
	CameraHeight float64
	CameraTilt   float64
	SideFOV      float64
	FocalLength  float64
	SensorSize   string
	Resolution   string
	Projection   geometry.Projection
	EdgeStyle    EdgeStyle
	Opacity      float64
	Color        Color
}

// StandardDefaults returns the stock defaults for a new camera.
func StandardDefaults() Defaults {
	return Defaults{
		StartAngle:   270,
		EndAngle:     0,
		MaxRange:     15,
		CameraHeight: 3,
		CameraTilt:   30,
		SideFOV:      60,
		SensorSize:   "1/2.8",
		Resolution:   "4MP",
		Projection:   geometry.Circular,
		EdgeStyle:    Solid,
		Opacity:      0.3,
		Color:        RGB(0x00, 0x7a, 0xcc),
	}
}

// Span returns the angular span of the wedge in (0, 360].
func (c *Config) Span() float64 {
	return geometry.AngleDiff(c.StartAngle, c.EndAngle)
}

// IsFullCircle reports whether the coverage is a closed ring.
func (c *Config) IsFullCircle() bool {
	return c.Span() >= geometry.FullCircleDeg
}

// Valid reports whether the configuration yields any coverage geometry.
// A dead zone reaching the far boundary is degenerate and draws nothing.
func (c *Config) Valid() bool {
	return c.Radius > 0 && c.MinRange < c.Radius
}

// SetOpacity changes the opacity and the fill alpha together.
func (c *Config) SetOpacity(o float64) {
	c.Opacity = o
	c.FillColor = c.BaseColor.WithAlpha(o)
}

// SetBaseColor changes the base colour and refills at the current opacity.
func (c *Config) SetBaseColor(col Color) {
	c.BaseColor = col.WithAlpha(1)
	c.FillColor = col.WithAlpha(c.Opacity)
}
