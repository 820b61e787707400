package coverage

import (
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
)

// Record is the flat persisted form of a Config. Every field is optional;
// a nil field was never set and receives its default on Resolve.
type Record struct {
	StartAngle           *float64 `json:"start_angle,omitempty"`
	EndAngle             *float64 `json:"end_angle,omitempty"`
	Radius               *float64 `json:"radius,omitempty"`
	MinRange             *float64 `json:"min_range,omitempty"`
	MaxRange             *float64 `json:"max_range,omitempty"`
	CameraHeight         *float64 `json:"camera_height,omitempty"`
	CameraTilt           *float64 `json:"camera_tilt,omitempty"`
	SideFOV              *float64 `json:"side_fov,omitempty"`
	FocalLength          *float64 `json:"focal_length,omitempty"`
	SensorSize           *string  `json:"sensor_size,omitempty"`
	Resolution           *string  `json:"resolution,omitempty"`
	ProjectionMode       *string  `json:"projection_mode,omitempty"`
	EdgeStyle            *string  `json:"edge_style,omitempty"`
	DoriEnabled          *bool    `json:"dori_enabled,omitempty"`
	AspectRatioMode      *bool    `json:"aspect_ratio_mode,omitempty"`
	LockDistanceOnRotate *bool    `json:"lock_distance_on_rotate,omitempty"`
	Visible              *bool    `json:"visible,omitempty"`
	Opacity              *float64 `json:"opacity,omitempty"`
	FillColor            *string  `json:"fill_color,omitempty"`
	BaseColor            *string  `json:"base_color,omitempty"`
}

func pick[T any](v *T, def T) T {
	if v != nil {
		return *v
	}
	return def
}

// Resolve builds an initialised Config from a saved record, filling only
// the fields the record leaves unset. The base colour comes from an
// explicit base colour, else from the fill colour, else from the defaults.
// Radius defaults to MaxRange in pixels.
func Resolve(rec *Record, d Defaults, pixelsPerMeter float64) Config {
	if rec == nil {
		rec = &Record{}
	}
	c := Config{
		StartAngle:           geometry.NormalizeDeg(pick(rec.StartAngle, d.StartAngle)),
		EndAngle:             geometry.NormalizeDeg(pick(rec.EndAngle, d.EndAngle)),
		MaxRange:             pick(rec.MaxRange, d.MaxRange),
		MinRange:             pick(rec.MinRange, 0),
		CameraHeight:         pick(rec.CameraHeight, d.CameraHeight),
		CameraTilt:           pick(rec.CameraTilt, d.CameraTilt),
		SideFOV:              pick(rec.SideFOV, d.SideFOV),
		FocalLength:          pick(rec.FocalLength, d.FocalLength),
		SensorSize:           pick(rec.SensorSize, d.SensorSize),
		Resolution:           pick(rec.Resolution, d.Resolution),
		Projection:           d.Projection,
		EdgeStyle:            d.EdgeStyle,
		DoriEnabled:          pick(rec.DoriEnabled, false),
		AspectRatioMode:      pick(rec.AspectRatioMode, false),
		LockDistanceOnRotate: pick(rec.LockDistanceOnRotate, false),
		Visible:              pick(rec.Visible, true),
		Opacity:              pick(rec.Opacity, d.Opacity),
	}
	c.Radius = pick(rec.Radius, c.MaxRange*pixelsPerMeter)

	if rec.ProjectionMode != nil {
		if p, err := geometry.ParseProjection(*rec.ProjectionMode); err == nil {
			c.Projection = p
		}
	}
	if rec.EdgeStyle != nil {
		if s, err := ParseEdgeStyle(*rec.EdgeStyle); err == nil {
			c.EdgeStyle = s
		}
	}

	var fill *Color
	if rec.FillColor != nil {
		if col, err := ParseColor(*rec.FillColor); err == nil {
			fill = &col
		}
	}

	c.BaseColor = d.Color.WithAlpha(1)
	switch {
	case rec.BaseColor != nil:
		if col, err := ParseColor(*rec.BaseColor); err == nil {
			c.BaseColor = col.WithAlpha(1)
		}
	case fill != nil:
		c.BaseColor = fill.WithAlpha(1)
	}

	if fill != nil {
		c.FillColor = *fill
	} else {
		c.FillColor = c.BaseColor.WithAlpha(c.Opacity)
	}

	c.IsInitialized = true
	return c
}

// Record returns the fully populated persisted form of c.
func (c *Config) Record() Record {
	proj := c.Projection.String()
	edge := c.EdgeStyle.String()
	fill := c.FillColor.CSS()
	base := c.BaseColor.CSS()
	cp := *c
	return Record{
		StartAngle:           &cp.StartAngle,
		EndAngle:             &cp.EndAngle,
		Radius:               &cp.Radius,
		MinRange:             &cp.MinRange,
		MaxRange:             &cp.MaxRange,
		CameraHeight:         &cp.CameraHeight,
		CameraTilt:           &cp.CameraTilt,
		SideFOV:              &cp.SideFOV,
		FocalLength:          &cp.FocalLength,
		SensorSize:           &cp.SensorSize,
		Resolution:           &cp.Resolution,
		ProjectionMode:       &proj,
		EdgeStyle:            &edge,
		DoriEnabled:          &cp.DoriEnabled,
		AspectRatioMode:      &cp.AspectRatioMode,
		LockDistanceOnRotate: &cp.LockDistanceOnRotate,
		Visible:              &cp.Visible,
		Opacity:              &cp.Opacity,
		FillColor:            &fill,
		BaseColor:            &base,
	}
}

// Merge applies every field set in rec onto c, as the property panel does
// with a partial edit. It reports whether any optical input (focal
// length, sensor, aspect mode) changed. On error c is left untouched.
func (c *Config) Merge(rec Record) (opticsChanged bool, err error) {
	var (
		proj       geometry.Projection
		edge       EdgeStyle
		base, fill Color
	)
	if rec.ProjectionMode != nil {
		if proj, err = geometry.ParseProjection(*rec.ProjectionMode); err != nil {
			return false, err
		}
	}
	if rec.EdgeStyle != nil {
		if edge, err = ParseEdgeStyle(*rec.EdgeStyle); err != nil {
			return false, err
		}
	}
	if rec.BaseColor != nil {
		if base, err = ParseColor(*rec.BaseColor); err != nil {
			return false, err
		}
	}
	if rec.FillColor != nil {
		if fill, err = ParseColor(*rec.FillColor); err != nil {
			return false, err
		}
	}

	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.StartAngle, rec.StartAngle)
	set(&c.EndAngle, rec.EndAngle)
	set(&c.Radius, rec.Radius)
	set(&c.MinRange, rec.MinRange)
	set(&c.MaxRange, rec.MaxRange)
	set(&c.CameraHeight, rec.CameraHeight)
	set(&c.CameraTilt, rec.CameraTilt)
	set(&c.SideFOV, rec.SideFOV)
	c.StartAngle = geometry.NormalizeDeg(c.StartAngle)
	c.EndAngle = geometry.NormalizeDeg(c.EndAngle)

	if rec.FocalLength != nil && *rec.FocalLength != c.FocalLength {
		c.FocalLength = *rec.FocalLength
		opticsChanged = true
	}
	if rec.SensorSize != nil && *rec.SensorSize != c.SensorSize {
		c.SensorSize = *rec.SensorSize
		opticsChanged = true
	}
	if rec.AspectRatioMode != nil && *rec.AspectRatioMode != c.AspectRatioMode {
		c.AspectRatioMode = *rec.AspectRatioMode
		opticsChanged = true
	}
	if rec.Resolution != nil {
		c.Resolution = *rec.Resolution
	}
	if rec.DoriEnabled != nil {
		c.DoriEnabled = *rec.DoriEnabled
	}
	if rec.LockDistanceOnRotate != nil {
		c.LockDistanceOnRotate = *rec.LockDistanceOnRotate
	}
	if rec.Visible != nil {
		c.Visible = *rec.Visible
	}
	if rec.ProjectionMode != nil {
		c.Projection = proj
	}
	if rec.EdgeStyle != nil {
		c.EdgeStyle = edge
	}
	if rec.BaseColor != nil {
		c.SetBaseColor(base)
	}
	if rec.Opacity != nil {
		c.SetOpacity(*rec.Opacity)
	}
	if rec.FillColor != nil {
		c.FillColor = fill
	}
	return opticsChanged, nil
}
