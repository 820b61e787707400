// Package plan holds the devices and walls drawn on a floor plan.
package plan

import (
	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/scene"
)

// Kind is the closed set of device variants.
type Kind int

const (
	KindCamera Kind = iota
	KindSensor
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindCamera:
		return "camera"
	case KindSensor:
		return "sensor"
	default:
		return "label"
	}
}

// Device is anything placed on the plan.
type Device interface {
	DeviceID() string
	Kind() Kind
	Position() geometry.Point
	icon() *scene.Icon
}

// Camera is a CCTV camera. It is the only device with coverage.
type Camera struct {
	ID   string
	Name string
	Pos  geometry.Point
	Icon *scene.Icon

	// Coverage is nil until the engine initialises it from Saved.
	Coverage *coverage.Config
	// Saved is the persisted record the camera was loaded from, if any.
	Saved *coverage.Record

	Selected bool

	Area    *scene.CoverageArea
	Handles []*scene.Handle

	// StateHash is the hash of the last drawn coverage. Empty forces the
	// next recompute to rebuild.
	StateHash string
}

func (c *Camera) DeviceID() string         { return c.ID }
func (c *Camera) Kind() Kind               { return KindCamera }
func (c *Camera) Position() geometry.Point { return c.Pos }
func (c *Camera) icon() *scene.Icon        { return c.Icon }

// Invalidate forces the next recompute to rebuild the coverage shape.
func (c *Camera) Invalidate() { c.StateHash = "" }

// SensorType is the family of a non-camera security device.
type SensorType string

const (
	SensorIntruder SensorType = "intruder"
	SensorFire     SensorType = "fire"
	SensorAccess   SensorType = "access"
)

// Sensor is an intruder, fire or access-control device.
type Sensor struct {
	ID   string
	Type SensorType
	Pos  geometry.Point
	Icon *scene.Icon
}

func (s *Sensor) DeviceID() string         { return s.ID }
func (s *Sensor) Kind() Kind               { return KindSensor }
func (s *Sensor) Position() geometry.Point { return s.Pos }
func (s *Sensor) icon() *scene.Icon        { return s.Icon }

// Label is free text on the plan.
type Label struct {
	ID   string
	Text string
	Pos  geometry.Point
	Icon *scene.Icon
}

func (l *Label) DeviceID() string         { return l.ID }
func (l *Label) Kind() Kind               { return KindLabel }
func (l *Label) Position() geometry.Point { return l.Pos }
func (l *Label) icon() *scene.Icon        { return l.Icon }
