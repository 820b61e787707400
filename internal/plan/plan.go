package plan

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/scene"
)

var (
	ErrUnknownDevice = errors.New("unknown device")
	ErrUnknownWall   = errors.New("unknown wall")
	ErrNotCamera     = errors.New("device is not a camera")
)

// DefaultsRegistry holds the plan-wide defaults injected into new devices
// and bulk updates.
type DefaultsRegistry struct {
	IconSize float64
	Coverage coverage.Defaults
}

// Plan is the set of devices and walls on one floor.
type Plan struct {
	Defaults       DefaultsRegistry
	PixelsPerMeter float64

	scene   scene.Scene
	devices []Device
	walls   []*scene.Wall
}

// New creates an empty plan drawing into s.
func New(s scene.Scene, defaults DefaultsRegistry, pixelsPerMeter float64) *Plan {
	return &Plan{
		Defaults:       defaults,
		PixelsPerMeter: pixelsPerMeter,
		scene:          s,
	}
}

// Scene returns the drawing surface of the plan.
func (p *Plan) Scene() scene.Scene { return p.scene }

func (p *Plan) newIcon(id string, pos geometry.Point, label string) *scene.Icon {
	ic := &scene.Icon{ID: "icon-" + id, Pos: pos, Size: p.Defaults.IconSize, Label: label}
	p.scene.Add(ic)
	return ic
}

// AddCamera places a camera at pos. rec is its saved coverage, or nil for
// a new camera; the engine resolves it on first use. An empty id gets a
// fresh one.
func (p *Plan) AddCamera(id, name string, pos geometry.Point, rec *coverage.Record) *Camera {
	if id == "" {
		id = uuid.NewString()
	}
	c := &Camera{ID: id, Name: name, Pos: pos, Saved: rec}
	c.Icon = p.newIcon(id, pos, name)
	p.devices = append(p.devices, c)
	return c
}

// AddSensor places a non-camera device at pos. An empty id gets a fresh
// one.
func (p *Plan) AddSensor(id string, typ SensorType, pos geometry.Point) *Sensor {
	if id == "" {
		id = uuid.NewString()
	}
	s := &Sensor{ID: id, Type: typ, Pos: pos}
	s.Icon = p.newIcon(id, pos, string(typ))
	p.devices = append(p.devices, s)
	return s
}

// AddLabel places free text at pos.
func (p *Plan) AddLabel(id, text string, pos geometry.Point) *Label {
	if id == "" {
		id = uuid.NewString()
	}
	l := &Label{ID: id, Text: text, Pos: pos}
	l.Icon = p.newIcon(id, pos, text)
	p.devices = append(p.devices, l)
	return l
}

// Devices returns every device in placement order.
func (p *Plan) Devices() []Device {
	out := make([]Device, len(p.devices))
	copy(out, p.devices)
	return out
}

// Device returns the device with the given id.
func (p *Plan) Device(id string) (Device, error) {
	for _, d := range p.devices {
		if d.DeviceID() == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, id)
}

// Camera returns the camera with the given id.
func (p *Plan) Camera(id string) (*Camera, error) {
	d, err := p.Device(id)
	if err != nil {
		return nil, err
	}
	c, ok := d.(*Camera)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotCamera, id, d.Kind())
	}
	return c, nil
}

// Cameras returns every camera on the plan.
func (p *Plan) Cameras() []*Camera {
	var out []*Camera
	for _, d := range p.devices {
		switch v := d.(type) {
		case *Camera:
			out = append(out, v)
		}
	}
	return out
}

// RemoveDevice deletes a device along with its icon, coverage area and
// handles.
func (p *Plan) RemoveDevice(id string) error {
	for i, d := range p.devices {
		if d.DeviceID() != id {
			continue
		}
		if c, ok := d.(*Camera); ok {
			if c.Area != nil {
				p.scene.Remove(c.Area)
			}
			for _, h := range c.Handles {
				p.scene.Remove(h)
			}
		}
		p.scene.Remove(d.icon())
		p.devices = append(p.devices[:i], p.devices[i+1:]...)
		p.scene.RequestRender()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownDevice, id)
}

// MoveDevice moves a device and its icon.
func (p *Plan) MoveDevice(id string, pos geometry.Point) error {
	d, err := p.Device(id)
	if err != nil {
		return err
	}
	switch v := d.(type) {
	case *Camera:
		v.Pos = pos
	case *Sensor:
		v.Pos = pos
	case *Label:
		v.Pos = pos
	}
	d.icon().Pos = pos
	return nil
}

// Select marks one camera as the active selection, or none for "". It
// returns the cameras whose selection flipped; their handles need a
// refresh.
func (p *Plan) Select(id string) []*Camera {
	var changed []*Camera
	for _, c := range p.Cameras() {
		sel := c.ID == id
		if c.Selected != sel {
			c.Selected = sel
			changed = append(changed, c)
		}
	}
	return changed
}

// Selected returns the selected camera, if any.
func (p *Plan) Selected() *Camera {
	for _, c := range p.Cameras() {
		if c.Selected {
			return c
		}
	}
	return nil
}
