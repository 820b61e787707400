// Package diagram draws the side elevation of a mounted camera: the pole,
// the tilted body, the vertical field of view and where it meets the
// floor.
package diagram

import (
	"fmt"
	"math"

	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/logic/projection"
)

// Params are the inputs of a side view. Distances are metres.
type Params struct {
	HeightM      float64 `json:"height_m"`
	TiltDeg      float64 `json:"tilt_deg"`
	MaxDistanceM float64 `json:"max_distance_m"`
	DeadZoneM    float64 `json:"dead_zone_m"`
	VFovDeg      float64 `json:"vfov_deg"`
}

// Bounds is the visible area in metres. X is the floor distance from the
// pole, Y the height above the floor.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// Ray is one edge of the vertical field of view.
type Ray struct {
	AngleDeg float64        `json:"angle_deg"`
	From     geometry.Point `json:"from"`
	To       geometry.Point `json:"to"`
	// Ground is true when the ray ends on the floor rather than on the
	// edge of the view.
	Ground bool `json:"ground"`
}

// CalloutKind identifies a distance annotation.
type CalloutKind string

const (
	CalloutDeadZone CalloutKind = "dead_zone"
	CalloutBehind   CalloutKind = "behind"
	CalloutRange    CalloutKind = "range"
)

// Callout is a distance label drawn on the floor.
type Callout struct {
	Kind  CalloutKind    `json:"kind"`
	Text  string         `json:"text"`
	At    geometry.Point `json:"at"`
	Color string         `json:"color"`
}

// Layout is a side view ready to draw, in metres.
type Layout struct {
	Params   Params         `json:"params"`
	View     Bounds         `json:"view"`
	Camera   geometry.Point `json:"camera"`
	Top      Ray            `json:"top"`
	Bottom   Ray            `json:"bottom"`
	Callouts []Callout      `json:"callouts"`
}

// Callout colours.
const (
	ColorDeadZone = "#d32f2f"
	ColorBehind   = "#7b1fa2"
	ColorRange    = "#2e7d32"
)

const (
	// deadZoneMinM is the dead zone under which no callout is drawn.
	deadZoneMinM = 0.05
	// maxViewM caps the drawn floor length for far or unbounded ranges.
	maxViewM = 100.0
)

func rad(deg float64) float64 { return deg * math.Pi / 180.0 }

// Build lays out the side view. It never fails: degenerate inputs give a
// view with rays running to the edge.
func Build(p Params) Layout {
	h := math.Max(0, p.HeightM)
	unbounded := p.MaxDistanceM >= projection.Unbounded

	extent := p.MaxDistanceM
	if unbounded || extent > maxViewM {
		extent = maxViewM
	}
	if extent < 1 {
		extent = math.Max(1, 2*h)
	}

	view := Bounds{
		MinX: -math.Max(1, 0.15*extent),
		MaxX: extent*1.15 + 0.5,
		MinY: 0,
		MaxY: math.Max(1, h*1.5),
	}
	if p.DeadZoneM < 0 {
		view.MinX = math.Min(view.MinX, math.Max(p.DeadZoneM, -maxViewM)*1.2-0.5)
	}

	cam := geometry.Point{X: 0, Y: h}
	half := p.VFovDeg / 2
	l := Layout{
		Params: p,
		View:   view,
		Camera: cam,
		Top:    castRay(cam, p.TiltDeg-half, view),
		Bottom: castRay(cam, p.TiltDeg+half, view),
	}

	switch {
	case p.DeadZoneM > deadZoneMinM:
		l.Callouts = append(l.Callouts, Callout{
			Kind:  CalloutDeadZone,
			Text:  fmt.Sprintf("dead zone %.2f m", p.DeadZoneM),
			At:    geometry.Point{X: p.DeadZoneM / 2},
			Color: ColorDeadZone,
		})
	case p.DeadZoneM < 0:
		l.Callouts = append(l.Callouts, Callout{
			Kind:  CalloutBehind,
			Text:  fmt.Sprintf("behind %.2f m", -p.DeadZoneM),
			At:    geometry.Point{X: math.Max(p.DeadZoneM, view.MinX) / 2},
			Color: ColorBehind,
		})
	}

	text := fmt.Sprintf("range %.1f m", p.MaxDistanceM)
	if unbounded {
		text = "range unbounded"
	}
	l.Callouts = append(l.Callouts, Callout{
		Kind:  CalloutRange,
		Text:  text,
		At:    geometry.Point{X: math.Min(extent, view.MaxX) / 2, Y: 0},
		Color: ColorRange,
	})
	return l
}

// castRay follows a ray pointing angleDeg below the horizontal from cam.
// It stops on the floor when the floor is inside the view, otherwise on
// the nearest edge of the view.
func castRay(cam geometry.Point, angleDeg float64, v Bounds) Ray {
	dx, dy := math.Cos(rad(angleDeg)), -math.Sin(rad(angleDeg))
	r := Ray{AngleDeg: angleDeg, From: cam}

	if dy < 0 {
		t := -cam.Y / dy
		x := cam.X + t*dx
		if x >= v.MinX && x <= v.MaxX {
			r.To = geometry.Point{X: x, Y: 0}
			r.Ground = true
			return r
		}
	}

	t := math.Inf(1)
	if dx > 0 {
		t = math.Min(t, (v.MaxX-cam.X)/dx)
	} else if dx < 0 {
		t = math.Min(t, (v.MinX-cam.X)/dx)
	}
	if dy > 0 {
		t = math.Min(t, (v.MaxY-cam.Y)/dy)
	} else if dy < 0 {
		t = math.Min(t, (v.MinY-cam.Y)/dy)
	}
	if math.IsInf(t, 1) {
		t = 0
	}
	r.To = geometry.Point{X: cam.X + t*dx, Y: cam.Y + t*dy}
	return r
}
