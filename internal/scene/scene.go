// Package scene is the contract between the coverage engine and the
// retained-mode drawing surface, plus an in-memory surface.
package scene

import (
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
)

// Shape is anything held by the drawing surface.
type Shape interface {
	ShapeID() string
}

// Scene is the drawing surface the coverage engine draws into.
type Scene interface {
	// Objects returns the shapes back to front.
	Objects() []Shape
	// Add puts s on top of every other shape.
	Add(s Shape)
	// Remove drops s. Removing an absent shape is a no-op.
	Remove(s Shape)
	// InsertBehind puts s directly behind owner, or on top when owner is
	// not in the scene.
	InsertBehind(owner, s Shape)
	// ToScene converts a pointer position to scene coordinates.
	ToScene(p geometry.Point) geometry.Point
	// RequestRender schedules a repaint.
	RequestRender()
	// SetWallsInteractive enables or disables selection of every wall.
	SetWallsInteractive(on bool)
}

// Icon is the symbol of a device on the plan.
type Icon struct {
	ID    string         `json:"id"`
	Pos   geometry.Point `json:"pos"`
	Size  float64        `json:"size"`
	Label string         `json:"label,omitempty"`
}

func (i *Icon) ShapeID() string { return i.ID }

// Wall is a selectable wall line.
type Wall struct {
	ID         string           `json:"id"`
	Seg        geometry.Segment `json:"seg"`
	Selectable bool             `json:"selectable"`
}

func (w *Wall) ShapeID() string { return w.ID }

// Layer is one filled polygon of a coverage area.
type Layer struct {
	Name   string           `json:"name"`
	Points []geometry.Point `json:"points"`
	Fill   string           `json:"fill"`
	Stroke string           `json:"stroke"`
	Dash   []float64        `json:"dash,omitempty"`
}

// CoverageArea is the drawn coverage of one camera. It is rebuilt rather
// than edited.
type CoverageArea struct {
	ID       string  `json:"id"`
	CameraID string  `json:"camera_id"`
	Layers   []Layer `json:"layers"`
}

func (a *CoverageArea) ShapeID() string { return a.ID }

// HandleRole identifies what dragging a handle edits.
type HandleRole int

const (
	HandleStart HandleRole = iota
	HandleEnd
	HandleRotate
)

func (r HandleRole) String() string {
	switch r {
	case HandleStart:
		return "start"
	case HandleEnd:
		return "end"
	default:
		return "rotate"
	}
}

// Handle is a draggable control on the edge of a coverage area.
type Handle struct {
	ID       string         `json:"id"`
	CameraID string         `json:"camera_id"`
	Role     HandleRole     `json:"role"`
	Pos      geometry.Point `json:"pos"`
	Visible  bool           `json:"visible"`
}

func (h *Handle) ShapeID() string { return h.ID }
