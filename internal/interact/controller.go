// Package interact turns pointer drags on coverage handles into edits of
// a camera's coverage.
package interact

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cjeanneret/coverplan/internal/debug"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/plan"
	"github.com/cjeanneret/coverplan/internal/render"
	"github.com/cjeanneret/coverplan/internal/scene"
)

// State is the drag in progress.
type State int

const (
	Idle State = iota
	ResizingLeft
	ResizingRight
	Rotating
)

func (s State) String() string {
	switch s {
	case ResizingLeft:
		return "resizing-left"
	case ResizingRight:
		return "resizing-right"
	case Rotating:
		return "rotating"
	default:
		return "idle"
	}
}

// Drag limits.
const (
	minSpanDeg      = 1.0
	wideNudgeDeg    = 5.0
	narrowNudgeDeg  = 1.0
	minRotateRangeM = 1.0
	maxRotateRangeM = 500.0
)

var (
	ErrBusy     = errors.New("interaction already in progress")
	ErrNoHandle = errors.New("no handle under pointer")
)

// Panel is the device property panel reopened when a drag ends.
type Panel interface {
	OpenDeviceProperties(cam *plan.Camera)
}

// Options configures a Controller.
type Options struct {
	// WallReenableDelay is how long walls stay locked after release.
	WallReenableDelay time.Duration
	// AfterFunc schedules f after d. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func())
	Panel     Panel
}

// Controller is the drag state machine. It handles one drag at a time and
// is not safe for concurrent use.
type Controller struct {
	engine *render.Engine
	opts   Options

	state State
	cam   *plan.Camera

	// rotation snapshot
	pointerStart float64
	startAngle   float64
	endAngle     float64

	wallsLocked bool
}

// New creates an idle controller.
func New(e *render.Engine, opts Options) *Controller {
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	return &Controller{engine: e, opts: opts}
}

// State returns the current drag state.
func (c *Controller) State() State { return c.state }

// Camera returns the camera being dragged, or nil when idle.
func (c *Controller) Camera() *plan.Camera { return c.cam }

func (c *Controller) scene() scene.Scene { return c.engine.Plan().Scene() }

// HitHandle returns the visible handle within tolerance of scene point p.
func (c *Controller) HitHandle(p geometry.Point, tolerance float64) (*plan.Camera, *scene.Handle) {
	for _, cam := range c.engine.Plan().Cameras() {
		for _, h := range cam.Handles {
			if h.Visible && geometry.Dist(h.Pos, p) <= tolerance {
				return cam, h
			}
		}
	}
	return nil, nil
}

// PointerDown starts a drag of handle h of cam with the pointer at p
// (pointer coordinates).
func (c *Controller) PointerDown(cam *plan.Camera, h *scene.Handle, p geometry.Point) error {
	if c.state != Idle {
		return fmt.Errorf("%w: %s on %s", ErrBusy, c.state, c.cam.ID)
	}
	if cam == nil || h == nil {
		return ErrNoHandle
	}
	c.engine.InitConfig(cam)

	switch h.Role {
	case scene.HandleStart:
		c.state = ResizingLeft
	case scene.HandleEnd:
		c.state = ResizingRight
	case scene.HandleRotate:
		c.state = Rotating
		c.pointerStart = geometry.PointerAngle(cam.Pos, c.scene().ToScene(p))
		c.startAngle = cam.Coverage.StartAngle
		c.endAngle = cam.Coverage.EndAngle
	}
	c.cam = cam

	if c.state == ResizingLeft || c.state == ResizingRight {
		c.scene().SetWallsInteractive(false)
		c.wallsLocked = true
	}
	debug.Drag(cam.ID, Idle.String(), c.state.String())
	return nil
}

// PointerMove applies the pointer at p (pointer coordinates) to the drag
// in progress and redraws. It reports whether a drag is active.
func (c *Controller) PointerMove(p geometry.Point) bool {
	if c.state == Idle {
		return false
	}
	cam := c.cam
	cfg := cam.Coverage
	sp := c.scene().ToScene(p)
	a := geometry.PointerAngle(cam.Pos, sp)
	debug.Trace("pointer %s %.1f° at (%.1f, %.1f)", c.state, a, sp.X, sp.Y)

	switch c.state {
	case ResizingLeft:
		cfg.StartAngle = resizeEdge(a, cfg.EndAngle, cfg.Span(), true)
	case ResizingRight:
		cfg.EndAngle = resizeEdge(a, cfg.StartAngle, cfg.Span(), false)
	case Rotating:
		delta := geometry.SignedDelta(c.pointerStart, a)
		cfg.StartAngle = geometry.NormalizeDeg(c.startAngle + delta)
		cfg.EndAngle = geometry.NormalizeDeg(c.endAngle + delta)
		if !cfg.LockDistanceOnRotate {
			ppm := c.engine.Plan().PixelsPerMeter
			m := geometry.Dist(cam.Pos, sp) / ppm
			m = math.Max(minRotateRangeM, math.Min(maxRotateRangeM, m))
			cfg.MaxRange = m
			cfg.Radius = m * ppm
		}
	}

	c.engine.RecomputeCoverage(cam, false)
	return true
}

// resizeEdge returns the new angle of the moving edge when the pointer is
// at a and the other edge is at fixed. left is true when the start edge
// moves. A span collapsing under 1° or jumping across the fixed edge is
// a collision: a wide wedge stops 5° short of the fixed edge and a
// narrow one 1°.
func resizeEdge(a, fixed, current float64, left bool) float64 {
	var span float64
	if left {
		span = math.Mod(fixed-a+720, 360)
	} else {
		span = math.Mod(a-fixed+720, 360)
	}

	if span >= minSpanDeg && math.Abs(span-current) <= 180 {
		return geometry.NormalizeDeg(a)
	}

	keep := narrowNudgeDeg
	if current > 180 {
		keep = 360 - wideNudgeDeg
	}
	if left {
		return geometry.NormalizeDeg(fixed - keep)
	}
	return geometry.NormalizeDeg(fixed + keep)
}

// PointerUp ends any drag, wherever the pointer was released. Walls
// locked by a resize are unlocked after the configured delay, handles are
// refreshed and the property panel is reopened. It is safe to call when
// idle.
func (c *Controller) PointerUp() {
	if c.wallsLocked {
		c.wallsLocked = false
		s := c.scene()
		c.opts.AfterFunc(c.opts.WallReenableDelay, func() {
			s.SetWallsInteractive(true)
			s.RequestRender()
		})
	}
	if c.state == Idle {
		return
	}

	cam := c.cam
	debug.Drag(cam.ID, c.state.String(), Idle.String())
	c.state = Idle
	c.cam = nil

	c.engine.RefreshHandles(cam)
	if c.opts.Panel != nil {
		c.opts.Panel.OpenDeviceProperties(cam)
	}
}
