// Package render keeps each camera's drawn coverage in step with its
// configuration: one-time defaulting, physics, optics, the hash-gated
// rebuild and the three edit handles.
package render

import (
	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/debug"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/plan"
	"github.com/cjeanneret/coverplan/internal/scene"
)

// Engine draws camera coverage into the scene of a plan.
type Engine struct {
	plan   *plan.Plan
	caster *geometry.Caster

	// Rebuilds counts coverage shapes inserted into the scene.
	Rebuilds int
}

// NewEngine creates an engine for p using the given rectangular
// projection tuning.
func NewEngine(p *plan.Plan, tuning geometry.RectTuning) *Engine {
	return &Engine{plan: p, caster: geometry.NewCaster(tuning)}
}

// Plan returns the plan the engine draws.
func (e *Engine) Plan() *plan.Plan { return e.plan }

// Caster returns the ray caster shared with handle placement.
func (e *Engine) Caster() *geometry.Caster { return e.caster }

// InitConfig gives the camera its coverage configuration the first time
// it is used. Fields saved with the camera are kept; only unset ones get
// the plan defaults. Calling it again does nothing.
func (e *Engine) InitConfig(cam *plan.Camera) {
	if cam.Coverage != nil && cam.Coverage.IsInitialized {
		return
	}
	cfg := coverage.Resolve(cam.Saved, e.plan.Defaults.Coverage, e.plan.PixelsPerMeter)
	cam.Coverage = &cfg
	cam.Saved = nil
	cam.Invalidate()
	debug.Verbose("camera %s initialised: span=%.1f° range=%.1fm", cam.ID, cfg.Span(), cfg.MaxRange)
}

// ApplyPhysics rederives the far radius and dead zone of the camera from
// its mounting height, tilt and side FOV.
func (e *Engine) ApplyPhysics(cam *plan.Camera) {
	e.InitConfig(cam)
	r := coverage.ApplyPhysics(cam.Coverage, e.plan.PixelsPerMeter)
	debug.Verbose("camera %s physics: min=%.2fm max=%.2fm unbounded=%v radius=%.1fpx",
		cam.ID, r.MinRange, r.MaxDist, r.Unbounded, cam.Coverage.Radius)
}

// UpdateFromOpticalSpecs recomputes the wedge span and side FOV from the
// focal length and sensor, then forces a rebuild. Without usable optics
// data the camera is left as is.
func (e *Engine) UpdateFromOpticalSpecs(cam *plan.Camera) {
	e.InitConfig(cam)
	if !coverage.ApplyOptics(cam.Coverage) {
		debug.Verbose("camera %s: no optics data (focal=%.2f sensor=%q)",
			cam.ID, cam.Coverage.FocalLength, cam.Coverage.SensorSize)
		return
	}
	cam.Invalidate()
	e.RecomputeCoverage(cam, true)
}

// RecomputeCoverage brings the drawn coverage of cam up to date. Unless
// force is set, nothing is rebuilt when the state hash is unchanged. It
// reports whether the shape was rebuilt.
func (e *Engine) RecomputeCoverage(cam *plan.Camera, force bool) bool {
	e.InitConfig(cam)
	cfg := cam.Coverage
	coverage.ApplyPhysics(cfg, e.plan.PixelsPerMeter)

	hash := coverage.StateHash(cam.Pos, cfg)
	if !force && hash == cam.StateHash {
		debug.Trace("camera %s: coverage unchanged", cam.ID)
		e.placeHandles(cam)
		return false
	}
	cam.StateHash = hash

	s := e.plan.Scene()
	if cam.Area != nil {
		s.Remove(cam.Area)
		cam.Area = nil
	}

	if cfg.Visible && cfg.Valid() {
		var layers []scene.Layer
		if cfg.DoriEnabled {
			layers = e.doriLayers(cam)
		} else {
			layers = e.singleLayer(cam)
		}
		if len(layers) > 0 {
			cam.Area = &scene.CoverageArea{
				ID:       "coverage-" + cam.ID,
				CameraID: cam.ID,
				Layers:   layers,
			}
			s.InsertBehind(cam.Icon, cam.Area)
			e.Rebuilds++
			debug.Rebuild(cam.ID, len(layers))
		} else {
			debug.Verbose("camera %s: nothing to draw", cam.ID)
		}
	} else {
		debug.Verbose("camera %s: no coverage (visible=%v radius=%.1f min=%.1f)",
			cam.ID, cfg.Visible, cfg.Radius, cfg.MinRange)
	}

	e.placeHandles(cam)
	s.RequestRender()
	return true
}

// RecomputeAll recomputes every camera on the plan and returns how many
// were rebuilt.
func (e *Engine) RecomputeAll(force bool) int {
	n := 0
	for _, cam := range e.plan.Cameras() {
		if e.RecomputeCoverage(cam, force) {
			n++
		}
	}
	return n
}

// WallsChanged rebuilds every camera after the wall set was edited. Walls
// are not part of the state hash.
func (e *Engine) WallsChanged() int {
	return e.RecomputeAll(true)
}
