package render

import (
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/plan"
	"github.com/cjeanneret/coverplan/internal/scene"
)

// handleOffsetDeg separates the end handle from the start handle when the
// two edges would overlap.
const handleOffsetDeg = 5.0

// HandleAngles returns the start, end and rotate handle angles for a
// wedge.
func HandleAngles(start, end float64) [3]float64 {
	span := geometry.AngleDiff(start, end)
	endAt := end
	if span >= geometry.FullCircleDeg || span <= handleOffsetDeg {
		endAt = start + handleOffsetDeg
	}
	return [3]float64{
		geometry.NormalizeDeg(start),
		geometry.NormalizeDeg(endAt),
		geometry.NormalizeDeg(start + span/2),
	}
}

// placeHandles creates the camera's handles on first use and moves them
// onto the drawn edge. They are shown only for the selected, visible
// camera.
func (e *Engine) placeHandles(cam *plan.Camera) {
	cfg := cam.Coverage
	s := e.plan.Scene()
	if len(cam.Handles) != 3 {
		cam.Handles = make([]*scene.Handle, 3)
		for i, role := range []scene.HandleRole{scene.HandleStart, scene.HandleEnd, scene.HandleRotate} {
			h := &scene.Handle{ID: "handle-" + role.String() + "-" + cam.ID, CameraID: cam.ID, Role: role}
			cam.Handles[i] = h
			s.Add(h)
		}
	}

	angles := HandleAngles(cfg.StartAngle, cfg.EndAngle)
	visible := cam.Selected && cfg.Visible
	for i, h := range cam.Handles {
		r := e.caster.RayRadius(cfg.Radius, angles[i], cfg.StartAngle, cfg.EndAngle, cfg.Projection)
		h.Pos = geometry.Polar(cam.Pos, angles[i], r)
		h.Visible = visible
	}
}

// RefreshHandles re-evaluates handle positions and visibility without
// touching the coverage shape, as after a selection change.
func (e *Engine) RefreshHandles(cam *plan.Camera) {
	e.InitConfig(cam)
	e.placeHandles(cam)
	e.plan.Scene().RequestRender()
}
