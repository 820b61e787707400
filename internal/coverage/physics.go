package coverage

import (
	"math"

	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/logic/optics"
	"github.com/cjeanneret/coverplan/internal/logic/projection"
)

// ApplyPhysics derives Radius and MinRange (pixels) from the mounting
// height, tilt and side FOV. The configured MaxRange is clamped to the
// farthest floor point the camera can see. A camera with no height keeps
// its full MaxRange and no dead zone.
func ApplyPhysics(c *Config, pixelsPerMeter float64) projection.Ranges {
	if c.CameraHeight <= 0 {
		c.Radius = c.MaxRange * pixelsPerMeter
		c.MinRange = 0
		return projection.Ranges{MaxDist: c.MaxRange}
	}

	r := projection.GroundRanges(c.CameraHeight, c.CameraTilt, c.SideFOV)
	c.Radius = math.Min(c.MaxRange, r.MaxDist) * pixelsPerMeter
	c.MinRange = math.Max(0, r.MinRange) * pixelsPerMeter
	return r
}

// ApplyOptics recomputes the wedge span and side FOV from the focal
// length and sensor, keeping the wedge centred where it was. It reports
// false, leaving c untouched, when there is no usable optics data.
func ApplyOptics(c *Config) bool {
	angles, ok := optics.CameraAngles(c.FocalLength, c.SensorSize, c.AspectRatioMode)
	if !ok || angles.PlanDeg <= 0 {
		return false
	}

	mid := c.StartAngle + c.Span()/2
	half := float64(angles.PlanDeg) / 2
	c.StartAngle = geometry.NormalizeDeg(mid - half)
	c.EndAngle = geometry.NormalizeDeg(mid + half)
	c.SideFOV = angles.SideDeg
	return true
}

// Dori returns the DORI distances for the current resolution and span.
func (c *Config) Dori() (optics.Dori, bool) {
	return optics.DoriDistances(c.Resolution, c.AspectRatioMode, c.Span())
}
