package optics

import (
	"math"
)

// FOV is a pair of field-of-view angles in degrees.
type FOV struct {
	HorizontalDeg float64 `json:"horizontal_deg"`
	VerticalDeg   float64 `json:"vertical_deg"`
}

// Angles maps a lens field of view onto the two drawings: the plan view
// (top-down wedge) and the side view (height diagram).
type Angles struct {
	PlanDeg int     `json:"plan_deg"`
	SideDeg float64 `json:"side_deg"`
}

// fovDeg calculates a field of view angle in degrees.
// Formula: FOV = 2 × arctan(dimension / (2 × focal_length))
func fovDeg(dimensionMm, focalLengthMm float64) float64 {
	return 2.0 * math.Atan(dimensionMm/(2.0*focalLengthMm)) * 180.0 / math.Pi
}

// FieldOfView calculates the horizontal and vertical field of view for a
// lens on the given sensor format. ok is false for a non-positive focal
// length or an unknown sensor label.
func FieldOfView(focalLengthMm float64, sensorLabel string) (FOV, bool) {
	if !(focalLengthMm > 0) {
		return FOV{}, false
	}
	s, ok := LookupSensor(sensorLabel)
	if !ok {
		return FOV{}, false
	}
	return FOV{
		HorizontalDeg: fovDeg(s.WidthMm, focalLengthMm),
		VerticalDeg:   fovDeg(s.HeightMm, focalLengthMm),
	}, true
}

// CameraAngles picks which field of view drives each drawing. In aspect
// ratio (corridor) mode the sensor is rotated, so the plan view uses the
// vertical FOV and the side view the horizontal one.
// PlanDeg is rounded to a whole degree.
func CameraAngles(focalLengthMm float64, sensorLabel string, aspectRatioMode bool) (Angles, bool) {
	fov, ok := FieldOfView(focalLengthMm, sensorLabel)
	if !ok {
		return Angles{}, false
	}
	plan, side := fov.HorizontalDeg, fov.VerticalDeg
	if aspectRatioMode {
		plan, side = fov.VerticalDeg, fov.HorizontalDeg
	}
	return Angles{
		PlanDeg: int(math.Round(plan)),
		SideDeg: side,
	}, true
}
