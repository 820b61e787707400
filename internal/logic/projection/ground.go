// Package projection converts a camera's mounting height, tilt and
// vertical field of view into the stretch of floor it can see.
package projection

import "math"

// Unbounded is the far distance, in metres, reported when the top edge of
// the field of view is level or points upward.
const Unbounded = 10000.0

// flatTan is the tangent magnitude under which the bottom edge of the
// field of view is treated as level.
const flatTan = 1e-10

// Ranges is the visible stretch of floor in front of a camera, in metres.
type Ranges struct {
	// MinRange is the dead zone at the foot of the camera. It is negative
	// when the bottom edge of the view points above the horizon, i.e. the
	// near boundary lies behind the pole.
	MinRange float64 `json:"min_range"`
	// MaxDist is where the top edge of the view meets the floor.
	MaxDist float64 `json:"max_dist"`
	// Unbounded is true when MaxDist is the Unbounded sentinel.
	Unbounded bool `json:"unbounded"`
}

func rad(deg float64) float64 { return deg * math.Pi / 180.0 }

// GroundRanges calculates the floor coverage of a camera mounted at
// heightM metres, tilted tiltDeg below the horizon, with a vertical field
// of view of vfovDeg.
// Formula: distance = height / tan(edge angle)
func GroundRanges(heightM, tiltDeg, vfovDeg float64) Ranges {
	half := vfovDeg / 2
	var r Ranges

	if top := tiltDeg - half; top > 0 {
		r.MaxDist = heightM / math.Tan(rad(top))
	} else {
		r.MaxDist = Unbounded
		r.Unbounded = true
	}

	bottom := tiltDeg + half
	switch t := math.Tan(rad(bottom)); {
	case bottom >= 90:
		r.MinRange = 0
	case math.Abs(t) < flatTan:
		r.MinRange = math.Copysign(Unbounded, t)
	default:
		r.MinRange = heightM / t
	}
	return r
}
