package geometry

import "math"

// FullCircleDeg is the span at or above which coverage is treated as a
// closed ring.
const FullCircleDeg = 359.9

// AngleDiff returns the clockwise span from start to end in (0, 360].
// A difference of exactly 0 is a full circle, never an empty wedge.
func AngleDiff(start, end float64) float64 {
	d := math.Mod(end-start+360, 360)
	if d < 0 {
		d += 360
	}
	if d == 0 {
		return 360
	}
	return d
}

// NormalizeDeg wraps an angle to [0, 360).
func NormalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// PointerAngle returns the angle in degrees [0, 360) from center to p.
func PointerAngle(center, p Point) float64 {
	return NormalizeDeg(math.Atan2(p.Y-center.Y, p.X-center.X) * 180.0 / math.Pi)
}

// SignedDelta returns the shortest signed rotation from a to b, in (-180, 180].
func SignedDelta(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

// IsFullCircle reports whether the span from start to end is a closed ring.
func IsFullCircle(start, end float64) bool {
	return AngleDiff(start, end) >= FullCircleDeg
}
