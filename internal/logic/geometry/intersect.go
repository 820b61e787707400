package geometry

import "math"

// parallelEpsilon is the determinant magnitude under which two segments
// are treated as parallel.
const parallelEpsilon = 1e-10

// LineIntersect returns the intersection of segments p1-p2 and p3-p4.
// ok is false when the segments are parallel or the crossing lies outside
// [0, 1] on either segment.
func LineIntersect(p1, p2, p3, p4 Point) (Point, bool) {
	det := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(det) < parallelEpsilon {
		return Point{}, false
	}

	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / det
	u := -((p1.X-p2.X)*(p1.Y-p3.Y) - (p1.Y-p2.Y)*(p1.X-p3.X)) / det
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}

	return Point{
		X: p1.X + t*(p2.X-p1.X),
		Y: p1.Y + t*(p2.Y-p1.Y),
	}, true
}

// CastRay returns the end of the ray from center to end after clamping it
// to the closest wall it crosses, and the resulting distance from center.
func CastRay(walls []Segment, center, end Point) (Point, float64) {
	hit := end
	best := Dist(center, end)
	for _, w := range walls {
		p, ok := LineIntersect(center, end, w.A, w.B)
		if !ok {
			continue
		}
		if d := Dist(center, p); d < best {
			best = d
			hit = p
		}
	}
	return hit, best
}
