package geometry

import "math"

const (
	fullCircleRays = 90
	minWedgeRays   = 16
	degPerRay      = 3.0

	// minRadiusEpsilon is the dead-zone radius below which a wedge closes
	// on its centre instead of on an inner arc.
	minRadiusEpsilon = 0.01
)

// RectTuning holds the thresholds of the rectangular projection. Rays are
// stretched by 1/cos(offset) only when the span is under MaxSpanDeg, the
// offset from the mid angle is under MaxOffsetRad and |cos| is over MinCos.
type RectTuning struct {
	MaxSpanDeg   float64 `yaml:"max_span_deg" json:"max_span_deg"`
	MaxOffsetRad float64 `yaml:"max_offset_rad" json:"max_offset_rad"`
	MinCos       float64 `yaml:"min_cos" json:"min_cos"`
}

// DefaultRectTuning returns the visually tuned rectangular thresholds.
func DefaultRectTuning() RectTuning {
	return RectTuning{
		MaxSpanDeg:   170,
		MaxOffsetRad: 1.4,
		MinCos:       0.1,
	}
}

// Caster builds occluded coverage polygons.
type Caster struct {
	Tuning RectTuning
}

// NewCaster creates a caster with the given rectangular tuning.
func NewCaster(t RectTuning) *Caster {
	return &Caster{Tuning: t}
}

// RayRadius returns the radius of the ray at angleDeg for a wedge spanning
// startDeg to endDeg. Circular wedges and wide rectangular wedges return
// radius unchanged.
func (c *Caster) RayRadius(radius, angleDeg, startDeg, endDeg float64, mode Projection) float64 {
	if mode != Rectangular {
		return radius
	}
	span := AngleDiff(startDeg, endDeg)
	if span >= c.Tuning.MaxSpanDeg {
		return radius
	}
	mid := startDeg + span/2
	diff := SignedDelta(mid, angleDeg) * math.Pi / 180.0
	if math.Abs(diff) >= c.Tuning.MaxOffsetRad {
		return radius
	}
	cos := math.Cos(diff)
	if math.Abs(cos) <= c.Tuning.MinCos {
		return radius
	}
	return radius / cos
}

// RayAngles returns the sample angles for a wedge. A full circle yields 90
// angles around the ring; any other span yields max(ceil(span/3), 16)
// segments, both edges included.
func RayAngles(startDeg, endDeg float64) []float64 {
	span := AngleDiff(startDeg, endDeg)
	if span >= FullCircleDeg {
		out := make([]float64, fullCircleRays)
		step := 360.0 / fullCircleRays
		for i := range out {
			out[i] = startDeg + float64(i)*step
		}
		return out
	}

	n := int(math.Ceil(span / degPerRay))
	if n < minWedgeRays {
		n = minWedgeRays
	}
	out := make([]float64, n+1)
	for i := range out {
		out[i] = startDeg + span*float64(i)/float64(n)
	}
	return out
}

// Polygon returns the ordered outline of the area visible from center
// between startDeg and endDeg, out to maxRadius, with every ray cut at the
// nearest wall. A wedge closes on center when minRadius is ~0 and on an
// inner arc at minRadius otherwise; the inner arc never reaches past the
// wall that already stopped the outer ray. A full circle is a closed ring
// with no closing point. A non-positive maxRadius yields nil.
func (c *Caster) Polygon(walls []Segment, center Point, startDeg, endDeg, maxRadius, minRadius float64, mode Projection) []Point {
	if !(maxRadius > 0) {
		return nil
	}

	angles := RayAngles(startDeg, endDeg)
	full := IsFullCircle(startDeg, endDeg)

	points := make([]Point, 0, 2*len(angles))
	reach := make([]float64, len(angles))
	for i, a := range angles {
		r := c.RayRadius(maxRadius, a, startDeg, endDeg, mode)
		p, d := CastRay(walls, center, Polar(center, a, r))
		reach[i] = d
		points = append(points, p)
	}

	if full {
		return points
	}

	if minRadius < minRadiusEpsilon {
		return append(points, center)
	}

	for i := len(angles) - 1; i >= 0; i-- {
		a := angles[i]
		r := c.RayRadius(minRadius, a, startDeg, endDeg, mode)
		if r > reach[i] {
			r = reach[i]
		}
		points = append(points, Polar(center, a, r))
	}
	return points
}

// BuildCoveragePolygon is Polygon with the default rectangular tuning.
func BuildCoveragePolygon(walls []Segment, center Point, startDeg, endDeg, maxRadius, minRadius float64, mode Projection) []Point {
	return NewCaster(DefaultRectTuning()).Polygon(walls, center, startDeg, endDeg, maxRadius, minRadius, mode)
}
