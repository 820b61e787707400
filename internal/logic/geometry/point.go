package geometry

import "math"

// Point is a position on the plan, in plan pixels. Y grows downward, so
// increasing angles turn clockwise on screen.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a straight wall between two endpoints.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dist returns the Euclidean distance between p and q.
func Dist(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Polar returns the point at angleDeg and distance r from center.
func Polar(center Point, angleDeg, r float64) Point {
	rad := angleDeg * math.Pi / 180.0
	return Point{
		X: center.X + math.Cos(rad)*r,
		Y: center.Y + math.Sin(rad)*r,
	}
}

// Normalize returns the unit vector of (x, y). A zero-length input is
// divided by 1 instead of 0, so (0, 0) comes back as (0, 0) and never NaN.
func Normalize(x, y float64) Point {
	l := math.Hypot(x, y)
	if l == 0 {
		l = 1
	}
	return Point{X: x / l, Y: y / l}
}
