package scene

import (
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
)

// Memory is an in-memory Scene. It is not safe for concurrent use.
type Memory struct {
	objects []Shape

	// Zoom and Pan map scene coordinates to pointer coordinates:
	// pointer = scene*Zoom + Pan.
	Zoom float64
	Pan  geometry.Point

	renders          int
	wallsInteractive bool
}

// NewMemory creates an empty scene at zoom 1.
func NewMemory() *Memory {
	return &Memory{Zoom: 1, wallsInteractive: true}
}

func (m *Memory) Objects() []Shape {
	out := make([]Shape, len(m.objects))
	copy(out, m.objects)
	return out
}

func (m *Memory) indexOf(s Shape) int {
	for i, o := range m.objects {
		if o == s {
			return i
		}
	}
	return -1
}

func (m *Memory) Add(s Shape) {
	m.objects = append(m.objects, s)
}

func (m *Memory) Remove(s Shape) {
	if i := m.indexOf(s); i >= 0 {
		m.objects = append(m.objects[:i], m.objects[i+1:]...)
	}
}

func (m *Memory) InsertBehind(owner, s Shape) {
	i := m.indexOf(owner)
	if i < 0 {
		m.Add(s)
		return
	}
	m.objects = append(m.objects, nil)
	copy(m.objects[i+1:], m.objects[i:])
	m.objects[i] = s
}

func (m *Memory) ToScene(p geometry.Point) geometry.Point {
	z := m.Zoom
	if z == 0 {
		z = 1
	}
	return p.Sub(m.Pan).Scale(1 / z)
}

func (m *Memory) RequestRender() { m.renders++ }

// Renders returns how many repaints were requested.
func (m *Memory) Renders() int { return m.renders }

func (m *Memory) SetWallsInteractive(on bool) {
	m.wallsInteractive = on
	for _, o := range m.objects {
		if w, ok := o.(*Wall); ok {
			w.Selectable = on
		}
	}
}

// WallsInteractive reports the last value passed to SetWallsInteractive.
func (m *Memory) WallsInteractive() bool { return m.wallsInteractive }

// IndexOf returns the depth of s, or -1.
func (m *Memory) IndexOf(s Shape) int { return m.indexOf(s) }
