package plan

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/scene"
)

// AddWall draws a wall from a to b. An empty id gets a fresh one.
func (p *Plan) AddWall(id string, a, b geometry.Point) *scene.Wall {
	if id == "" {
		id = uuid.NewString()
	}
	w := &scene.Wall{ID: id, Seg: geometry.Segment{A: a, B: b}, Selectable: true}
	p.walls = append(p.walls, w)
	p.scene.Add(w)
	return w
}

// RemoveWall deletes a wall.
func (p *Plan) RemoveWall(id string) error {
	for i, w := range p.walls {
		if w.ID == id {
			p.walls = append(p.walls[:i], p.walls[i+1:]...)
			p.scene.Remove(w)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownWall, id)
}

// Walls returns every wall.
func (p *Plan) Walls() []*scene.Wall {
	out := make([]*scene.Wall, len(p.walls))
	copy(out, p.walls)
	return out
}

// WallSegments returns the current wall set as segments.
func (p *Plan) WallSegments() []geometry.Segment {
	out := make([]geometry.Segment, len(p.walls))
	for i, w := range p.walls {
		out[i] = w.Seg
	}
	return out
}
