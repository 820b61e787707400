package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/scene"
)

func newPlan() (*Plan, *scene.Memory) {
	s := scene.NewMemory()
	return New(s, DefaultsRegistry{IconSize: 24, Coverage: coverage.StandardDefaults()}, 17.5), s
}

func TestAddCamera_IconInScene(t *testing.T) {
	p, s := newPlan()
	c := p.AddCamera("", "Entrance", geometry.Point{X: 10, Y: 20}, nil)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, KindCamera, c.Kind())
	assert.Equal(t, 24.0, c.Icon.Size)
	assert.Equal(t, 0, s.IndexOf(c.Icon))
	assert.Nil(t, c.Coverage)
}

func TestCamera_WrongKind(t *testing.T) {
	p, _ := newPlan()
	l := p.AddLabel("", "Lobby", geometry.Point{})

	_, err := p.Camera(l.ID)
	assert.True(t, errors.Is(err, ErrNotCamera))

	_, err = p.Camera("missing")
	assert.True(t, errors.Is(err, ErrUnknownDevice))
}

func TestCameras_OnlyCameras(t *testing.T) {
	p, _ := newPlan()
	p.AddSensor("", SensorFire, geometry.Point{})
	c := p.AddCamera("cam-1", "", geometry.Point{}, nil)
	p.AddLabel("", "x", geometry.Point{})

	cams := p.Cameras()
	require.Len(t, cams, 1)
	assert.Same(t, c, cams[0])
	assert.Len(t, p.Devices(), 3)
}

func TestRemoveDevice_DropsCoverageShapes(t *testing.T) {
	p, s := newPlan()
	c := p.AddCamera("cam-1", "", geometry.Point{}, nil)
	c.Area = &scene.CoverageArea{ID: "area-cam-1"}
	s.InsertBehind(c.Icon, c.Area)
	c.Handles = []*scene.Handle{{ID: "h1"}}
	s.Add(c.Handles[0])

	require.NoError(t, p.RemoveDevice("cam-1"))
	assert.Empty(t, s.Objects())
	assert.Empty(t, p.Devices())
	assert.True(t, errors.Is(p.RemoveDevice("cam-1"), ErrUnknownDevice))
}

func TestWalls_Segments(t *testing.T) {
	p, _ := newPlan()
	w := p.AddWall("", geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0})
	p.AddWall("w2", geometry.Point{X: 0, Y: 5}, geometry.Point{X: 10, Y: 5})

	segs := p.WallSegments()
	require.Len(t, segs, 2)
	assert.Equal(t, geometry.Point{X: 10, Y: 0}, segs[0].B)

	require.NoError(t, p.RemoveWall(w.ID))
	assert.Len(t, p.WallSegments(), 1)
	assert.True(t, errors.Is(p.RemoveWall(w.ID), ErrUnknownWall))
}

func TestSelect_Exclusive(t *testing.T) {
	p, _ := newPlan()
	a := p.AddCamera("a", "", geometry.Point{}, nil)
	b := p.AddCamera("b", "", geometry.Point{}, nil)

	assert.Equal(t, []*Camera{a}, p.Select("a"))
	assert.True(t, a.Selected)
	assert.ElementsMatch(t, []*Camera{a, b}, p.Select("b"))
	assert.False(t, a.Selected)
	assert.Same(t, b, p.Selected())
	assert.Empty(t, p.Select("b"))
	assert.Equal(t, []*Camera{b}, p.Select(""))
	assert.Nil(t, p.Selected())
}

func TestBulk_InvalidatesCameras(t *testing.T) {
	p, _ := newPlan()
	c := p.AddCamera("a", "", geometry.Point{}, nil)
	cfg := coverage.Resolve(nil, p.Defaults.Coverage, p.PixelsPerMeter)
	c.Coverage = &cfg
	c.StateHash = "stale"

	p.SetLayerOpacity(0.5)
	assert.Empty(t, c.StateHash)
	assert.Equal(t, 0.5, c.Coverage.Opacity)
	assert.Equal(t, 0.5, c.Coverage.FillColor.A)
	assert.Equal(t, 0.5, p.Defaults.Coverage.Opacity)

	c.StateHash = "stale"
	p.SetCoverageColor(coverage.RGB(255, 0, 0))
	assert.Empty(t, c.StateHash)
	assert.Equal(t, "rgba(255, 0, 0, 0.5)", c.Coverage.FillColor.CSS())

	c.StateHash = "stale"
	p.SetIconSize(40)
	assert.Empty(t, c.StateHash)
	assert.Equal(t, 40.0, c.Icon.Size)
}

func TestMoveDevice(t *testing.T) {
	p, _ := newPlan()
	s := p.AddSensor("", SensorIntruder, geometry.Point{})
	require.NoError(t, p.MoveDevice(s.ID, geometry.Point{X: 3, Y: 4}))
	assert.Equal(t, geometry.Point{X: 3, Y: 4}, s.Position())
	assert.Equal(t, geometry.Point{X: 3, Y: 4}, s.Icon.Pos)
}
