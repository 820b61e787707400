package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/logic/optics"
	"github.com/cjeanneret/coverplan/internal/plan"
	"github.com/cjeanneret/coverplan/internal/scene"
)

const epsilon = 1e-6

func ptr[T any](v T) *T { return &v }

func newEngine() (*Engine, *plan.Plan, *scene.Memory) {
	s := scene.NewMemory()
	p := plan.New(s, plan.DefaultsRegistry{IconSize: 24, Coverage: coverage.StandardDefaults()}, 17.5)
	return NewEngine(p, geometry.DefaultRectTuning()), p, s
}

func TestInitConfig_Idempotent(t *testing.T) {
	e, p, _ := newEngine()
	cam := p.AddCamera("cam", "", geometry.Point{}, &coverage.Record{StartAngle: ptr(10.0)})

	e.InitConfig(cam)
	require.NotNil(t, cam.Coverage)
	assert.Equal(t, 10.0, cam.Coverage.StartAngle)
	assert.Equal(t, 0.0, cam.Coverage.EndAngle)

	cam.Coverage.StartAngle = 42
	e.InitConfig(cam)
	assert.Equal(t, 42.0, cam.Coverage.StartAngle)
}

// Camera at the origin looking 270..0 with 10 m range, mounted 3 m high
// at 45° tilt and 90° side FOV: no dead zone, far edge unbounded.
func TestRecompute_EndToEndPieSlice(t *testing.T) {
	e, p, s := newEngine()
	cam := p.AddCamera("cam", "", geometry.Point{}, &coverage.Record{
		StartAngle:   ptr(270.0),
		EndAngle:     ptr(0.0),
		MaxRange:     ptr(10.0),
		CameraHeight: ptr(3.0),
		CameraTilt:   ptr(45.0),
		SideFOV:      ptr(90.0),
	})

	require.True(t, e.RecomputeCoverage(cam, false))
	assert.InDelta(t, 175.0, cam.Coverage.Radius, epsilon)
	assert.Equal(t, 0.0, cam.Coverage.MinRange)

	require.NotNil(t, cam.Area)
	require.Len(t, cam.Area.Layers, 1)
	pts := cam.Area.Layers[0].Points

	// 30 sectors of 3° plus the centre
	require.Len(t, pts, 32)
	for i, pt := range pts[:31] {
		assert.InDelta(t, 175.0, geometry.Dist(pt, geometry.Point{}), 1e-9, "point %d", i)
	}
	assert.InDelta(t, 270.0, geometry.PointerAngle(geometry.Point{}, pts[0]), 1e-9)
	assert.InDelta(t, 0.0, geometry.Dist(pts[30], geometry.Point{X: 175}), 1e-9)
	assert.Equal(t, geometry.Point{}, pts[31])

	// behind the icon
	assert.Equal(t, s.IndexOf(cam.Icon)-1, s.IndexOf(cam.Area))
}

func TestRecompute_HashGate(t *testing.T) {
	e, p, s := newEngine()
	cam := p.AddCamera("cam", "Door", geometry.Point{X: 50, Y: 50}, nil)

	require.True(t, e.RecomputeCoverage(cam, false))
	assert.Equal(t, 1, e.Rebuilds)
	first := cam.Area
	renders := s.Renders()

	// not part of the drawn state
	cam.Name = "Back door"
	cam.Coverage.Resolution = "8MP"
	cam.Coverage.LockDistanceOnRotate = true
	assert.False(t, e.RecomputeCoverage(cam, false))
	assert.Equal(t, 1, e.Rebuilds)
	assert.Same(t, first, cam.Area)
	assert.Equal(t, renders, s.Renders())

	cam.Coverage.StartAngle = 300
	assert.True(t, e.RecomputeCoverage(cam, false))
	assert.Equal(t, 2, e.Rebuilds)
	assert.NotSame(t, first, cam.Area)
	assert.Equal(t, -1, s.IndexOf(first))

	assert.False(t, e.RecomputeCoverage(cam, false))
	assert.Equal(t, 2, e.Rebuilds)
}

func TestRecompute_InvalidateForcesRebuild(t *testing.T) {
	e, p, _ := newEngine()
	cam := p.AddCamera("cam", "", geometry.Point{}, nil)
	e.RecomputeCoverage(cam, false)

	p.SetIconSize(48)
	assert.Equal(t, 1, e.RecomputeAll(false))
	assert.Equal(t, 2, e.Rebuilds)
}

func TestRecompute_DegenerateSkipped(t *testing.T) {
	e, p, s := newEngine()
	cam := p.AddCamera("cam", "", geometry.Point{}, &coverage.Record{
		MaxRange:     ptr(0.0),
		CameraHeight: ptr(0.0),
	})

	e.RecomputeCoverage(cam, false)
	assert.Nil(t, cam.Area)
	assert.Equal(t, 0, e.Rebuilds)
	for _, o := range s.Objects() {
		_, isArea := o.(*scene.CoverageArea)
		assert.False(t, isArea)
	}
}

func TestRecompute_HiddenRemovesArea(t *testing.T) {
	e, p, _ := newEngine()
	cam := p.AddCamera("cam", "", geometry.Point{}, nil)
	e.RecomputeCoverage(cam, false)
	require.NotNil(t, cam.Area)

	cam.Coverage.Visible = false
	assert.True(t, e.RecomputeCoverage(cam, false))
	assert.Nil(t, cam.Area)
}

func TestRecompute_WallsNeedForce(t *testing.T) {
	e, p, _ := newEngine()
	cam := p.AddCamera("cam", "", geometry.Point{}, &coverage.Record{
		StartAngle:   ptr(350.0),
		EndAngle:     ptr(10.0),
		MaxRange:     ptr(10.0),
		CameraHeight: ptr(0.0),
	})
	e.RecomputeCoverage(cam, false)

	p.AddWall("", geometry.Point{X: 50, Y: -100}, geometry.Point{X: 50, Y: 100})
	assert.Equal(t, 1, e.WallsChanged())

	far := 0.0
	for _, pt := range cam.Area.Layers[0].Points {
		far = math.Max(far, pt.X)
	}
	assert.InDelta(t, 50.0, far, 1e-9)
}

func TestRecompute_DoriBands(t *testing.T) {
	e, p, _ := newEngine()
	cam := p.AddCamera("cam", "", geometry.Point{}, &coverage.Record{
		StartAngle:   ptr(0.0),
		EndAngle:     ptr(90.0),
		MaxRange:     ptr(40.0),
		CameraHeight: ptr(0.0),
		Resolution:   ptr("1920x1080"),
		DoriEnabled:  ptr(true),
	})

	require.True(t, e.RecomputeCoverage(cam, false))
	require.NotNil(t, cam.Area)
	require.Len(t, cam.Area.Layers, 4)

	names := make([]string, 4)
	for i, l := range cam.Area.Layers {
		names[i] = l.Name
	}
	assert.Equal(t, []string{"detection", "observation", "recognition", "identification"}, names)

	// 1920 / (2 * 250 * tan 45°) = 3.84 m
	last := cam.Area.Layers[3].Points
	assert.InDelta(t, 3.84*17.5, geometry.Dist(last[0], geometry.Point{}), 1e-6)
}

func TestRecompute_DoriBandsStopAtVisibleFloor(t *testing.T) {
	e, p, _ := newEngine()
	cam := p.AddCamera("cam", "", geometry.Point{}, &coverage.Record{
		StartAngle:   ptr(0.0),
		EndAngle:     ptr(90.0),
		MaxRange:     ptr(40.0),
		CameraHeight: ptr(3.0),
		CameraTilt:   ptr(30.0),
		SideFOV:      ptr(20.0),
		Resolution:   ptr("1920x1080"),
		DoriEnabled:  ptr(true),
	})

	require.True(t, e.RecomputeCoverage(cam, false))
	require.NotNil(t, cam.Area)
	require.Len(t, cam.Area.Layers, 4)

	// top edge at 20° below the horizon: 3 / tan 20° = 8.24 m, short of 40 m
	radius := 3 / math.Tan(20*math.Pi/180) * 17.5
	assert.InDelta(t, radius, cam.Coverage.Radius, epsilon)
	assert.Less(t, cam.Coverage.Radius, 40*17.5)

	assert.InDelta(t, radius, geometry.Dist(cam.Area.Layers[0].Points[0], geometry.Point{}), epsilon)
	for _, l := range cam.Area.Layers {
		for _, pt := range l.Points {
			assert.LessOrEqual(t, geometry.Dist(pt, geometry.Point{}), radius+epsilon, "layer %s", l.Name)
		}
	}
}

func TestRecompute_DoriUnparseableDrawsNothing(t *testing.T) {
	e, p, _ := newEngine()
	cam := p.AddCamera("cam", "", geometry.Point{}, &coverage.Record{
		Resolution:  ptr("potato"),
		DoriEnabled: ptr(true),
	})

	assert.True(t, e.RecomputeCoverage(cam, false))
	assert.Nil(t, cam.Area)
	assert.Equal(t, 0, e.Rebuilds)
}

func TestOrderBands_ReversedInput(t *testing.T) {
	zones := []optics.Zone{
		{Name: "identification", Distance: 40},
		{Name: "recognition", Distance: 30},
		{Name: "observation", Distance: 5},
		{Name: "detection", Distance: 1},
	}
	// reverse so the natural order is ascending
	for i, j := 0, len(zones)-1; i < j; i, j = i+1, j-1 {
		zones[i], zones[j] = zones[j], zones[i]
	}

	bands := bandsFor(zones, 10, 1000, 0)
	require.Len(t, bands, 4)
	for i := 1; i < len(bands); i++ {
		assert.GreaterOrEqual(t, bands[i-1].radius, bands[i].radius)
	}
	assert.Equal(t, "identification", bands[0].zone.Name)
}

func TestBandsFor_ClipAndDeadZone(t *testing.T) {
	zones := []optics.Zone{
		{Name: "detection", Distance: 100},
		{Name: "observation", Distance: 20},
		{Name: "recognition", Distance: 2},
		{Name: "identification", Distance: 0},
	}
	bands := bandsFor(zones, 10, 300, 50)
	require.Len(t, bands, 2)
	assert.Equal(t, 300.0, bands[0].radius)
	assert.Equal(t, 200.0, bands[1].radius)
}

func TestUpdateFromOpticalSpecs(t *testing.T) {
	e, p, _ := newEngine()
	cam := p.AddCamera("cam", "", geometry.Point{}, &coverage.Record{
		StartAngle:  ptr(0.0),
		EndAngle:    ptr(90.0),
		FocalLength: ptr(4.0),
		SensorSize:  ptr("1/2.8"),
	})
	e.InitConfig(cam)
	before := cam.Coverage.Span()

	// 2·atan(5.6 / 8) ≈ 70°
	e.UpdateFromOpticalSpecs(cam)
	assert.NotEqual(t, before, cam.Coverage.Span())
	assert.InDelta(t, 70.0, cam.Coverage.Span(), epsilon)
	assert.InDelta(t, 45.0, cam.Coverage.StartAngle+cam.Coverage.Span()/2, 0.5)
	assert.Equal(t, 1, e.Rebuilds)
}
