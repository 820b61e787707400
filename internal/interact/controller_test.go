package interact

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/plan"
	"github.com/cjeanneret/coverplan/internal/render"
	"github.com/cjeanneret/coverplan/internal/scene"
)

const epsilon = 1e-6

func ptr[T any](v T) *T { return &v }

type fakePanel struct {
	opened []string
}

func (f *fakePanel) OpenDeviceProperties(cam *plan.Camera) {
	f.opened = append(f.opened, cam.ID)
}

type fakeTimer struct {
	delays []time.Duration
	funcs  []func()
}

func (f *fakeTimer) after(d time.Duration, fn func()) {
	f.delays = append(f.delays, d)
	f.funcs = append(f.funcs, fn)
}

type fixture struct {
	ctl   *Controller
	cam   *plan.Camera
	scene *scene.Memory
	plan  *plan.Plan
	panel *fakePanel
	timer *fakeTimer
}

func setup(t *testing.T, rec *coverage.Record) fixture {
	t.Helper()
	s := scene.NewMemory()
	p := plan.New(s, plan.DefaultsRegistry{IconSize: 24, Coverage: coverage.StandardDefaults()}, 17.5)
	e := render.NewEngine(p, geometry.DefaultRectTuning())
	p.AddWall("", geometry.Point{X: -500, Y: -500}, geometry.Point{X: -500, Y: 500})
	cam := p.AddCamera("cam", "", geometry.Point{X: 100, Y: 100}, rec)
	p.Select("cam")
	e.RecomputeCoverage(cam, false)

	f := fixture{scene: s, plan: p, cam: cam, panel: &fakePanel{}, timer: &fakeTimer{}}
	f.ctl = New(e, Options{
		WallReenableDelay: 100 * time.Millisecond,
		AfterFunc:         f.timer.after,
		Panel:             f.panel,
	})
	return f
}

func (f fixture) at(angle, r float64) geometry.Point {
	return geometry.Polar(f.cam.Pos, angle, r)
}

func (f fixture) handle(role scene.HandleRole) *scene.Handle {
	for _, h := range f.cam.Handles {
		if h.Role == role {
			return h
		}
	}
	return nil
}

func TestResizeLeft_WideCollisionJumpsFive(t *testing.T) {
	f := setup(t, &coverage.Record{StartAngle: ptr(90.0), EndAngle: ptr(0.0)})
	require.InDelta(t, 270.0, f.cam.Coverage.Span(), epsilon)

	require.NoError(t, f.ctl.PointerDown(f.cam, f.handle(scene.HandleStart), f.at(90, 50)))
	assert.Equal(t, ResizingLeft, f.ctl.State())

	for _, a := range []float64{60, 30, 10, 2} {
		f.ctl.PointerMove(f.at(a, 50))
		assert.InDelta(t, a, f.cam.Coverage.StartAngle, epsilon)
	}

	f.ctl.PointerMove(f.at(0, 50))
	assert.InDelta(t, 5.0, f.cam.Coverage.StartAngle, epsilon)
	assert.InDelta(t, 355.0, f.cam.Coverage.Span(), epsilon)

	// past the fixed edge stays put
	f.ctl.PointerMove(f.at(358, 50))
	assert.InDelta(t, 5.0, f.cam.Coverage.StartAngle, epsilon)

	f.ctl.PointerMove(f.at(20, 50))
	assert.InDelta(t, 20.0, f.cam.Coverage.StartAngle, epsilon)
}

func TestResizeLeft_NarrowCollisionJumpsOne(t *testing.T) {
	f := setup(t, &coverage.Record{StartAngle: ptr(0.0), EndAngle: ptr(30.0)})

	require.NoError(t, f.ctl.PointerDown(f.cam, f.handle(scene.HandleStart), f.at(0, 50)))
	f.ctl.PointerMove(f.at(20, 50))
	assert.InDelta(t, 20.0, f.cam.Coverage.StartAngle, epsilon)

	f.ctl.PointerMove(f.at(30, 50))
	assert.InDelta(t, 29.0, f.cam.Coverage.StartAngle, epsilon)
	assert.InDelta(t, 1.0, f.cam.Coverage.Span(), epsilon)

	// crossing over the end edge does not flip the wedge
	f.ctl.PointerMove(f.at(35, 50))
	assert.InDelta(t, 29.0, f.cam.Coverage.StartAngle, epsilon)
}

func TestResizeRight_Collisions(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		end      float64
		path     []float64
		wantEnd  float64
		wantSpan float64
	}{
		{"wide", 0, 270, []float64{300, 340, 355, 0}, 355, 355},
		{"narrow", 100, 130, []float64{110, 100}, 101, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, &coverage.Record{StartAngle: ptr(tt.start), EndAngle: ptr(tt.end)})
			require.NoError(t, f.ctl.PointerDown(f.cam, f.handle(scene.HandleEnd), f.at(tt.end, 50)))
			for _, a := range tt.path {
				f.ctl.PointerMove(f.at(a, 50))
			}
			assert.InDelta(t, tt.wantEnd, f.cam.Coverage.EndAngle, epsilon)
			assert.InDelta(t, tt.wantSpan, f.cam.Coverage.Span(), epsilon)
		})
	}
}

func TestResize_LocksWallsUntilDelayedRelease(t *testing.T) {
	f := setup(t, nil)

	require.NoError(t, f.ctl.PointerDown(f.cam, f.handle(scene.HandleEnd), f.at(0, 50)))
	assert.False(t, f.scene.WallsInteractive())
	for _, w := range f.plan.Walls() {
		assert.False(t, w.Selectable)
	}

	f.ctl.PointerUp()
	assert.Equal(t, Idle, f.ctl.State())
	assert.Nil(t, f.ctl.Camera())
	assert.False(t, f.scene.WallsInteractive(), "walls unlocked before the delay")
	require.Len(t, f.timer.funcs, 1)
	assert.Equal(t, 100*time.Millisecond, f.timer.delays[0])

	f.timer.funcs[0]()
	assert.True(t, f.scene.WallsInteractive())
	assert.Equal(t, []string{"cam"}, f.panel.opened)
	for _, h := range f.cam.Handles {
		assert.True(t, h.Visible)
	}
}

func TestPointerUp_IdleIsNoop(t *testing.T) {
	f := setup(t, nil)
	f.ctl.PointerUp()
	assert.Empty(t, f.timer.funcs)
	assert.Empty(t, f.panel.opened)
	assert.False(t, f.ctl.PointerMove(f.at(0, 10)))
}

func TestPointerDown_Busy(t *testing.T) {
	f := setup(t, nil)
	require.NoError(t, f.ctl.PointerDown(f.cam, f.handle(scene.HandleStart), f.at(0, 50)))
	err := f.ctl.PointerDown(f.cam, f.handle(scene.HandleEnd), f.at(0, 50))
	assert.True(t, errors.Is(err, ErrBusy))
	assert.True(t, errors.Is(f.ctl.PointerDown(nil, nil, geometry.Point{}), ErrBusy))
}

func TestRotate_KeepsSpanAndSetsRange(t *testing.T) {
	f := setup(t, &coverage.Record{
		StartAngle:   ptr(0.0),
		EndAngle:     ptr(90.0),
		CameraHeight: ptr(0.0),
	})

	require.NoError(t, f.ctl.PointerDown(f.cam, f.handle(scene.HandleRotate), f.at(45, 100)))
	assert.Equal(t, Rotating, f.ctl.State())
	assert.True(t, f.scene.WallsInteractive())

	f.ctl.PointerMove(f.at(135, 350))
	cfg := f.cam.Coverage
	assert.InDelta(t, 90.0, cfg.StartAngle, epsilon)
	assert.InDelta(t, 180.0, cfg.EndAngle, epsilon)
	assert.InDelta(t, 90.0, cfg.Span(), epsilon)
	assert.InDelta(t, 20.0, cfg.MaxRange, epsilon)
	assert.InDelta(t, 350.0, cfg.Radius, epsilon)

	f.ctl.PointerUp()
	assert.Empty(t, f.timer.funcs)
	assert.Equal(t, []string{"cam"}, f.panel.opened)
}

func TestRotate_RangeClamp(t *testing.T) {
	tests := []struct {
		name string
		dist float64
		want float64
	}{
		{"too close", 5, 1},
		{"too far", 20000, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, &coverage.Record{CameraHeight: ptr(0.0)})
			require.NoError(t, f.ctl.PointerDown(f.cam, f.handle(scene.HandleRotate), f.at(0, 100)))
			f.ctl.PointerMove(f.at(10, tt.dist))
			assert.InDelta(t, tt.want, f.cam.Coverage.MaxRange, epsilon)
		})
	}
}

func TestRotate_LockedDistance(t *testing.T) {
	f := setup(t, &coverage.Record{
		StartAngle:           ptr(0.0),
		EndAngle:             ptr(90.0),
		CameraHeight:         ptr(0.0),
		LockDistanceOnRotate: ptr(true),
	})
	require.NoError(t, f.ctl.PointerDown(f.cam, f.handle(scene.HandleRotate), f.at(45, 100)))
	f.ctl.PointerMove(f.at(65, 900))
	assert.InDelta(t, 15.0, f.cam.Coverage.MaxRange, epsilon)
	assert.InDelta(t, 20.0, f.cam.Coverage.StartAngle, epsilon)
}

func TestPointer_ZoomedScene(t *testing.T) {
	f := setup(t, &coverage.Record{StartAngle: ptr(0.0), EndAngle: ptr(90.0)})
	f.scene.Zoom = 2
	f.scene.Pan = geometry.Point{X: 10, Y: 10}

	toPointer := func(p geometry.Point) geometry.Point { return p.Scale(2).Add(geometry.Point{X: 10, Y: 10}) }
	require.NoError(t, f.ctl.PointerDown(f.cam, f.handle(scene.HandleEnd), toPointer(f.at(90, 50))))
	f.ctl.PointerMove(toPointer(f.at(60, 50)))
	assert.InDelta(t, 60.0, f.cam.Coverage.EndAngle, epsilon)
}

func TestHitHandle(t *testing.T) {
	f := setup(t, nil)
	h := f.handle(scene.HandleRotate)
	cam, got := f.ctl.HitHandle(h.Pos.Add(geometry.Point{X: 3}), 8)
	assert.Same(t, f.cam, cam)
	assert.Same(t, h, got)

	f.plan.Select("")
	f.ctl.engine.RefreshHandles(f.cam)
	cam, got = f.ctl.HitHandle(h.Pos, 8)
	assert.Nil(t, cam)
	assert.Nil(t, got)
}
