package web

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cjeanneret/coverplan/internal/debug"
	"github.com/cjeanneret/coverplan/internal/interact"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/plan"
	"github.com/cjeanneret/coverplan/internal/render"
	"github.com/cjeanneret/coverplan/internal/scene"
	"github.com/cjeanneret/coverplan/internal/store"
)

// ErrNoStore is returned when saving a workspace that has no project store.
var ErrNoStore = errors.New("no project store configured")

// WorkspaceOptions configures a Workspace.
type WorkspaceOptions struct {
	PixelsPerMeter    float64
	Defaults          plan.DefaultsRegistry
	Tuning            geometry.RectTuning
	WallReenableDelay time.Duration
	HandleHitRadius   float64
	// Store is optional; without it the plan lives in memory only.
	Store   *store.Store
	Project string
}

// Workspace is the live plan served over HTTP. The coverage engine is
// single threaded, so every request and timer callback holds mu.
type Workspace struct {
	mu sync.Mutex

	Scene      *scene.Memory
	Plan       *plan.Plan
	Engine     *render.Engine
	Controller *interact.Controller
	Validator  *store.Validator

	store       *store.Store
	project     string
	hitRadius   float64
	broadcaster *StatusBroadcaster
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(opts WorkspaceOptions, b *StatusBroadcaster) (*Workspace, error) {
	v, err := store.NewValidator()
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = NewStatusBroadcaster()
	}
	s := scene.NewMemory()
	p := plan.New(s, opts.Defaults, opts.PixelsPerMeter)
	ws := &Workspace{
		Scene:       s,
		Plan:        p,
		Engine:      render.NewEngine(p, opts.Tuning),
		Validator:   v,
		store:       opts.Store,
		project:     opts.Project,
		hitRadius:   opts.HandleHitRadius,
		broadcaster: b,
	}
	ws.Controller = interact.New(ws.Engine, interact.Options{
		WallReenableDelay: opts.WallReenableDelay,
		AfterFunc:         ws.afterFunc,
		Panel:             ws,
	})
	return ws, nil
}

// afterFunc runs f under the workspace lock once d has elapsed.
func (ws *Workspace) afterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, func() {
		ws.mu.Lock()
		defer ws.mu.Unlock()
		f()
		ws.broadcaster.Publish(StatusEvent{Level: "info", Kind: KindWalls, Msg: "walls interactive"})
	})
}

// OpenDeviceProperties asks connected browsers to show the camera panel.
func (ws *Workspace) OpenDeviceProperties(cam *plan.Camera) {
	ws.broadcaster.Publish(StatusEvent{Level: "info", Kind: KindPanel, Camera: cam.ID, Msg: "open properties"})
}

// Do runs f under the workspace lock.
func (ws *Workspace) Do(f func() error) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return f()
}

// Load replaces the plan content with the stored project. A project that
// was never saved leaves the plan empty.
func (ws *Workspace) Load(ctx context.Context) error {
	if ws.store == nil {
		return ErrNoStore
	}
	pr, err := ws.store.LoadProject(ctx, ws.project)
	if errors.Is(err, store.ErrNotFound) {
		debug.Info("project %s not saved yet, starting empty", ws.project)
		return nil
	}
	if err != nil {
		return err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.Controller.PointerUp()
	for _, d := range ws.Plan.Devices() {
		_ = ws.Plan.RemoveDevice(d.DeviceID())
	}
	for _, w := range ws.Plan.Walls() {
		_ = ws.Plan.RemoveWall(w.ID)
	}
	store.Restore(pr, ws.Plan)
	n := ws.Engine.RecomputeAll(true)
	debug.Info("project %s loaded: %d cameras drawn", ws.project, n)
	return nil
}

// Save writes the plan to the store.
func (ws *Workspace) Save(ctx context.Context) error {
	if ws.store == nil {
		return ErrNoStore
	}
	ws.mu.Lock()
	pr := store.Snapshot(ws.project, ws.Plan)
	ws.mu.Unlock()
	return ws.store.SaveProject(ctx, pr)
}
