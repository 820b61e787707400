package web

import (
	"fmt"
	"net/http"

	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/debug"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/plan"
	"github.com/cjeanneret/coverplan/internal/scene"
)

// NewWall is the body of POST /walls.
type NewWall struct {
	ID string         `json:"id"`
	A  geometry.Point `json:"a"`
	B  geometry.Point `json:"b"`
}

// HandleListWalls handles GET /walls.
func (h *Handlers) HandleListWalls(w http.ResponseWriter, r *http.Request) {
	var walls []*scene.Wall
	h.Workspace.Do(func() error {
		walls = h.Workspace.Plan.Walls()
		return nil
	})
	writeJSON(w, http.StatusOK, walls)
}

// HandleCreateWall handles POST /walls. Every camera is redrawn against
// the new wall set.
func (h *Handlers) HandleCreateWall(w http.ResponseWriter, r *http.Request) {
	var req NewWall
	if !decodeBody(w, r, &req) {
		return
	}
	if req.A == req.B {
		http.Error(w, "wall endpoints must differ", http.StatusBadRequest)
		return
	}
	var wall *scene.Wall
	h.Workspace.Do(func() error {
		wall = h.Workspace.Plan.AddWall(req.ID, req.A, req.B)
		h.wallsChanged()
		return nil
	})
	writeJSON(w, http.StatusCreated, wall)
}

// HandleDeleteWall handles DELETE /walls/{id}.
func (h *Handlers) HandleDeleteWall(w http.ResponseWriter, r *http.Request) {
	err := h.Workspace.Do(func() error {
		if err := h.Workspace.Plan.RemoveWall(r.PathValue("id")); err != nil {
			return err
		}
		h.wallsChanged()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// wallsChanged redraws every camera. The caller holds the workspace lock.
func (h *Handlers) wallsChanged() {
	n := h.Workspace.Engine.WallsChanged()
	debug.Live("walls changed: %d cameras redrawn", n)
	for _, cam := range h.Workspace.Plan.Cameras() {
		h.Broadcaster.CoverageChanged(cam.ID)
	}
}

// DeviceView is any device as returned by the API. Text holds the camera
// name, sensor type or label text.
type DeviceView struct {
	ID   string         `json:"id"`
	Kind string         `json:"kind"`
	Text string         `json:"text"`
	Pos  geometry.Point `json:"pos"`
}

func deviceView(d plan.Device) DeviceView {
	v := DeviceView{ID: d.DeviceID(), Kind: d.Kind().String(), Pos: d.Position()}
	switch t := d.(type) {
	case *plan.Camera:
		v.Text = t.Name
	case *plan.Sensor:
		v.Text = string(t.Type)
	case *plan.Label:
		v.Text = t.Text
	}
	return v
}

// NewDevice is the body of POST /devices for sensors and labels. Cameras
// are created through POST /cameras.
type NewDevice struct {
	ID   string  `json:"id"`
	Kind string  `json:"kind"`
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// HandleListDevices handles GET /devices.
func (h *Handlers) HandleListDevices(w http.ResponseWriter, r *http.Request) {
	out := []DeviceView{}
	h.Workspace.Do(func() error {
		for _, d := range h.Workspace.Plan.Devices() {
			out = append(out, deviceView(d))
		}
		return nil
	})
	writeJSON(w, http.StatusOK, out)
}

// HandleCreateDevice handles POST /devices.
func (h *Handlers) HandleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req NewDevice
	if !decodeBody(w, r, &req) {
		return
	}
	pos := geometry.Point{X: req.X, Y: req.Y}

	var view DeviceView
	err := h.Workspace.Do(func() error {
		p := h.Workspace.Plan
		if req.ID != "" {
			if _, err := p.Device(req.ID); err == nil {
				return fmt.Errorf("%w: device %s already exists", errBadRequest, req.ID)
			}
		}
		switch req.Kind {
		case plan.KindSensor.String():
			typ := plan.SensorType(req.Text)
			switch typ {
			case plan.SensorIntruder, plan.SensorFire, plan.SensorAccess:
			default:
				return fmt.Errorf("%w: unknown sensor type %q", errBadRequest, req.Text)
			}
			view = deviceView(p.AddSensor(req.ID, typ, pos))
		case plan.KindLabel.String():
			view = deviceView(p.AddLabel(req.ID, req.Text, pos))
		default:
			return fmt.Errorf("%w: kind must be sensor or label", errBadRequest)
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// HandleDeleteDevice handles DELETE /devices/{id} for any device kind.
func (h *Handlers) HandleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := h.Workspace.Do(func() error {
		c := h.Workspace.Controller
		if cam := c.Camera(); cam != nil && cam.ID == id {
			c.PointerUp()
		}
		return h.Workspace.Plan.RemoveDevice(id)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DefaultsUpdate is the body of POST /defaults. Each field present is
// applied to every device and becomes the default for new ones.
type DefaultsUpdate struct {
	IconSize *float64 `json:"icon_size,omitempty"`
	Color    *string  `json:"color,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`
}

// HandleDefaults handles POST /defaults.
func (h *Handlers) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	var req DefaultsUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	if req.IconSize != nil && *req.IconSize <= 0 {
		http.Error(w, "icon_size must be positive", http.StatusBadRequest)
		return
	}
	if req.Opacity != nil && (*req.Opacity < 0 || *req.Opacity > 1) {
		http.Error(w, "opacity must be between 0 and 1", http.StatusBadRequest)
		return
	}
	var col coverage.Color
	if req.Color != nil {
		var err error
		if col, err = coverage.ParseColor(*req.Color); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var n int
	h.Workspace.Do(func() error {
		p := h.Workspace.Plan
		if req.IconSize != nil {
			p.SetIconSize(*req.IconSize)
		}
		if req.Opacity != nil {
			p.SetLayerOpacity(*req.Opacity)
		}
		if req.Color != nil {
			p.SetCoverageColor(col)
		}
		n = h.Workspace.Engine.RecomputeAll(false)
		return nil
	})
	debug.Live("defaults updated: %d cameras redrawn", n)
	writeJSON(w, http.StatusOK, map[string]int{"redrawn": n})
}

// HandleSaveProject handles POST /project/save.
func (h *Handlers) HandleSaveProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Workspace.Save(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.Broadcaster.Broadcast("info", "project saved")
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// HandleLoadProject handles POST /project/load.
func (h *Handlers) HandleLoadProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Workspace.Load(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.Broadcaster.Broadcast("info", "project loaded")
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}
