package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/diagram"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/logic/optics"
	"github.com/cjeanneret/coverplan/internal/logic/projection"
	"github.com/cjeanneret/coverplan/internal/plan"
	"github.com/cjeanneret/coverplan/internal/scene"
)

// CameraView is a camera as returned by the API.
type CameraView struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Pos       geometry.Point      `json:"pos"`
	Selected  bool                `json:"selected"`
	Coverage  *coverage.Config    `json:"coverage"`
	Area      *scene.CoverageArea `json:"area,omitempty"`
	Handles   []*scene.Handle     `json:"handles,omitempty"`
	StateHash string              `json:"state_hash"`
	Ranges    *projection.Ranges  `json:"ranges,omitempty"`
}

func cameraView(cam *plan.Camera) CameraView {
	v := CameraView{
		ID:        cam.ID,
		Name:      cam.Name,
		Pos:       cam.Pos,
		Selected:  cam.Selected,
		Coverage:  cam.Coverage,
		Area:      cam.Area,
		Handles:   cam.Handles,
		StateHash: cam.StateHash,
	}
	if cfg := cam.Coverage; cfg != nil && cfg.CameraHeight > 0 {
		r := projection.GroundRanges(cfg.CameraHeight, cfg.CameraTilt, cfg.SideFOV)
		v.Ranges = &r
	}
	return v
}

// NewCamera is the body of POST /cameras.
type NewCamera struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Coverage json.RawMessage `json:"coverage,omitempty"`
}

// CameraPatch is the body of PATCH /cameras/{id}. Only the fields present
// are applied; coverage is a partial record merged onto the camera.
type CameraPatch struct {
	Name     *string         `json:"name,omitempty"`
	X        *float64        `json:"x,omitempty"`
	Y        *float64        `json:"y,omitempty"`
	Selected *bool           `json:"selected,omitempty"`
	Coverage json.RawMessage `json:"coverage,omitempty"`
}

func hasJSON(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null"
}

// HandleListCameras handles GET /cameras.
func (h *Handlers) HandleListCameras(w http.ResponseWriter, r *http.Request) {
	var out []CameraView
	h.Workspace.Do(func() error {
		for _, cam := range h.Workspace.Plan.Cameras() {
			h.Workspace.Engine.InitConfig(cam)
			out = append(out, cameraView(cam))
		}
		return nil
	})
	if out == nil {
		out = []CameraView{}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreateCamera handles POST /cameras.
func (h *Handlers) HandleCreateCamera(w http.ResponseWriter, r *http.Request) {
	var req NewCamera
	if !decodeBody(w, r, &req) {
		return
	}
	var rec *coverage.Record
	if hasJSON(req.Coverage) {
		dec, err := h.Workspace.Validator.DecodeRecord(req.Coverage)
		if err != nil {
			writeError(w, err)
			return
		}
		rec = &dec
	}

	var view CameraView
	err := h.Workspace.Do(func() error {
		if req.ID != "" {
			if _, err := h.Workspace.Plan.Device(req.ID); err == nil {
				return fmt.Errorf("%w: device %s already exists", errBadRequest, req.ID)
			}
		}
		cam := h.Workspace.Plan.AddCamera(req.ID, req.Name, geometry.Point{X: req.X, Y: req.Y}, rec)
		h.Workspace.Engine.RecomputeCoverage(cam, true)
		view = cameraView(cam)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.Broadcaster.CoverageChanged(view.ID)
	writeJSON(w, http.StatusCreated, view)
}

// camera looks up the camera of the request path and initialises it.
// The caller holds the workspace lock.
func (h *Handlers) camera(r *http.Request) (*plan.Camera, error) {
	cam, err := h.Workspace.Plan.Camera(r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	h.Workspace.Engine.InitConfig(cam)
	return cam, nil
}

// HandleGetCamera handles GET /cameras/{id}.
func (h *Handlers) HandleGetCamera(w http.ResponseWriter, r *http.Request) {
	var view CameraView
	err := h.Workspace.Do(func() error {
		cam, err := h.camera(r)
		if err != nil {
			return err
		}
		view = cameraView(cam)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandlePatchCamera handles PATCH /cameras/{id}, the property panel edit.
// An optics change rederives the span and side FOV before the redraw.
func (h *Handlers) HandlePatchCamera(w http.ResponseWriter, r *http.Request) {
	var req CameraPatch
	if !decodeBody(w, r, &req) {
		return
	}
	var rec coverage.Record
	patchCoverage := hasJSON(req.Coverage)
	if patchCoverage {
		var err error
		if rec, err = h.Workspace.Validator.DecodeRecord(req.Coverage); err != nil {
			writeError(w, err)
			return
		}
	}

	var view CameraView
	rebuilt := false
	err := h.Workspace.Do(func() error {
		ws := h.Workspace
		cam, err := h.camera(r)
		if err != nil {
			return err
		}

		// Validate the whole patch before touching the camera.
		next := *cam.Coverage
		opticsChanged := false
		if patchCoverage {
			if opticsChanged, err = next.Merge(rec); err != nil {
				return fmt.Errorf("%w: %v", errBadRequest, err)
			}
		}

		if req.Name != nil {
			cam.Name = *req.Name
			cam.Icon.Label = *req.Name
		}
		if req.X != nil || req.Y != nil {
			pos := cam.Pos
			if req.X != nil {
				pos.X = *req.X
			}
			if req.Y != nil {
				pos.Y = *req.Y
			}
			if err := ws.Plan.MoveDevice(cam.ID, pos); err != nil {
				return err
			}
		}
		if req.Selected != nil {
			var changed []*plan.Camera
			switch {
			case *req.Selected:
				changed = ws.Plan.Select(cam.ID)
			case cam.Selected:
				changed = ws.Plan.Select("")
			}
			for _, c := range changed {
				if c != cam {
					ws.Engine.RefreshHandles(c)
				}
			}
		}
		*cam.Coverage = next
		if opticsChanged {
			ws.Engine.UpdateFromOpticalSpecs(cam)
			rebuilt = true
		}
		if ws.Engine.RecomputeCoverage(cam, false) {
			rebuilt = true
		}
		view = cameraView(cam)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if rebuilt {
		h.Broadcaster.CoverageChanged(view.ID)
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleDeleteCamera handles DELETE /cameras/{id}.
func (h *Handlers) HandleDeleteCamera(w http.ResponseWriter, r *http.Request) {
	err := h.Workspace.Do(func() error {
		cam, err := h.Workspace.Plan.Camera(r.PathValue("id"))
		if err != nil {
			return err
		}
		if h.Workspace.Controller.Camera() == cam {
			h.Workspace.Controller.PointerUp()
		}
		return h.Workspace.Plan.RemoveDevice(cam.ID)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCoverage handles GET /cameras/{id}/coverage: the drawn area,
// rebuilt first if the configuration moved on.
func (h *Handlers) HandleCoverage(w http.ResponseWriter, r *http.Request) {
	var area *scene.CoverageArea
	err := h.Workspace.Do(func() error {
		cam, err := h.camera(r)
		if err != nil {
			return err
		}
		h.Workspace.Engine.RecomputeCoverage(cam, false)
		area = cam.Area
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if area == nil {
		http.Error(w, "coverage not drawn", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, area)
}

// DoriView lists the DORI distances of a camera with its drawable bands.
type DoriView struct {
	Distances optics.Dori   `json:"distances"`
	Zones     []optics.Zone `json:"zones"`
}

// HandleDori handles GET /cameras/{id}/dori.
func (h *Handlers) HandleDori(w http.ResponseWriter, r *http.Request) {
	var (
		d  optics.Dori
		ok bool
	)
	err := h.Workspace.Do(func() error {
		cam, err := h.camera(r)
		if err != nil {
			return err
		}
		d, ok = cam.Coverage.Dori()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		http.Error(w, "no DORI data for this resolution and span", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, DoriView{Distances: d, Zones: d.Zones()})
}

// sideParams builds the side view inputs of a camera. The dead zone keeps
// its sign so a view pointing above the horizon is drawn behind the pole.
func sideParams(cfg *coverage.Config) diagram.Params {
	r := projection.GroundRanges(cfg.CameraHeight, cfg.CameraTilt, cfg.SideFOV)
	return diagram.Params{
		HeightM:      cfg.CameraHeight,
		TiltDeg:      cfg.CameraTilt,
		MaxDistanceM: math.Min(cfg.MaxRange, r.MaxDist),
		DeadZoneM:    r.MinRange,
		VFovDeg:      cfg.SideFOV,
	}
}

// HandleDiagram returns the handler of GET /cameras/{id}/diagram.<format>
// for format png or svg.
func (h *Handlers) HandleDiagram(format string) http.HandlerFunc {
	contentType := "image/png"
	if format == "svg" {
		contentType = "image/svg+xml"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var p diagram.Params
		err := h.Workspace.Do(func() error {
			cam, err := h.camera(r)
			if err != nil {
				return err
			}
			p = sideParams(cam.Coverage)
			return nil
		})
		if err != nil {
			writeError(w, err)
			return
		}
		var buf bytes.Buffer
		if err := diagram.Render(&buf, diagram.Build(p), diagram.DefaultWidth, diagram.DefaultHeight, format); err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(buf.Bytes())
	}
}
