package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/debug"
	"github.com/cjeanneret/coverplan/internal/interact"
	"github.com/cjeanneret/coverplan/internal/logic/optics"
	"github.com/cjeanneret/coverplan/internal/plan"
	"github.com/cjeanneret/coverplan/internal/store"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// heartbeatInterval is the idle period between SSE keep-alive comments.
const heartbeatInterval = 30 * time.Second

// ConfigView is the plan-wide configuration sent to the browser.
type ConfigView struct {
	PixelsPerMeter float64         `json:"pixels_per_meter"`
	IconSize       float64         `json:"icon_size"`
	Sensors        []string        `json:"sensors"`
	Defaults       coverage.Record `json:"defaults"`
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster *StatusBroadcaster
	Workspace   *Workspace
	staticFS    fs.FS
}

// NewHandlers creates handlers with the given dependencies.
func NewHandlers(broadcaster *StatusBroadcaster, ws *Workspace, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster: broadcaster,
		Workspace:   ws,
		staticFS:    staticFS,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debug.Error(fmt.Errorf("web: encode response: %w", err))
	}
}

// decodeBody reads a bounded JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, plan.ErrUnknownDevice), errors.Is(err, plan.ErrUnknownWall), errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, plan.ErrNotCamera), errors.Is(err, store.ErrInvalidRecord), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, interact.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, ErrNoStore):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		debug.Error(err)
	}
	http.Error(w, err.Error(), status)
}

var errBadRequest = errors.New("bad request")

// HandleConfig returns the plan defaults as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	var view ConfigView
	h.Workspace.Do(func() error {
		p := h.Workspace.Plan
		def := coverage.Resolve(nil, p.Defaults.Coverage, p.PixelsPerMeter)
		view = ConfigView{
			PixelsPerMeter: p.PixelsPerMeter,
			IconSize:       p.Defaults.IconSize,
			Sensors:        optics.SensorLabels(),
			Defaults:       def.Record(),
		}
		return nil
	})
	writeJSON(w, http.StatusOK, view)
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
