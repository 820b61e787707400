package web

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/cjeanneret/coverplan/internal/debug"
)

// Server wraps the HTTP server and handlers.
type Server struct {
	addr     string
	handlers *Handlers
}

// NewServer creates a server for the given address serving ws.
func NewServer(addr string, broadcaster *StatusBroadcaster, ws *Workspace) (*Server, error) {
	subFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("web: sub static fs: %w", err)
	}
	return &Server{
		addr:     addr,
		handlers: NewHandlers(broadcaster, ws, subFS),
	}, nil
}

// Mux returns an http.Handler with all routes registered.
func (s *Server) Mux() http.Handler {
	h := s.handlers
	mux := http.NewServeMux()

	mux.HandleFunc("GET /config", h.HandleConfig)
	mux.HandleFunc("POST /defaults", h.HandleDefaults)

	mux.HandleFunc("GET /cameras", h.HandleListCameras)
	mux.HandleFunc("POST /cameras", h.HandleCreateCamera)
	mux.HandleFunc("GET /cameras/{id}", h.HandleGetCamera)
	mux.HandleFunc("PATCH /cameras/{id}", h.HandlePatchCamera)
	mux.HandleFunc("DELETE /cameras/{id}", h.HandleDeleteCamera)
	mux.HandleFunc("GET /cameras/{id}/coverage", h.HandleCoverage)
	mux.HandleFunc("GET /cameras/{id}/dori", h.HandleDori)
	mux.HandleFunc("GET /cameras/{id}/diagram.png", h.HandleDiagram("png"))
	mux.HandleFunc("GET /cameras/{id}/diagram.svg", h.HandleDiagram("svg"))

	mux.HandleFunc("GET /walls", h.HandleListWalls)
	mux.HandleFunc("POST /walls", h.HandleCreateWall)
	mux.HandleFunc("DELETE /walls/{id}", h.HandleDeleteWall)

	mux.HandleFunc("GET /devices", h.HandleListDevices)
	mux.HandleFunc("POST /devices", h.HandleCreateDevice)
	mux.HandleFunc("DELETE /devices/{id}", h.HandleDeleteDevice)

	mux.HandleFunc("POST /project/save", h.HandleSaveProject)
	mux.HandleFunc("POST /project/load", h.HandleLoadProject)

	mux.HandleFunc("GET /status/stream", h.HandleStatusStream)
	mux.HandleFunc("GET /interact", h.HandleInteract)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(h.staticFS))))
	mux.HandleFunc("GET /{$}", h.ServeIndex) // exact match for root only

	return mux
}

// Run starts the server and blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Mux()}
	errCh := make(chan error, 1)
	go func() {
		debug.Info("web server listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
