// Package server serves a live preview of a graph over HTTP.
//
// Routes:
//
//	GET  /healthz    liveness probe
//	GET  /shapes     registered shape names as JSON
//	GET  /graph.svg  retained-mode rendering
//	GET  /graph.png  immediate-mode rendering
//	POST /reload     re-read the graph file; retained groups are updated in place
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/nodeshapes/internal/viewer"
	"github.com/matzehuels/nodeshapes/pkg/errors"
	"github.com/matzehuels/nodeshapes/pkg/graph"
)

// Loader re-reads the graph on POST /reload.
type Loader func() (*graph.Graph, error)

// Server routes preview requests to one viewer.
type Server struct {
	mu     sync.Mutex
	viewer *viewer.Viewer
	load   Loader
	logger *log.Logger
	router chi.Router
}

// New creates a server for v. load may be nil, in which case /reload
// answers 501.
func New(v *viewer.Viewer, load Loader, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{viewer: v, load: load, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/shapes", s.handleShapes)
	r.Get("/graph.svg", s.handleSVG)
	r.Get("/graph.png", s.handlePNG)
	r.Post("/reload", s.handleReload)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleShapes(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	names := s.viewer.Renderer().Shapes()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"shapes": names})
}

func (s *Server) handleSVG(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	s.mu.Lock()
	err := s.viewer.RenderSVG(&buf)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	s.mu.Lock()
	err := s.viewer.RenderPNG(r.Context(), &buf)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (s *Server) handleReload(w http.ResponseWriter, _ *http.Request) {
	if s.load == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "reload is not configured"))
		return
	}
	g, err := s.load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	err = s.viewer.SetGraph(g)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("graph reloaded", "nodes", len(g.Nodes), "edges", len(g.Edges))
	writeJSON(w, http.StatusOK, map[string]int{"nodes": len(g.Nodes), "edges": len(g.Edges)})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}
