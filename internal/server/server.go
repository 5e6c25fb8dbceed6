// Package server implements the skein HTTP API.
//
// The API has two surfaces:
//
//   - /api/v1/layout runs the one-shot pipeline: post a graph, get back
//     positions and rendered artifacts.
//   - /api/v1/sessions holds live layout engines. A session owns one
//     engine and an orbit camera; clients post graph updates, camera
//     framing, and tick requests, and read back smoothed positions plus
//     the camera pose, which lets thin frontends animate 2D or 3D views
//     without running the solver themselves.
//
// Binary artifacts (png) are base64-encoded by Go's JSON encoder.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skeinviz/skein/pkg/errors"
	"github.com/skeinviz/skein/pkg/graph"
	"github.com/skeinviz/skein/pkg/layout"
	"github.com/skeinviz/skein/pkg/pipeline"
)

// Server holds the HTTP API state.
type Server struct {
	runner *pipeline.Runner
	tuning layout.Tuning
	logger *log.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

// New creates a server around a pipeline runner and tuning used for
// live sessions.
func New(runner *pipeline.Runner, tuning layout.Tuning, logger *log.Logger) *Server {
	return &Server{
		runner:   runner,
		tuning:   tuning,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Handler builds the chi router with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/graph", s.handleUpdateGraph)
				r.Post("/tick", s.handleTick)
				r.Post("/mode", s.handleSetMode)
				r.Post("/focus", s.handleFocus)
				r.Post("/camera", s.handleCamera)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// logRequests logs one line per request with the structured logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// =============================================================================
// One-shot Layout
// =============================================================================

type layoutRequest struct {
	Graph   graph.Graph      `json:"graph"`
	Options pipeline.Options `json:"options"`
}

type layoutResponse struct {
	Positions map[string]layout.Point `json:"positions"`
	Artifacts map[string][]byte       `json:"artifacts,omitempty"`
	NodeCount int                     `json:"node_count"`
	EdgeCount int                     `json:"edge_count"`
	Cached    bool                    `json:"cached"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode request"))
		return
	}
	req.Graph.Normalize()
	if err := req.Graph.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	req.Options.Tuning = &s.tuning
	req.Options.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, layoutResponse{
		Positions: result.Positions,
		Artifacts: result.Artifacts,
		NodeCount: result.Stats.NodeCount,
		EdgeCount: result.Stats.EdgeCount,
		Cached:    result.CacheInfo.LayoutHit,
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps structured error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidGraph, errors.ErrCodeInvalidMode, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeSessionNotFound:
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, errorResponse{
		Error: err.Error(),
		Code:  string(errors.GetCode(err)),
	})
}
