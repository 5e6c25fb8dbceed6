package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skeinviz/skein/pkg/engine"
	"github.com/skeinviz/skein/pkg/errors"
	"github.com/skeinviz/skein/pkg/graph"
	"github.com/skeinviz/skein/pkg/layout"
	"github.com/skeinviz/skein/pkg/layout/viewport"
	"github.com/skeinviz/skein/pkg/pipeline"
)

// session wraps one live engine and its orbit camera. The engine itself
// is single-threaded, so all access goes through the session mutex.
type session struct {
	mu  sync.Mutex
	eng *engine.Engine
	cam *viewport.Camera
}

func (s *Server) getSession(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return sess, nil
}

// =============================================================================
// Handlers
// =============================================================================

type createSessionRequest struct {
	Graph      graph.Graph `json:"graph"`
	Mode       string      `json:"mode,omitempty"`
	Width      float64     `json:"width,omitempty"`
	Height     float64     `json:"height,omitempty"`
	PanelWidth float64     `json:"panel_width,omitempty"`
}

type sessionResponse struct {
	ID        string  `json:"id"`
	Mode      string  `json:"mode"`
	State     string  `json:"state"`
	NodeCount int     `json:"node_count"`
	Alpha     float64 `json:"alpha"`
	Energy    float64 `json:"energy"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode request"))
		return
	}
	req.Graph.Normalize()
	if err := req.Graph.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Mode == "" {
		req.Mode = graph.ModeForce
	}
	if !graph.ValidModes[req.Mode] {
		s.writeError(w, errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q", req.Mode))
		return
	}
	if req.Width <= 0 {
		req.Width = pipeline.DefaultWidth
	}
	if req.Height <= 0 {
		req.Height = pipeline.DefaultHeight
	}

	eng := engine.New(s.tuning, req.Mode)
	eng.SetViewport(req.Width, req.Height)
	eng.SetPanelWidth(req.PanelWidth)
	eng.Update(req.Graph.Nodes, req.Graph.Edges)
	eng.Start()

	// The camera starts pulled back from the viewport center, looking at
	// it. Frontends that render in 2D can ignore it.
	center := layout.Point3{X: req.Width / 2, Y: req.Height / 2}
	cam := viewport.NewCamera(layout.Point3{X: center.X, Y: center.Y, Z: defaultCameraDistance}, center, s.tuning.View)

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{eng: eng, cam: cam}
	s.mu.Unlock()

	s.logger.Info("session created", "id", id, "mode", req.Mode, "nodes", len(req.Graph.Nodes))
	s.writeJSON(w, http.StatusCreated, snapshot(id, eng))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.getSession(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sess.mu.Lock()
	resp := snapshot(id, sess.eng)
	sess.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id))
		return
	}
	s.logger.Info("session deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.getSession(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var g graph.Graph
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph"))
		return
	}
	g.Normalize()
	if err := g.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	sess.mu.Lock()
	sess.eng.Update(g.Nodes, g.Edges)
	resp := snapshot(id, sess.eng)
	sess.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

type tickRequest struct {
	DT    float64 `json:"dt,omitempty"`    // seconds per step, default 1/60
	Steps int     `json:"steps,omitempty"` // default 1
}

type tickResponse struct {
	Positions map[string]layout.Point `json:"positions"`
	Transform viewport.Transform      `json:"transform"`
	Camera    cameraState             `json:"camera"`
	State     string                  `json:"state"`
	Alpha     float64                 `json:"alpha"`
	Energy    float64                 `json:"energy"`
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.getSession(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req tickRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode request"))
			return
		}
	}
	if req.Steps <= 0 {
		req.Steps = 1
	}
	if req.Steps > maxTickSteps {
		req.Steps = maxTickSteps
	}

	sess.mu.Lock()
	for i := 0; i < req.Steps; i++ {
		sess.eng.Tick(req.DT)
		sess.cam.Tick()
	}
	resp := tickResponse{
		Positions: sess.eng.Positions(),
		Transform: sess.eng.Transform(),
		Camera:    cameraSnapshot(sess.cam),
		State:     sess.eng.SolverState().String(),
		Alpha:     sess.eng.Alpha(),
		Energy:    sess.eng.KineticEnergy(),
	}
	sess.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

// cameraRequest drives the session's orbit camera. Position and target
// start a smooth framing transition toward the given pose; move applies
// a manual delta, interrupting any transition in progress.
type cameraRequest struct {
	Position *layout.Point3 `json:"position,omitempty"`
	Target   *layout.Point3 `json:"target,omitempty"`
	Move     *layout.Point3 `json:"move,omitempty"`
}

type cameraState struct {
	Position   layout.Point3 `json:"position"`
	Target     layout.Point3 `json:"target"`
	Converging bool          `json:"converging"`
}

func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.getSession(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req cameraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode request"))
		return
	}

	sess.mu.Lock()
	switch {
	case req.Move != nil:
		sess.cam.MoveBy(req.Move.X, req.Move.Y, req.Move.Z)
	case req.Position != nil || req.Target != nil:
		pos, target := sess.cam.Position, sess.cam.Target
		if req.Position != nil {
			pos = *req.Position
		}
		if req.Target != nil {
			target = *req.Target
		}
		sess.cam.FrameTo(pos, target)
	}
	resp := cameraSnapshot(sess.cam)
	sess.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.getSession(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidMode, err, "decode request"))
		return
	}
	if !graph.ValidModes[req.Mode] {
		s.writeError(w, errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q", req.Mode))
		return
	}

	sess.mu.Lock()
	sess.eng.SetMode(req.Mode)
	resp := snapshot(id, sess.eng)
	sess.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

type focusRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.getSession(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req focusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode request"))
		return
	}

	sess.mu.Lock()
	sess.eng.SetFocus(req.IDs)
	resp := snapshot(id, sess.eng)
	sess.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Helpers
// =============================================================================

// maxTickSteps bounds how much work one tick request can ask for.
const maxTickSteps = 600

// defaultCameraDistance is the camera's starting pull-back along Z.
const defaultCameraDistance = 900

func cameraSnapshot(cam *viewport.Camera) cameraState {
	return cameraState{
		Position:   cam.Position,
		Target:     cam.Target,
		Converging: cam.Converging(),
	}
}

func snapshot(id string, eng *engine.Engine) sessionResponse {
	return sessionResponse{
		ID:        id,
		Mode:      eng.Mode(),
		State:     eng.SolverState().String(),
		NodeCount: eng.NodeCount(),
		Alpha:     eng.Alpha(),
		Energy:    eng.KineticEnergy(),
	}
}
