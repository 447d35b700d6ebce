package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gridwire/pkg/buildinfo"
	"github.com/matzehuels/gridwire/pkg/editor"
	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/grid"
	"github.com/matzehuels/gridwire/pkg/library"
	"github.com/matzehuels/gridwire/pkg/netlist"
	"github.com/matzehuels/gridwire/pkg/pipeline"
	"github.com/matzehuels/gridwire/pkg/render"
	"github.com/matzehuels/gridwire/pkg/session"
)

// =============================================================================
// Editor state
// =============================================================================

// State is the editor state returned after every edit.
type State struct {
	Mode     string       `json:"mode"`
	Route    []grid.Point `json:"route"`
	Dragging bool         `json:"dragging"`
	Session  string       `json:"session,omitempty"`
	Graph    graph.Graph  `json:"graph"`
}

// ModeRequest is the body of PUT /api/mode.
type ModeRequest struct {
	Mode      string `json:"mode"`
	Component string `json:"component,omitempty"`
}

// state must be called with s.mu held.
func (s *Server) state() State {
	st := State{
		Mode:     s.ctrl.Mode().Name(),
		Route:    s.ctrl.RoutePoints(),
		Dragging: s.ctrl.Dragging(),
		Graph:    s.surface.ExportGraph(),
	}
	if st.Route == nil {
		st.Route = []grid.Point{}
	}
	if s.session != nil {
		st.Session = s.session.ID
	}
	return st
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.state()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, st.Graph)
}

// handleGestures accepts a single gesture object or an array of them. Every
// gesture is checked before any is applied, so a rejected batch leaves the
// drawing untouched.
func (s *Server) handleGestures(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	var gestures []editor.Gesture
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &gestures)
	} else {
		var g editor.Gesture
		err = json.Unmarshal(body, &g)
		gestures = []editor.Gesture{g}
	}
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode gestures"))
		return
	}

	for _, g := range gestures {
		if err := g.Validate(); err != nil {
			writeError(w, err)
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range gestures {
		if err := s.ctrl.Apply(g); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var comp editor.Component
	if req.Component != "" {
		c, err := s.reg.Get(req.Component)
		if err != nil {
			writeError(w, err)
			return
		}
		comp = c
	}
	mode, err := editor.ParseMode(req.Mode, comp)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.SetMode(mode)
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.Clear()
	s.ctrl.SetMode(s.ctrl.Mode())
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.Refresh()
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	width, height := s.surface.Size()
	svg := render.SVG(s.surface.Canvas().Items(), width, height)
	s.mu.Unlock()

	w.Header().Set("Content-Type", pipeline.ContentType(pipeline.FormatSVG))
	w.Write(svg)
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	comps := s.reg.Components()
	if comps == nil {
		comps = []library.Component{}
	}
	writeJSON(w, http.StatusOK, comps)
}

// =============================================================================
// Export
// =============================================================================

// ExportResponse is the JSON body of POST /api/export. Artifacts are
// base64 encoded.
type ExportResponse struct {
	GraphHash string            `json:"graph_hash"`
	Nets      []netlist.Net     `json:"nets"`
	Artifacts map[string][]byte `json:"artifacts"`
	CacheHit  bool              `json:"cache_hit"`
}

// handleExport renders the current drawing. With ?format=<f> the single
// artifact is returned as is; otherwise the body may carry pipeline
// options and the response is an ExportResponse.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	raw := r.URL.Query().Get("format")
	if raw != "" {
		opts.Formats = []string{raw}
	} else if r.ContentLength != 0 {
		if err := decode(r, &opts); err != nil {
			writeError(w, err)
			return
		}
	}

	s.mu.Lock()
	g := s.surface.Export()
	opts.Cell = s.surface.Grid().Cell
	opts.Columns, opts.Rows = s.surface.Board()
	s.mu.Unlock()
	opts.Resolver = s.reg

	result, err := s.runner.Render(r.Context(), g, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if raw != "" {
		w.Header().Set("Content-Type", pipeline.ContentType(raw))
		w.Write(result.Artifacts[raw])
		return
	}
	writeJSON(w, http.StatusOK, ExportResponse{
		GraphHash: result.GraphHash,
		Nets:      result.Nets,
		Artifacts: result.Artifacts,
		CacheHit:  result.CacheHit,
	})
}

// =============================================================================
// Sessions
// =============================================================================

// SessionSummary describes a saved session without its drawing.
type SessionSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Cell        int       `json:"cell"`
	Modules     int       `json:"modules"`
	Connections int       `json:"connections"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func summarize(sess *session.Session) SessionSummary {
	return SessionSummary{
		ID:          sess.ID,
		Name:        sess.Name,
		Cell:        sess.Cell,
		Modules:     len(sess.Graph.Modules),
		Connections: len(sess.Graph.Connections),
		UpdatedAt:   sess.UpdatedAt,
	}
}

// SaveRequest is the body of POST /api/sessions.
type SaveRequest struct {
	Name string `json:"name"`
	New  bool   `json:"new,omitempty"` // save as a new session even if one is open
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	all, err := s.sessions.List(r.Context())
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStore, err, "list sessions"))
		return
	}
	out := make([]SessionSummary, len(all))
	for i, sess := range all {
		out[i] = summarize(sess)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSaveSession saves the drawing into the open session, or into a new
// one when none is open or New is set.
func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.surface.Export()
	status := http.StatusOK
	sess := s.session
	if sess == nil || req.New {
		if req.Name == "" {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "session name is required"))
			return
		}
		sess = session.New(req.Name, s.surface.Grid().Cell, g)
		status = http.StatusCreated
	} else {
		saved := *sess
		sess = &saved
		sess.Update(g)
		if req.Name != "" {
			sess.Name = req.Name
		}
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStore, err, "save session"))
		return
	}
	s.session = sess
	s.logger.Info("session saved", "id", sess.ID, "name", sess.Name)
	writeJSON(w, status, summarize(sess))
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	sess, err := session.Resolve(r.Context(), s.sessions, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cell := s.surface.Grid().Cell; sess.Cell != cell {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"session %s was drawn at cell size %d, server uses %d", sess.ShortID(), sess.Cell, cell))
		return
	}
	if err := s.surface.LoadGraph(sess.Graph); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "load session"))
		return
	}
	s.ctrl.SetMode(editor.Normal{})
	s.session = sess
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, err := session.Resolve(r.Context(), s.sessions, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStore, err, "delete session"))
		return
	}

	s.mu.Lock()
	if s.session != nil && s.session.ID == sess.ID {
		s.session = nil
	}
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}
