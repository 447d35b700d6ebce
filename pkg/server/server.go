// Package server exposes one schematic editor over HTTP.
//
// A single controller and surface are shared by every client and guarded
// by a mutex, so gestures from different requests are applied one at a
// time in arrival order. The API is JSON except for rendered artifacts.
// Request bodies larger than MaxBodyBytes are rejected with 413.
//
// # Routes
//
//	GET    /healthz               liveness and version
//	GET    /api/graph             exported graph of the current drawing
//	POST   /api/gestures          apply one gesture or a batch; a batch is
//	                              checked whole and applied all or nothing
//	PUT    /api/mode              switch interaction mode
//	DELETE /api/schematic         clear the drawing
//	POST   /api/refresh           rebuild the drawing from its entities
//	GET    /api/render.svg        the board as drawn, including previews
//	GET    /api/library           placeable components
//	POST   /api/export            render artifacts through the pipeline
//	GET    /api/sessions          saved sessions (when a store is set)
//	POST   /api/sessions          save the drawing as a session
//	POST   /api/sessions/{id}/open  replace the drawing with a session
//	DELETE /api/sessions/{id}     delete a session
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gridwire/pkg/editor"
	"github.com/matzehuels/gridwire/pkg/library"
	"github.com/matzehuels/gridwire/pkg/pipeline"
	"github.com/matzehuels/gridwire/pkg/schematic"
	"github.com/matzehuels/gridwire/pkg/session"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "localhost:8080"

// MaxBodyBytes caps every API request body.
const MaxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	Cell      int // grid cell size; 0 means grid.DefaultCell
	Columns   int
	Rows      int
	Tolerance float64 // wire hit band; 0 means schematic.DefaultTolerance

	Registry *library.Registry // defaults to the builtin gates
	Runner   *pipeline.Runner  // defaults to an uncached runner
	Sessions session.Store     // nil disables the session routes
	Logger   *log.Logger       // default discards
}

// Server owns the shared editor and its HTTP handler.
type Server struct {
	mu      sync.Mutex
	surface *schematic.Surface
	ctrl    *editor.Controller
	session *session.Session

	reg      *library.Registry
	runner   *pipeline.Runner
	sessions session.Store
	logger   *log.Logger
	router   chi.Router
}

// New creates a server with an empty drawing in normal mode.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Registry == nil {
		opts.Registry = library.WithBuiltins()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}

	surface := schematic.New(schematic.Options{
		Cell:      opts.Cell,
		Columns:   opts.Columns,
		Rows:      opts.Rows,
		Tolerance: opts.Tolerance,
		Logger:    opts.Logger,
	})
	s := &Server{
		surface:  surface,
		ctrl:     editor.New(surface, editor.Options{Logger: opts.Logger}),
		reg:      opts.Registry,
		runner:   opts.Runner,
		sessions: opts.Sessions,
		logger:   opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID, s.recoverer, s.logRequests, cors)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestSize(MaxBodyBytes))
		r.Get("/graph", s.handleGraph)
		r.Post("/gestures", s.handleGestures)
		r.Put("/mode", s.handleMode)
		r.Delete("/schematic", s.handleClear)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/render.svg", s.handleRenderSVG)
		r.Get("/library", s.handleLibrary)
		r.Post("/export", s.handleExport)

		r.Route("/sessions", func(r chi.Router) {
			r.Use(s.requireSessions)
			r.Get("/", s.handleListSessions)
			r.Post("/", s.handleSaveSession)
			r.Post("/{id}/open", s.handleOpenSession)
			r.Delete("/{id}", s.handleDeleteSession)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
