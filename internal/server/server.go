// Package server exposes the diagram pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness probe
//	POST /render?format=svg     render a JSON schema document (dot, svg, png)
//	GET  /namespaces/{entity}   classify an entity
//	POST /colors                resolve color rules for attribute names
//
// Every response carries an X-Request-ID header, echoed from the request
// when present and generated otherwise.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/erdviz/pkg/cluster"
	"github.com/matzehuels/erdviz/pkg/pipeline"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 8 << 20

// Server serves the HTTP API.
type Server struct {
	runner     *pipeline.Runner
	base       pipeline.Options
	classifier *cluster.Classifier
	logger     *log.Logger
}

// New creates a server rendering through runner.
// base supplies the color rules, the namespace resolver and the render
// settings of every request; a nil classifier answers "unknown".
func New(runner *pipeline.Runner, base pipeline.Options, classifier *cluster.Classifier, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, base: base, classifier: classifier, logger: logger}
}

// Router returns the HTTP handler with all routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", healthHandler)
	r.Post("/render", s.renderHandler())
	r.Get("/namespaces/{entity}", s.namespaceHandler())
	r.Post("/colors", s.colorsHandler())
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
