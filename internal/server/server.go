// Package server implements the classdiagram HTTP API.
//
// Routes:
//
//	GET    /healthz                     build info
//	POST   /v1/render                   render a definition from the request body
//	GET    /v1/diagrams                 list stored diagrams
//	PUT    /v1/diagrams/{name}          create or replace a stored diagram
//	GET    /v1/diagrams/{name}          fetch a stored definition
//	DELETE /v1/diagrams/{name}          delete a stored diagram
//	GET    /v1/diagrams/{name}/render   render a stored diagram
//
// Render endpoints take the query parameters format, container, detailed
// and refresh, mirroring [pipeline.Options].
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/classdiagram/pkg/pipeline"
	"github.com/matzehuels/classdiagram/pkg/render"
	"github.com/matzehuels/classdiagram/pkg/store"
)

// Defaults applied by New for zero Options fields.
const (
	DefaultMaxBodyBytes    = 1 << 20
	DefaultShutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Container is used when a render request names none.
	Container string

	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// Server serves the HTTP API. Create one with New.
type Server struct {
	runner          *pipeline.Runner
	store           store.Store
	log             *log.Logger
	container       string
	maxBodyBytes    int64
	shutdownTimeout time.Duration
	router          chi.Router
}

// New builds a server and its routes. A nil Runner renders without a cache
// and a nil Store keeps diagrams in memory.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Container == "" {
		opts.Container = render.ContainerRaw
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		runner:          opts.Runner,
		store:           opts.Store,
		log:             opts.Logger,
		container:       opts.Container,
		maxBodyBytes:    opts.MaxBodyBytes,
		shutdownTimeout: opts.ShutdownTimeout,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.NotFound(s.wrap(func(http.ResponseWriter, *http.Request) error {
		return errRouteNotFound
	}))
	r.MethodNotAllowed(s.wrap(func(http.ResponseWriter, *http.Request) error {
		return errMethodNotAllowed
	}))

	r.Get("/healthz", s.wrap(s.handleHealth))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.wrap(s.handleRender))
		r.Route("/diagrams", func(r chi.Router) {
			r.Get("/", s.wrap(s.handleListDiagrams))
			r.Put("/{name}", s.wrap(s.handlePutDiagram))
			r.Get("/{name}", s.wrap(s.handleGetDiagram))
			r.Delete("/{name}", s.wrap(s.handleDeleteDiagram))
			r.Get("/{name}/render", s.wrap(s.handleRenderDiagram))
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve accepts connections on l until ctx is canceled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	hs := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	done := make(chan error, 1)
	go func() {
		done <- hs.Serve(l)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down", "timeout", s.shutdownTimeout)
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-done; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.log.Info("listening", "addr", l.Addr().String())
	return s.Serve(ctx, l)
}
