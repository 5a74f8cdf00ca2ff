// package server contains middleware & handlers for the collection point HTTP API
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ecoleta/internal/models"
	"github.com/desertthunder/ecoleta/internal/registry"
	"github.com/desertthunder/ecoleta/internal/services"
	"github.com/desertthunder/ecoleta/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, panic recovery, CORS, request ids, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the registry API.
// Implementations handle a group of endpoints (items, points, geography).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the "METHOD /path" patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// PointRegistry is the subset of [registry.Registry] the HTTP API depends on.
type PointRegistry interface {
	CreatePoint(ctx context.Context, in models.PointInput, img *registry.Image) (*models.Point, error)
	ListPoints(ctx context.Context, filter models.PointFilter) ([]models.Point, error)
	GetPoint(ctx context.Context, id int64) (*models.PointDetail, error)
	ListItems(ctx context.Context) ([]models.Item, error)
}

// Pinger reports database reachability for the health check.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options wires dependencies into [New].
type Options struct {
	Config     shared.ServerConfig
	Registry   PointRegistry
	Geo        services.GeoService
	DB         Pinger
	UploadsDir string // served at /uploads/ when set
	Logger     *log.Logger
}

// Server is the registry HTTP API.
type Server struct {
	cfg    shared.ServerConfig
	router *BasicRouter
	logger *log.Logger
}

// New builds the router with middleware and every handler registered.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	maxUpload := opts.Config.MaxUploadMB
	if maxUpload <= 0 {
		maxUpload = 8
	}

	router := NewBasicRouter()
	router.Use(
		Recover(logger),
		RequestID(),
		Logging(logger),
		CORS(opts.Config.AllowedOrigins),
	)

	router.Handler(NewItemHandler(opts.Registry, logger))
	router.Handler(NewPointHandler(opts.Registry, maxUpload<<20, logger))
	router.Handler(NewGeoHandler(opts.Geo, logger))
	router.Handler(NewHealthHandler(opts.DB, logger))

	if opts.UploadsDir != "" {
		uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir)))
		router.Handle(http.MethodGet, "/uploads/", NoSniff()(uploads))
	}

	return &Server{cfg: opts.Config, router: router, logger: logger}
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", srv.Addr, "public_url", s.cfg.PublicURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
