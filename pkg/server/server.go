// Package server provides the HTTP surface of memoryd.
//
// This package implements a graceful HTTP server with Echo router,
// the chat endpoint (JSON and SSE streaming), attribute and history
// management endpoints, and context-aware shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fyrsmithlabs/memoryd/internal/config"
	"github.com/fyrsmithlabs/memoryd/internal/logging"
	"github.com/fyrsmithlabs/memoryd/internal/services"
)

// Server represents the HTTP server.
type Server struct {
	config   *config.Config
	registry services.Registry
	logger   *logging.Logger
	echo     *echo.Echo
}

// Options configures optional server collaborators.
type Options struct {
	// Logger defaults to a no-op logger.
	Logger *logging.Logger

	// Gatherer backs the /metrics endpoint. Nil disables it.
	Gatherer prometheus.Gatherer
}

// HealthResponse is the JSON response for the /health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// NewServer creates a new HTTP server over the service registry.
//
// The server includes:
//   - Echo router for HTTP routing
//   - Standard middleware (recoverer, request ID)
//   - Chat endpoint with JSON and SSE streaming responses
//   - Attribute, record, and history management endpoints
//   - Health check endpoint at GET /health
//   - Graceful shutdown support
func NewServer(cfg *config.Config, registry services.Registry, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Server{
		config:   cfg,
		registry: registry,
		logger:   logger,
		echo:     e,
	}
	s.registerRoutes(opts.Gatherer)
	return s
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	s.echo.GET("/health", s.handleHealth)
	if gatherer != nil {
		s.echo.GET("/metrics", echo.WrapHandler(
			promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/v1")
	v1.POST("/chat", s.handleChat)

	v1.GET("/sessions/:id/history", s.handleGetHistory)
	v1.DELETE("/sessions/:id/history", s.handleClearHistory)

	v1.GET("/attributes", s.handleListAttributes)
	v1.POST("/attributes", s.handleCreateAttribute)
	v1.GET("/attributes/:id", s.handleGetAttribute)
	v1.PUT("/attributes/:id", s.handleUpdateAttribute)
	v1.DELETE("/attributes/:id", s.handleDeleteAttribute)
	v1.GET("/attributes/:id/records", s.handleListAttributeRecords)

	v1.GET("/records", s.handleListAllRecords)
}

// handleHealth handles GET /health requests.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "memoryd",
	})
}

// Start starts the HTTP server and blocks until the context is
// cancelled, then performs graceful shutdown with the configured
// timeout. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server start: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			s.config.Server.ShutdownTimeout,
		)
		defer cancel()

		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return http.ErrServerClosed
	}
}

// Echo returns the underlying Echo instance for registering additional
// routes.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
