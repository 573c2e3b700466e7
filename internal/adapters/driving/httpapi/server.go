package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/logger"
	"github.com/custodia-labs/docintake/internal/metrics"
)

// shutdownTimeout bounds how long in-flight requests may run after Run's context ends.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP server for docintake.
type Server struct {
	ports   *Ports
	echo    *echo.Echo
	metrics *metrics.Metrics
	started time.Time

	bodyLimit     string
	excerptLength int
	corsOrigins   []string
}

// Option configures the server.
type Option func(*Server)

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithBodyLimit caps request bodies, e.g. "32M".
func WithBodyLimit(limit string) Option {
	return func(s *Server) {
		if limit != "" {
			s.bodyLimit = limit
		}
	}
}

// WithExcerptLength sets how many characters of fulltext list views keep.
func WithExcerptLength(n int) Option {
	return func(s *Server) {
		s.excerptLength = n
	}
}

// WithCORSOrigins restricts cross-origin requests. Default allows any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// NewServer creates a new HTTP server with the given ports.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:         ports,
		started:       time.Now(),
		bodyLimit:     domain.DefaultBodyLimit,
		excerptLength: domain.DefaultExcerptLength,
		corsOrigins:   []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(echoMiddleware.Recover())
	e.Use(requestLogger())
	if s.metrics != nil {
		e.Use(recordMetrics(s.metrics))
	}
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: s.corsOrigins,
	}))
	e.Use(echoMiddleware.BodyLimit(s.bodyLimit))

	s.echo = e
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.POST("/analisar", s.analyze)
	s.echo.GET("/buscar", s.search)
	s.echo.GET("/metadados", s.list)
	s.echo.GET("/healthz", s.health)

	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}
}

// Handler returns the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves HTTP on addr.
// It blocks until the context is cancelled or an error occurs, then drains
// in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on %s", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down HTTP server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
