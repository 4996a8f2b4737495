package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/statsrender/pkg/admin"
	"mercator-hq/statsrender/pkg/config"
	"mercator-hq/statsrender/pkg/server/middleware"
	"mercator-hq/statsrender/pkg/telemetry/health"
	"mercator-hq/statsrender/pkg/telemetry/tracing"
)

// Routes are the handlers mounted on the admin mux. Stats is required.
type Routes struct {
	Stats *admin.Handler

	// Health serves the probes at the paths in HealthConfig when set.
	Health       *health.Checker
	HealthConfig config.HealthConfig

	// Metrics serves the self metrics registry at MetricsPath when set.
	Metrics     http.Handler
	MetricsPath string

	// Tracer opens a server span per request when set.
	Tracer *tracing.Tracer
}

// Server is the admin HTTP server.
type Server struct {
	config     *config.AdminConfig
	routes     Routes
	logger     *slog.Logger
	httpServer *http.Server
	tlsConfig  *tls.Config

	mu           sync.RWMutex
	isRunning    bool
	addr         net.Addr
	shutdownOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithTLS serves HTTPS with c instead of plain HTTP.
func WithTLS(c *tls.Config) Option {
	return func(s *Server) { s.tlsConfig = c }
}

// New creates an admin server.
func New(cfg *config.AdminConfig, routes Routes, opts ...Option) *Server {
	s := &Server{
		config: cfg,
		routes: routes,
		logger: slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start listens on the configured address and serves until ctx is
// canceled or the listener fails. Cancellation triggers a graceful
// shutdown bounded by the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}

	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.addr = ln.Addr()
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting admin server", "address", ln.Addr().String(), "tls", s.tlsConfig != nil)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		if !ok {
			return nil
		}
		return err
	}
}

// Shutdown gracefully stops the server. Only the first call has an effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("admin server stopped")
	})

	return shutdownErr
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.routes.Stats.Mount(mux)
	if s.routes.Health != nil {
		s.routes.Health.Mount(mux, s.routes.HealthConfig)
	}
	if s.routes.Metrics != nil && s.routes.MetricsPath != "" {
		mux.Handle(s.routes.MetricsPath, s.routes.Metrics)
	}

	var handler http.Handler = mux
	if s.routes.Tracer != nil {
		handler = s.routes.Tracer.Middleware(handler)
	}
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(s.logger)(handler)
	return handler
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}
