package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/wideint/internal/calc"
	"github.com/agbru/wideint/internal/logging"
	"github.com/agbru/wideint/internal/sysmon"
)

const tracerName = "github.com/agbru/wideint/internal/server"

// Config holds the HTTP server settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Security        SecurityConfig
}

// DefaultConfig returns the settings used by -serve.
func DefaultConfig(addr string) Config {
	return Config{
		Addr:            addr,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		Security:        DefaultSecurityConfig(),
	}
}

// Server serves evaluations of a calc.Registry over HTTP.
type Server struct {
	registry *calc.Registry
	cfg      Config
	metrics  *Metrics
	logger   logging.Logger
	tracer   trace.Tracer
	version  string
	features sysmon.Features
	mux      *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTracerProvider sets the provider of the evaluation tracer.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracer = tp.Tracer(tracerName) }
}

// WithVersion sets the version reported by /healthz.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a server for reg.
func New(reg *calc.Registry, cfg Config, opts ...Option) *Server {
	s := &Server{
		registry: reg,
		cfg:      cfg,
		metrics:  NewMetrics(),
		logger:   logging.NewNopLogger(),
		tracer:   otel.GetTracerProvider().Tracer(tracerName),
		version:  "dev",
		features: sysmon.CPUFeatures(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux = http.NewServeMux()
	s.route("/v1/eval", s.handleEval)
	s.route("/v1/ops", s.handleOps)
	s.route("/healthz", s.handleHealth)
	s.route("/metrics", s.handleMetrics)
	return s
}

func (s *Server) route(path string, h http.HandlerFunc) {
	s.mux.HandleFunc(path, SecurityMiddleware(s.cfg.Security, s.metricsMiddleware(h)))
}

// Handler returns the routed handler, for embedding or tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Metrics returns the collectors of the server.
func (s *Server) Metrics() *Metrics { return s.metrics }

// ListenAndServe listens on the configured address and serves until ctx is
// done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully within ShutdownTimeout. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.mux,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("server listening", logging.String("addr", ln.Addr().String()), logging.String("version", s.version))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware tracks active requests, counts responses by code and
// logs each request at debug level.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		s.metrics.ObserveRequest(r.URL.Path, rec.status)
		s.logger.Debug("request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Duration("elapsed", time.Since(start)))
	}
}
