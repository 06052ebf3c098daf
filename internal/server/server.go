// Package server provides the HTTP API for onboarding intake and document generation.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/journeyhouse/onboarding/internal/config"
	"github.com/journeyhouse/onboarding/internal/db"
	"github.com/journeyhouse/onboarding/internal/documents"
	"github.com/journeyhouse/onboarding/internal/intake"
	"github.com/journeyhouse/onboarding/internal/logging"
	"github.com/journeyhouse/onboarding/internal/server/ratelimit"
	"github.com/journeyhouse/onboarding/internal/templates"
)

// maxBodyBytes bounds request bodies; signatures are embedded as data URLs.
const maxBodyBytes = 10 << 20

const shutdownTimeout = 30 * time.Second

// Database is the part of the persistence layer the server manages directly.
type Database interface {
	Ping(ctx context.Context) error
	Close()
}

// Deps are the collaborators a Server routes requests to.
type Deps struct {
	Assembler *documents.Assembler
	Intake    *intake.Service

	// PDFForwarder, when set, proxies /api/generatepdf instead of assembling locally.
	PDFForwarder *intake.Forwarder

	Database  Database
	RateLimit *ratelimit.Config
	Logger    *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	handler      http.Handler
	allowOrigin  string
	assembler    *documents.Assembler
	intake       *intake.Service
	pdfForwarder *intake.Forwarder
	database     Database
	rateLimiter  *ratelimit.Limiter
	logger       *zap.Logger
}

// New creates a server from already constructed dependencies.
func New(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		allowOrigin:  cfg.AllowedOrigin,
		assembler:    deps.Assembler,
		intake:       deps.Intake,
		pdfForwarder: deps.PDFForwarder,
		database:     deps.Database,
		rateLimiter:  ratelimit.NewLimiter(deps.RateLimit),
		logger:       logging.OrNop(deps.Logger),
	}
	if s.intake == nil {
		s.intake = intake.NewService(cfg.ValidationMode, intake.WithLogger(s.logger))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generatepdf", s.handleGeneratePDF)
	mux.HandleFunc("POST /api/intake", s.handleIntake)
	mux.HandleFunc("POST /api/submit", s.handleIntake)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = s.withLogging(s.withCORS(s.withRateLimit(mux)))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}
	return s
}

// Build wires a server from configuration: the template store and document
// assembler, plus the database and downstream forwarder when configured.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	logger = logging.OrNop(logger)

	store, err := templates.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	if err := store.Verify(ctx); err != nil {
		// Broken templates only affect their own documents.
		logger.Warn("some templates could not be loaded", zap.Error(err))
	}

	deps := Deps{
		Assembler: documents.NewAssembler(documents.NewRegistry(store, logger), logger),
		RateLimit: ratelimit.LoadConfig(),
		Logger:    logger,
	}
	opts := []intake.Option{intake.WithLogger(logger)}

	if cfg.PDFFunctionURL != "" {
		fwd, err := intake.NewForwarder(cfg.PDFFunctionURL, nil)
		if err != nil {
			return nil, err
		}
		opts = append(opts, intake.WithForwarder(fwd))
		if cfg.PDFMode == config.PDFModeForward {
			deps.PDFForwarder = fwd
		}
	}

	if cfg.DatabaseURL != "" {
		sealer, err := config.NewSealer(cfg.SSNEncryptionKey)
		if err != nil {
			return nil, err
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, intake.WithStore(database, sealer))
		deps.Database = database
	}

	deps.Intake = intake.NewService(cfg.ValidationMode, opts...)

	logger.Info("server configured",
		zap.String("templates", store.Source().String()),
		zap.String("pdf_mode", cfg.PDFMode),
		zap.String("validation_mode", cfg.ValidationMode),
		zap.Bool("database", deps.Database != nil),
		zap.Bool("rate_limit", deps.RateLimit.Enabled))

	return New(cfg, deps), nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until ctx is cancelled or the process receives SIGINT/SIGTERM,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	<-errCh
	s.Close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close releases the rate limiter and database pool.
func (s *Server) Close() {
	s.rateLimiter.Stop()
	if s.database != nil {
		s.database.Close()
	}
}

// withCORS restricts browser callers to the configured origin and answers preflights.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exceed their per-endpoint budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if !allowed {
			retry := int(info.RetryAfter.Round(time.Second).Seconds())
			if retry > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(retry))
			}
			s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
				"error":       "rate_limit_exceeded",
				"message":     "Rate limit exceeded. Please try again later.",
				"retry_after": retry,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
		}
		if rec.status >= http.StatusInternalServerError {
			s.logger.Error("request completed", fields...)
			return
		}
		s.logger.Info("request completed", fields...)
	})
}

// handleHealth reports liveness and, when configured, database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.database.Ping(ctx); err != nil {
		s.logger.Warn("database health check failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"database": "unreachable",
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// clientID identifies the caller for rate limiting by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
