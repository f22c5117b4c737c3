// Package server exposes the interview over HTTP.
//
// Responsibilities:
//   - REST endpoints for starting an analysis, submitting answers, and
//     fetching or deleting sessions
//   - WebSocket endpoint streaming session transitions to watchers
//   - Health and Prometheus metrics endpoints
//   - Per-client rate limiting on the endpoints that reach the oracle
//   - Graceful shutdown
//
// All interview semantics live in internal/analysis; handlers only translate
// between HTTP and the analyzer's operations and error kinds.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fivewhys/fivewhys-ai/internal/analysis"
	"github.com/fivewhys/fivewhys-ai/internal/config"
	"github.com/fivewhys/fivewhys-ai/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server hosts the 5 Whys HTTP API.
type Server struct {
	cfg      *config.Config
	analyzer *analysis.Analyzer
	store    *analysis.Store
	broker   *analysis.Broker
	log      *zap.Logger

	httpServer *http.Server
	limiter    *middleware.RateLimiter

	mu      sync.Mutex
	running bool
}

// NewServer wires the HTTP surface to its collaborators.
func NewServer(cfg *config.Config, analyzer *analysis.Analyzer, store *analysis.Store, broker *analysis.Broker, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		store:    store,
		broker:   broker,
		log:      log,
	}
	if cfg.RateLimit.Enabled {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMin)
	}
	return s
}

// Handler builds the route table. Exposed for handler tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/start", s.limited(http.HandlerFunc(s.handleStart)))
	mux.Handle("/api/answer", s.limited(http.HandlerFunc(s.handleAnswer)))
	mux.HandleFunc("/api/session/", s.handleSessionByID)
	mux.HandleFunc("/ws/sessions/", s.handleSessionWatch)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleRoot)

	return mux
}

// limited applies rate limiting when enabled.
func (s *Server) limited(h http.Handler) http.Handler {
	if s.limiter == nil {
		return h
	}
	return s.limiter.Wrap(h)
}

// Start begins serving in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.running = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		s.log.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("http server failed", zap.Error(err))
		}
	}()

	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	if s.limiter != nil {
		s.limiter.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(s.cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
