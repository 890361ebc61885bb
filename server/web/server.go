package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gear6io/tableserve/pkg/errors"
	"github.com/gear6io/tableserve/server/config"
	"github.com/gear6io/tableserve/server/database"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RowSource is the read path the handlers need from the store.
type RowSource interface {
	FetchRows(ctx context.Context) (*database.RowSet, error)
	Ping(ctx context.Context) error
	Query() string
}

// Server represents the HTTP server rendering the table page
type Server struct {
	cfg       *config.Config
	source    RowSource
	logger    zerolog.Logger
	server    *http.Server
	listener  net.Listener
	mux       *http.ServeMux
	wg        sync.WaitGroup
	startTime time.Time
}

// NewServer creates a new web server instance
func NewServer(cfg *config.Config, source RowSource, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		source: source,
		logger: logger.With().Str("component", "web-server").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	s.mux = mux

	return s
}

// Handler returns the request handler including access logging
func (s *Server) Handler() http.Handler {
	return s.accessLog(s.mux)
}

// Start binds the configured address and serves requests in the background.
// Bind failures are reported synchronously.
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.GetHTTPAddress()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.New(ErrListenFailed, "failed to bind http address", err).AddContext("address", addr)
	}
	s.listener = listener
	s.startTime = time.Now()

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info().Str("address", listener.Addr().String()).Msg("Starting HTTP server")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info().Msg("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return errors.New(ErrShutdownFailed, "http server shutdown failed", err)
	}

	s.wg.Wait()
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Addr returns the bound address, useful when the configured port is 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.GetHTTPAddress()
	}
	return s.listener.Addr().String()
}

// GetStatus returns the current server status
func (s *Server) GetStatus() map[string]interface{} {
	status := map[string]interface{}{
		"address": s.cfg.GetHTTPAddress(),
		"table":   s.cfg.GetTable(),
		"query":   s.source.Query(),
	}
	if !s.startTime.IsZero() {
		status["uptime"] = time.Since(s.startTime).String()
	}
	return status
}

// handleHealth reports readiness: 200 only when the database answers a ping.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.source.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  errors.GetCode(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus reports server info as JSON
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.GetStatus()
	status["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	writeJSON(w, http.StatusOK, status)
}

// accessLog logs one line per request with a generated request id
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		next.ServeHTTP(w, r)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
