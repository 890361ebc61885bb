package server

import (
	"context"
	"sync"
	"time"

	"github.com/gear6io/tableserve/pkg/errors"
	"github.com/gear6io/tableserve/server/config"
	"github.com/gear6io/tableserve/server/database"
	"github.com/gear6io/tableserve/server/web"
	"github.com/rs/zerolog"
)

// Server wires the database store and the web server together and manages
// their lifecycle.
type Server struct {
	cfg       *config.Config
	logger    zerolog.Logger
	store     *database.Store
	web       *web.Server
	startTime time.Time
	started   bool
	mu        sync.Mutex
}

// New creates a server instance, connecting to the database described by cfg.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	store, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	return newWithStore(cfg, store, logger), nil
}

func newWithStore(cfg *config.Config, store *database.Store, logger zerolog.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger.With().Str("component", "server").Logger(),
		store:  store,
		web:    web.NewServer(cfg, store, logger),
	}
}

// Start starts the web server
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.New(ErrAlreadyStarted, "server is already started", nil)
	}

	if err := s.web.Start(ctx); err != nil {
		return err
	}

	s.startTime = time.Now()
	s.started = true
	s.logger.Info().Str("address", s.web.Addr()).Msg("Server started")
	return nil
}

// Shutdown stops the web server and releases the database pool
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info().Msg("Shutting down server")

	if err := s.web.Stop(); err != nil {
		s.logger.Error().Err(err).Msg("Error stopping web server")
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing database pool")
	}

	s.started = false
	s.logger.Info().Msg("Server stopped")
	return nil
}

// Addr returns the address the web server is bound to
func (s *Server) Addr() string {
	return s.web.Addr()
}

// GetStatus returns the combined server status
func (s *Server) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"started": s.started,
		"web":     s.web.GetStatus(),
	}
	if s.started {
		status["uptime"] = time.Since(s.startTime).String()
	}
	return status
}
