package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oneworldlabs/oneworld/internal/config"
)

// Server wraps the HTTP server with its configuration.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a new configured HTTP server instance.
func NewServer(cfg *config.Config, h http.Handler, logger *slog.Logger) *Server {
	srv := &http.Server{
		Addr:    cfg.WebAppAddr,
		Handler: h,
		// WebSocket connections hijack the conn and manage their own
		// deadlines; these timeouts govern plain HTTP requests only.
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
	}
}

// Start begins listening and serving HTTP requests. It returns nil when
// the server was closed by Shutdown.
func (s *Server) Start() error {
	s.logger.Info("webapp server starting", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
