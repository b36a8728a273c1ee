// Package server exposes the chat and categorization services over HTTP.
// Subsystem failures always surface as structured 200 responses; only
// malformed requests produce 4xx.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arkanhakim/catatduit/internal/chat"
	"github.com/arkanhakim/catatduit/internal/service"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr            string
	RequestsPerSec  float64
	Burst           int
	ShutdownTimeout time.Duration
}

// CacheClearer is implemented by categorizers whose classification cache
// supports bulk admin invalidation.
type CacheClearer interface {
	ClearCache()
}

// Server wires the HTTP surface over the chat service and categorizer.
type Server struct {
	chat        *chat.Service
	categorizer service.Categorizer
	logger      *slog.Logger
	httpServer  *http.Server
	cfg         Config
}

// New creates the server and its router.
func New(cfg Config, chatSvc *chat.Service, categorizer service.Categorizer, logger *slog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		chat:        chatSvc,
		categorizer: categorizer,
		logger:      logger,
		cfg:         cfg,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Routes builds the router. Exposed separately for handler tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(s.cfg.RequestsPerSec, s.cfg.Burst))
		r.Post("/chat", s.handleChat)
		r.Post("/categorize", s.handleCategorize)
		r.Get("/conversation-starters", s.handleConversationStarters)
		r.Post("/cache/clear", s.handleCacheClear)
	})

	return r
}

// Run serves until the context is canceled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
