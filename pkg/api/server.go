package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host           string        // Host to bind to (default "localhost")
	Port           int           // Port to listen on (default 8080)
	ReadTimeout    time.Duration // Read timeout (default 30s)
	WriteTimeout   time.Duration // Write timeout (default 0: SSE/WS hold the connection)
	IdleTimeout    time.Duration // Idle timeout (default 60s)
	MaxGameWorkers int           // Max concurrent game operations (default 100)
	MaxSimWorkers  int           // Max concurrent simulations (default 4)
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:           "localhost",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxGameWorkers: 100,
		MaxSimWorkers:  4,
	}
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	sessions *SessionManager
	handlers *Handlers
	server   *http.Server
	pool     *WorkerPool
	version  string
	log      zerolog.Logger
}

// NewServer creates an API server with its own session registry.
func NewServer(config ServerConfig, version string, log zerolog.Logger) *Server {
	pool := NewWorkerPool(PoolConfig{
		MaxGameWorkers: config.MaxGameWorkers,
		MaxSimWorkers:  config.MaxSimWorkers,
	})
	sessions := NewSessionManager()
	handlers := NewHandlersWithPool(sessions, version, pool)

	return &Server{
		config:   config,
		sessions: sessions,
		handlers: handlers,
		pool:     pool,
		version:  version,
		log:      log,
	}
}

// Sessions returns the session registry.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handlers.Health)

	mux.HandleFunc("POST /api/games", s.handlers.CreateGame)
	mux.HandleFunc("GET /api/games/{id}", s.handlers.GetGame)
	mux.HandleFunc("DELETE /api/games/{id}", s.handlers.DeleteGame)

	mux.HandleFunc("POST /api/games/{id}/players", s.handlers.AddPlayer)
	mux.HandleFunc("DELETE /api/games/{id}/players/{color}", s.handlers.RemovePlayer)
	mux.HandleFunc("POST /api/games/{id}/start", s.handlers.StartGame)
	mux.HandleFunc("POST /api/games/{id}/reset", s.handlers.ResetGame)

	mux.HandleFunc("POST /api/games/{id}/roll", s.handlers.RollDice)
	mux.HandleFunc("GET /api/games/{id}/moves", s.handlers.ValidMoves)
	mux.HandleFunc("POST /api/games/{id}/move", s.handlers.MovePiece)
	mux.HandleFunc("GET /api/games/{id}/position", s.handlers.Position)

	mux.HandleFunc("POST /api/games/{id}/ai", s.handlers.ConfigureAI)
	mux.HandleFunc("GET /api/games/{id}/ai/{color}", s.handlers.AIStatus)
	mux.HandleFunc("DELETE /api/games/{id}/ai/{color}", s.handlers.ReleaseAI)
	mux.HandleFunc("POST /api/games/{id}/ai/step", s.handlers.StepAI)

	mux.HandleFunc("POST /api/simulate", s.handlers.Simulate)

	mux.HandleFunc("GET /api/games/{id}/events", s.handlers.Events)
	mux.HandleFunc("/api/games/{id}/ws", s.handlers.WebSocket)

	return corsMiddleware(s.loggingMiddleware(mux))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	s.log.Info().Str("addr", addr).Str("version", s.version).Msg("starting ludo API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ListenAndServeWithGracefulShutdown starts the server and handles
// shutdown signals.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	errChan := make(chan error, 1)

	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		s.log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info().Msg("server stopped gracefully")
	return nil
}
