// Package server assembles the HTTP surface: JSON API, WebSocket event
// feed, and the storefront reverse proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prophetlabs/signal2store/internal/server/handler"
	"github.com/prophetlabs/signal2store/internal/server/middleware"
	"github.com/prophetlabs/signal2store/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health    *handler.HealthHandler
	Markets   *handler.MarketHandler
	Agent     *handler.AgentHandler
	Workspace *handler.WorkspaceHandler
	Analytics *handler.AnalyticsHandler
	Proxy     *handler.ProxyHandler
}

// Server is the HTTP + WebSocket front for the signal workspace. Everything
// under /api and /ws is served locally; all other paths fall through to the
// storefront reverse proxy.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (logging, CORS, auth) and attaches the WebSocket hub.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Market and signal endpoints. /api/polymarket is the raw batch the
	// dashboard's market panel was built against; /api/markets aliases it.
	mux.HandleFunc("GET /api/polymarket", handlers.Markets.ListMarkets)
	mux.HandleFunc("GET /api/markets", handlers.Markets.ListMarkets)
	mux.HandleFunc("GET /api/signals", handlers.Markets.ListSignals)

	// Merchandising agent.
	mux.HandleFunc("POST /api/agent", handlers.Agent.Plan)

	// Draft workspace.
	mux.HandleFunc("GET /api/workspace", handlers.Workspace.GetState)
	mux.HandleFunc("POST /api/workspace/reset", handlers.Workspace.Reset)
	mux.HandleFunc("POST /api/reset", handlers.Workspace.Reset)
	mux.HandleFunc("GET /api/drafts", handlers.Workspace.ListDrafts)
	mux.HandleFunc("POST /api/drafts", handlers.Workspace.CreateDraft)
	mux.HandleFunc("POST /api/drafts/{id}/publish", handlers.Workspace.Publish)
	mux.HandleFunc("POST /api/drafts/{id}/reject", handlers.Workspace.Reject)
	mux.HandleFunc("GET /api/published", handlers.Workspace.ListPublished)
	mux.HandleFunc("GET /api/events", handlers.Workspace.ListEvents)
	mux.HandleFunc("GET /api/prefs", handlers.Workspace.GetPrefs)
	mux.HandleFunc("PUT /api/prefs", handlers.Workspace.PutPrefs)

	// Analytics.
	mux.HandleFunc("POST /api/track", handlers.Analytics.Track)
	mux.HandleFunc("POST /api/events/archive", handlers.Analytics.ArchiveEvents)

	// WebSocket event feed.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Explicit proxy mount for the dashboard's cross-origin workaround,
	// plus a root fallthrough so storefront paths resolve directly.
	if handlers.Proxy != nil {
		mux.HandleFunc("/api/proxy/{path...}", handlers.Proxy.ForwardStripped)
		mux.HandleFunc("/", handlers.Proxy.Forward)
	}

	// Build the middleware chain.
	var h http.Handler = mux

	// Apply auth middleware (skips if APIKey is empty).
	h = middleware.Auth(cfg.APIKey)(h)

	// Apply request logging middleware.
	h = middleware.Logging(logger)(h)

	// Apply CORS middleware.
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Handler returns the fully assembled handler chain, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
