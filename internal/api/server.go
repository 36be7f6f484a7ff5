package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pepuhub/internal/api/assistantapi"
	"pepuhub/internal/api/contentapi"
	"pepuhub/internal/api/health"
	"pepuhub/internal/metrics"
	"pepuhub/pkg/errors"
	"pepuhub/pkg/logger"
)

// ServerConfig contains configuration for HTTP server
type ServerConfig struct {
	Port        int
	ServiceName string
	Version     string
}

// Server wraps HTTP server with lifecycle management
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates and configures HTTP server with all routes
func NewServer(
	cfg ServerConfig,
	healthHandler *health.Handler,
	assistantHandler *assistantapi.Handler,
	contentHandler *contentapi.Handler,
	adminGuard func(http.Handler) http.Handler,
	log *logger.Logger,
) *Server {
	mux := http.NewServeMux()

	// Health check endpoints (Kubernetes probes)
	mux.HandleFunc("/health", healthHandler.HandleHealth)
	mux.HandleFunc("/ready", healthHandler.HandleReadiness)
	mux.HandleFunc("/live", healthHandler.HandleLiveness)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", metrics.Handler())

	// Analytics assistant
	mux.HandleFunc("POST /api/assistant/chat", assistantHandler.HandleChat)
	mux.HandleFunc("POST /api/assistant/known-tokens/refresh", assistantHandler.HandleRefreshKnownTokens)

	// Public content
	mux.HandleFunc("GET /api/partners", contentHandler.HandleListPartners)
	mux.HandleFunc("GET /api/tokens", contentHandler.HandleListTokens)
	mux.HandleFunc("GET /api/tokens/{id}", contentHandler.HandleGetToken)
	mux.HandleFunc("GET /api/tokens/{id}/votes", contentHandler.HandleCountVotes)
	mux.HandleFunc("POST /api/tokens/{id}/vote", contentHandler.HandleVote)
	mux.HandleFunc("GET /api/treasury/latest", contentHandler.HandleLatestSnapshot)
	mux.HandleFunc("GET /api/treasury/snapshots", contentHandler.HandleListSnapshots)

	// Admin CRUD, gated by wallet allowlist
	admin := http.NewServeMux()
	admin.HandleFunc("POST /api/admin/partners", contentHandler.HandleCreatePartner)
	admin.HandleFunc("PUT /api/admin/partners/{id}", contentHandler.HandleUpdatePartner)
	admin.HandleFunc("DELETE /api/admin/partners/{id}", contentHandler.HandleDeletePartner)
	admin.HandleFunc("POST /api/admin/tokens", contentHandler.HandleCreateToken)
	admin.HandleFunc("PUT /api/admin/tokens/{id}", contentHandler.HandleUpdateToken)
	admin.HandleFunc("DELETE /api/admin/tokens/{id}", contentHandler.HandleDeleteToken)
	admin.HandleFunc("POST /api/admin/treasury/snapshots", contentHandler.HandleCreateSnapshot)
	admin.HandleFunc("DELETE /api/admin/treasury/snapshots/{id}", contentHandler.HandleDeleteSnapshot)
	mux.Handle("/api/admin/", adminGuard(admin))

	// Root endpoint (service info)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"service":"%s","version":"%s","status":"running"}`,
			cfg.ServiceName, cfg.Version)
	})

	port := 8080
	if cfg.Port > 0 {
		port = cfg.Port
	}

	log.Infof("HTTP server configured on port %d", port)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		log:        log,
	}
}

// Start begins listening for HTTP requests
// Blocks until server is stopped or encounters an error
func (s *Server) Start() error {
	s.log.Infof("Starting HTTP server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "http server failed")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
// Waits for active connections to complete within timeout
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "http server shutdown failed")
	}

	s.log.Info("✓ HTTP server stopped")
	return nil
}
