// Package obsserver exposes a Prometheus /metrics and /health HTTP
// endpoint for the chronofmv demonstration CLI.
package obsserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nainya/chronofmv/internal/logger"
)

// Server serves /metrics and /health over HTTP. It has no knowledge of
// chronofmv internals beyond what the process has registered with the
// default Prometheus registry — it's a standalone collaborator next to
// a Database, not part of it.
type Server struct {
	server *http.Server
	log    *logger.Logger
}

// New builds an observability server listening on addr (e.g. ":9090").
func New(addr string, log *logger.Logger) *Server {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"chronofmv"}`))
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{server: server, log: log}
}

// Start runs the HTTP server until Shutdown is called. It always
// returns a non-nil error, following net/http.Server.ListenAndServe's
// convention, except when the error is the expected one from a clean
// Shutdown.
func (s *Server) Start() error {
	s.log.Info("starting observability server").
		Str("addr", s.server.Addr).
		Msg("metrics and health endpoints available")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("obsserver: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down observability server").Send()
	return s.server.Shutdown(ctx)
}
