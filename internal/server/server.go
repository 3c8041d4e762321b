// Package server exposes the query service over HTTP: the /v1/query
// endpoint plus health probes and the Prometheus scrape endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dexvox/dexvox/internal/health"
	"github.com/dexvox/dexvox/internal/observe"
	"github.com/dexvox/dexvox/internal/skill"
)

// shutdownTimeout bounds the drain of in-flight requests when Run's
// context is cancelled.
const shutdownTimeout = 15 * time.Second

// Config carries the server's collaborators. Dispatcher is required;
// Health may be nil to skip probe registration and Metrics defaults to
// [observe.DefaultMetrics].
type Config struct {
	ListenAddr string
	Dispatcher *skill.Dispatcher
	Health     *health.Handler
	Metrics    *observe.Metrics
}

// Server is the HTTP front of the query service.
type Server struct {
	httpServer *http.Server
	dispatcher *skill.Dispatcher
	handler    http.Handler
}

// New builds the route table and returns a server ready to [Server.Run].
func New(cfg Config) (*Server, error) {
	if cfg.Dispatcher == nil {
		return nil, errors.New("server: Config.Dispatcher is required")
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}

	s := &Server{dispatcher: cfg.Dispatcher}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/query", s.handleQuery)
	mux.Handle("GET /metrics", promhttp.Handler())
	if cfg.Health != nil {
		cfg.Health.Register(mux)
	}

	s.handler = observe.Middleware(metrics)(mux)
	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wired route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests. A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// queryRequest is the /v1/query request body.
type queryRequest struct {
	SessionID string `json:"session_id"`
	Utterance string `json:"utterance"`
}

// errorResponse is the JSON body for non-200 responses.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "session_id is required"})
		return
	}
	if req.Utterance == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "utterance is required"})
		return
	}

	resp, err := s.dispatcher.Handle(r.Context(), req.SessionID, req.Utterance)
	if err != nil {
		observe.Logger(r.Context()).Error("server: query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		observe.Logger(context.Background()).Error("server: encode response", "error", err)
	}
}
