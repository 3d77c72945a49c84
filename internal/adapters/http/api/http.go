// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/finch/internal/adapters/repository"
	"github.com/okian/finch/internal/domain/status"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Lookup returns the stored score record for a handle, or
	// repository.ErrNotFound.
	Lookup(ctx context.Context, handle string) (*repository.User, error)

	// QueueStatus returns the handle's current job state.
	QueueStatus(ctx context.Context, handle string) status.State

	// Enqueue admits a new scoring job. Returns false when the handle is
	// already in flight or the queue refuses the job.
	Enqueue(ctx context.Context, handle string) bool
}

// Server wires HTTP routes for the scoring API.
type Server struct {
	scoreHandler  *ScoreHandler
	healthHandler *HealthHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		scoreHandler:  NewScoreHandler(deps),
		healthHandler: NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleGetScore, "score"))
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealth)
}

// scoreRequest mirrors the wire schema for GET /score.
type scoreRequest struct {
	ScreenName string `json:"screen_name"`
}

// errorResponse and queuedResponse reproduce the original wire shapes.
type errorResponse struct {
	Error string `json:"error"`
}

type queuedResponse struct {
	Score string `json:"score"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, err error) {
	writeJSON(w, statusCode, errorResponse{Error: err.Error()})
}
