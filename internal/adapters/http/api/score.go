package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/finch/internal/adapters/repository"
	"github.com/okian/finch/pkg/metrics"
)

// ScoreHandler serves the single business endpoint.
type ScoreHandler struct {
	deps Dependencies
}

// NewScoreHandler creates a score handler.
func NewScoreHandler(deps Dependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandleGetScore handles GET /score. The target handle arrives in the JSON
// body, matching the original wire contract. The reply is the stored record,
// a queued acknowledgment, an already-in-progress rejection, or a validation
// error.
func (h *ScoreHandler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	var req scoreRequest
	if r.Body != nil {
		// An unreadable or empty body falls through to handle validation.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	handle := strings.TrimSpace(req.ScreenName)
	if handle == "" {
		writeError(w, http.StatusBadRequest, ErrMissingHandle)
		return
	}

	record, err := h.deps.Lookup(r.Context(), handle)
	if err == nil {
		writeJSON(w, http.StatusOK, record)
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusServiceUnavailable, ErrStoreUnavailable)
		return
	}

	if h.deps.QueueStatus(r.Context(), handle).InFlight() {
		metrics.RecordJobDuplicate()
		writeError(w, http.StatusConflict, ErrAlreadyQueued)
		return
	}

	if !h.deps.Enqueue(r.Context(), handle) {
		// Lost an admission race or the queue is saturated.
		if h.deps.QueueStatus(r.Context(), handle).InFlight() {
			metrics.RecordJobDuplicate()
			writeError(w, http.StatusConflict, ErrAlreadyQueued)
			return
		}
		writeError(w, http.StatusServiceUnavailable, ErrQueueSaturated)
		return
	}

	metrics.RecordJobEnqueued()
	writeJSON(w, http.StatusAccepted, queuedResponse{Score: "queued"})
}
