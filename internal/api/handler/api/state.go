package api

import (
	"net/http"

	"github.com/newthinker/screener/internal/api/response"
	"github.com/newthinker/screener/internal/dashboard"
)

// StateSource is the part of the dashboard controller the state endpoint
// reads.
type StateSource interface {
	Snapshot() dashboard.State
}

// StateHandler serves the dashboard state as JSON.
type StateHandler struct {
	source StateSource
}

// NewStateHandler creates a new state handler.
func NewStateHandler(source StateSource) *StateHandler {
	return &StateHandler{source: source}
}

// Get returns the current dashboard snapshot.
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.source.Snapshot())
}
