package api

import (
	"net/http"

	"github.com/newthinker/screener/internal/api/job"
	"github.com/newthinker/screener/internal/api/response"
	"github.com/newthinker/screener/internal/core"
)

// RunSource lists recorded scan runs.
type RunSource interface {
	List() []job.Run
	Get(id string) (*job.Run, error)
	Latest() (*job.Run, bool)
}

// ScansHandler handles scan run API requests.
type ScansHandler struct {
	runs RunSource
}

// NewScansHandler creates a new scan run handler.
func NewScansHandler(runs RunSource) *ScansHandler {
	return &ScansHandler{runs: runs}
}

// List returns recorded runs, newest first.
func (h *ScansHandler) List(w http.ResponseWriter, r *http.Request) {
	runs := h.runs.List()
	response.JSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

// Get returns one run by id.
func (h *ScansHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.Get(r.PathValue("id"))
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.JSON(w, http.StatusOK, run)
}

// Latest returns the most recently started run.
func (h *ScansHandler) Latest(w http.ResponseWriter, r *http.Request) {
	run, ok := h.runs.Latest()
	if !ok {
		response.Error(w, http.StatusNotFound, core.ErrNotFound)
		return
	}
	response.JSON(w, http.StatusOK, run)
}
