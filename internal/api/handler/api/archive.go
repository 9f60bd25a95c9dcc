package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/newthinker/screener/internal/api/response"
	"github.com/newthinker/screener/internal/core"
	"github.com/newthinker/screener/internal/storage/archive"
)

// SnapshotSource reads archived scan snapshots.
type SnapshotSource interface {
	List(ctx context.Context, day time.Time) ([]string, error)
	Load(ctx context.Context, path string) (*archive.Snapshot, error)
}

// ArchiveHandler serves archived scan snapshots.
type ArchiveHandler struct {
	scans SnapshotSource
	now   func() time.Time
}

// NewArchiveHandler creates a new archive handler.
func NewArchiveHandler(scans SnapshotSource) *ArchiveHandler {
	return &ArchiveHandler{scans: scans, now: time.Now}
}

// List returns the snapshot paths for ?day=YYYY-MM-DD, today by default.
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	day := h.now().UTC()
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrConfigInvalid, err))
			return
		}
		day = parsed
	}

	paths, err := h.scans.List(r.Context(), day)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"day":       day.Format(time.DateOnly),
		"snapshots": paths,
		"count":     len(paths),
	})
}

// Get returns one snapshot. The path must stay under the scans prefix.
func (h *ArchiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := r.PathValue("path")
	if !strings.HasPrefix(p, "scans/") || strings.Contains(p, "..") {
		response.Error(w, http.StatusNotFound, core.ErrNotFound)
		return
	}

	snap, err := h.scans.Load(r.Context(), p)
	if err != nil {
		response.Error(w, http.StatusNotFound, core.WrapError(core.ErrNotFound, err))
		return
	}
	response.JSON(w, http.StatusOK, snap)
}
