package web

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/newthinker/screener/internal/dashboard"
)

// Dashboard renders the full page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.view(false), "layout.html")
}

// Scan runs a scan and swaps every region the scan touches.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	h.dispatch(r, dashboard.ScanRequested{})
	h.render(w, h.view(true), "stats", "results", "scan_button", "progress", "status")
}

// Progress returns the progress bar, plus the scan button so it re-enables
// once the reset delay has passed.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	v := h.view(false)
	h.render(w, v, "progress")
	v.OOB = true
	h.render(w, v, "scan_button")
}

// StockModal opens the detail modal in its loading state. The body loads
// itself on arrival.
func (h *Handler) StockModal(w http.ResponseWriter, r *http.Request) {
	h.ctrl.OpenDetails(r.PathValue("symbol"))
	h.render(w, h.view(false), "modal")
}

// StockBody loads a stock's detail into the modal body.
func (h *Handler) StockBody(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	seq, err := strconv.ParseUint(r.URL.Query().Get("seq"), 10, 64)
	if err != nil {
		http.Error(w, "invalid seq", http.StatusBadRequest)
		return
	}

	err = h.ctrl.LoadDetails(r.Context(), symbol, seq)
	if errors.Is(err, dashboard.ErrStaleDetail) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.logger.Debug("stock detail failed", zap.String("symbol", symbol), zap.Error(err))
	}

	v := h.view(false)
	h.render(w, v, "modal_body")
	v.OOB = true
	h.render(w, v, "modal_title", "watchlist_button")
}

// CloseModal hides the detail modal.
func (h *Handler) CloseModal(w http.ResponseWriter, r *http.Request) {
	h.dispatch(r, dashboard.ModalClosed{})
	h.render(w, h.view(false), "modal")
}

// Watchlist adds the posted symbol, or the modal's target, to the watchlist.
func (h *Handler) Watchlist(w http.ResponseWriter, r *http.Request) {
	h.dispatch(r, dashboard.WatchlistRequested{Symbol: r.FormValue("symbol")})
	h.render(w, h.view(true), "status")
}

// Update asks the backend to refresh its data.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	h.dispatch(r, dashboard.UpdateRequested{})
	h.render(w, h.view(true), "status")
}

// Status returns the status region; an expired message renders empty.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.view(false), "status")
}

// DismissStatus closes a status message. A stale id leaves a newer
// message in place.
func (h *Handler) DismissStatus(w http.ResponseWriter, r *http.Request) {
	h.dispatch(r, dashboard.StatusDismissed{ID: r.PathValue("id")})
	h.render(w, h.view(false), "status")
}

// Register mounts the UI routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("POST /ui/scan", h.Scan)
	mux.HandleFunc("GET /ui/progress", h.Progress)
	mux.HandleFunc("GET /ui/stock/{symbol}", h.StockModal)
	mux.HandleFunc("GET /ui/stock/{symbol}/body", h.StockBody)
	mux.HandleFunc("POST /ui/modal/close", h.CloseModal)
	mux.HandleFunc("POST /ui/watchlist", h.Watchlist)
	mux.HandleFunc("POST /ui/update", h.Update)
	mux.HandleFunc("GET /ui/status", h.Status)
	mux.HandleFunc("POST /ui/status/{id}/dismiss", h.DismissStatus)
}
