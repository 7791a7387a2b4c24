package api

import (
	"net/http"

	"github.com/idrees11/gnn-topology-ablation/internal/adapters/report"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

// HistoryHandler serves the full scoring history.
type HistoryHandler struct {
	deps     Dependencies
	renderer *report.Renderer
	logger   logger.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps Dependencies, renderer *report.Renderer, lg logger.Logger) *HistoryHandler {
	return &HistoryHandler{deps: deps, renderer: renderer, logger: lg}
}

// HandleGetHistory handles GET /history. Records are returned in append order.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	_, history, err := h.deps.View(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "history unavailable", logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "history_unavailable", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, h.renderer.History(history))
}
