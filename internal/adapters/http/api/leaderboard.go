package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/idrees11/gnn-topology-ablation/internal/adapters/report"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/ranking"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

// LeaderboardHandler serves the best-score view.
type LeaderboardHandler struct {
	deps     Dependencies
	renderer *report.Renderer
	maxLimit int
	logger   logger.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps Dependencies, renderer *report.Renderer, maxLimit int, lg logger.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, renderer: renderer, maxLimit: maxLimit, logger: lg}
}

// HandleGetLeaderboard handles GET /leaderboard[?limit=N].
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	n := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
	}

	view, _, ok := h.load(r.Context(), w, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.renderer.Board(ranking.Top(view, n)))
}

// HandleGetMarkdown handles GET /leaderboard.md.
func (h *LeaderboardHandler) HandleGetMarkdown(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard_md"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, history, ok := h.load(r.Context(), w, op)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.renderer.Markdown(view, history))
}

func (h *LeaderboardHandler) load(ctx context.Context, w http.ResponseWriter, op string) ([]ranking.Standing, []model.Record, bool) {
	view, history, err := h.deps.View(ctx)
	if err != nil {
		h.logger.Error(ctx, "history unavailable", logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "history_unavailable", Wrap(op, err))
		return nil, nil, false
	}
	return view, history, true
}
