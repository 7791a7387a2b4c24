// Package api exposes a read-only HTTP view of the leaderboard.
//
// Every request reloads the history and derives the best-score view again;
// nothing is cached and nothing is ever written.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/idrees11/gnn-topology-ablation/internal/adapters/report"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/ranking"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/types"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

const defaultMaxLimit = 1000

// Dependencies provide the state the handlers read.
type Dependencies interface {
	// View returns the ranked best-score view and the full history.
	View(ctx context.Context) ([]ranking.Standing, []model.Record, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLimit caps the limit query parameter of GET /leaderboard.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg logger.Logger) Option {
	return func(s *Server) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// Server wires HTTP routes for the read-only view.
type Server struct {
	deps     Dependencies
	renderer *report.Renderer
	maxLimit int
	logger   logger.Logger

	healthHandler      *HealthHandler
	leaderboardHandler *LeaderboardHandler
	historyHandler     *HistoryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, renderer *report.Renderer, opts ...Option) *Server {
	s := &Server{deps: deps, renderer: renderer, maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	s.healthHandler = NewHealthHandler()
	s.leaderboardHandler = NewLeaderboardHandler(deps, renderer, s.maxLimit, s.logger)
	s.historyHandler = NewHistoryHandler(deps, renderer, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", RequestIDMiddleware(MetricsHandler()))
	mux.HandleFunc("/leaderboard", s.wrap(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/leaderboard.md", s.wrap(s.leaderboardHandler.HandleGetMarkdown, "leaderboard_md"))
	mux.HandleFunc("/history", s.wrap(s.historyHandler.HandleGetHistory, "history"))
}

// Handler returns a mux with every route registered.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	s.Register(ctx, mux)
	return mux
}

func (s *Server) wrap(h http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(h, endpoint)).ServeHTTP
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
