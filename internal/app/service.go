// Package service runs scoring cycles: it wires the truth loader, the
// evaluator, the history store and the report renderer together.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/idrees11/gnn-topology-ablation/internal/adapters/report"
	"github.com/idrees11/gnn-topology-ablation/internal/adapters/repository"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/ranking"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/scoring"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/submission"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
	"github.com/idrees11/gnn-topology-ablation/pkg/metrics"
)

// TruthLoader provides the ground-truth table, or nil when it is absent.
type TruthLoader interface {
	Load(ctx context.Context) (*model.LabelTable, error)
}

// Result summarizes a scoring cycle or a re-render.
type Result struct {
	TruthAvailable bool
	// Records are the scoring events produced by this run, in plan order.
	Records   []model.Record
	Standings []ranking.Standing
	History   int
}

// Service orchestrates scoring cycles.
type Service struct {
	truth     TruthLoader
	evaluator *scoring.Evaluator
	store     repository.Store
	renderer  *report.Renderer

	submissionsDir  string
	submissionExts  []string
	paths           report.Paths
	workers         int
	metricsTextfile string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSubmissions sets the submissions directory and accepted extensions.
func WithSubmissions(dir string, exts []string) Option {
	return func(s *Service) {
		if dir != "" {
			s.submissionsDir = dir
		}
		if len(exts) > 0 {
			s.submissionExts = exts
		}
	}
}

// WithReportPaths sets where report artifacts are written.
func WithReportPaths(paths report.Paths) Option {
	return func(s *Service) { s.paths = paths }
}

// WithWorkers bounds how many participants are evaluated concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMetricsTextfile exports metrics to path at the end of each run.
func WithMetricsTextfile(path string) Option {
	return func(s *Service) { s.metricsTextfile = path }
}

// WithLogger sets a custom logger for the service.
func WithLogger(lg logger.Logger) Option {
	return func(s *Service) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// New constructs a Service.
func New(truth TruthLoader, evaluator *scoring.Evaluator, store repository.Store, renderer *report.Renderer, opts ...Option) *Service {
	s := &Service{
		truth:          truth,
		evaluator:      evaluator,
		store:          store,
		renderer:       renderer,
		submissionsDir: "submissions",
		submissionExts: []string{".csv", ".tsv"},
		workers:        1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

// Run executes one scoring cycle: load truth, score every submission, append
// the new records to history, and re-render the report from the full history.
// Only integrity failures are returned as errors; absent truth and
// unscoreable submissions end up as records.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	lt, err := s.truth.Load(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("truth", "integrity")
		return nil, fmt.Errorf("load truth: %w", err)
	}

	files, err := submission.Discover(s.submissionsDir, s.submissionExts)
	switch {
	case errors.Is(err, submission.ErrNoSubmissionsDir):
		s.logger.Warn(ctx, "no submissions directory; rendering history only", logger.String("dir", s.submissionsDir))
	case err != nil:
		metrics.RecordErrorByComponent("submission", "discover")
		return nil, err
	}

	plan := submission.PlanFiles(files)
	s.logger.Info(ctx, "scoring cycle started",
		logger.Int("files", len(files)),
		logger.Int("pairs", len(plan.Pairs)),
		logger.Int("singles", len(plan.Singles)),
		logger.Int("duplicates", len(plan.Duplicates)),
		logger.Bool("truth", lt != nil),
	)

	records, err := s.evaluate(ctx, plan, lt)
	if err != nil {
		return nil, err
	}

	if err := s.store.Append(ctx, records...); err != nil {
		metrics.RecordErrorByComponent("history", "append")
		return nil, fmt.Errorf("append history: %w", err)
	}

	res, err := s.render(ctx, records)
	if err != nil {
		return nil, err
	}
	res.TruthAvailable = lt != nil

	metrics.RecordRun(float64(time.Since(start).Milliseconds()), time.Now().Unix())
	s.exportMetrics(ctx)

	s.logger.Info(ctx, "scoring cycle finished",
		logger.Int("records", len(records)),
		logger.Int("history", res.History),
		logger.Int("participants", len(res.Standings)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// Render re-renders the report artifacts from the stored history without
// scoring anything. The snapshot of the last run is left untouched.
func (s *Service) Render(ctx context.Context) (*Result, error) {
	res, err := s.render(ctx, nil)
	if err != nil {
		return nil, err
	}
	s.exportMetrics(ctx)
	return res, nil
}

func (s *Service) render(ctx context.Context, run []model.Record) (*Result, error) {
	history, err := s.store.Load(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("history", "load")
		return nil, fmt.Errorf("load history: %w", err)
	}

	view, err := s.renderer.Write(ctx, s.paths, history, run)
	if err != nil {
		metrics.RecordErrorByComponent("report", "write")
		return nil, fmt.Errorf("write report: %w", err)
	}
	metrics.UpdateParticipants(len(view))

	return &Result{Records: run, Standings: view, History: len(history)}, nil
}

// evaluate scores the plan with at most s.workers evaluations in flight.
// Results are slotted by job index, so their order never depends on
// scheduling.
func (s *Service) evaluate(ctx context.Context, plan submission.Plan, lt *model.LabelTable) ([]model.Record, error) {
	jobs := make([]func(context.Context) model.Record, 0, plan.Len())
	for _, p := range plan.Pairs {
		jobs = append(jobs, func(ctx context.Context) model.Record { return s.evaluator.Evaluate(ctx, p, lt) })
	}
	for _, f := range plan.Singles {
		jobs = append(jobs, func(ctx context.Context) model.Record { return s.evaluator.EvaluateSingle(ctx, f, lt) })
	}
	for _, f := range plan.Duplicates {
		jobs = append(jobs, func(ctx context.Context) model.Record { return s.evaluator.Duplicate(ctx, f) })
	}

	results := make([]model.Record, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = job(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluate submissions: %w", err)
	}
	return results, nil
}

func (s *Service) exportMetrics(ctx context.Context) {
	if s.metricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(s.metricsTextfile); err != nil {
		s.logger.Warn(ctx, "metrics export failed", logger.Error(err))
	}
}

// View loads the history and derives the current best-score view. It is
// used by read-only callers that must never observe a cached view.
func (s *Service) View(ctx context.Context) ([]ranking.Standing, []model.Record, error) {
	history, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load history: %w", err)
	}
	return ranking.Derive(history), history, nil
}

// Renderer returns the renderer the service writes reports with.
func (s *Service) Renderer() *report.Renderer { return s.renderer }
