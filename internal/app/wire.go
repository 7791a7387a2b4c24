package service

import (
	"time"

	"github.com/idrees11/gnn-topology-ablation/internal/adapters/report"
	"github.com/idrees11/gnn-topology-ablation/internal/adapters/repository"
	"github.com/idrees11/gnn-topology-ablation/internal/config"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/scoring"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/submission"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/truth"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

// FromConfig builds a Service with every component configured from cfg.
// The truth payload is read from the environment variable cfg.TruthEnv.
func FromConfig(cfg *config.Config, lg logger.Logger, opts ...Option) *Service {
	return FromConfigWithTruth(cfg, truth.EnvSource(cfg.TruthEnv), lg, opts...)
}

// FromConfigWithTruth is FromConfig with an explicit truth source.
func FromConfigWithTruth(cfg *config.Config, src truth.Source, lg logger.Logger, opts ...Option) *Service {
	loader := truth.NewLoader(src,
		truth.WithEncoding(truth.Encoding(cfg.TruthEncoding)),
		truth.WithLogger(lg.Named("truth")),
	)
	evaluator := scoring.NewEvaluator(
		scoring.NewMacroF1Scorer(scoring.WithPrecision(cfg.Precision), scoring.WithLogger(lg.Named("scorer"))),
		submission.NewNormalizer(submission.WithLogger(lg.Named("submission"))),
		scoring.WithPrecision(cfg.Precision),
		scoring.WithLogger(lg.Named("evaluator")),
	)
	store := repository.NewFileStore(cfg.HistoryPath,
		repository.WithLockTimeout(time.Duration(cfg.LockTimeoutMS)*time.Millisecond),
		repository.WithPrecision(cfg.Precision),
		repository.WithLogger(lg.Named("history")),
	)
	renderer := report.NewRenderer(
		report.WithTitle(cfg.Title),
		report.WithPrecision(cfg.Precision),
		report.WithHistory(cfg.IncludeHistory),
		report.WithLogger(lg.Named("report")),
	)

	base := []Option{
		WithSubmissions(cfg.SubmissionsDir, cfg.SubmissionExts),
		WithReportPaths(report.Paths{
			Markdown: cfg.ReportPath,
			JSON:     cfg.ReportJSONPath,
			Snapshot: cfg.SnapshotPath,
		}),
		WithWorkers(cfg.Workers),
		WithMetricsTextfile(cfg.MetricsTextfile),
		WithLogger(lg.Named("service")),
	}
	return New(loader, evaluator, store, renderer, append(base, opts...)...)
}
