package report

import (
	"context"

	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/ranking"
	"github.com/idrees11/gnn-topology-ablation/pkg/fsutil"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

// Paths names the report artifacts. An empty path skips that artifact.
type Paths struct {
	Markdown string
	JSON     string
	Snapshot string
}

// Write renders the best-score view derived from history and writes every
// configured artifact atomically. run holds the records of the current
// scoring run; a nil run leaves any existing snapshot in place.
func (r *Renderer) Write(ctx context.Context, paths Paths, history, run []model.Record) ([]ranking.Standing, error) {
	view := ranking.Derive(history)

	if paths.Markdown != "" {
		if err := fsutil.WriteFileAtomic(paths.Markdown, r.Markdown(view, history), 0o644); err != nil {
			return nil, err
		}
	}
	if paths.JSON != "" {
		data, err := r.BoardJSON(view)
		if err != nil {
			return nil, err
		}
		if err := fsutil.WriteFileAtomic(paths.JSON, data, 0o644); err != nil {
			return nil, err
		}
	}
	if paths.Snapshot != "" && run != nil {
		data, err := r.SnapshotJSON(run)
		if err != nil {
			return nil, err
		}
		if err := fsutil.WriteFileAtomic(paths.Snapshot, data, 0o644); err != nil {
			return nil, err
		}
	}

	r.logger.Info(ctx, "report rendered",
		logger.String("markdown", paths.Markdown),
		logger.Int("participants", len(view)),
		logger.Int("history", len(history)),
	)
	return view, nil
}
