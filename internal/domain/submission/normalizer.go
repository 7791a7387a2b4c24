// Package submission loads participant submission files, normalizes their
// schema and pairs ideal/perturbed files by filename convention.
package submission

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/table"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets a custom logger.
func WithLogger(lg logger.Logger) Option {
	return func(n *Normalizer) {
		if lg != nil {
			n.logger = lg
		}
	}
}

// Normalizer turns submission files into SubmissionTables.
type Normalizer struct {
	logger logger.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = logger.Nop()
	}
	return n
}

// Normalize reads the file at path. The class column is label, else target;
// the key columns are whichever of graph_index and id are present. Failures
// are returned as *UnscoreableError.
func (n *Normalizer) Normalize(ctx context.Context, path string) (*model.SubmissionTable, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, &UnscoreableError{Path: path, Reason: ReasonUnreadable, Detail: err.Error()}
	}
	defer fh.Close()

	f, err := table.Decode(fh)
	switch {
	case errors.Is(err, table.ErrEmpty):
		return nil, &UnscoreableError{Path: path, Reason: ReasonEmpty}
	case err != nil:
		return nil, &UnscoreableError{Path: path, Reason: ReasonUnreadable, Detail: err.Error()}
	}

	return n.fromFrame(ctx, path, f)
}

func (n *Normalizer) fromFrame(ctx context.Context, path string, f *table.Frame) (*model.SubmissionTable, error) {
	class, ok := f.FirstOf(table.ClassLabel, table.ClassTarget)
	if !ok {
		return nil, &UnscoreableError{Path: path, Reason: ReasonMissingColumn,
			Detail: fmt.Sprintf("no %q or %q column", table.ClassLabel, table.ClassTarget)}
	}
	keys := f.KeysPresent()
	if len(keys) == 0 {
		return nil, &UnscoreableError{Path: path, Reason: ReasonMissingColumn,
			Detail: fmt.Sprintf("no %q or %q column", table.KeyGraphIndex, table.KeyID)}
	}
	if f.Len() == 0 {
		return nil, &UnscoreableError{Path: path, Reason: ReasonNoRows}
	}

	st := &model.SubmissionTable{Labeled: table.Labeled{
		Source: filepath.Base(path),
		Frame:  f,
		Class:  class,
		Keys:   keys,
	}}

	n.logger.Debug(ctx, "submission normalized",
		logger.String("file", st.Source),
		logger.Int("rows", f.Len()),
		logger.String("class", class),
		logger.Any("keys", keys),
	)
	return st, nil
}
