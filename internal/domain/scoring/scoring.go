// Package scoring aligns submissions with ground truth and computes macro F1.
package scoring

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/table"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
	"github.com/idrees11/gnn-topology-ablation/pkg/metrics"
)

// Reasons recorded for unscored submissions.
const (
	ReasonNoMatchingIDs = "no matching IDs"
	ReasonNoSharedKey   = "no shared key column"
)

const defaultPrecision = 4

// Option applies a configuration option to a scorer or evaluator.
type Option func(*options)

type options struct {
	precision int
	logger    logger.Logger
	now       func() time.Time
	newID     func() string
}

// WithPrecision sets the number of decimals scores are rounded to.
func WithPrecision(p int) Option {
	return func(o *options) {
		if p > 0 {
			o.precision = p
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg logger.Logger) Option {
	return func(o *options) {
		if lg != nil {
			o.logger = lg
		}
	}
}

// WithClock sets the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator sets the event ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		if newID != nil {
			o.newID = newID
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		precision: defaultPrecision,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Nop()
	}
	return o
}

// Scorer computes a score outcome for a submission against truth.
type Scorer interface {
	// Score never fails: a missing truth table yields Unavailable and an
	// alignment failure yields Unscored.
	Score(ctx context.Context, sub *model.SubmissionTable, truth *model.LabelTable) model.Outcome
}

// Alignment is the inner join of a submission with truth.
type Alignment struct {
	Key     string
	YTrue   []string
	YPred   []string
	Dropped table.Coercion
}

// Matched returns the number of joined rows.
func (a Alignment) Matched() int { return len(a.YTrue) }

// Align joins sub and truth on their shared key. Duplicate keys on either
// side multiply, as in a relational inner join.
func Align(sub *model.SubmissionTable, truth *model.LabelTable) (Alignment, bool) {
	key, ok := table.SharedKey(truth.Labeled, sub.Labeled)
	if !ok {
		return Alignment{}, false
	}

	truthRows, _ := truth.Keyed(key)
	subRows, dropped := sub.Keyed(key)

	byKey := make(map[int64][]string, len(subRows))
	for _, r := range subRows {
		byKey[r.Key] = append(byKey[r.Key], r.Class)
	}

	a := Alignment{Key: key, Dropped: dropped}
	for _, t := range truthRows {
		for _, pred := range byKey[t.Key] {
			a.YTrue = append(a.YTrue, t.Class)
			a.YPred = append(a.YPred, pred)
		}
	}
	return a, true
}

// MacroF1Scorer scores by macro-averaged F1.
type MacroF1Scorer struct {
	opts options
}

// NewMacroF1Scorer creates a new macro F1 scorer.
func NewMacroF1Scorer(opts ...Option) *MacroF1Scorer {
	return &MacroF1Scorer{opts: buildOptions(opts)}
}

// Score implements Scorer. The returned value is rounded to the configured
// precision; the per-class F1 values are averaged unrounded.
func (s *MacroF1Scorer) Score(ctx context.Context, sub *model.SubmissionTable, truth *model.LabelTable) model.Outcome {
	if truth == nil {
		return model.Unavailable()
	}

	a, ok := Align(sub, truth)
	if !ok {
		return model.Unscored(ReasonNoSharedKey)
	}
	metrics.RecordRowsDropped("submission", a.Dropped.Dropped())
	if a.Dropped.Dropped() > 0 {
		s.opts.logger.Warn(ctx, "submission rows dropped",
			logger.String("file", sub.Source),
			logger.Int("bad_keys", a.Dropped.BadKeys),
			logger.Int("empty_class", a.Dropped.EmptyClass),
		)
	}
	if a.Matched() == 0 {
		return model.Unscored(ReasonNoMatchingIDs)
	}

	f1 := model.Round(MacroF1(a.YTrue, a.YPred), s.opts.precision)
	s.opts.logger.Debug(ctx, "submission scored",
		logger.String("file", sub.Source),
		logger.String("key", a.Key),
		logger.Int("matched", a.Matched()),
		logger.Float64("macro_f1", f1),
	)
	return model.Scored(f1)
}
