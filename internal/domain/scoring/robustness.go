package scoring

import (
	"context"
	"errors"

	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/submission"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
	"github.com/idrees11/gnn-topology-ablation/pkg/metrics"
)

// Evaluator scores the ideal and perturbed halves of a participant's
// submission independently and derives the robustness gap.
type Evaluator struct {
	scorer     Scorer
	normalizer *submission.Normalizer
	opts       options
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(scorer Scorer, normalizer *submission.Normalizer, opts ...Option) *Evaluator {
	return &Evaluator{scorer: scorer, normalizer: normalizer, opts: buildOptions(opts)}
}

// Evaluate scores both halves of pair. A failure on one half never prevents
// scoring the other; the record is always complete.
func (e *Evaluator) Evaluate(ctx context.Context, pair submission.Pair, truth *model.LabelTable) model.Record {
	ideal := e.scoreFile(ctx, pair.Participant, submission.ConditionIdeal, pair.Ideal, truth)
	perturbed := e.scoreFile(ctx, pair.Participant, submission.ConditionPerturbed, pair.Perturbed, truth)

	r := e.newRecord(pair.Participant, model.ModePaired)
	r.IdealSubmission = baseName(pair.Ideal)
	r.PerturbedSubmission = baseName(pair.Perturbed)
	r.F1Ideal = ideal
	r.F1Perturbed = perturbed
	r.RobustnessGap = RobustnessGap(ideal, perturbed, e.opts.precision)
	if r.RobustnessGap != nil {
		metrics.ObserveRobustnessGap(*r.RobustnessGap)
	}
	return r
}

// EvaluateSingle scores a file that carries no condition marker.
func (e *Evaluator) EvaluateSingle(ctx context.Context, f submission.File, truth *model.LabelTable) model.Record {
	r := e.newRecord(f.Participant, model.ModeSingle)
	r.IdealSubmission = f.Name
	r.F1Ideal = e.scoreFile(ctx, f.Participant, submission.ConditionNone, f.Path, truth)
	return r
}

// Duplicate records a file that lost the pairing to another file for the
// same participant and condition, so it still shows up in the report.
func (e *Evaluator) Duplicate(ctx context.Context, f submission.File) model.Record {
	reason := "duplicate " + string(f.Condition) + " submission"
	e.opts.logger.Warn(ctx, "submission not paired",
		logger.String("participant", f.Participant),
		logger.String("file", f.Name),
		logger.String("reason", reason),
	)
	metrics.RecordScoringOutcome(string(f.Condition), model.StatusUnscored.String())

	r := e.newRecord(f.Participant, model.ModeSingle)
	r.IdealSubmission = f.Name
	r.F1Ideal = model.Unscored(reason)
	return r
}

func (e *Evaluator) newRecord(participant string, mode model.Mode) model.Record {
	return model.Record{
		EventID:     e.opts.newID(),
		Participant: participant,
		Mode:        mode,
		Timestamp:   e.opts.now().UTC(),
	}
}

func (e *Evaluator) scoreFile(ctx context.Context, participant string, cond submission.Condition, path string, truth *model.LabelTable) model.Outcome {
	label := string(cond)
	if cond == submission.ConditionNone {
		label = string(model.ModeSingle)
	}

	outcome := e.outcomeFor(ctx, participant, cond, path, truth)

	metrics.RecordScoringOutcome(label, outcome.Status.String())
	if outcome.IsScored() {
		metrics.ObserveF1(label, outcome.Value)
	}
	if outcome.Status == model.StatusUnscored {
		e.opts.logger.Warn(ctx, "submission unscored",
			logger.String("participant", participant),
			logger.String("condition", label),
			logger.String("file", baseName(path)),
			logger.String("reason", outcome.Reason),
		)
	}
	return outcome
}

func (e *Evaluator) outcomeFor(ctx context.Context, participant string, cond submission.Condition, path string, truth *model.LabelTable) model.Outcome {
	if path == "" {
		return model.Unscored("missing " + string(cond) + " submission")
	}

	st, err := e.normalizer.Normalize(ctx, path)
	if err != nil {
		var ue *submission.UnscoreableError
		if !errors.As(err, &ue) {
			ue = &submission.UnscoreableError{Path: path, Reason: submission.ReasonUnreadable, Detail: err.Error()}
		}
		if truth == nil {
			// Without truth the outcome is N/A either way; keep the schema
			// problem visible in the logs.
			e.opts.logger.Warn(ctx, "submission unscoreable",
				logger.String("participant", participant),
				logger.String("file", baseName(path)),
				logger.String("reason", ue.Describe()),
			)
			return model.Unavailable()
		}
		return model.Unscored(ue.Describe())
	}

	return e.scorer.Score(ctx, st, truth)
}

// RobustnessGap returns ideal - perturbed rounded to precision, or nil unless
// both outcomes are scored.
func RobustnessGap(ideal, perturbed model.Outcome, precision int) *float64 {
	if !ideal.IsScored() || !perturbed.IsScored() {
		return nil
	}
	return model.Gap(model.Round(ideal.Value-perturbed.Value, precision))
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return submission.Classify(path).Name
}
