package model

import "time"

// Mode distinguishes paired (ideal + perturbed) records from single-file records.
type Mode string

const (
	ModePaired Mode = "paired"
	ModeSingle Mode = "single"
)

// Record is one scoring event. Records are values: once appended to history
// they are never changed.
type Record struct {
	EventID     string
	Participant string
	Mode        Mode

	IdealSubmission     string
	PerturbedSubmission string

	F1Ideal     Outcome
	F1Perturbed Outcome
	// RobustnessGap is F1Ideal - F1Perturbed, set only when both are scored.
	RobustnessGap *float64

	Timestamp time.Time
}

// RankScore is the outcome a record is ranked by: the perturbed score for
// paired records, the only score for single records.
func (r Record) RankScore() Outcome {
	if r.Mode == ModeSingle {
		return r.F1Ideal
	}
	return r.F1Perturbed
}

// Submission names the file(s) the record was scored from.
func (r Record) Submission() string {
	switch {
	case r.IdealSubmission != "" && r.PerturbedSubmission != "":
		return r.IdealSubmission + " + " + r.PerturbedSubmission
	case r.IdealSubmission != "":
		return r.IdealSubmission
	default:
		return r.PerturbedSubmission
	}
}

// Gap returns a copy of v for use as RobustnessGap.
func Gap(v float64) *float64 { return &v }
