// Package model contains the value types passed between gnnboard components.
package model

import (
	"math"
	"strconv"
)

// Status classifies a score outcome.
type Status int

const (
	// StatusAbsent marks a condition that does not apply to a record, such
	// as the perturbed half of a single-mode submission.
	StatusAbsent Status = iota
	// StatusScored carries a macro F1 value in [0,1].
	StatusScored
	// StatusUnscored means truth was present but the submission could not be aligned.
	StatusUnscored
	// StatusUnavailable means no truth was present.
	StatusUnavailable
)

// Report tokens for non-numeric outcomes.
const (
	TokenUnavailable = "N/A"
	TokenUnscored    = "Error"
	TokenAbsent      = "-"
)

func (s Status) String() string {
	switch s {
	case StatusScored:
		return "scored"
	case StatusUnscored:
		return "unscored"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "absent"
	}
}

// Outcome is the result of scoring one submission under one condition.
type Outcome struct {
	Status Status
	Value  float64
	Reason string
}

// Scored returns a scored outcome.
func Scored(v float64) Outcome { return Outcome{Status: StatusScored, Value: v} }

// Unscored returns an outcome for a submission that truth could not be applied to.
func Unscored(reason string) Outcome { return Outcome{Status: StatusUnscored, Reason: reason} }

// Unavailable returns the outcome used when no truth is present.
func Unavailable() Outcome { return Outcome{Status: StatusUnavailable} }

// IsScored reports whether the outcome carries a value.
func (o Outcome) IsScored() bool { return o.Status == StatusScored }

// Format renders the outcome with the given number of decimals, or its token.
func (o Outcome) Format(precision int) string {
	switch o.Status {
	case StatusScored:
		return strconv.FormatFloat(o.Value, 'f', precision, 64)
	case StatusUnscored:
		return TokenUnscored
	case StatusUnavailable:
		return TokenUnavailable
	default:
		return TokenAbsent
	}
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, precision int) float64 {
	p := math.Pow10(precision)
	return math.Round(v*p) / p
}
