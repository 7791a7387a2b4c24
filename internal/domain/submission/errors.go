package submission

import (
	"errors"
	"fmt"
)

// ErrUnscoreable is the kind of every normalization failure. It is never
// fatal for a run.
var ErrUnscoreable = errors.New("submission unscoreable")

// ErrNoSubmissionsDir reports a missing submissions directory.
var ErrNoSubmissionsDir = errors.New("submissions directory not found")

// Reason classifies why a submission is unscoreable.
type Reason string

const (
	ReasonMissingColumn Reason = "missing column"
	ReasonUnreadable    Reason = "unreadable file"
	ReasonEmpty         Reason = "empty file"
	ReasonNoRows        Reason = "no usable rows"
)

// UnscoreableError carries the reason a submission cannot be scored.
type UnscoreableError struct {
	Path   string
	Reason Reason
	Detail string
}

func (e *UnscoreableError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Reason, e.Detail)
}

// Is lets errors.Is match ErrUnscoreable.
func (e *UnscoreableError) Is(target error) bool { return target == ErrUnscoreable }

// Describe returns the short reason text recorded in history.
func (e *UnscoreableError) Describe() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return string(e.Reason) + ": " + e.Detail
}
