package repository

import "errors"

// Sentinel kinds for history errors. Both are integrity failures: the caller
// must stop rather than write over history it could not read.
var (
	ErrCorruptHistory = errors.New("history corrupt")
	ErrLockTimeout    = errors.New("history lock timeout")
)
