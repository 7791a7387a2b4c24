package table

import "errors"

// Sentinel kinds for table decoding.
var (
	ErrDecode = errors.New("decode table")
	ErrEmpty  = errors.New("table is empty")
)
