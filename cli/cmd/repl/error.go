package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")
	ErrNoCommand    = errors.New("unknown command")
	ErrUsage        = errors.New("usage")
)
