package repository

import "errors"

// Sentinel errors for caller bugs, as opposed to transient store failures.
// Callers match these with errors.Is.
var (
	// ErrNotFound is returned when an operation references a game or pick
	// whose identity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an operation is attempted against a
	// row in the wrong lifecycle state, e.g. grading a non-final game.
	ErrInvalidState = errors.New("invalid state")
)
