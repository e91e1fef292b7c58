package generation

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleResult is returned when a newer generation or a reset superseded
	// the call that produced the result
	ErrStaleResult = errors.New("result discarded: session changed while generating")
	// ErrEmptyInstruction is returned for blank refine instructions
	ErrEmptyInstruction = errors.New("refine instruction is empty")
	// ErrRefineInProgress is returned when a refine is already running
	ErrRefineInProgress = errors.New("a refine is already in progress")
	// ErrNothingToSave is returned when saving before anything was generated
	ErrNothingToSave = errors.New("no generated output to save")
	// ErrNotEditing is returned when overwriting from a session that was not
	// opened from a saved entry
	ErrNotEditing = errors.New("session is not editing a saved entry")
	// ErrSessionNotFound is returned by the manager for unknown or expired ids
	ErrSessionNotFound = errors.New("session not found")
)

// ValidationError reports a missing required form field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}
