// internal/types/errors.go
package types

import "errors"

// Error kinds for core operations. Services wrap these with fmt.Errorf and
// %w; callers classify with errors.Is.
var (
	// ErrValidation marks malformed input to a core operation. No side
	// effects have occurred when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to an absent entity.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a lost race: a second start on a completed room, a
	// join on an already-joined room, or a room-code collision.
	ErrConflict = errors.New("conflict")

	// ErrCollaborator marks a generation or persistence dependency failure.
	// It aborts the pipeline; no partial match state is persisted.
	ErrCollaborator = errors.New("collaborator failure")
)
