package usecase

import "errors"

// Sentinel errors returned by the tasks usecase and expected from its repositories.
var (
	// ErrTaskNotFound indicates that no task exists with the given ID for the
	// requesting user. An ownership mismatch is deliberately indistinguishable
	// from non-existence.
	ErrTaskNotFound = errors.New("task not found")

	// ErrDispatchUniqueConflict indicates that the generated dispatch
	// identifier collided with an existing one at the store level.
	ErrDispatchUniqueConflict = errors.New("dispatch identifier already exists")
)
