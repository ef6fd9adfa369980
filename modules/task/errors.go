package task

import "errors"

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrForbidden is returned when the caller does not own the task.
	ErrForbidden = errors.New("task belongs to another user")
)

// ValidationError reports a malformed create or update payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
