package domain

import "errors"

// Error kinds shared by the tracker, stores and the command layer. Callers
// match them with errors.Is.
var (
	// ErrAlreadyRunning is returned when a task is started while another one runs.
	ErrAlreadyRunning = errors.New("another task is running")

	// ErrNotRunning is returned by operations that need a running task.
	ErrNotRunning = errors.New("no task running")

	// ErrInvalidInterval is returned when an end time precedes the start time.
	ErrInvalidInterval = errors.New("end time is before start time")

	// ErrCorruptState is returned when the marker or history file cannot be decoded.
	ErrCorruptState = errors.New("corrupt state")

	// ErrParse is returned for unrecognized time strings.
	ErrParse = errors.New("unrecognized time")

	// ErrNotFound is returned when a history index is out of range.
	ErrNotFound = errors.New("task not found")
)

// IsRecoverable reports whether err is a benign condition that should be
// reported to the user without failing the command.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrAlreadyRunning) ||
		errors.Is(err, ErrNotRunning) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrNotFound)
}
