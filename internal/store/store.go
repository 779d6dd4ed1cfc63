// Package store defines where the running task and the task history live.
package store

import "github.com/rezmoss/letsdo/internal/domain"

// Store persists the running-task marker and the append-only history.
//
// At most one task is running: CreateRunning fails with
// domain.ErrAlreadyRunning when a marker exists, and a marker that cannot be
// decoded surfaces as domain.ErrCorruptState rather than as "nothing running".
type Store interface {
	// Running returns the running task, or nil when there is none.
	Running() (*domain.Task, error)

	// CreateRunning records t as the running task if none exists.
	CreateRunning(t *domain.Task) error

	// SaveRunning replaces the running task record.
	SaveRunning(t *domain.Task) error

	// ClearRunning removes the running task record.
	ClearRunning() error

	// Append adds a stopped task to the history as one record.
	Append(t *domain.Task) error

	// History returns every stopped task in the order it was appended.
	History() ([]domain.Task, error)
}

// AssignIDs numbers tasks with their keep-index: the last task gets 1, the
// one before it 2, and so on.
func AssignIDs(tasks []domain.Task) {
	for i := range tasks {
		tasks[i].ID = len(tasks) - i
	}
}

// ByID returns the task with the given keep-index.
func ByID(tasks []domain.Task, id int) (domain.Task, bool) {
	if id < 1 || id > len(tasks) {
		return domain.Task{}, false
	}
	t := tasks[len(tasks)-id]
	t.ID = id
	return t, true
}
