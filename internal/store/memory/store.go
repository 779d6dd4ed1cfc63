// Package memory is an in-process Store used by tests.
package memory

import (
	"slices"
	"sync"

	"github.com/rezmoss/letsdo/internal/domain"
)

// Store keeps the running task and history in memory.
type Store struct {
	mu      sync.RWMutex
	running *domain.Task
	history []domain.Task
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Running returns a copy of the running task, or nil.
func (s *Store) Running() (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.running == nil {
		return nil, nil
	}
	return clone(s.running), nil
}

// CreateRunning stores t unless a task is already running.
func (s *Store) CreateRunning(t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running != nil {
		return domain.ErrAlreadyRunning
	}
	s.running = clone(t)
	return nil
}

// SaveRunning replaces the running task.
func (s *Store) SaveRunning(t *domain.Task) error {
	s.mu.Lock()
	s.running = clone(t)
	s.mu.Unlock()
	return nil
}

// ClearRunning forgets the running task.
func (s *Store) ClearRunning() error {
	s.mu.Lock()
	s.running = nil
	s.mu.Unlock()
	return nil
}

// Append adds t to the history without its ID and session.
func (s *Store) Append(t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *clone(t)
	rec.ID = 0
	rec.Session = ""
	s.history = append(s.history, rec)
	return nil
}

// History returns copies of the stored tasks in append order.
func (s *Store) History() ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Task, len(s.history))
	for i := range s.history {
		out[i] = *clone(&s.history[i])
	}
	return out, nil
}

// clone keeps callers from mutating stored tasks through shared tag slices.
func clone(t *domain.Task) *domain.Task {
	c := *t
	c.Tags = slices.Clone(t.Tags)
	return &c
}
