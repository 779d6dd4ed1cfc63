// Package tracker implements the task lifecycle: start, stop, rename, status
// and restarting tasks from history. The single-running-task rule is enforced
// by the store.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rezmoss/letsdo/internal/domain"
	"github.com/rezmoss/letsdo/internal/store"
	"github.com/rezmoss/letsdo/internal/timeparse"
)

// ErrStoreNil is returned by New without a store.
var ErrStoreNil = errors.New("task store is nil")

// Tracker runs lifecycle operations against a Store.
type Tracker struct {
	store  store.Store
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = l
	}
}

// New returns a Tracker on s.
func New(s store.Store, opts ...Option) (*Tracker, error) {
	if s == nil {
		return nil, ErrStoreNil
	}
	t := &Tracker{
		store:  s,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Elapsed is the running task and how long it has been running.
type Elapsed struct {
	Task     *domain.Task
	Duration time.Duration
}

func (e Elapsed) String() string {
	return fmt.Sprintf("Working on '%s' for %s", e.Task.Name, domain.FormatDuration(e.Duration))
}

// Running returns the running task, or nil when nothing runs.
func (t *Tracker) Running() (*domain.Task, error) {
	return t.store.Running()
}

// Start begins a task named name. at optionally overrides the start time and
// is resolved with timeparse. When another task runs, Start returns that task
// together with domain.ErrAlreadyRunning and changes nothing.
func (t *Tracker) Start(name, at string) (*domain.Task, error) {
	start, err := t.resolve(at)
	if err != nil {
		return nil, err
	}

	if cur, err := t.store.Running(); err != nil {
		return nil, err
	} else if cur != nil {
		return cur, fmt.Errorf("start %q: %w ('%s')", domain.ParseName(name).Text, domain.ErrAlreadyRunning, cur.Name)
	}

	task := domain.New(name, start)
	task.Session = uuid.NewString()
	if err := t.store.CreateRunning(task); err != nil {
		if errors.Is(err, domain.ErrAlreadyRunning) {
			// Lost a race with another invocation.
			cur, rerr := t.store.Running()
			if rerr != nil {
				return nil, rerr
			}
			return cur, fmt.Errorf("start %q: %w", task.Name, err)
		}
		return nil, fmt.Errorf("start %q: %w", task.Name, err)
	}
	t.logger.Debug("task started", "name", task.Name, "session", task.Session, "start", task.StartTime)
	return task, nil
}

// Stop ends the running task at now, or at the time given by at, appends it
// to the history and removes the marker. A stop time before the start time
// fails with domain.ErrInvalidInterval and leaves everything in place.
func (t *Tracker) Stop(at string) (*domain.Task, error) {
	cur, err := t.store.Running()
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, domain.ErrNotRunning
	}

	end, err := t.resolve(at)
	if err != nil {
		return nil, err
	}
	done, err := cur.Finish(end)
	if err != nil {
		return nil, err
	}

	if err := t.store.Append(done); err != nil {
		return nil, fmt.Errorf("stop %q: %w", done.Name, err)
	}
	// The record is already in the history: a marker left behind here
	// would be appended again by the next stop.
	if err := t.store.ClearRunning(); err != nil {
		t.logger.Error("task recorded but marker not removed; delete it before stopping again",
			"name", done.Name, "session", done.Session, "err", err)
		return nil, fmt.Errorf("stop %q: %w", done.Name, err)
	}
	t.logger.Debug("task stopped", "name", done.Name, "session", done.Session, "work", done.WorkTime())
	return done, nil
}

// Change renames the running task. The start time is kept.
func (t *Tracker) Change(name string) (*domain.Task, error) {
	return t.update(func(task *domain.Task) {
		task.Rename(name)
	})
}

// Replace substitutes every occurrence of old in the running task name by new.
func (t *Tracker) Replace(old, new string) (*domain.Task, error) {
	return t.update(func(task *domain.Task) {
		task.Rename(strings.ReplaceAll(task.Name, old, new))
	})
}

func (t *Tracker) update(fn func(*domain.Task)) (*domain.Task, error) {
	cur, err := t.store.Running()
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, domain.ErrNotRunning
	}

	old := cur.Name
	fn(cur)

	// The marker may have been replaced since it was read.
	latest, err := t.store.Running()
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, domain.ErrNotRunning
	}
	if latest.Session != cur.Session {
		return nil, fmt.Errorf("%w: running task changed while renaming '%s'", domain.ErrCorruptState, old)
	}

	if err := t.store.SaveRunning(cur); err != nil {
		return nil, fmt.Errorf("rename '%s': %w", old, err)
	}
	t.logger.Debug("task renamed", "from", old, "to", cur.Name, "session", cur.Session)
	return cur, nil
}

// Status reports how long the running task has been going.
func (t *Tracker) Status() (Elapsed, error) {
	cur, err := t.store.Running()
	if err != nil {
		return Elapsed{}, err
	}
	if cur == nil {
		return Elapsed{}, domain.ErrNotRunning
	}
	return Elapsed{Task: cur, Duration: t.now().Sub(cur.StartTime)}, nil
}

// WorkOn starts a new task with the name of a history record. id is the
// keep-index: 1 is the most recent record.
func (t *Tracker) WorkOn(id int, at string) (*domain.Task, error) {
	tasks, err := t.store.History()
	if err != nil {
		return nil, err
	}
	prev, ok := store.ByID(tasks, id)
	if !ok {
		return nil, fmt.Errorf("id %d of %d: %w", id, len(tasks), domain.ErrNotFound)
	}
	return t.Start(prev.Name, at)
}

// Switch stops the running task, if any, and starts name. Both use at.
func (t *Tracker) Switch(name, at string) (stopped, started *domain.Task, err error) {
	stopped, err = t.Stop(at)
	if err != nil && !errors.Is(err, domain.ErrNotRunning) {
		return nil, nil, err
	}
	started, err = t.Start(name, at)
	return stopped, started, err
}

// History returns every stopped task with its keep-index assigned.
func (t *Tracker) History() ([]domain.Task, error) {
	tasks, err := t.store.History()
	if err != nil {
		return nil, err
	}
	store.AssignIDs(tasks)
	return tasks, nil
}

func (t *Tracker) resolve(at string) (time.Time, error) {
	now := t.now()
	if strings.TrimSpace(at) == "" {
		return now, nil
	}
	return timeparse.Parse(at, now)
}
