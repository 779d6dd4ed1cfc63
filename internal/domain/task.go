// Package domain holds the task entity, its name parser and the error kinds
// used across letsdo.
package domain

import (
	"fmt"
	"time"
)

const (
	// DefaultName is used for tasks started without a name.
	DefaultName = "unknown"

	// DateLayout is the layout of end dates and the history log date field.
	DateLayout = "2006-01-02"
)

// Task is one named interval of work. A running task has a zero EndTime.
type Task struct {
	// ID is the keep-index assigned when the task is loaded from history:
	// 1 is the most recent record. Zero means unassigned.
	ID int

	// Session identifies one run of a task while it is the running marker.
	Session string

	Name      string
	Context   string
	Tags      []string
	StartTime time.Time
	EndTime   time.Time
}

// New returns an unstarted task with its name parsed.
func New(name string, start time.Time) *Task {
	t := &Task{StartTime: start}
	t.Rename(name)
	return t
}

// Rename replaces the task name and recomputes context and tags.
func (t *Task) Rename(name string) {
	n := ParseName(name)
	if n.Text == "" {
		n = ParseName(DefaultName)
	}
	t.Name = n.Text
	t.Context = n.Context
	t.Tags = n.Tags
}

// Running reports whether the task has not been stopped yet.
func (t *Task) Running() bool {
	return t.EndTime.IsZero()
}

// Finish returns a stopped copy of the task ending at end.
func (t *Task) Finish(end time.Time) (*Task, error) {
	if end.Before(t.StartTime) {
		return nil, fmt.Errorf("stop at %s, started at %s: %w",
			end.Format("2006-01-02 15:04"), t.StartTime.Format("2006-01-02 15:04"), ErrInvalidInterval)
	}
	done := *t
	done.EndTime = end
	return &done, nil
}

// WorkTime is EndTime - StartTime, or zero for a running task.
func (t *Task) WorkTime() time.Duration {
	if t.Running() {
		return 0
	}
	return t.EndTime.Sub(t.StartTime)
}

// EndDate is the calendar day the task ended on, used to group daily reports.
func (t *Task) EndDate() string {
	if t.Running() {
		return ""
	}
	return t.EndTime.Format(DateLayout)
}

// Line renders a stopped task as "date| work (start -> end) - name".
func (t *Task) Line() string {
	return fmt.Sprintf("%s| %s (%s -> %s) - %s",
		t.EndDate(), FormatDuration(t.WorkTime()),
		t.StartTime.Format("15:04"), t.EndTime.Format("15:04"), t.Name)
}

// String is Line prefixed with the keep-index when one is assigned.
func (t *Task) String() string {
	if t.ID > 0 {
		return fmt.Sprintf("[%d] %s", t.ID, t.Line())
	}
	return t.Line()
}

// FormatDuration renders d as H:MM:SS, truncated to whole seconds. Hours are
// not folded into days.
func FormatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
}
