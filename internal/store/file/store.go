// Package file stores the running task as a JSON marker file and the history
// as a comma-separated log, one stopped task per line.
package file

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rezmoss/letsdo/internal/domain"
)

const (
	// DataFile is the history log file name inside the data directory.
	DataFile = ".letsdo-data"

	// TaskFile is the marker file name inside the task directory.
	TaskFile = ".letsdo-task"

	// TimestampLayout is how start and end times are written to the log.
	// Fractional seconds are dropped when zero.
	TimestampLayout = "2006-01-02 15:04:05.999999"
)

// History log columns. Start and end are read from the end of the record:
// logs from older versions render durations of a day or more as
// "1 day, 2:00:00", which splits the work column in two.
const (
	colDate = iota
	colName
	colWork
	numCols = 5
)

// Store implements store.Store on two files.
type Store struct {
	// DataPath is the full path of the history log.
	DataPath string

	// TaskPath is the full path of the running-task marker.
	TaskPath string
}

// New returns a Store on the given history log and marker paths.
func New(dataPath, taskPath string) *Store {
	return &Store{DataPath: dataPath, TaskPath: taskPath}
}

// marker is the on-disk record of the running task.
type marker struct {
	Session   string    `json:"session"`
	Name      string    `json:"name"`
	Context   string    `json:"context,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	StartTime time.Time `json:"start_time"`
}

func (m *marker) validate() error {
	switch {
	case m.Session == "":
		return errors.New("missing session")
	case strings.TrimSpace(m.Name) == "":
		return errors.New("missing name")
	case m.StartTime.IsZero():
		return errors.New("missing start_time")
	}
	return nil
}

// Running decodes the marker, or returns nil when it is absent.
func (s *Store) Running() (*domain.Task, error) {
	data, err := os.ReadFile(s.TaskPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.TaskPath, err)
	}

	var m marker
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrCorruptState, s.TaskPath, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptState, s.TaskPath, err)
	}

	return &domain.Task{
		Session:   m.Session,
		Name:      m.Name,
		Context:   m.Context,
		Tags:      m.Tags,
		StartTime: m.StartTime,
	}, nil
}

// CreateRunning writes the marker to a temporary file and hard-links it into
// place, so the marker appears fully written or not at all and an existing
// marker is never replaced.
func (s *Store) CreateRunning(t *domain.Task) error {
	tmp, err := s.writeTemp(t)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	if err := os.Link(tmp, s.TaskPath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return domain.ErrAlreadyRunning
		}
		return fmt.Errorf("create %s: %w", s.TaskPath, err)
	}
	return nil
}

// SaveRunning atomically replaces the marker.
func (s *Store) SaveRunning(t *domain.Task) error {
	tmp, err := s.writeTemp(t)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, s.TaskPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", s.TaskPath, err)
	}
	return nil
}

// ClearRunning removes the marker. A missing marker is not an error.
func (s *Store) ClearRunning() error {
	if err := os.Remove(s.TaskPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.TaskPath, err)
	}
	return nil
}

func (s *Store) writeTemp(t *domain.Task) (string, error) {
	dir := filepath.Dir(s.TaskPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, filepath.Base(s.TaskPath)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp marker: %w", err)
	}

	m := marker{
		Session:   t.Session,
		Name:      t.Name,
		Context:   t.Context,
		Tags:      t.Tags,
		StartTime: t.StartTime,
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&m); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("encode marker: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write marker: %w", err)
	}
	return f.Name(), nil
}

// Append writes t as one line with a single write on a file opened for
// appending, so a record is either fully present or absent.
func (s *Store) Append(t *domain.Task) error {
	if t.Running() {
		return fmt.Errorf("append %q: task is still running", t.Name)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rec := []string{
		t.EndDate(),
		t.Name,
		domain.FormatDuration(t.WorkTime()),
		t.StartTime.Format(TimestampLayout),
		t.EndTime.Format(TimestampLayout),
	}
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	if dir := filepath.Dir(s.DataPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(s.DataPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.DataPath, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", s.DataPath, err)
	}
	return f.Close()
}

// History reads the whole log. The stored date and work columns are
// informational: both are derived again from the start and end times.
func (s *Store) History() (tasks []domain.Task, err error) {
	f, err := os.Open(s.DataPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.DataPath, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptState, s.DataPath, err)
		}
		line, _ := r.FieldPos(0)
		t, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", domain.ErrCorruptState, s.DataPath, line, err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func parseRecord(rec []string) (*domain.Task, error) {
	if len(rec) < numCols {
		return nil, fmt.Errorf("want %d fields, got %d", numCols, len(rec))
	}
	start, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(rec[len(rec)-2]), time.Local)
	if err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	end, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(rec[len(rec)-1]), time.Local)
	if err != nil {
		return nil, fmt.Errorf("end time: %w", err)
	}
	return domain.New(rec[colName], start).Finish(end)
}
