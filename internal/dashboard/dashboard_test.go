package dashboard

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rezmoss/letsdo/internal/domain"
)

type fakeSource struct {
	running *domain.Task
	history []domain.Task
	err     error
}

func (s *fakeSource) Running() (*domain.Task, error) { return s.running, s.err }

func (s *fakeSource) History() ([]domain.Task, error) { return s.history, nil }

func fixedNow() time.Time {
	return time.Date(2024, 5, 2, 11, 0, 0, 0, time.Local)
}

func loaded(t *testing.T, src Source) Model {
	t.Helper()
	m := New(src, fixedNow)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.Update(next.(Model).load())
	return next.(Model)
}

func TestView_Loading(t *testing.T) {
	m := New(&fakeSource{}, fixedNow)
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}
}

func TestView_Running(t *testing.T) {
	start := fixedNow().Add(-75 * time.Minute)
	done, _ := domain.New("standup @work", fixedNow().Add(-3*time.Hour)).Finish(fixedNow().Add(-2*time.Hour - 45*time.Minute))
	src := &fakeSource{
		running: domain.New("write docs @home +writing", start),
		history: []domain.Task{*done},
	}

	view := loaded(t, src).View()
	for _, want := range []string{"write docs @home +writing", "@home", "+writing", "1:15:00", "0:15:00", "standup @work"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestView_Idle(t *testing.T) {
	view := loaded(t, &fakeSource{}).View()
	if !strings.Contains(view, "No task running") || !strings.Contains(view, "Nothing recorded yet") {
		t.Errorf("View() = \n%s", view)
	}
}

func TestView_Error(t *testing.T) {
	view := loaded(t, &fakeSource{err: errors.New("corrupt marker")}).View()
	if !strings.Contains(view, "corrupt marker") {
		t.Errorf("View() missing error:\n%s", view)
	}
}

func TestUpdate_Quit(t *testing.T) {
	m := New(&fakeSource{}, fixedNow)
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("Update(%q) cmd = nil", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("Update(%q) did not quit", key.String())
		}
	}
}
