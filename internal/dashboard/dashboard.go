// Package dashboard is a live terminal view of the running task and of the
// time recorded today.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rezmoss/letsdo/internal/domain"
	"github.com/rezmoss/letsdo/internal/report"
)

const refreshInterval = time.Second

// Source supplies the state shown on the dashboard.
type Source interface {
	Running() (*domain.Task, error)
	History() ([]domain.Task, error)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4A90E2")).
			Padding(0, 1).
			MarginBottom(1)

	workingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2).
			MarginBottom(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

type tickMsg time.Time

// stateMsg carries a fresh read of the source.
type stateMsg struct {
	running *domain.Task
	today   report.Day
	err     error
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	src     Source
	now     func() time.Time
	running *domain.Task
	today   report.Day
	err     error
	width   int
	height  int
}

func New(src Source, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	return Model{src: src, now: now}
}

// Run shows the dashboard until the user quits.
func Run(src Source) error {
	p := tea.NewProgram(New(src, time.Now), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) load() tea.Msg {
	running, err := m.src.Running()
	if err != nil {
		return stateMsg{err: err}
	}
	tasks, err := m.src.History()
	if err != nil {
		return stateMsg{err: err}
	}
	today := m.now().Format(domain.DateLayout)
	return stateMsg{running: running, today: report.On(report.Daily(tasks), today)}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case stateMsg:
		m.running, m.today, m.err = msg.running, msg.today, msg.err
	case tickMsg:
		return m, tea.Batch(m.load, tickCmd())
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	now := m.now()
	colWidth := m.width/2 - 3

	header := headerStyle.Width(m.width).Render(
		fmt.Sprintf("letsdo - %s", now.Format("Jan 2, 2006 15:04:05")),
	)

	left := boxStyle.Width(colWidth).Render(m.currentView(now))
	right := boxStyle.Width(colWidth).Render(m.todayView())
	content := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	footer := footerStyle.Width(m.width).Render("Press 'q' or Ctrl+C to quit")

	full := lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
	if h := lipgloss.Height(full); h < m.height {
		full += strings.Repeat("\n", m.height-h-1)
	}
	return full
}

func (m Model) currentView(now time.Time) string {
	if m.err != nil {
		return "CURRENT TASK\n\n" + idleStyle.Render(m.err.Error())
	}
	if m.running == nil {
		return "CURRENT TASK\n\n" + idleStyle.Render("No task running")
	}

	t := m.running
	var b strings.Builder
	b.WriteString("CURRENT TASK\n\n")
	b.WriteString(workingStyle.Render(t.Name))
	b.WriteString("\n")
	if t.Context != "" {
		fmt.Fprintf(&b, "Context: %s\n", tagStyle.Render(t.Context))
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", tagStyle.Render(strings.Join(t.Tags, " ")))
	}
	fmt.Fprintf(&b, "Started: %s\n", t.StartTime.Format("15:04"))
	fmt.Fprintf(&b, "Elapsed: %s", domain.FormatDuration(now.Sub(t.StartTime)))
	return b.String()
}

func (m Model) todayView() string {
	var b strings.Builder
	b.WriteString("TODAY\n\n")
	if len(m.today.Tasks) == 0 {
		b.WriteString(idleStyle.Render("Nothing recorded yet"))
		return b.String()
	}
	for _, g := range m.today.Tasks {
		fmt.Fprintf(&b, "%s  %s\n", domain.FormatDuration(g.Total), g.Key)
	}
	fmt.Fprintf(&b, "\nTotal: %s", workingStyle.Render(report.HumanDuration(m.today.Total)))
	return b.String()
}
