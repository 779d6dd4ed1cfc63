package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rezmoss/letsdo/internal/domain"
)

const ruleWidth = 50

// Printer writes reports to w. Styles come from a renderer bound to w, so
// colors are dropped when w is not a terminal.
type Printer struct {
	w      io.Writer
	date   lipgloss.Style
	total  lipgloss.Style
	index  lipgloss.Style
	muted  lipgloss.Style
	header lipgloss.Style
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w: w,
		date: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		total: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		index: r.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F")),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4A90E2")).
			Padding(0, 1),
	}
}

// Full prints each day with its total followed by every interval.
func (p *Printer) Full(days []Day) {
	for _, d := range days {
		p.dayHeader(d)
		for _, g := range d.Tasks {
			fmt.Fprintf(p.w, "%s %s\n", p.index.Render(fmt.Sprintf("[%d]", g.Task.ID)), g.Task.Line())
		}
		fmt.Fprintln(p.w)
	}
}

// Daily prints each day with one summed line per task name.
func (p *Printer) Daily(days []Day) {
	for _, d := range days {
		p.dayHeader(d)
		for _, g := range d.Tasks {
			fmt.Fprintf(p.w, "%s| %s - %s\n", d.Date, domain.FormatDuration(g.Total), g.Key)
		}
		fmt.Fprintln(p.w)
	}
}

// Simple prints one numbered line per task name across the whole history.
func (p *Printer) Simple(groups []Group) {
	if len(groups) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("No tasks recorded"))
		return
	}
	fmt.Fprintln(p.w, p.header.Render("Tasks"))
	fmt.Fprintln(p.w, strings.Repeat("-", ruleWidth))
	var total time.Duration
	for _, g := range groups {
		total += g.Total
		fmt.Fprintf(p.w, "%s %s| %s - %s\n",
			p.index.Render(fmt.Sprintf("[%d]", g.Index)), g.Task.EndDate(), domain.FormatDuration(g.Total), g.Key)
	}
	fmt.Fprintln(p.w, strings.Repeat("-", ruleWidth))
	fmt.Fprintf(p.w, "Total working time : %s\n", p.total.Render(HumanDuration(total)))
}

func (p *Printer) dayHeader(d Day) {
	fmt.Fprintln(p.w, strings.Repeat("=", ruleWidth))
	fmt.Fprintf(p.w, "%s| Total time: %s\n", p.date.Render(d.Date), p.total.Render(domain.FormatDuration(d.Total)))
	fmt.Fprintln(p.w, strings.Repeat("-", ruleWidth))
}

// HumanDuration renders d in words, rounded down to the minute.
func HumanDuration(d time.Duration) string {
	mins := int(d / time.Minute)
	h := mins / 60
	m := mins % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%d hr %d mins", h, m)
	case h > 0:
		if h == 1 {
			return "1 hr"
		}
		return fmt.Sprintf("%d hrs", h)
	case m == 1:
		return "1 min"
	default:
		return fmt.Sprintf("%d mins", m)
	}
}
