// Package report groups task history into summaries and renders them.
package report

import (
	"sort"
	"time"

	"github.com/rezmoss/letsdo/internal/domain"
)

// Key selects what GroupBy merges tasks on.
type Key int

const (
	ByName Key = iota
	ByEndDate
)

func (k Key) of(t *domain.Task) string {
	if k == ByEndDate {
		return t.EndDate()
	}
	return t.Name
}

// Group is a set of tasks sharing a key. Task is the first member seen and
// carries the name and times shown for the group; Total sums every member.
type Group struct {
	Index int
	Key   string
	Task  domain.Task
	Total time.Duration
	Tasks []domain.Task
}

// Day is one calendar day of history.
type Day struct {
	Date  string
	Total time.Duration
	Tasks []Group
}

// GroupBy merges tasks with equal keys. Name groups keep the order in which
// each name first appears; date groups are most recent first.
func GroupBy(tasks []domain.Task, key Key) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, t := range tasks {
		k := key.of(&t)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k, Task: t})
		}
		groups[i].Total += t.WorkTime()
		groups[i].Tasks = append(groups[i].Tasks, t)
	}

	if key == ByEndDate {
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].Key > groups[j].Key
		})
	}
	return groups
}

// Full lists every interval of each day in chronological order, days most
// recent first.
func Full(tasks []domain.Task) []Day {
	return days(tasks, func(day []domain.Task) []Group {
		sorted := append([]domain.Task(nil), day...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].StartTime.Before(sorted[j].StartTime)
		})
		out := make([]Group, 0, len(sorted))
		for _, t := range sorted {
			out = append(out, Group{Key: t.Name, Task: t, Total: t.WorkTime(), Tasks: []domain.Task{t}})
		}
		return out
	})
}

// Daily merges same-named tasks within each day, days most recent first.
func Daily(tasks []domain.Task) []Day {
	return days(tasks, func(day []domain.Task) []Group {
		return GroupBy(day, ByName)
	})
}

// Simple merges the whole history by name and numbers the groups from 0.
func Simple(tasks []domain.Task) []Group {
	groups := GroupBy(tasks, ByName)
	for i := range groups {
		groups[i].Index = i
	}
	return groups
}

// On returns the day for date from days, or an empty Day.
func On(days []Day, date string) Day {
	for _, d := range days {
		if d.Date == date {
			return d
		}
	}
	return Day{Date: date}
}

func days(tasks []domain.Task, split func([]domain.Task) []Group) []Day {
	byDate := GroupBy(tasks, ByEndDate)
	out := make([]Day, 0, len(byDate))
	for _, g := range byDate {
		out = append(out, Day{Date: g.Key, Total: g.Total, Tasks: split(g.Tasks)})
	}
	return out
}
