package task

import (
	"sort"
	"strings"
	"time"
)

// Tab selects which tasks a list shows.
type Tab string

// List tabs.
const (
	TabAll     Tab = "all"
	TabDoing   Tab = "doing"
	TabDone    Tab = "done"
	TabTodo    Tab = "todo"
	TabExpired Tab = "expired"
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabAll, TabDoing, TabDone, TabTodo, TabExpired}

// ParseTab validates a tab name. Empty input means all.
func ParseTab(s string) (Tab, error) {
	switch tab := Tab(strings.ToLower(strings.TrimSpace(s))); tab {
	case "":
		return TabAll, nil
	case TabAll, TabDoing, TabDone, TabTodo, TabExpired:
		return tab, nil
	default:
		return "", invalidArgs("unknown tab %q", s)
	}
}

// ListFilter narrows a task listing.
type ListFilter struct {
	Tab Tab
	Tag string
	Now time.Time
}

// Match reports whether t belongs in the filtered list.
func (f ListFilter) Match(t Task) bool {
	if f.Tag != "" && !t.HasTag(f.Tag) {
		return false
	}
	switch f.Tab {
	case "", TabAll:
		return true
	case TabExpired:
		return t.IsExpired(f.now())
	default:
		return string(t.Status) == string(f.Tab)
	}
}

// Apply returns the matching tasks ordered by due date, then title.
func (f ListFilter) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func (f ListFilter) now() time.Time {
	if f.Now.IsZero() {
		return time.Now()
	}
	return f.Now
}

// DisplayStatus is the status label shown in lists, where an overdue
// unfinished task reads as expired.
func DisplayStatus(t Task, now time.Time) string {
	if t.IsExpired(now) {
		return string(TabExpired)
	}
	return string(t.Status)
}
