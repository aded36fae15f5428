// Package view derives presentation models from store state. Nothing here
// mutates its input.
package view

import (
	"fmt"
	"sort"

	"github.com/existflow/ironlist/internal/model"
	"github.com/existflow/ironlist/internal/store"
)

// TaskItem is one row of the task view
type TaskItem struct {
	model.Task
	Removing bool `json:"removing"`
}

// TaskView is what a renderer receives after every task mutation
type TaskView struct {
	Tasks       []TaskItem   `json:"tasks"`
	Filter      model.Filter `json:"filter"`
	ActiveCount int          `json:"activeCount"`
	Summary     string       `json:"summary"`
	DarkTheme   bool         `json:"darkTheme"`
}

// Less orders tasks by priority rank, then newest first, then id
func Less(a, b model.Task) bool {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra < rb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// ProjectTasks filters and sorts the records
func ProjectTasks(records []store.TaskRecord, prefs model.Preferences) TaskView {
	filter := prefs.CurrentFilter
	if filter == "" {
		filter = model.FilterAll
	}

	items := make([]TaskItem, 0, len(records))
	for _, r := range records {
		if filter.Matches(r.Task) {
			items = append(items, TaskItem{Task: r.Task, Removing: r.Removing})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i].Task, items[j].Task)
	})

	active := ActiveCount(records)
	return TaskView{
		Tasks:       items,
		Filter:      filter,
		ActiveCount: active,
		Summary:     Remaining(active),
		DarkTheme:   prefs.DarkTheme,
	}
}

// ActiveCount counts incomplete tasks regardless of the filter. Records
// pending removal are already gone from the user's point of view.
func ActiveCount(records []store.TaskRecord) int {
	n := 0
	for _, r := range records {
		if !r.Completed && !r.Removing {
			n++
		}
	}
	return n
}

// Remaining formats the active count
func Remaining(n int) string {
	if n == 1 {
		return "1 task remaining"
	}
	return fmt.Sprintf("%d tasks remaining", n)
}
