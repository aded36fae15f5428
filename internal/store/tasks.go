// Package store holds the in-memory collections. Stores are not safe for
// concurrent use; the dispatcher that owns a store serializes access.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/ironlist/internal/model"
)

// TaskRecord is a task plus its transient removal state
type TaskRecord struct {
	model.Task
	Removing bool
}

// TaskStore is the ordered task collection
type TaskStore struct {
	records []TaskRecord
}

// NewTaskStore creates a store seeded with tasks, in order. Duplicate ids
// after the first occurrence are ignored.
func NewTaskStore(tasks []model.Task) *TaskStore {
	s := &TaskStore{}
	s.Replace(tasks)
	return s
}

// Replace swaps the whole collection
func (s *TaskStore) Replace(tasks []model.Task) {
	seen := make(map[string]bool, len(tasks))
	s.records = make([]TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		s.records = append(s.records, TaskRecord{Task: t})
	}
}

// Add appends a new task
func (s *TaskStore) Add(id, text string, priority model.Priority, now time.Time) (model.Task, error) {
	if s.index(id) >= 0 {
		return model.Task{}, fmt.Errorf("duplicate task id %s", id)
	}
	t, err := model.NewTask(id, text, priority, now)
	if err != nil {
		return model.Task{}, err
	}
	s.records = append(s.records, TaskRecord{Task: t})
	return t, nil
}

// Toggle flips the completed flag
func (s *TaskStore) Toggle(id string) (model.Task, error) {
	r, err := s.mutable(id)
	if err != nil {
		return model.Task{}, err
	}
	r.Completed = !r.Completed
	return r.Task, nil
}

// Edit replaces the text. Empty input is rejected and leaves the task as is.
func (s *TaskStore) Edit(id, text string) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, model.ErrEmptyText
	}
	r, err := s.mutable(id)
	if err != nil {
		return model.Task{}, err
	}
	r.Text = text
	return r.Task, nil
}

// MarkRemoving flags ids as pending removal and returns the ids that were
// newly flagged. Unknown and already pending ids are skipped.
func (s *TaskStore) MarkRemoving(ids ...string) []string {
	var marked []string
	for _, id := range ids {
		i := s.index(id)
		if i < 0 || s.records[i].Removing {
			continue
		}
		s.records[i].Removing = true
		marked = append(marked, id)
	}
	return marked
}

// Purge deletes the given ids that are still pending removal and returns
// how many were deleted
func (s *TaskStore) Purge(ids ...string) int {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.records[:0]
	removed := 0
	for _, r := range s.records {
		if r.Removing && drop[r.ID] {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return removed
}

// CompletedIDs returns the ids of completed tasks not already pending removal
func (s *TaskStore) CompletedIDs() []string {
	var ids []string
	for _, r := range s.records {
		if r.Completed && !r.Removing {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Get returns the record for id
func (s *TaskStore) Get(id string) (TaskRecord, bool) {
	i := s.index(id)
	if i < 0 {
		return TaskRecord{}, false
	}
	return s.records[i], true
}

// Resolve finds a task by full id or unique id prefix
func (s *TaskStore) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", model.ErrTaskNotFound
	}
	if s.index(ref) >= 0 {
		return ref, nil
	}
	match := ""
	for _, r := range s.records {
		if strings.HasPrefix(r.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("ambiguous task id %q", ref)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", model.ErrTaskNotFound
	}
	return match, nil
}

// Records returns a copy of every record, pending ones included
func (s *TaskStore) Records() []TaskRecord {
	out := make([]TaskRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Tasks returns a copy of every task in insertion order
func (s *TaskStore) Tasks() []model.Task {
	out := make([]model.Task, len(s.records))
	for i, r := range s.records {
		out[i] = r.Task
	}
	return out
}

// Len returns the number of records
func (s *TaskStore) Len() int {
	return len(s.records)
}

func (s *TaskStore) mutable(id string) (*TaskRecord, error) {
	i := s.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrTaskNotFound, id)
	}
	if s.records[i].Removing {
		return nil, fmt.Errorf("%w: %s", model.ErrPendingRemoval, id)
	}
	return &s.records[i], nil
}

func (s *TaskStore) index(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}
