package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/existflow/ironlist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func seedTasks(t *testing.T, texts ...string) *TaskStore {
	t.Helper()
	s := NewTaskStore(nil)
	for i, text := range texts {
		_, err := s.Add(fmt.Sprintf("id-%d", i+1), text, model.PriorityMedium, epoch.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}
	return s
}

func TestTaskStoreAdd(t *testing.T) {
	tests := []struct {
		name    string
		texts   []string
		wantLen int
	}{
		{name: "all non-empty", texts: []string{"a", "b", "c"}, wantLen: 3},
		{name: "empty is ignored", texts: []string{"a", "", "b"}, wantLen: 2},
		{name: "whitespace is ignored", texts: []string{"   ", "\t\n", "x"}, wantLen: 1},
		{name: "nothing", texts: nil, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTaskStore(nil)
			for i, text := range tt.texts {
				_, err := s.Add(fmt.Sprintf("id-%d", i), text, model.PriorityLow, epoch)
				if err != nil {
					assert.ErrorIs(t, err, model.ErrEmptyText)
				}
			}
			assert.Equal(t, tt.wantLen, s.Len())
		})
	}
}

func TestTaskStoreAddTrimsAndDefaults(t *testing.T) {
	s := NewTaskStore(nil)
	task, err := s.Add("x", "  Buy milk  ", model.Priority("urgent"), epoch)
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", task.Text)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.False(t, task.Completed)
	assert.Equal(t, epoch, task.CreatedAt)
}

func TestTaskStoreAddRejectsDuplicateID(t *testing.T) {
	s := seedTasks(t, "a")
	_, err := s.Add("id-1", "b", model.PriorityHigh, epoch)
	require.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestTaskStoreToggleIsItsOwnInverse(t *testing.T) {
	s := seedTasks(t, "a", "b")
	before, _ := s.Get("id-1")

	_, err := s.Toggle("id-1")
	require.NoError(t, err)
	mid, _ := s.Get("id-1")
	assert.True(t, mid.Completed)

	_, err = s.Toggle("id-1")
	require.NoError(t, err)
	after, _ := s.Get("id-1")
	assert.Equal(t, before, after)
}

func TestTaskStoreToggleUnknown(t *testing.T) {
	s := seedTasks(t, "a")
	_, err := s.Toggle("missing")
	assert.ErrorIs(t, err, model.ErrTaskNotFound)
	assert.True(t, model.IsValidation(err))
}

func TestTaskStoreEdit(t *testing.T) {
	s := seedTasks(t, "a")

	_, err := s.Edit("id-1", "   ")
	assert.ErrorIs(t, err, model.ErrEmptyText)
	got, _ := s.Get("id-1")
	assert.Equal(t, "a", got.Text, "empty edit is not a deletion")

	_, err = s.Edit("id-1", " new text ")
	require.NoError(t, err)
	got, _ = s.Get("id-1")
	assert.Equal(t, "new text", got.Text)

	_, err = s.Edit("missing", "x")
	assert.ErrorIs(t, err, model.ErrTaskNotFound)
}

func TestTaskStorePendingRemovalBlocksMutation(t *testing.T) {
	s := seedTasks(t, "a", "b")

	marked := s.MarkRemoving("id-1")
	assert.Equal(t, []string{"id-1"}, marked)

	_, err := s.Toggle("id-1")
	assert.ErrorIs(t, err, model.ErrPendingRemoval)
	_, err = s.Edit("id-1", "changed")
	assert.ErrorIs(t, err, model.ErrPendingRemoval)

	rec, ok := s.Get("id-1")
	require.True(t, ok, "pending records stay queryable")
	assert.True(t, rec.Removing)
	assert.False(t, rec.Completed)
	assert.Equal(t, "a", rec.Text)

	assert.Empty(t, s.MarkRemoving("id-1", "missing"), "already pending and unknown ids are skipped")

	assert.Equal(t, 1, s.Purge("id-1"))
	_, ok = s.Get("id-1")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestTaskStorePurgeSkipsActiveRecords(t *testing.T) {
	s := seedTasks(t, "a")
	assert.Equal(t, 0, s.Purge("id-1"))
	assert.Equal(t, 1, s.Len())
}

func TestTaskStoreCompletedIDs(t *testing.T) {
	s := seedTasks(t, "a", "b", "c")
	_, _ = s.Toggle("id-1")
	_, _ = s.Toggle("id-3")
	s.MarkRemoving("id-3")

	assert.Equal(t, []string{"id-1"}, s.CompletedIDs())
}

func TestTaskStoreResolve(t *testing.T) {
	s := NewTaskStore([]model.Task{
		{ID: "abc123", Text: "a", Priority: model.PriorityLow, CreatedAt: epoch},
		{ID: "abd456", Text: "b", Priority: model.PriorityLow, CreatedAt: epoch},
	})

	id, err := s.Resolve("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	_, err = s.Resolve("ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = s.Resolve("zzz")
	assert.ErrorIs(t, err, model.ErrTaskNotFound)
}

func TestNewTaskStoreDropsDuplicateIDs(t *testing.T) {
	s := NewTaskStore([]model.Task{
		{ID: "a", Text: "first"},
		{ID: "a", Text: "second"},
	})
	require.Equal(t, 1, s.Len())
	got, _ := s.Get("a")
	assert.Equal(t, "first", got.Text)
}
