package view

import (
	"testing"
	"time"

	"github.com/existflow/ironlist/internal/model"
	"github.com/existflow/ironlist/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func rec(id, text string, p model.Priority, offset time.Duration, done bool) store.TaskRecord {
	return store.TaskRecord{Task: model.Task{
		ID:        id,
		Text:      text,
		Priority:  p,
		Completed: done,
		CreatedAt: epoch.Add(offset),
	}}
}

func texts(v TaskView) []string {
	out := make([]string, len(v.Tasks))
	for i, t := range v.Tasks {
		out[i] = t.Text
	}
	return out
}

func TestProjectTasksSortsByPriorityThenNewest(t *testing.T) {
	records := []store.TaskRecord{
		rec("1", "Buy milk", model.PriorityHigh, 0, false),
		rec("2", "Read book", model.PriorityLow, time.Second, false),
		rec("3", "Call bank", model.PriorityHigh, 2*time.Second, false),
	}

	v := ProjectTasks(records, model.DefaultPreferences())
	assert.Equal(t, []string{"Call bank", "Buy milk", "Read book"}, texts(v))
}

func TestProjectTasksIsIdempotent(t *testing.T) {
	records := []store.TaskRecord{
		rec("a", "x", model.PriorityMedium, 0, false),
		rec("b", "y", model.PriorityMedium, 0, true),
		rec("c", "z", model.PriorityLow, time.Minute, false),
		rec("d", "w", model.PriorityHigh, -time.Minute, false),
	}

	first := ProjectTasks(records, model.DefaultPreferences())
	second := ProjectTasks(records, model.DefaultPreferences())
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"w", "x", "y", "z"}, texts(first), "equal keys fall back to id")
}

func TestProjectTasksFilters(t *testing.T) {
	records := []store.TaskRecord{
		rec("1", "open", model.PriorityMedium, 0, false),
		rec("2", "done", model.PriorityMedium, time.Second, true),
	}

	tests := []struct {
		filter model.Filter
		want   []string
	}{
		{model.FilterAll, []string{"done", "open"}},
		{model.FilterActive, []string{"open"}},
		{model.FilterCompleted, []string{"done"}},
		{"", []string{"done", "open"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			v := ProjectTasks(records, model.Preferences{CurrentFilter: tt.filter})
			assert.Equal(t, tt.want, texts(v))
			assert.Equal(t, 1, v.ActiveCount, "active count ignores the filter")
		})
	}
}

func TestProjectTasksMarksRemoving(t *testing.T) {
	r := rec("1", "going", model.PriorityLow, 0, false)
	r.Removing = true
	v := ProjectTasks([]store.TaskRecord{r, rec("2", "staying", model.PriorityLow, 0, false)}, model.DefaultPreferences())

	require.Len(t, v.Tasks, 2)
	assert.True(t, v.Tasks[0].Removing)
	assert.Equal(t, 1, v.ActiveCount)
	assert.Equal(t, "1 task remaining", v.Summary)
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, "0 tasks remaining", Remaining(0))
	assert.Equal(t, "1 task remaining", Remaining(1))
	assert.Equal(t, "5 tasks remaining", Remaining(5))
}

func TestProjectCart(t *testing.T) {
	items := []model.LineItem{
		{ID: "1", Name: "Sofa", Price: decimal.RequireFromString("100.00"), Quantity: 2},
		{ID: "2", Name: "Lamp", Price: decimal.RequireFromString("50.50"), Quantity: 1},
	}

	v := ProjectCart(items, "")
	assert.Equal(t, 3, v.ItemCount)
	assert.Equal(t, "KSh 250.50", v.Total)
	assert.False(t, v.Empty)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "KSh 200.00", v.Items[0].LineTotal)
	assert.Equal(t, "KSh 50.50", v.Items[1].Price)
}

func TestProjectCartRoundsOnlyAtPresentation(t *testing.T) {
	items := []model.LineItem{
		{ID: "1", Price: decimal.RequireFromString("0.333"), Quantity: 3},
		{ID: "2", Price: decimal.RequireFromString("0.333"), Quantity: 3},
	}

	v := ProjectCart(items, "USD")
	assert.Equal(t, "USD 1.00", v.Items[0].LineTotal)
	assert.Equal(t, "USD 2.00", v.Total)
	assert.Equal(t, "1.998", v.TotalAmount.String())
}

func TestProjectCartEmpty(t *testing.T) {
	v := ProjectCart(nil, "KSh")
	assert.True(t, v.Empty)
	assert.Equal(t, "KSh 0.00", v.Total)
	assert.Equal(t, 0, v.ItemCount)
}
