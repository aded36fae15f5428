package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
	}{
		{"high", PriorityHigh},
		{" HIGH ", PriorityHigh},
		{"medium", PriorityMedium},
		{"low", PriorityLow},
		{"", PriorityMedium},
		{"urgent", PriorityMedium},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePriority(tt.in), tt.in)
	}
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Equal(t, PriorityMedium.Rank(), Priority("").Rank())
}

func TestNewTask(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	task, err := NewTask("t1", "  Buy milk  ", PriorityHigh, now)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Text)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.False(t, task.Completed)
	assert.Equal(t, now, task.CreatedAt)

	task, err = NewTask("t2", "Read", Priority("bogus"), now)
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, task.Priority)

	_, err = NewTask("t3", " \t ", PriorityLow, now)
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.True(t, IsValidation(err))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("Active")
	require.NoError(t, err)
	assert.Equal(t, FilterActive, f)

	_, err = ParseFilter("done")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestFilterMatches(t *testing.T) {
	open := Task{ID: "a"}
	done := Task{ID: "b", Completed: true}

	assert.True(t, FilterAll.Matches(open))
	assert.True(t, FilterAll.Matches(done))
	assert.True(t, FilterActive.Matches(open))
	assert.False(t, FilterActive.Matches(done))
	assert.False(t, FilterCompleted.Matches(open))
	assert.True(t, FilterCompleted.Matches(done))
}

func TestProductIDAcceptsNumberOrString(t *testing.T) {
	var products []Product
	err := json.Unmarshal([]byte(`[
		{"id": 7, "name": "Sugar", "price": "120.00"},
		{"id": " 8 ", "name": "Salt", "price": 35.5}
	]`), &products)
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, ProductID("7"), products[0].ID)
	assert.Equal(t, ProductID("8"), products[1].ID)
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("35.5")))

	var id ProductID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestParseProductID(t *testing.T) {
	tests := []struct {
		in   string
		want ProductID
	}{
		{"1", "1"},
		{"1.0", "1"},
		{" 007 ", "7"},
		{"2.50", "2.5"},
		{"sku-7", "sku-7"},
		{"  abc ", "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseProductID(tt.in), tt.in)
	}

	var ids []ProductID
	require.NoError(t, json.Unmarshal([]byte(`[1, 1.0, "1", "01"]`), &ids))
	assert.Equal(t, []ProductID{"1", "1", "1", "1"}, ids)
}

func TestLineItemTotal(t *testing.T) {
	li := NewLineItem(Product{ID: "1", Name: "Tea", Price: decimal.RequireFromString("50.505")})
	assert.Equal(t, 1, li.Quantity)

	li.Quantity = 3
	assert.Equal(t, "151.515", li.LineTotal().String())
}

func TestErrorKinds(t *testing.T) {
	perr := &PersistenceError{Op: "save", Key: "tasks", Err: errors.New("disk full")}
	assert.Equal(t, "failed to save tasks: disk full", perr.Error())
	assert.False(t, IsValidation(perr))

	assert.ErrorIs(t, ErrUnknownProduct, ErrCatalogLookup)
	assert.False(t, IsValidation(ErrEmptyCart))
	assert.True(t, IsValidation(ErrItemNotFound))
}
