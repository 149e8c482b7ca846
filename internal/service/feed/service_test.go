package feed

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
)

func makeEvent(id string, eventType activity.EventType) activity.Event {
	return activity.Event{
		ID:        id,
		Type:      eventType,
		Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Message:   "msg-" + id,
	}
}

func TestFeed_Add_MostRecentFirst(t *testing.T) {
	f := NewFeed(DefaultCapacity)

	f.Add(makeEvent("a", activity.TypeEntry))
	f.Add(makeEvent("b", activity.TypeExit))
	f.Add(makeEvent("c", activity.TypeAlert))

	snapshot := f.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "c", snapshot[0].ID)
	assert.Equal(t, "b", snapshot[1].ID)
	assert.Equal(t, "a", snapshot[2].ID)
}

func TestFeed_Add_NeverExceedsCapacity(t *testing.T) {
	f := NewFeed(DefaultCapacity)

	// Length settles at the bound only after more events than the
	// capacity have been received across the session
	for i := 0; i < 130; i++ {
		f.Add(makeEvent(fmt.Sprintf("e%d", i), activity.TypeEntry))
		assert.LessOrEqual(t, f.Len(), DefaultCapacity)
	}

	assert.Equal(t, DefaultCapacity, f.Len())
	// The most recently added event is always at index 0
	assert.Equal(t, "e129", f.Snapshot()[0].ID)
	// The oldest surviving entry is capacity-1 additions back
	assert.Equal(t, "e80", f.Snapshot()[DefaultCapacity-1].ID)
}

func TestFeed_MergeByID_Deduplicates(t *testing.T) {
	f := NewFeed(DefaultCapacity)
	f.Add(makeEvent("a", activity.TypeEntry))
	f.Add(makeEvent("b", activity.TypeExit))

	added := f.MergeByID([]activity.Event{
		makeEvent("b", activity.TypeExit),  // already present
		makeEvent("c", activity.TypeAlert), // new
		makeEvent("c", activity.TypeAlert), // repeated within the poll response
	})

	assert.Equal(t, 1, added)
	assert.Equal(t, 3, f.Len())
	assert.True(t, f.Contains("c"))
}

func TestFeed_MergeByID_RespectsCapacity(t *testing.T) {
	f := NewFeed(5)

	var polled []activity.Event
	for i := 0; i < 10; i++ {
		polled = append(polled, makeEvent(fmt.Sprintf("p%d", i), activity.TypeEntry))
	}
	f.MergeByID(polled)

	assert.Equal(t, 5, f.Len())
}

func TestFeed_Filter_DoesNotMutate(t *testing.T) {
	f := NewFeed(DefaultCapacity)
	f.Add(makeEvent("a", activity.TypeEntry))
	f.Add(makeEvent("b", activity.TypeAlert))
	f.Add(makeEvent("c", activity.TypeEntry))

	entries := f.Filter("entry")
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, activity.TypeEntry, e.Type)
	}

	all := f.Filter("all")
	assert.Len(t, all, 3)
	assert.Equal(t, 3, f.Len())

	assert.Empty(t, f.Filter("exit"))
}

func TestFeed_Clear(t *testing.T) {
	f := NewFeed(DefaultCapacity)
	f.Add(makeEvent("a", activity.TypeEntry))
	f.Clear()

	assert.Equal(t, 0, f.Len())
}

func TestFeed_Export_IsReadOnly(t *testing.T) {
	f := NewFeed(DefaultCapacity)
	event := makeEvent("a", activity.TypeEntry)
	event.EmployeeName = "Ana"
	event.Department = "Ventas"
	f.Add(event)

	data, err := f.Export()
	require.NoError(t, err)

	var records []activity.ExportRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, activity.TypeEntry, records[0].Type)
	assert.Equal(t, "Ana", records[0].Employee)
	assert.Equal(t, "Ventas", records[0].Department)
	assert.Equal(t, "2026-03-14T09:00:00Z", records[0].Timestamp)

	// Exporting leaves the feed untouched
	assert.Equal(t, 1, f.Len())
}
