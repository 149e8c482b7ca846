package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
)

// DefaultCapacity bounds the feed; the oldest entries are evicted first
const DefaultCapacity = 50

// Feed is the bounded, most-recent-first log of attendance events
// shown on the realtime panel. Safe for concurrent use.
type Feed struct {
	mu       sync.RWMutex
	items    []activity.Event
	capacity int
}

// NewFeed creates a feed with the given capacity; zero or negative
// falls back to DefaultCapacity
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		items:    make([]activity.Event, 0, capacity),
		capacity: capacity,
	}
}

// Add prepends an event. When the feed grows past its capacity the
// tail is truncated so the length never exceeds it.
func (f *Feed) Add(event activity.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append([]activity.Event{event}, f.items...)
	if len(f.items) > f.capacity {
		f.items = f.items[:f.capacity]
	}
}

// MergeByID adds only the events whose id is not already present,
// preserving their given order. Returns how many were added. Used when
// merging polling-fallback activity lists so repeated delivery cannot
// duplicate entries.
func (f *Feed) MergeByID(events []activity.Event) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]struct{}, len(f.items))
	for _, item := range f.items {
		seen[item.ID] = struct{}{}
	}

	added := 0
	for _, event := range events {
		if _, ok := seen[event.ID]; ok {
			continue
		}
		seen[event.ID] = struct{}{}
		f.items = append([]activity.Event{event}, f.items...)
		added++
	}
	if len(f.items) > f.capacity {
		f.items = f.items[:f.capacity]
	}
	return added
}

// Contains reports whether an event id is already in the feed
func (f *Feed) Contains(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, item := range f.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Len returns the current feed length
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}

// Snapshot returns a copy of the feed, most recent first
func (f *Feed) Snapshot() []activity.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]activity.Event, len(f.items))
	copy(out, f.items)
	return out
}

// Filter returns the events matching the given type, or all events for
// activity filter "all". The underlying sequence is not mutated.
func (f *Feed) Filter(filterType string) []activity.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if filterType == "all" || filterType == "" {
		out := make([]activity.Event, len(f.items))
		copy(out, f.items)
		return out
	}

	var out []activity.Event
	for _, item := range f.items {
		if string(item.Type) == filterType {
			out = append(out, item)
		}
	}
	return out
}

// Clear empties the feed. Destructive and local-only; the caller is
// responsible for user confirmation.
func (f *Feed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = f.items[:0]
}

// Export produces the downloadable snapshot of the feed. Read-only;
// the feed itself is unchanged.
func (f *Feed) Export() ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	records := make([]activity.ExportRecord, len(f.items))
	for i, item := range f.items {
		records[i] = activity.ExportRecord{
			Timestamp:  item.Timestamp.UTC().Format(time.RFC3339),
			Type:       item.Type,
			Message:    item.Message,
			Employee:   item.EmployeeName,
			Department: item.Department,
		}
	}
	return json.MarshalIndent(records, "", "  ")
}
