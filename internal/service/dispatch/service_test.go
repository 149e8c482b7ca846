package dispatch

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/domain/realtime"
	"github.com/inout-manager/realtime-go/internal/domain/stats"
)

type recordingFeed struct {
	events []activity.Event
}

func (f *recordingFeed) Add(event activity.Event) {
	f.events = append(f.events, event)
}

type recordingStats struct {
	updates   []stats.Dashboard
	refreshes int
}

func (s *recordingStats) Update(d stats.Dashboard) { s.updates = append(s.updates, d) }
func (s *recordingStats) Refresh()                 { s.refreshes++ }

type badgeChange struct {
	employeeID string
	status     activity.EmployeeStatus
}

type recordingBadges struct {
	changes []badgeChange
}

func (b *recordingBadges) SetEmployeeStatus(employeeID string, status activity.EmployeeStatus) {
	b.changes = append(b.changes, badgeChange{employeeID: employeeID, status: status})
}

type toast struct {
	message string
	level   activity.Severity
}

type recordingToaster struct {
	toasts []toast
}

func (t *recordingToaster) Toast(message string, level activity.Severity) {
	t.toasts = append(t.toasts, toast{message: message, level: level})
}

type harness struct {
	dispatcher *Dispatcher
	feed       *recordingFeed
	stats      *recordingStats
	badges     *recordingBadges
	toasts     *recordingToaster
}

func newHarness() *harness {
	h := &harness{
		feed:   &recordingFeed{},
		stats:  &recordingStats{},
		badges: &recordingBadges{},
		toasts: &recordingToaster{},
	}
	h.dispatcher = NewDispatcher(h.feed, h.stats, h.badges, h.toasts, nil, clock.NewMock(), nil)
	return h
}

func TestDispatch_Entry(t *testing.T) {
	h := newHarness()

	h.dispatcher.Dispatch(realtime.Envelope{
		Type: realtime.MessageEntry,
		Employee: &realtime.EmployeePayload{
			ID:         "e1",
			Name:       "Ana",
			Department: "Ventas",
		},
	})

	require.Len(t, h.feed.events, 1)
	event := h.feed.events[0]
	assert.Equal(t, activity.TypeEntry, event.Type)
	assert.Equal(t, "Ana ha ingresado al trabajo", event.Message)
	assert.Equal(t, "Ventas", event.Department)
	assert.NotEmpty(t, event.ID)

	assert.Equal(t, []badgeChange{{employeeID: "e1", status: activity.StatusWorking}}, h.badges.changes)
	assert.Equal(t, 1, h.stats.refreshes)

	require.Len(t, h.toasts.toasts, 1)
	assert.Equal(t, "Ingreso: Ana", h.toasts.toasts[0].message)
	assert.Equal(t, activity.SeverityInfo, h.toasts.toasts[0].level)
}

func TestDispatch_Exit(t *testing.T) {
	h := newHarness()

	h.dispatcher.Dispatch(realtime.Envelope{
		Type:     realtime.MessageExit,
		Employee: &realtime.EmployeePayload{ID: "e2", Name: "Luis"},
	})

	require.Len(t, h.feed.events, 1)
	assert.Equal(t, activity.TypeExit, h.feed.events[0].Type)
	assert.Equal(t, "Luis ha salido del trabajo", h.feed.events[0].Message)

	assert.Equal(t, []badgeChange{{employeeID: "e2", status: activity.StatusInactive}}, h.badges.changes)
	assert.Equal(t, 1, h.stats.refreshes)

	require.Len(t, h.toasts.toasts, 1)
	assert.Equal(t, "Salida: Luis", h.toasts.toasts[0].message)
	assert.Equal(t, activity.SeverityWarning, h.toasts.toasts[0].level)
}

func TestDispatch_EmployeeMessageWithoutPayloadIsDropped(t *testing.T) {
	h := newHarness()

	h.dispatcher.Dispatch(realtime.Envelope{Type: realtime.MessageEntry})
	h.dispatcher.Dispatch(realtime.Envelope{Type: realtime.MessageExit})

	assert.Empty(t, h.feed.events)
	assert.Empty(t, h.badges.changes)
	assert.Zero(t, h.stats.refreshes)
}

func TestDispatch_StatusUpdate(t *testing.T) {
	tests := []struct {
		name       string
		status     activity.EmployeeStatus
		wantInFeed bool
	}{
		{name: "break reaches the feed", status: activity.StatusBreak, wantInFeed: true},
		{name: "working only moves the badge", status: activity.StatusWorking, wantInFeed: false},
		{name: "inactive only moves the badge", status: activity.StatusInactive, wantInFeed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()

			h.dispatcher.Dispatch(realtime.Envelope{
				Type:         realtime.MessageStatusUpdate,
				EmployeeID:   "e3",
				EmployeeName: "Marta",
				Status:       tt.status,
			})

			assert.Equal(t, []badgeChange{{employeeID: "e3", status: tt.status}}, h.badges.changes)
			assert.Zero(t, h.stats.refreshes)
			assert.Empty(t, h.toasts.toasts)

			if !tt.wantInFeed {
				assert.Empty(t, h.feed.events)
				return
			}
			require.Len(t, h.feed.events, 1)
			assert.Equal(t, activity.TypeBreak, h.feed.events[0].Type)
			assert.Equal(t, "Marta está en descanso", h.feed.events[0].Message)
		})
	}
}

func TestDispatch_Alert(t *testing.T) {
	h := newHarness()

	h.dispatcher.Dispatch(realtime.Envelope{
		Type:     realtime.MessageAlert,
		Message:  "Llegada tarde detectada",
		Severity: activity.SeverityError,
	})

	require.Len(t, h.feed.events, 1)
	assert.Equal(t, activity.TypeAlert, h.feed.events[0].Type)
	assert.Equal(t, activity.SeverityError, h.feed.events[0].Severity)

	require.Len(t, h.toasts.toasts, 1)
	assert.Equal(t, "Llegada tarde detectada", h.toasts.toasts[0].message)
	assert.Equal(t, activity.SeverityError, h.toasts.toasts[0].level)
}

func TestDispatch_AlertDefaultsToWarning(t *testing.T) {
	h := newHarness()

	h.dispatcher.Dispatch(realtime.Envelope{
		Type:    realtime.MessageAlert,
		Message: "Sensor sin respuesta",
	})

	require.Len(t, h.toasts.toasts, 1)
	assert.Equal(t, activity.SeverityWarning, h.toasts.toasts[0].level)
}

func TestDispatch_StatsUpdate(t *testing.T) {
	h := newHarness()

	h.dispatcher.Dispatch(realtime.Envelope{
		Type: realtime.MessageStatsUpdate,
		Stats: &stats.DashboardResponse{
			Dashboard: stats.Dashboard{Present: 8, Absent: 2, OnBreak: 1},
		},
	})

	// stats_update touches nothing but the aggregator
	assert.Equal(t, []stats.Dashboard{{Present: 8, Absent: 2, OnBreak: 1}}, h.stats.updates)
	assert.Empty(t, h.feed.events)
	assert.Empty(t, h.badges.changes)
	assert.Empty(t, h.toasts.toasts)
}

func TestDispatch_UnknownTypeIsIgnored(t *testing.T) {
	h := newHarness()

	h.dispatcher.Dispatch(realtime.Envelope{Type: "ping"})

	assert.Empty(t, h.feed.events)
	assert.Empty(t, h.badges.changes)
	assert.Empty(t, h.toasts.toasts)
	assert.Zero(t, h.stats.refreshes)
}

func TestDispatch_UsesServerTimestampWhenPresent(t *testing.T) {
	h := newHarness()
	sent := time.Date(2026, 3, 14, 8, 59, 0, 0, time.UTC)

	h.dispatcher.Dispatch(realtime.Envelope{
		Type:      realtime.MessageEntry,
		Employee:  &realtime.EmployeePayload{ID: "e1", Name: "Ana"},
		Timestamp: &sent,
	})

	require.Len(t, h.feed.events, 1)
	assert.Equal(t, sent, h.feed.events[0].Timestamp)
}

func TestDispatch_KeepsServerEventID(t *testing.T) {
	h := newHarness()

	h.dispatcher.Dispatch(realtime.Envelope{
		Type:     realtime.MessageEntry,
		ID:       "srv-42",
		Employee: &realtime.EmployeePayload{ID: "e1", Name: "Ana"},
	})

	require.Len(t, h.feed.events, 1)
	assert.Equal(t, "srv-42", h.feed.events[0].ID)
}
