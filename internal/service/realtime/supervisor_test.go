package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/domain/realtime"
	"github.com/inout-manager/realtime-go/internal/domain/stats"
	"github.com/inout-manager/realtime-go/internal/service/dispatch"
	"github.com/inout-manager/realtime-go/internal/service/feed"
)

// scriptedChannel replays a fixed sequence of frames, then fails with
// the configured error
type scriptedChannel struct {
	mu     sync.Mutex
	frames [][]byte
	errOut error
	writes []interface{}
	closed chan struct{}
	once   sync.Once
}

func newScriptedChannel(errOut error, frames ...[]byte) *scriptedChannel {
	return &scriptedChannel{frames: frames, errOut: errOut, closed: make(chan struct{})}
}

func (c *scriptedChannel) ReadMessage() ([]byte, error) {
	c.mu.Lock()
	if len(c.frames) > 0 {
		frame := c.frames[0]
		c.frames = c.frames[1:]
		c.mu.Unlock()
		return frame, nil
	}
	c.mu.Unlock()

	<-c.closed
	return nil, c.errOut
}

func (c *scriptedChannel) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, v)
	return nil
}

func (c *scriptedChannel) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *scriptedChannel) fail() {
	c.Close()
}

// scriptedDialer hands out one result per dial attempt; once the
// script is exhausted every further dial fails
type scriptedDialer struct {
	mu       sync.Mutex
	script   []dialResult
	attempts int
}

type dialResult struct {
	channel *scriptedChannel
	err     error
}

func (d *scriptedDialer) Dial(context.Context, string) (realtime.Channel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.attempts++
	if len(d.script) == 0 {
		return nil, errors.New("dial refused")
	}
	next := d.script[0]
	d.script = d.script[1:]
	if next.err != nil {
		return nil, next.err
	}
	return next.channel, nil
}

func (d *scriptedDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attempts
}

type fakeAPI struct {
	mu         sync.Mutex
	dashboard  stats.DashboardResponse
	events     []activity.Event
	statsErr   error
	statsCalls int
}

func (a *fakeAPI) RealtimeStats(context.Context) (stats.DashboardResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.statsCalls++
	if a.statsErr != nil {
		return stats.DashboardResponse{}, a.statsErr
	}
	return a.dashboard, nil
}

func (a *fakeAPI) RecentActivity(context.Context) ([]activity.Event, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.events, nil
}

func (a *fakeAPI) statsCallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statsCalls
}

type statesRecorder struct {
	mu     sync.Mutex
	states []realtime.ConnectionState
}

func (r *statesRecorder) ConnectionStatus(state realtime.ConnectionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *statesRecorder) seen() []realtime.ConnectionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]realtime.ConnectionState, len(r.states))
	copy(out, r.states)
	return out
}

type onlineRecorder struct {
	mu          sync.Mutex
	transitions []bool
}

func (r *onlineRecorder) SetOnline(_ context.Context, online bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, online)
}

type toastRecorder struct {
	mu     sync.Mutex
	toasts []string
}

func (r *toastRecorder) Toast(message string, _ activity.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, message)
}

func (r *toastRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.toasts))
	copy(out, r.toasts)
	return out
}

type statsRecorder struct {
	mu      sync.Mutex
	updates []stats.Dashboard
}

func (r *statsRecorder) Update(d stats.Dashboard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, d)
}

func (r *statsRecorder) Refresh() {}

func (r *statsRecorder) latest() (stats.Dashboard, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updates) == 0 {
		return stats.Dashboard{}, false
	}
	return r.updates[len(r.updates)-1], true
}

type supervisorHarness struct {
	supervisor *Supervisor
	dialer     *scriptedDialer
	api        *fakeAPI
	feed       *feed.Feed
	stats      *statsRecorder
	status     *statesRecorder
	online     *onlineRecorder
	toasts     *toastRecorder
}

// newSupervisorHarness builds a supervisor over the real clock with
// delays short enough for the tests to run in milliseconds
func newSupervisorHarness(dialer *scriptedDialer, api *fakeAPI) *supervisorHarness {
	h := &supervisorHarness{
		dialer: dialer,
		api:    api,
		feed:   feed.NewFeed(feed.DefaultCapacity),
		stats:  &statsRecorder{},
		status: &statesRecorder{},
		online: &onlineRecorder{},
		toasts: &toastRecorder{},
	}
	dispatcher := dispatch.NewDispatcher(h.feed, h.stats, nil, h.toasts, nil, clock.New(), nil)
	h.supervisor = NewSupervisor(
		Config{
			URL:                "ws://gateway/ws/admin",
			Token:              "token-1",
			ReconnectBaseDelay: time.Millisecond,
			PollInterval:       5 * time.Millisecond,
		},
		dialer, api, dispatcher, h.feed, h.stats, h.status, h.online, h.toasts,
		clock.New(), nil,
	)
	return h
}

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: 1000 * time.Millisecond},
		{attempt: 2, want: 2000 * time.Millisecond},
		{attempt: 3, want: 4000 * time.Millisecond},
		{attempt: 4, want: 8000 * time.Millisecond},
		{attempt: 5, want: 16000 * time.Millisecond},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, backoffDelay(1000*time.Millisecond, tt.attempt))
	}
}

func TestSupervisor_FallsBackToPollingAfterExhaustedRetries(t *testing.T) {
	dialer := &scriptedDialer{} // every dial refused
	api := &fakeAPI{dashboard: stats.DashboardResponse{Dashboard: stats.Dashboard{Present: 7}}}
	h := newSupervisorHarness(dialer, api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.supervisor.Run(ctx) }()

	require.Eventually(t, func() bool {
		return h.supervisor.State() == realtime.StatePollingFallback
	}, time.Second, time.Millisecond)

	// The initial connect plus one dial per allowed retry, then no more
	assert.Equal(t, 1+DefaultMaxReconnectAttempts, dialer.dialCount())

	// Polling keeps the dashboard fresh without reopening the channel
	require.Eventually(t, func() bool {
		latest, ok := h.stats.latest()
		return ok && latest.Present == 7
	}, time.Second, time.Millisecond)
	assert.Equal(t, 1+DefaultMaxReconnectAttempts, dialer.dialCount())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestSupervisor_PollingMergesActivityByID(t *testing.T) {
	dialer := &scriptedDialer{}
	api := &fakeAPI{
		events: []activity.Event{
			{ID: "a", Type: activity.TypeEntry, Message: "Ana ha ingresado al trabajo"},
			{ID: "b", Type: activity.TypeExit, Message: "Luis ha salido del trabajo"},
		},
	}
	h := newSupervisorHarness(dialer, api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = h.supervisor.Run(ctx) }()

	require.Eventually(t, func() bool { return h.feed.Len() == 2 }, time.Second, time.Millisecond)

	// Later polls return the same list; nothing is duplicated
	require.Eventually(t, func() bool { return api.statsCallCount() >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, 2, h.feed.Len())
}

func TestSupervisor_AuthFirstThenDispatch(t *testing.T) {
	channel := newScriptedChannel(
		realtime.ErrChannelClosed,
		[]byte(`{"type":"entry","employee":{"id":"e1","nombre":"Ana"}}`),
	)
	dialer := &scriptedDialer{script: []dialResult{{channel: channel}}}
	h := newSupervisorHarness(dialer, &fakeAPI{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = h.supervisor.Run(ctx) }()

	require.Eventually(t, func() bool { return h.feed.Len() == 1 }, time.Second, time.Millisecond)

	channel.mu.Lock()
	writes := append([]interface{}{}, channel.writes...)
	channel.mu.Unlock()
	require.NotEmpty(t, writes)
	auth, ok := writes[0].(realtime.AuthMessage)
	require.True(t, ok)
	assert.Equal(t, realtime.MessageAuth, auth.Type)
	assert.Equal(t, "token-1", auth.Token)

	assert.Equal(t, "Ana ha ingresado al trabajo", h.feed.Snapshot()[0].Message)
}

func TestSupervisor_AuthRejectionStopsWithoutRetry(t *testing.T) {
	channel := newScriptedChannel(realtime.ErrAuthFailed)
	channel.fail()
	dialer := &scriptedDialer{script: []dialResult{{channel: channel}}}
	h := newSupervisorHarness(dialer, &fakeAPI{})

	err := h.supervisor.Run(context.Background())

	assert.ErrorIs(t, err, realtime.ErrAuthFailed)
	assert.Equal(t, 1, dialer.dialCount())
	assert.Contains(t, h.toasts.all(), "Sesión expirada, vuelva a iniciar sesión")
}

func TestSupervisor_UndecodableFramesAreDropped(t *testing.T) {
	channel := newScriptedChannel(
		realtime.ErrChannelClosed,
		[]byte(`{not json`),
		[]byte(`{"message":"sin tipo"}`),
		[]byte(`{"type":"entry","employee":{"id":"e1","nombre":"Ana"}}`),
	)
	dialer := &scriptedDialer{script: []dialResult{{channel: channel}}}
	h := newSupervisorHarness(dialer, &fakeAPI{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = h.supervisor.Run(ctx) }()

	// Only the well-formed frame survives
	require.Eventually(t, func() bool { return h.feed.Len() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, activity.TypeEntry, h.feed.Snapshot()[0].Type)
}

func TestSupervisor_ReconnectResetsAttemptCounter(t *testing.T) {
	reconnected := newScriptedChannel(realtime.ErrChannelClosed,
		[]byte(`{"type":"entry","employee":{"id":"e1","nombre":"Ana"}}`))
	dialer := &scriptedDialer{script: []dialResult{
		{err: errors.New("dial refused")},
		{err: errors.New("dial refused")},
		{channel: reconnected},
	}}
	h := newSupervisorHarness(dialer, &fakeAPI{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = h.supervisor.Run(ctx) }()

	// A successful open wipes the attempt budget for the next outage
	require.Eventually(t, func() bool {
		snapshot := h.supervisor.Snapshot()
		return snapshot.State == realtime.StateOpen && snapshot.ReconnectAttempts == 0
	}, time.Second, time.Millisecond)
	assert.Contains(t, h.status.seen(), realtime.StateReconnectWait)
}
