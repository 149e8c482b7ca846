package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/domain/realtime"
	"github.com/inout-manager/realtime-go/internal/service/dispatch"
)

// Defaults for the reconnect/backoff policy
const (
	DefaultMaxReconnectAttempts = 5
	DefaultReconnectBaseDelay   = 1000 * time.Millisecond
	DefaultPollInterval         = 7 * time.Second
)

// Config parameterizes the supervisor
type Config struct {
	URL                  string
	Token                string
	MaxReconnectAttempts int
	ReconnectBaseDelay   time.Duration
	PollInterval         time.Duration
}

func (c *Config) applyDefaults() {
	if c.MaxReconnectAttempts == 0 {
		c.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if c.ReconnectBaseDelay == 0 {
		c.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
}

// FeedMerger deduplicates polled activity lists into the feed by
// event id
type FeedMerger interface {
	MergeByID(events []activity.Event) int
	Len() int
}

// OnlineSink is told when connectivity to the gateway is gained or
// lost; the sync queue drains on the offline→online transition
type OnlineSink interface {
	SetOnline(ctx context.Context, online bool)
}

// NoopOnlineSink ignores connectivity changes
type NoopOnlineSink struct{}

func (NoopOnlineSink) SetOnline(context.Context, bool) {}

// Supervisor owns the single live channel to the gateway. It drives
// the connection state machine: connecting → open → closed →
// reconnect-wait, with exponential backoff, and a permanent switch to
// polling-fallback once reconnect attempts are exhausted. Channel
// errors are never fatal; every failure resolves to a state
// transition.
type Supervisor struct {
	cfg        Config
	dialer     realtime.Dialer
	api        realtime.API
	dispatcher *dispatch.Dispatcher
	feed       FeedMerger
	stats      dispatch.StatsSink
	status     realtime.StatusSink
	online     OnlineSink
	toasts     dispatch.Toaster
	clock      clock.Clock
	logger     *slog.Logger

	mu         sync.Mutex
	state      realtime.ConnectionState
	attempts   int
	lastUpdate time.Time
}

// NewSupervisor wires the supervisor. dialer, api, dispatcher and feed
// are required; the remaining collaborators fall back to no-ops.
func NewSupervisor(cfg Config, dialer realtime.Dialer, api realtime.API, dispatcher *dispatch.Dispatcher, feed FeedMerger, statsSink dispatch.StatsSink, status realtime.StatusSink, online OnlineSink, toasts dispatch.Toaster, clk clock.Clock, logger *slog.Logger) *Supervisor {
	cfg.applyDefaults()
	if statsSink == nil {
		statsSink = dispatch.NoopStatsSink{}
	}
	if status == nil {
		status = realtime.NoopStatusSink{}
	}
	if online == nil {
		online = NoopOnlineSink{}
	}
	if toasts == nil {
		toasts = dispatch.NoopToaster{}
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		cfg:        cfg,
		dialer:     dialer,
		api:        api,
		dispatcher: dispatcher,
		feed:       feed,
		stats:      statsSink,
		status:     status,
		online:     online,
		toasts:     toasts,
		clock:      clk,
		logger:     logger,
		state:      realtime.StateClosed,
	}
}

// Run drives the connection lifecycle until ctx is canceled, the
// credentials are rejected, or the session degrades to polling (which
// then runs until cancellation). Always returns a non-nil error
// describing why it stopped.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.connectOnce(ctx)
		s.setState(realtime.StateClosed)
		s.online.SetOnline(ctx, false)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, realtime.ErrAuthFailed) {
			// Never retry with stale credentials
			s.toasts.Toast("Sesión expirada, vuelva a iniciar sesión", activity.SeverityError)
			s.logger.Error("channel authentication rejected, giving up")
			return realtime.ErrAuthFailed
		}
		if err != nil {
			s.logger.Warn("channel lost", slog.String("error", err.Error()))
		}

		s.mu.Lock()
		s.attempts++
		attempt := s.attempts
		s.mu.Unlock()

		if attempt > s.cfg.MaxReconnectAttempts {
			s.logger.Warn("max reconnection attempts reached, switching to polling mode")
			s.setState(realtime.StatePollingFallback)
			return s.runPolling(ctx)
		}

		delay := backoffDelay(s.cfg.ReconnectBaseDelay, attempt)
		s.logger.Info("scheduling reconnect",
			slog.Int("attempt", attempt),
			slog.Int("max", s.cfg.MaxReconnectAttempts),
			slog.Duration("delay", delay))
		s.setState(realtime.StateReconnectWait)

		timer := s.clock.Timer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// backoffDelay is the reconnect wait before the given 1-based attempt:
// base × 2^(attempt-1)
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base << (attempt - 1)
}

// connectOnce opens the channel, authenticates, and pumps messages
// until the channel fails
func (s *Supervisor) connectOnce(ctx context.Context) error {
	s.setState(realtime.StateConnecting)

	ch, err := s.dialer.Dial(ctx, s.cfg.URL)
	if err != nil {
		return err
	}
	defer ch.Close()

	// Authentication is always the first outbound message
	if err := ch.WriteJSON(realtime.AuthMessage{Type: realtime.MessageAuth, Token: s.cfg.Token}); err != nil {
		return err
	}

	s.setState(realtime.StateOpen)
	s.mu.Lock()
	s.attempts = 0
	s.mu.Unlock()
	s.online.SetOnline(ctx, true)

	return s.readLoop(ctx, ch)
}

// readLoop processes frames in arrival order. Decode failures drop the
// single message and leave the channel untouched.
func (s *Supervisor) readLoop(ctx context.Context, ch realtime.Channel) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			ch.Close()
		case <-done:
		}
	}()

	for {
		raw, err := ch.ReadMessage()
		if err != nil {
			return err
		}

		env, err := realtime.DecodeEnvelope(raw)
		if err != nil {
			s.logger.Warn("dropping undecodable channel message", slog.String("error", err.Error()))
			continue
		}

		s.dispatcher.Dispatch(env)
		s.touch()
	}
}

// runPolling is the degraded mode for the rest of the session: a
// periodic request/response cycle replaces push delivery. There is no
// path back to the channel.
func (s *Supervisor) runPolling(ctx context.Context) error {
	s.pollOnce(ctx)

	ticker := s.clock.Ticker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

func (s *Supervisor) pollOnce(ctx context.Context) {
	dashboard, err := s.api.RealtimeStats(ctx)
	if err != nil {
		s.logger.Warn("fallback stats poll failed", slog.String("error", err.Error()))
		s.online.SetOnline(ctx, false)
		return
	}
	s.stats.Update(dashboard.Dashboard)
	s.online.SetOnline(ctx, true)

	events, err := s.api.RecentActivity(ctx)
	if err != nil {
		s.logger.Warn("fallback activity poll failed", slog.String("error", err.Error()))
		return
	}
	if added := s.feed.MergeByID(events); added > 0 {
		s.logger.Debug("merged polled activity", slog.Int("added", added))
	}
	s.touch()
}

func (s *Supervisor) setState(to realtime.ConnectionState) {
	s.mu.Lock()
	from := s.state
	if from == to {
		s.mu.Unlock()
		return
	}
	if !realtime.CanTransition(from, to) {
		s.mu.Unlock()
		s.logger.Error("invalid connection state transition",
			slog.String("from", string(from)),
			slog.String("to", string(to)))
		return
	}
	s.state = to
	s.lastUpdate = s.clock.Now()
	s.mu.Unlock()

	s.status.ConnectionStatus(to)
}

func (s *Supervisor) touch() {
	s.mu.Lock()
	s.lastUpdate = s.clock.Now()
	s.mu.Unlock()
}

// State returns the current connection state
func (s *Supervisor) State() realtime.ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot describes the supervisor for status displays
func (s *Supervisor) Snapshot() realtime.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return realtime.Snapshot{
		State:             s.state,
		ReconnectAttempts: s.attempts,
		FeedLength:        s.feed.Len(),
		LastUpdate:        s.lastUpdate,
	}
}
