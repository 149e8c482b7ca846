package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"

	"github.com/inout-manager/realtime-go/internal/config"
	"github.com/inout-manager/realtime-go/internal/domain/activity"
	domainRealtime "github.com/inout-manager/realtime-go/internal/domain/realtime"
	"github.com/inout-manager/realtime-go/internal/domain/stats"
	"github.com/inout-manager/realtime-go/internal/pkg/apiclient"
	"github.com/inout-manager/realtime-go/internal/pkg/kv"
	"github.com/inout-manager/realtime-go/internal/pkg/ws"
	"github.com/inout-manager/realtime-go/internal/service/dispatch"
	"github.com/inout-manager/realtime-go/internal/service/feed"
	realtimeService "github.com/inout-manager/realtime-go/internal/service/realtime"
	statsService "github.com/inout-manager/realtime-go/internal/service/stats"
	syncService "github.com/inout-manager/realtime-go/internal/service/syncqueue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	if err := cfg.ValidateMonitor(); err != nil {
		fmt.Println("Invalid monitor configuration:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "inout-monitor"),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := kv.NewFileStore(cfg.Monitor.DataDir)
	if err != nil {
		fmt.Println("Error opening data directory:", err)
		return
	}

	clk := clock.New()
	api := apiclient.NewClient(cfg.Monitor.APIBaseURL, cfg.Monitor.Token)
	toasts := &consoleToaster{logger: logger}

	queue, err := syncService.NewQueue(ctx, syncService.NewKVStore(store), api, toasts, clk, logger)
	if err != nil {
		fmt.Println("Error restoring sync queue:", err)
		return
	}

	activityFeed := feed.NewFeed(feed.DefaultCapacity)
	aggregator := statsService.NewAggregator(clk)
	statsSink := &refreshingStatsSink{ctx: ctx, aggregator: aggregator, api: api, logger: logger}

	dispatcher := dispatch.NewDispatcher(
		activityFeed,
		statsSink,
		&consoleBadges{logger: logger},
		toasts,
		nil, // no push subsystem wired on the console monitor
		clk,
		logger,
	)

	supervisor := realtimeService.NewSupervisor(
		realtimeService.Config{
			URL:                  cfg.Monitor.ChannelURL,
			Token:                cfg.Monitor.Token,
			MaxReconnectAttempts: cfg.Monitor.ReconnectMaxAttempts,
			ReconnectBaseDelay:   cfg.Monitor.ReconnectBaseDelay,
			PollInterval:         cfg.Monitor.PollInterval,
		},
		ws.NewDialer(),
		api,
		dispatcher,
		activityFeed,
		statsSink,
		&consoleStatus{logger: logger},
		queueOnlineSink{queue: queue},
		toasts,
		clk,
		logger,
	)

	logger.Info("monitor started", slog.String("channel", cfg.Monitor.ChannelURL))
	err = supervisor.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("monitor stopped")
		return
	}
	logger.Error("monitor exited", slog.String("error", err.Error()))
}

// consoleToaster renders toasts as log lines
type consoleToaster struct {
	logger *slog.Logger
}

func (t *consoleToaster) Toast(message string, level activity.Severity) {
	t.logger.Info("toast", slog.String("level", string(level)), slog.String("message", message))
}

// consoleBadges renders badge changes as log lines
type consoleBadges struct {
	logger *slog.Logger
}

func (b *consoleBadges) SetEmployeeStatus(employeeID string, status activity.EmployeeStatus) {
	b.logger.Info("badge",
		slog.String("employee_id", employeeID),
		slog.String("status", activity.StatusText(status)))
}

// consoleStatus renders the connection indicator as log lines
type consoleStatus struct {
	logger *slog.Logger
}

func (s *consoleStatus) ConnectionStatus(state domainRealtime.ConnectionState) {
	s.logger.Info("connection", slog.String("state", string(state)))
}

// refreshingStatsSink holds the aggregator and re-fetches the
// authoritative counters when a message implies a recompute
type refreshingStatsSink struct {
	ctx        context.Context
	aggregator *statsService.Aggregator
	api        *apiclient.Client
	logger     *slog.Logger
}

func (s *refreshingStatsSink) Update(d stats.Dashboard) {
	s.aggregator.Update(d)
}

func (s *refreshingStatsSink) Refresh() {
	go func() {
		dashboard, err := s.api.RealtimeStats(s.ctx)
		if err != nil {
			s.logger.Warn("stats refresh failed", slog.String("error", err.Error()))
			return
		}
		s.aggregator.Update(dashboard.Dashboard)
	}()
}

// queueOnlineSink forwards connectivity transitions to the sync queue
type queueOnlineSink struct {
	queue *syncService.Queue
}

func (s queueOnlineSink) SetOnline(ctx context.Context, online bool) {
	s.queue.SetOnline(ctx, online)
}
