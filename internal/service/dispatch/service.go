package dispatch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/domain/realtime"
)

// Dispatcher routes each inbound channel message to exactly the state
// updates it implies: feed entry, stats update, status badge, toast
// and push notification. Unknown message types are logged and ignored.
type Dispatcher struct {
	feed   FeedSink
	stats  StatsSink
	badges BadgeSink
	toasts Toaster
	push   PushPublisher
	clock  clock.Clock
	logger *slog.Logger
}

// NewDispatcher wires the routing targets. Nil collaborators are
// replaced with no-op stand-ins so callers only provide what they use.
func NewDispatcher(feed FeedSink, statsSink StatsSink, badges BadgeSink, toasts Toaster, push PushPublisher, clk clock.Clock, logger *slog.Logger) *Dispatcher {
	if statsSink == nil {
		statsSink = NoopStatsSink{}
	}
	if badges == nil {
		badges = NoopBadgeSink{}
	}
	if toasts == nil {
		toasts = NoopToaster{}
	}
	if push == nil {
		push = NoopPushPublisher{}
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		feed:   feed,
		stats:  statsSink,
		badges: badges,
		toasts: toasts,
		push:   push,
		clock:  clk,
		logger: logger,
	}
}

// Dispatch applies the routing table for one decoded message
func (d *Dispatcher) Dispatch(env realtime.Envelope) {
	switch env.Type {
	case realtime.MessageEntry:
		d.handleEntry(env)
	case realtime.MessageExit:
		d.handleExit(env)
	case realtime.MessageStatusUpdate:
		d.handleStatusUpdate(env)
	case realtime.MessageAlert:
		d.handleAlert(env)
	case realtime.MessageStatsUpdate:
		d.handleStatsUpdate(env)
	default:
		d.logger.Warn("unknown message type", slog.String("type", env.Type))
	}
}

func (d *Dispatcher) handleEntry(env realtime.Envelope) {
	if env.Employee == nil {
		d.logger.Warn("entry message without employee payload")
		return
	}
	event := d.employeeEvent(env, activity.TypeEntry,
		fmt.Sprintf("%s ha ingresado al trabajo", env.Employee.Name))

	d.feed.Add(event)
	d.badges.SetEmployeeStatus(env.Employee.ID, activity.StatusWorking)
	d.stats.Refresh()
	d.toasts.Toast(fmt.Sprintf("Ingreso: %s", env.Employee.Name), activity.SeverityInfo)
	d.push.Push("Ingreso", event.Message)
}

func (d *Dispatcher) handleExit(env realtime.Envelope) {
	if env.Employee == nil {
		d.logger.Warn("exit message without employee payload")
		return
	}
	event := d.employeeEvent(env, activity.TypeExit,
		fmt.Sprintf("%s ha salido del trabajo", env.Employee.Name))

	d.feed.Add(event)
	// Exit maps the badge to inactive rather than a distinct off-shift status
	d.badges.SetEmployeeStatus(env.Employee.ID, activity.StatusInactive)
	d.stats.Refresh()
	d.toasts.Toast(fmt.Sprintf("Salida: %s", env.Employee.Name), activity.SeverityWarning)
	d.push.Push("Salida", event.Message)
}

func (d *Dispatcher) handleStatusUpdate(env realtime.Envelope) {
	d.badges.SetEmployeeStatus(env.EmployeeID, env.Status)

	// Only break transitions show up in the feed; no stats, no toast
	if env.Status != activity.StatusBreak {
		return
	}
	d.feed.Add(activity.Event{
		ID:           d.eventID(env),
		Type:         activity.TypeBreak,
		EmployeeID:   env.EmployeeID,
		EmployeeName: env.EmployeeName,
		Timestamp:    d.timestamp(env),
		Message:      fmt.Sprintf("%s está en descanso", env.EmployeeName),
		Avatar:       env.Avatar,
	})
}

func (d *Dispatcher) handleAlert(env realtime.Envelope) {
	severity := env.Severity
	if severity == "" {
		severity = activity.SeverityWarning
	}
	d.feed.Add(activity.Event{
		ID:         d.eventID(env),
		Type:       activity.TypeAlert,
		EmployeeID: env.EmployeeID,
		Timestamp:  d.timestamp(env),
		Message:    env.Message,
		Severity:   severity,
	})
	d.toasts.Toast(env.Message, severity)
	d.push.Push("Alerta", env.Message)
}

func (d *Dispatcher) handleStatsUpdate(env realtime.Envelope) {
	if env.Stats == nil {
		d.logger.Warn("stats_update message without stats payload")
		return
	}
	d.stats.Update(env.Stats.Dashboard)
}

func (d *Dispatcher) employeeEvent(env realtime.Envelope, eventType activity.EventType, message string) activity.Event {
	return activity.Event{
		ID:           d.eventID(env),
		Type:         eventType,
		EmployeeID:   env.Employee.ID,
		EmployeeName: env.Employee.Name,
		Timestamp:    d.timestamp(env),
		Message:      message,
		Avatar:       env.Employee.Avatar,
		Department:   env.Employee.Department,
	}
}

func (d *Dispatcher) eventID(env realtime.Envelope) string {
	if env.ID != "" {
		return env.ID
	}
	return uuid.New().String()
}

func (d *Dispatcher) timestamp(env realtime.Envelope) time.Time {
	if env.Timestamp != nil {
		return *env.Timestamp
	}
	return d.clock.Now()
}
