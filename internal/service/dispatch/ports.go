package dispatch

import (
	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/domain/stats"
)

// FeedSink receives events destined for the activity feed
type FeedSink interface {
	Add(event activity.Event)
}

// StatsSink receives dashboard counter updates. Refresh asks for the
// authoritative counters to be re-fetched (entry/exit messages update
// stats via recompute rather than carrying counters themselves).
type StatsSink interface {
	Update(d stats.Dashboard)
	Refresh()
}

// BadgeSink updates an employee's status badge
type BadgeSink interface {
	SetEmployeeStatus(employeeID string, status activity.EmployeeStatus)
}

// Toaster shows a non-blocking user notification
type Toaster interface {
	Toast(message string, level activity.Severity)
}

// PushPublisher forwards selected events to the push-notification
// subsystem. Delivery itself is out of scope; a no-op stands in when
// no subsystem is wired.
type PushPublisher interface {
	Push(title, message string)
}

// No-op stand-ins for optional collaborators

type NoopStatsSink struct{}

func (NoopStatsSink) Update(stats.Dashboard) {}
func (NoopStatsSink) Refresh()               {}

type NoopBadgeSink struct{}

func (NoopBadgeSink) SetEmployeeStatus(string, activity.EmployeeStatus) {}

type NoopToaster struct{}

func (NoopToaster) Toast(string, activity.Severity) {}

type NoopPushPublisher struct{}

func (NoopPushPublisher) Push(string, string) {}
