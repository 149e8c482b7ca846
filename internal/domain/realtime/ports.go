package realtime

import (
	"context"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/domain/stats"
)

// Channel is a single live bidirectional connection to the gateway
type Channel interface {
	// ReadMessage blocks until the next frame arrives or the channel fails
	ReadMessage() ([]byte, error)
	WriteJSON(v interface{}) error
	Close() error
}

// Dialer opens channels. Injected so the supervisor can be exercised
// without a network.
type Dialer interface {
	Dial(ctx context.Context, url string) (Channel, error)
}

// API is the request/response fallback used while the channel is down
type API interface {
	RealtimeStats(ctx context.Context) (stats.DashboardResponse, error)
	RecentActivity(ctx context.Context) ([]activity.Event, error)
}

// StatusSink observes connection state transitions (UI status indicator)
type StatusSink interface {
	ConnectionStatus(state ConnectionState)
}

// NoopStatusSink ignores status transitions
type NoopStatusSink struct{}

func (NoopStatusSink) ConnectionStatus(ConnectionState) {}
