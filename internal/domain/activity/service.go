package activity

import (
	"context"

	"github.com/inout-manager/realtime-go/internal/domain/stats"
)

// Service ingests attendance events on the gateway: validate, persist,
// broadcast to connected channels
type Service interface {
	Record(ctx context.Context, req RecordEventRequest) (EventResponse, error)
	Recent(ctx context.Context) ([]EventResponse, error)
	CurrentStats(ctx context.Context) (stats.DashboardResponse, error)
}
