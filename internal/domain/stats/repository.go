package stats

import (
	"context"
)

// Repository defines the gateway-side source of dashboard counters
type Repository interface {
	Current(ctx context.Context) (Dashboard, error)
}
