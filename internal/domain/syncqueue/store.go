package syncqueue

import (
	"context"
)

// Store persists the action queue as a whole snapshot under one
// well-known key. Whole-snapshot read-modify-write keeps the on-disk
// format identical to the queue's in-memory state.
type Store interface {
	Load(ctx context.Context) ([]Action, error)
	Save(ctx context.Context, actions []Action) error
}

// Deliverer replays a single queued action against the server
type Deliverer interface {
	Deliver(ctx context.Context, action Action) error
}
