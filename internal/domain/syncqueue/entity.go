package syncqueue

import (
	"encoding/json"
	"time"
)

// Kind distinguishes how a queued action was captured
type Kind string

const (
	KindForm    Kind = "form"
	KindRequest Kind = "request"
)

// Action is a persisted record of a mutating request deferred because
// connectivity was unavailable. Owned exclusively by the queue;
// removed only after a successful replay.
type Action struct {
	ID         string            `json:"id"`
	Kind       Kind              `json:"kind"`
	TargetURL  string            `json:"targetUrl"`
	Method     string            `json:"method"`
	Payload    json.RawMessage   `json:"payload,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	EnqueuedAt time.Time         `json:"enqueuedAt"`
}

// Result is the synthetic outcome returned to the caller instead of a
// network error when an action is diverted to the queue
type Result struct {
	Queued    bool   `json:"queued"`
	Delivered bool   `json:"delivered"`
	ActionID  string `json:"actionId,omitempty"`
}
