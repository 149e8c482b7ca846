package syncqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/domain/syncqueue"
	"github.com/inout-manager/realtime-go/internal/service/dispatch"
)

// Queue guarantees at-least-once delivery of mutating actions
// performed while offline. Actions are persisted as a whole snapshot
// so they survive a restart, and removed only after a successful
// replay.
type Queue struct {
	store     syncqueue.Store
	deliverer syncqueue.Deliverer
	toasts    dispatch.Toaster
	clock     clock.Clock
	logger    *slog.Logger

	mu       sync.Mutex
	items    []syncqueue.Action
	online   bool
	draining bool
}

// NewQueue restores any previously persisted actions from the store
func NewQueue(ctx context.Context, store syncqueue.Store, deliverer syncqueue.Deliverer, toasts dispatch.Toaster, clk clock.Clock, logger *slog.Logger) (*Queue, error) {
	if toasts == nil {
		toasts = dispatch.NoopToaster{}
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}

	items, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore sync queue: %w", err)
	}

	return &Queue{
		store:     store,
		deliverer: deliverer,
		toasts:    toasts,
		clock:     clk,
		logger:    logger,
		items:     items,
	}, nil
}

// Len returns the number of currently queued actions
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pending returns a copy of the queued actions
func (q *Queue) Pending() []syncqueue.Action {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]syncqueue.Action, len(q.items))
	copy(out, q.items)
	return out
}

// SetOnline flips the connectivity flag. A transition to online drains
// the queue.
func (q *Queue) SetOnline(ctx context.Context, online bool) {
	q.mu.Lock()
	wasOnline := q.online
	q.online = online
	q.mu.Unlock()

	if online && !wasOnline {
		q.Drain(ctx)
	}
}

// Online reports the current connectivity flag
func (q *Queue) Online() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.online
}

// Submit intercepts a mutating call. Online it is delivered
// immediately. Offline it is diverted: the action is enqueued and
// persisted, the user is told it was queued, and a synthetic queued
// result is returned instead of an error. Non-mutating methods are
// never queued and fail fast offline.
func (q *Queue) Submit(ctx context.Context, kind syncqueue.Kind, targetURL, method string, payload json.RawMessage, headers map[string]string) (syncqueue.Result, error) {
	if method == "" {
		method = http.MethodPost
	}

	q.mu.Lock()
	online := q.online
	q.mu.Unlock()

	action := syncqueue.Action{
		ID:         strconv.FormatInt(q.clock.Now().UnixMilli(), 10),
		Kind:       kind,
		TargetURL:  targetURL,
		Method:     method,
		Payload:    payload,
		Headers:    headers,
		EnqueuedAt: q.clock.Now(),
	}

	if online {
		if err := q.deliverer.Deliver(ctx, action); err != nil {
			return syncqueue.Result{}, err
		}
		return syncqueue.Result{Delivered: true, ActionID: action.ID}, nil
	}

	if method == http.MethodGet || method == http.MethodHead {
		return syncqueue.Result{}, syncqueue.ErrOffline
	}

	if err := q.enqueue(ctx, action); err != nil {
		return syncqueue.Result{}, err
	}

	if kind == syncqueue.KindForm {
		q.toasts.Toast("Formulario guardado para sincronización", activity.SeverityInfo)
	} else {
		q.toasts.Toast("Acción guardada para sincronización", activity.SeverityInfo)
	}
	return syncqueue.Result{Queued: true, ActionID: action.ID}, nil
}

func (q *Queue) enqueue(ctx context.Context, action syncqueue.Action) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, action)
	return q.persistLocked(ctx)
}

// Drain replays every action queued at the moment the drain starts.
// Each item is attempted independently: delivered items are removed,
// failed items stay queued for the next online transition. Actions
// enqueued while a drain is running are untouched and persist with the
// final snapshot.
func (q *Queue) Drain(ctx context.Context) {
	q.mu.Lock()
	if q.draining || len(q.items) == 0 {
		q.mu.Unlock()
		return
	}
	q.draining = true
	snapshot := make([]syncqueue.Action, len(q.items))
	copy(snapshot, q.items)
	q.mu.Unlock()

	for _, action := range snapshot {
		if err := q.deliverer.Deliver(ctx, action); err != nil {
			q.logger.Error("sync replay failed, action retained",
				slog.String("action_id", action.ID),
				slog.String("kind", string(action.Kind)),
				slog.String("error", err.Error()))
			continue
		}

		q.mu.Lock()
		q.removeLocked(action.ID)
		q.mu.Unlock()

		q.toasts.Toast(fmt.Sprintf("Sincronizado: %s", action.Kind), activity.SeveritySuccess)
	}

	q.mu.Lock()
	q.draining = false
	if err := q.persistLocked(ctx); err != nil {
		q.logger.Error("failed to persist sync queue after drain", slog.String("error", err.Error()))
	}
	q.mu.Unlock()
}

func (q *Queue) removeLocked(id string) {
	for i, item := range q.items {
		if item.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

func (q *Queue) persistLocked(ctx context.Context) error {
	return q.store.Save(ctx, q.items)
}
