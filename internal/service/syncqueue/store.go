package syncqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inout-manager/realtime-go/internal/domain/syncqueue"
	"github.com/inout-manager/realtime-go/internal/pkg/kv"
)

// StorageKey is the single well-known key the queue snapshot lives under
const StorageKey = "syncQueue"

// KVStore persists the queue as a JSON array in a key-value store
type KVStore struct {
	kv kv.Store
}

func NewKVStore(store kv.Store) *KVStore {
	return &KVStore{kv: store}
}

func (s *KVStore) Load(ctx context.Context) ([]syncqueue.Action, error) {
	data, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var actions []syncqueue.Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("%w: %v", syncqueue.ErrCorruptQueue, err)
	}
	return actions, nil
}

func (s *KVStore) Save(ctx context.Context, actions []syncqueue.Action) error {
	if len(actions) == 0 {
		return s.kv.Remove(ctx, StorageKey)
	}

	data, err := json.Marshal(actions)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, StorageKey, data)
}
