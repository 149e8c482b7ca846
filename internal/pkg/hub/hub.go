package hub

import (
	"encoding/json"
	"sync"
)

// Hub fans attendance event frames out to every connected admin
// socket. Frames are marshaled once and delivered non-blocking: a
// subscriber that cannot keep up misses frames instead of stalling the
// broadcast.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan []byte]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan []byte]struct{}),
	}
}

// Subscribe registers a new subscriber and returns the frame channel
// and a cleanup function
func (h *Hub) Subscribe() (chan []byte, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan []byte, 16)
	h.subscribers[ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}

	return ch, cleanup
}

// Broadcast sends one payload to all subscribers
func (h *Hub) Broadcast(payload interface{}) error {
	frame, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- frame:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
	return nil
}

// SubscriberCount returns the number of active subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
