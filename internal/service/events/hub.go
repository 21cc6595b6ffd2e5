package events

import (
	"context"
	"log/slog"
	"sync"
)

const defaultBuffer = 16

// Hub is an in-process broadcaster for the SSE and WebSocket feeds. Publish
// never blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	next   uint64
	buffer int
}

// NewHub returns a hub giving each subscriber a buffer of the given size.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[uint64]chan Event),
		buffer: buffer,
	}
}

// Subscribe registers a new listener. The returned cancel func unregisters it
// and closes the channel; calling it more than once is safe.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of live listeners.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish implements Publisher.
func (h *Hub) Publish(_ context.Context, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- event:
		default:
			slog.Debug("dropping event for slow subscriber", "component", "events", "subscriber", id, "event", event.ID)
		}
	}
	return nil
}
