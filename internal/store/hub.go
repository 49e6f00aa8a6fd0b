package store

import (
	"slices"
	"sync"

	"github.com/hammamikhairi/pantrycost/internal/domain"
)

// Compile-time interface check.
var _ domain.EventDispatcher = (*Hub)(nil)

// Hub is the root dispatcher. Listeners subscribe once to the whole tree
// instead of to individual objects.
type Hub struct {
	mu        sync.RWMutex
	next      int
	listeners map[int]func(domain.Event)
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{listeners: make(map[int]func(domain.Event))}
}

// Subscribe registers fn for every future event and returns a function
// that removes it.
func (h *Hub) Subscribe(fn func(domain.Event)) (unsubscribe func()) {
	h.mu.Lock()
	id := h.next
	h.next++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Dispatch delivers the event to every listener in subscription order.
func (h *Hub) Dispatch(ev domain.Event) error {
	h.mu.RLock()
	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	fns := make(map[int]func(domain.Event), len(h.listeners))
	for id, fn := range h.listeners {
		fns[id] = fn
	}
	h.mu.RUnlock()

	slices.Sort(ids)
	for _, id := range ids {
		fns[id](ev)
	}
	return nil
}
