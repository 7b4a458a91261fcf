package server

import (
	"sync"

	"game-tracker-go/internal/game"
)

const subscriberBuffer = 32

// Hub fans catalog events out to live subscribers. A subscriber that falls
// behind loses events rather than stalling the publisher.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan game.Event]struct{}
	closed      bool
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan game.Event]struct{})}
}

// Subscribe registers a listener. The returned cancel func unregisters it
// and closes the channel.
func (h *Hub) Subscribe() (<-chan game.Event, func()) {
	ch := make(chan game.Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.remove(ch) })
	}
}

func (h *Hub) remove(ch chan game.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// Publish delivers event to every subscriber with room for it and reports
// how many received it
func (h *Hub) Publish(event game.Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for ch := range h.subscribers {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of live subscribers
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber. Later subscriptions get a closed
// channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.subscribers {
		delete(h.subscribers, ch)
		close(ch)
	}
}
