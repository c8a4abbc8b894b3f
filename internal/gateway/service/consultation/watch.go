package consultation

import (
	"sync"

	"miosa/internal/runner"
)

// Hub fans background task events out to per-session watchers.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan runner.RunEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan runner.RunEvent]struct{})}
}

// Subscribe registers a watcher for one session. The returned cancel func
// must be called to release the channel.
func (h *Hub) Subscribe(sessionID string) (<-chan runner.RunEvent, func()) {
	ch := make(chan runner.RunEvent, 16)
	h.mu.Lock()
	set, ok := h.subs[sessionID]
	if !ok {
		set = make(map[chan runner.RunEvent]struct{})
		h.subs[sessionID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[sessionID]; ok {
			if _, present := set[ch]; present {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, sessionID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every watcher of the session. Slow watchers
// drop events rather than block the publisher.
func (h *Hub) Publish(sessionID string, event runner.RunEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[sessionID] {
		select {
		case ch <- event:
		default:
		}
	}
}
