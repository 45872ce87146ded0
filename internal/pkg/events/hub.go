package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// listenerBufferSize is how many undelivered events a slow subscriber may
// accumulate before it is dropped from the hub.
const listenerBufferSize = 64

// Event is a broadcast notification about a registration change
type Event struct {
	// Type of event: "student_created", "student_updated", "student_deleted"
	Type string `json:"type"`

	// Payload carries the affected record or its identifier
	Payload interface{} `json:"payload"`

	// Timestamp when the event was published
	Timestamp time.Time `json:"timestamp"`
}

// Listener receives serialized events from the hub
type Listener struct {
	// C delivers events as JSON frames ready for the wire
	C chan []byte

	hub *Hub
}

// Hub fans broadcast events out to all subscribed listeners
type Hub struct {
	mu        sync.RWMutex
	listeners map[*Listener]bool
	logger    zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		listeners: make(map[*Listener]bool),
		logger:    logger,
	}
}

// Subscribe registers a new listener with the hub
func (h *Hub) Subscribe() *Listener {
	l := &Listener{
		C:   make(chan []byte, listenerBufferSize),
		hub: h,
	}

	h.mu.Lock()
	h.listeners[l] = true
	count := len(h.listeners)
	h.mu.Unlock()

	h.logger.Debug().Int("listeners", count).Msg("Listener subscribed")
	return l
}

// Unsubscribe removes a listener from the hub and closes its channel.
// Safe to call more than once.
func (h *Hub) Unsubscribe(l *Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.listeners[l]; !ok {
		return
	}
	delete(h.listeners, l)
	close(l.C)

	h.logger.Debug().Int("listeners", len(h.listeners)).Msg("Listener unsubscribed")
}

// Close unsubscribes the listener from its hub
func (l *Listener) Close() {
	l.hub.Unsubscribe(l)
}

// Broadcast serializes the event once and delivers it to every listener.
// Listeners whose buffer is full are dropped so one stalled consumer
// cannot block the rest.
func (h *Hub) Broadcast(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to serialize event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for l := range h.listeners {
		select {
		case l.C <- data:
		default:
			delete(h.listeners, l)
			close(l.C)
			h.logger.Warn().Str("type", event.Type).Msg("Dropped slow event listener")
		}
	}
}

// ListenerCount returns the number of active subscribers
func (h *Hub) ListenerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
