package events

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return NewHub(zerolog.Nop())
}

func TestHubBroadcastReachesAllListeners(t *testing.T) {
	hub := newTestHub()
	first := hub.Subscribe()
	second := hub.Subscribe()

	hub.Broadcast(Event{Type: "student_created", Payload: map[string]int64{"id": 7}})

	for _, l := range []*Listener{first, second} {
		select {
		case frame := <-l.C:
			var event Event
			require.NoError(t, json.Unmarshal(frame, &event))
			assert.Equal(t, "student_created", event.Type)
			assert.False(t, event.Timestamp.IsZero())
		default:
			t.Fatal("expected a buffered event frame")
		}
	}
}

func TestHubUnsubscribedListenerExcluded(t *testing.T) {
	hub := newTestHub()
	gone := hub.Subscribe()
	stays := hub.Subscribe()

	hub.Unsubscribe(gone)
	// A second unsubscribe must not panic on the closed channel.
	hub.Unsubscribe(gone)

	hub.Broadcast(Event{Type: "student_deleted", Payload: map[string]int64{"id": 3}})

	_, open := <-gone.C
	assert.False(t, open, "unsubscribed listener channel should be closed")
	assert.Len(t, stays.C, 1)
	assert.Equal(t, 1, hub.ListenerCount())
}

func TestHubDropsSaturatedListener(t *testing.T) {
	hub := newTestHub()
	stalled := hub.Subscribe()
	healthy := hub.Subscribe()

	// The healthy listener drains after each broadcast, the stalled one never reads.
	drained := 0
	for i := 0; i < listenerBufferSize+1; i++ {
		hub.Broadcast(Event{Type: "student_updated", Payload: map[string]int{"seq": i}})
		select {
		case <-healthy.C:
			drained++
		default:
		}
	}

	assert.Equal(t, 1, hub.ListenerCount(), "stalled listener should be evicted")
	assert.Len(t, stalled.C, listenerBufferSize)
	assert.Equal(t, listenerBufferSize+1, drained)
}

func TestListenerClose(t *testing.T) {
	hub := newTestHub()
	l := hub.Subscribe()
	l.Close()

	assert.Equal(t, 0, hub.ListenerCount())
}
