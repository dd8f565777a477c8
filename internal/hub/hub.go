package hub

import (
	"context"
	"sync"

	"socialnet/backend/internal/events"

	"github.com/goccy/go-json"
)

// Client represents a single open profile stream.
// It's essentially a channel that the SSE handler will listen to.
type Client chan []byte

// Hub manages the open streams of every profile.
type Hub struct {
	topics map[uint]map[Client]bool
	closed bool
	mu     sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		topics: make(map[uint]map[Client]bool),
	}
}

// Subscribe adds a client to the stream of userID.
func (h *Hub) Subscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(client)
		return
	}
	if _, ok := h.topics[userID]; !ok {
		h.topics[userID] = make(map[Client]bool)
	}
	h.topics[userID][client] = true
}

// Unsubscribe removes a client from the stream of userID and closes it.
func (h *Hub) Unsubscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.topics[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.topics, userID)
			}
		}
	}
}

// Close ends every open stream. Clients subscribing afterwards are closed at once.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for userID, clients := range h.topics {
		for client := range clients {
			close(client)
		}
		delete(h.topics, userID)
	}
}

// Subscribers returns how many clients follow the stream of userID.
func (h *Hub) Subscribers(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[userID])
}

// Publish sends the event to every client on the subject's stream.
// A client whose buffer is full misses the event.
func (h *Hub) Publish(_ context.Context, event events.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.topics[event.SubjectID]
	if !ok {
		return nil
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	for client := range clients {
		select {
		case client <- messageBytes:
		default:
		}
	}
	return nil
}
