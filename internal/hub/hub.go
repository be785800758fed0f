package hub

import (
	"encoding/json"
	"sync"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single client connection (a participant streaming a
// conversation). It's essentially a channel that the SSE handler will
// listen to.
type Client chan []byte

// Hub manages all streamed conversations and their clients.
type Hub struct {
	conversations map[uint]map[Client]bool
	mu            sync.RWMutex
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = NewHub()

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		conversations: make(map[uint]map[Client]bool),
	}
}

// Subscribe adds a new client to a specific conversation.
func (h *Hub) Subscribe(conversationID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conversations[conversationID]; !ok {
		h.conversations[conversationID] = make(map[Client]bool)
	}
	h.conversations[conversationID][client] = true
}

// Unsubscribe removes a client from a conversation.
func (h *Hub) Unsubscribe(conversationID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.conversations[conversationID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // Close the channel to signal the SSE handler to stop.
			if len(clients) == 0 {
				delete(h.conversations, conversationID)
			}
		}
	}
}

// Broadcast sends an event to all clients in a specific conversation.
func (h *Hub) Broadcast(conversationID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.conversations[conversationID]; ok {
		messageBytes, err := json.Marshal(event)
		if err != nil {
			return
		}

		for client := range clients {
			// Use a non-blocking send to prevent a slow client from blocking the hub.
			select {
			case client <- messageBytes:
			default:
				// Client channel is full, maybe they are disconnected or slow.
				// The unsubscribe logic will handle cleaning this up eventually.
			}
		}
	}
}
