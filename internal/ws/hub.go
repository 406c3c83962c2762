package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"TenantPilot/entity"
)

// Event is a WebSocket event pushed to operator-console clients.
type Event struct {
	Type string      `json:"type"` // "new_message", "typing", "session_opened"
	Data interface{} `json:"data"`
}

// Hub maintains the set of connected operator consoles and fans out
// transcript events to all of them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastMessage pushes a transcript record to all connected consoles.
func (h *Hub) BroadcastMessage(msg entity.ChatMessage) {
	h.broadcast <- &Event{
		Type: "new_message",
		Data: msg,
	}
}

// BroadcastTyping signals that the assistant is composing a reply.
func (h *Hub) BroadcastTyping(platform, sessionID string) {
	h.broadcast <- &Event{
		Type: "typing",
		Data: map[string]string{
			"platform":   platform,
			"session_id": sessionID,
		},
	}
}

// BroadcastSessionOpened announces a freshly opened onboarding session.
func (h *Hub) BroadcastSessionOpened(platform, sessionID, mode string) {
	h.broadcast <- &Event{
		Type: "session_opened",
		Data: map[string]string{
			"platform":   platform,
			"session_id": sessionID,
			"mode":       mode,
		},
	}
}
