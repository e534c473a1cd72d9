package realtime

import (
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"task-tracker-api/internal/manager"
)

// Client is one connected push consumer. The network side lives in the ws handler.
// Send queues a message without blocking and reports false when the client cannot take it.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Message is the JSON pushed to clients for every store change.
type Message struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Kind    string `json:"kind,omitempty"`
	ItemID  int    `json:"itemId,omitempty"`
	Version int    `json:"version"`
}

// Hub maintains active connections and broadcasts events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]struct{}
	newID   func() string
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[Client]struct{}),
		newID:   uuid.NewString,
	}
}

func (h *Hub) Register(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast hands message to every client. Send must not block; a client whose Send fails is
// unregistered and closed.
func (h *Hub) Broadcast(message []byte) {
	var failed []Client
	h.mu.RLock()
	for c := range h.clients {
		if !c.Send(message) {
			failed = append(failed, c)
		}
	}
	h.mu.RUnlock()

	if len(failed) == 0 {
		return
	}
	h.mu.Lock()
	for _, c := range failed {
		delete(h.clients, c)
	}
	h.mu.Unlock()
	for _, c := range failed {
		c.Close()
	}
}

// MessageFor builds the push payload for a store event.
func (h *Hub) MessageFor(ev manager.Event) Message {
	prefix := "store"
	if ev.Kind != "" {
		prefix = strings.ToLower(string(ev.Kind))
	}
	return Message{
		ID:      h.newID(),
		Type:    prefix + "_" + string(ev.Op),
		Kind:    string(ev.Kind),
		ItemID:  ev.ID,
		Version: 1,
	}
}

// OnChange makes the hub a manager.Listener.
func (h *Hub) OnChange(ev manager.Event) {
	payload, err := json.Marshal(h.MessageFor(ev))
	if err != nil {
		log.Println("realtime: encode event:", err)
		return
	}
	h.Broadcast(payload)
}

var _ manager.Listener = (*Hub)(nil)
