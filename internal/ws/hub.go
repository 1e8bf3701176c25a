package ws

import (
	"log"
	"sync"

	"nutrifit/backend/internal/domain"
)

// Conn is the subset of a websocket connection the hub needs. Satisfied by
// *websocket.Conn.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// event is one queued push for a single user.
type event struct {
	userID  uint
	payload *Message
}

// Message is the wire envelope sent to connected clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub tracks the live websocket connections per user and fans
// notifications out to them. A user may hold several connections at once,
// each receives every message addressed to that user.
type Hub struct {
	mu    sync.Mutex
	conns map[uint]map[Conn]struct{}

	events chan event
}

// NewHub creates an empty hub. Call Run in a goroutine to start delivery.
func NewHub() *Hub {
	return &Hub{
		conns:  make(map[uint]map[Conn]struct{}),
		events: make(chan event, 256),
	}
}

// Run drains the event queue until the channel is closed.
func (h *Hub) Run() {
	for ev := range h.events {
		h.SendPersonal(ev.userID, ev.payload)
	}
}

// Connect registers a connection for a user.
func (h *Hub) Connect(userID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[userID]
	if !ok {
		set = make(map[Conn]struct{})
		h.conns[userID] = set
	}
	set[conn] = struct{}{}
}

// Disconnect removes a connection. Safe to call twice for the same
// connection, and for connections that were never registered.
func (h *Hub) Disconnect(userID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[userID]
	if !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(h.conns, userID)
	}
}

// ConnectionCount reports how many live connections a user holds.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[userID])
}

// SendPersonal writes the message to every connection of the user,
// synchronously. Connections that fail to take the write are closed and
// dropped.
func (h *Hub) SendPersonal(userID uint, msg *Message) {
	h.mu.Lock()
	conns := make([]Conn, 0, len(h.conns[userID]))
	for conn := range h.conns[userID] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("WARN: websocket write to user %d failed: %v", userID, err)
			conn.Close()
			h.Disconnect(userID, conn)
		}
	}
}

// Broadcast writes the message to every connected user.
func (h *Hub) Broadcast(msg *Message) {
	h.mu.Lock()
	userIDs := make([]uint, 0, len(h.conns))
	for userID := range h.conns {
		userIDs = append(userIDs, userID)
	}
	h.mu.Unlock()

	for _, userID := range userIDs {
		h.SendPersonal(userID, msg)
	}
}

// Push queues a notification for async delivery by Run. Never blocks: when
// the queue is full the event is dropped, stored notifications remain the
// source of truth.
func (h *Hub) Push(userID uint, notification *domain.Notification) {
	select {
	case h.events <- event{userID: userID, payload: &Message{Type: "notification", Data: notification}}:
	default:
		log.Printf("WARN: websocket event queue full, dropping push for user %d", userID)
	}
}

// Close stops the Run loop. Pending events are still delivered.
func (h *Hub) Close() {
	close(h.events)
}
