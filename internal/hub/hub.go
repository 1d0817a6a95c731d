package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client is one WebSocket connection of a participant. A user may hold
// several connections (phone and browser) at once.
type Client struct {
	ID     uuid.UUID
	UserID uint

	conn    *websocket.Conn
	writeMu sync.Mutex // gorilla/websocket requires serialized writes
}

// NewClient wraps an upgraded connection for a known user.
func NewClient(userID uint, conn *websocket.Conn) *Client {
	return &Client{ID: uuid.New(), UserID: userID, conn: conn}
}

func (c *Client) send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub is the notification dispatcher and the per-process session registry:
// connections are registered on connect and removed on disconnect, keyed by
// connection id with a user index and a room subscription index on top.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
	byUser  map[uint]map[uuid.UUID]*Client
	byRoom  map[string]map[uuid.UUID]*Client
}

// NewHub creates an empty hub. It is passed to its consumers explicitly;
// there is no package-level instance.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
		byUser:  make(map[uint]map[uuid.UUID]*Client),
		byRoom:  make(map[string]map[uuid.UUID]*Client),
	}
}

// Register adds a connected client to the registry.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.ID] = c
	if _, ok := h.byUser[c.UserID]; !ok {
		h.byUser[c.UserID] = make(map[uuid.UUID]*Client)
	}
	h.byUser[c.UserID][c.ID] = c
}

// Unregister drops a client from the registry and all room subscriptions.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, c.ID)
	if clients, ok := h.byUser[c.UserID]; ok {
		delete(clients, c.ID)
		if len(clients) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
	for code, clients := range h.byRoom {
		delete(clients, c.ID)
		if len(clients) == 0 {
			delete(h.byRoom, code)
		}
	}
	c.conn.Close()
}

// Subscribe adds the client to a room's broadcast group.
func (h *Hub) Subscribe(roomCode string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.byRoom[roomCode]; !ok {
		h.byRoom[roomCode] = make(map[uuid.UUID]*Client)
	}
	h.byRoom[roomCode][c.ID] = c
}

// ConnectionCount reports how many live connections a user holds.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

// NotifyRoom sends an event to every connection subscribed to a room. A room
// with no listeners is not an error; delivery is best-effort.
func (h *Hub) NotifyRoom(roomCode, event string, payload any) error {
	data, err := json.Marshal(Event{Type: event, Payload: payload})
	if err != nil {
		return err
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.byRoom[roomCode]))
	for _, c := range h.byRoom[roomCode] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	var firstErr error
	for _, c := range clients {
		if err := c.send(data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NotifyParticipant sends an event to every connection of a single user.
func (h *Hub) NotifyParticipant(userID uint, event string, payload any) error {
	data, err := json.Marshal(Event{Type: event, Payload: payload})
	if err != nil {
		return err
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.byUser[userID]))
	for _, c := range h.byUser[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	var firstErr error
	for _, c := range clients {
		if err := c.send(data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// inbound is a client-to-server control message; the only action today is
// subscribing to a room's events.
type inbound struct {
	Action   string `json:"action"`
	RoomCode string `json:"room_code,omitempty"`
}

// ReadLoop consumes control messages until the connection drops, then
// unregisters the client. Run it in the connection's handler goroutine.
func (h *Hub) ReadLoop(c *Client) {
	defer h.Unregister(c)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Action == "subscribe" && msg.RoomCode != "" {
			h.Subscribe(msg.RoomCode, c)
		}
	}
}
