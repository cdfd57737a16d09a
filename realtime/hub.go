// Package realtime pushes notifications to connected websocket clients.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/realestate-app/metrics"
	"github.com/yeremiapane/realestate-app/utils"
)

const (
	EventNotification = "notification"
	// EventShutdown tells clients the server is going away and they should reconnect.
	EventShutdown = "shutdown"

	writeWait = 10 * time.Second
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Hub keeps the open connections of every user.
type Hub struct {
	clients map[Conn]string // conn -> user id
	mutex   sync.Mutex
	metrics *metrics.Metrics
}

func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[Conn]string),
		metrics: m,
	}
}

func (h *Hub) Register(conn Conn, userID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; !ok {
		h.metrics.WebsocketConnected(1)
	}
	h.clients[conn] = userID
}

func (h *Hub) Unregister(conn Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.drop(conn)
}

// drop must be called with the mutex held.
func (h *Hub) drop(conn Conn) {
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	h.metrics.WebsocketConnected(-1)
	conn.Close()
}

// Connections reports how many sockets userID has open.
func (h *Hub) Connections(userID string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for _, id := range h.clients {
		if id == userID {
			n++
		}
	}
	return n
}

// Push sends an event to every connection of userID and returns how many
// writes succeeded. Connections that fail are dropped.
func (h *Hub) Push(userID, event string, payload interface{}) int {
	return h.send(Message{Event: event, Data: payload}, func(id string) bool { return id == userID })
}

func (h *Hub) send(msg Message, match func(userID string) bool) int {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("realtime: marshal %s: %v", msg.Event, err)
		return 0
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	delivered := 0
	for conn, userID := range h.clients {
		if !match(userID) {
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.InfoLogger.Printf("realtime: dropping connection of user %s: %v", userID, err)
			h.drop(conn)
			continue
		}
		delivered++
	}
	return delivered
}

// Close sends EventShutdown to every client and disconnects them.
func (h *Hub) Close() {
	h.send(Message{Event: EventShutdown}, func(string) bool { return true })

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.clients {
		h.drop(conn)
	}
}
