package ws

import (
	"accountant-assistant/internal/adapters/handlers/view"
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/port"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer = 32
	writeWait  = 10 * time.Second
)

// MessageType tells clients how to read a Message
type MessageType string

const (
	MessageTypeSnapshot     MessageType = "snapshot"
	MessageTypeNotification MessageType = "notification"
)

// Message is the envelope pushed to websocket clients
type Message struct {
	Type         MessageType          `json:"type"`
	Snapshot     *view.Snapshot       `json:"snapshot,omitempty"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub pushes session snapshots and upload notifications to the websocket clients of each surface
type Hub struct {
	mu          sync.Mutex
	clients     map[domain.Surface]map[*client]struct{}
	lastVersion map[domain.Surface]uint64
	upgrader    websocket.Upgrader
	logger      *slog.Logger
	unsubscribe []func()
}

var _ port.Notifier = (*Hub)(nil)

// NewHub subscribes to every session of the registry
func NewHub(registry port.SessionRegistry, logger *slog.Logger, allowAnyOrigin bool) *Hub {
	h := &Hub{
		clients:     make(map[domain.Surface]map[*client]struct{}),
		lastVersion: make(map[domain.Surface]uint64),
		logger:      logger,
	}
	if allowAnyOrigin {
		h.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}

	for _, info := range registry.Surfaces() {
		session, err := registry.Session(info.Name)
		if err != nil {
			continue
		}
		h.unsubscribe = append(h.unsubscribe, session.Subscribe(h.broadcastSnapshot))
	}
	return h
}

// Serve upgrades the request and streams the session of surface until the client leaves
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, session port.UploadSessionService) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	surface := session.Surface()

	// registering and queueing the first snapshot under one lock keeps the stream ordered
	h.mu.Lock()
	current := session.Snapshot()
	if current.Version > h.lastVersion[surface] {
		h.lastVersion[surface] = current.Version
	}
	if h.clients[surface] == nil {
		h.clients[surface] = make(map[*client]struct{})
	}
	h.clients[surface][c] = struct{}{}
	snapshot := view.NewSnapshot(current)
	if payload, err := json.Marshal(Message{Type: MessageTypeSnapshot, Snapshot: &snapshot}); err == nil {
		c.send <- payload
	}
	h.mu.Unlock()

	defer h.unregister(surface, c)

	go h.writePump(c)

	// Read loop to detect client close and keep connection alive
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Notify implements port.Notifier
func (h *Hub) Notify(_ context.Context, n domain.Notification) error {
	payload, err := json.Marshal(Message{Type: MessageTypeNotification, Notification: &n})
	if err != nil {
		return err
	}
	h.broadcast(n.Surface, payload)
	return nil
}

// Close stops following the sessions and disconnects every client
func (h *Hub) Close() {
	for _, unsubscribe := range h.unsubscribe {
		unsubscribe()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for surface, clients := range h.clients {
		for c := range clients {
			c.close()
		}
		delete(h.clients, surface)
	}
}

// broadcastSnapshot drops snapshots older than one already sent
func (h *Hub) broadcastSnapshot(s domain.Snapshot) {
	snapshot := view.NewSnapshot(s)
	payload, err := json.Marshal(Message{Type: MessageTypeSnapshot, Snapshot: &snapshot})
	if err != nil {
		h.logger.Error("could not marshal snapshot", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if last, ok := h.lastVersion[s.Surface]; ok && s.Version <= last {
		return
	}
	h.lastVersion[s.Surface] = s.Version
	h.broadcastLocked(s.Surface, payload)
}

func (h *Hub) broadcast(surface domain.Surface, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(surface, payload)
}

func (h *Hub) broadcastLocked(surface domain.Surface, payload []byte) {
	for c := range h.clients[surface] {
		select {
		case c.send <- payload:
		default:
			// slow client
			h.logger.Warn("dropping slow websocket client", "surface", surface)
			delete(h.clients[surface], c)
			c.close()
		}
	}
}

func (h *Hub) unregister(surface domain.Surface, c *client) {
	h.mu.Lock()
	if _, ok := h.clients[surface][c]; ok {
		delete(h.clients[surface], c)
		c.close()
	}
	h.mu.Unlock()
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
