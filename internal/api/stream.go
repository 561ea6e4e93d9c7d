// Hub fans out protocol events to connected WebSocket clients, and also
// implements types.EventSink so it can be registered on a Market directly
// via AddSubscriber — the WS layer is just one more ordered subscriber in
// the event bus (§4.7), not a separate broadcast path. The client list is
// kept as an ordered slice rather than the teacher's map[*Client]bool: the
// protocol's subscriber-ordering requirement rules out map iteration.
package api

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// Hub manages WebSocket clients and broadcasts events to them.
type Hub struct {
	mu      sync.Mutex
	order   []*Client
	index   map[*Client]int

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	logger *slog.Logger
}

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		index:      make(map[*Client]int),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		logger:     logger.With("component", "ws-hub"),
	}
}

// Run starts the hub's main loop; call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.index[client] = len(h.order)
			h.order = append(h.order, client)
			count := len(h.order)
			h.mu.Unlock()
			h.logger.Info("client connected", "count", count)

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			count := len(h.order)
			h.mu.Unlock()
			h.logger.Info("client disconnected", "count", count)

		case message := <-h.broadcast:
			h.mu.Lock()
			clients := append([]*Client(nil), h.order...)
			h.mu.Unlock()
			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					h.mu.Lock()
					h.removeLocked(client)
					h.mu.Unlock()
					close(client.send)
				}
			}
		}
	}
}

// removeLocked deletes client from the ordered list. Callers must hold h.mu.
func (h *Hub) removeLocked(client *Client) {
	i, ok := h.index[client]
	if !ok {
		return
	}
	h.order = append(h.order[:i], h.order[i+1:]...)
	delete(h.index, client)
	for j := i; j < len(h.order); j++ {
		h.index[h.order[j]] = j
	}
}

// BroadcastEvent sends an event to all connected clients.
func (h *Hub) BroadcastEvent(e types.Event) {
	data, err := json.Marshal(wsEnvelope{Type: "event", Event: e})
	if err != nil {
		h.logger.Error("failed to marshal event", "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast channel full, dropping event")
	}
}

// ReceiveEvent implements types.EventSink, letting the Hub sit directly in
// a Market's ordered subscriber list.
func (h *Hub) ReceiveEvent(e types.Event) error {
	h.BroadcastEvent(e)
	return nil
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // 512 KB
)

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("websocket error", "error", err)
			}
			break
		}
		// the event stream is read-only; ignore any client messages
	}
}

// NewClient creates a new WebSocket client and starts its pumps.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	return client
}
