package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sportsight/dashboard-core/internal/querycache"
	"github.com/sportsight/dashboard-core/internal/viewmodel"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// QueryUpdate is pushed to connected dashboards whenever a cache entry is
// replaced, so open views can re-read without polling.
type QueryUpdate struct {
	Key       string    `json:"key"`
	Domain    string    `json:"domain"`
	Operation string    `json:"operation"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}

// updateFromEntry shapes a cache entry for the wire. Data stays out of the
// push; clients re-fetch the view endpoint they care about.
func updateFromEntry(e querycache.Entry) QueryUpdate {
	u := QueryUpdate{
		Key:       e.Key.String(),
		Domain:    e.Key.Domain(),
		Operation: e.Key.Operation(),
		Status:    string(e.Status),
		FetchedAt: e.FetchedAt,
	}
	if e.Err != nil {
		u.Error = viewmodel.TerseError(e.Err)
	}
	return u
}

// Hub fans cache updates out to WebSocket subscribers. Slow clients are
// disconnected rather than allowed to back up the broadcast path.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*wsClient]struct{}
	broadcast chan QueryUpdate
}

// NewHub creates an idle hub; call Run to start delivering.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*wsClient]struct{}),
		broadcast: make(chan QueryUpdate, 256),
	}
}

// Run delivers broadcasts until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case update := <-h.broadcast:
			h.deliver(update)
		}
	}
}

// BroadcastEntry queues a cache entry update for delivery. Meant to be
// registered as the cache's update hook; it never blocks.
func (h *Hub) BroadcastEntry(e querycache.Entry) {
	select {
	case h.broadcast <- updateFromEntry(e):
	default:
		// Buffer full; dashboards refetch on their own cadence anyway.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	log.Printf("ws client %s connected (total %d)", c.id, len(h.clients))
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.shutdown()
		log.Printf("ws client %s disconnected (total %d)", c.id, len(h.clients))
	}
}

func (h *Hub) deliver(update QueryUpdate) {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if c.domain != "" && c.domain != update.Domain {
			continue
		}
		select {
		case c.send <- update:
		default:
			h.remove(c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.shutdown()
		delete(h.clients, c)
	}
}

// wsClient is one dashboard connection, optionally filtered to a single
// query domain. send is never closed; shutdown signals writePump through
// done instead, so a broadcast racing a disconnect cannot send on a
// closed channel.
type wsClient struct {
	id       uuid.UUID
	conn     *websocket.Conn
	send     chan QueryUpdate
	done     chan struct{}
	doneOnce sync.Once
	hub      *Hub
	domain   string
}

func newWSClient(conn *websocket.Conn, hub *Hub, domain string) *wsClient {
	return &wsClient{
		id:     uuid.New(),
		conn:   conn,
		send:   make(chan QueryUpdate, sendBufferSize),
		done:   make(chan struct{}),
		hub:    hub,
		domain: domain,
	}
}

func (c *wsClient) shutdown() {
	c.doneOnce.Do(func() { close(c.done) })
}

// readPump drains the connection so pings are answered and closes are
// noticed; dashboard clients send nothing else.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case update := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(update); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
