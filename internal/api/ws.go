package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/pkg/logger"
)

// Timing and buffer limits for the status feed.
const (
	wsWriteTimeout   = 10 * time.Second
	wsPingInterval   = 30 * time.Second
	wsSendBufferSize = 32
)

// StatusEvent is one insight lifecycle transition pushed to subscribers.
type StatusEvent struct {
	ISOCode  string               `json:"iso_code"`
	Category domain.Category      `json:"category"`
	Status   domain.InsightStatus `json:"status"`
	At       time.Time            `json:"at"`
}

// Hub fans insight lifecycle transitions out to WebSocket subscribers.
// It implements domain.StatusNotifier; NotifyStatus never blocks, so a
// slow subscriber drops events instead of stalling generation.
// ⭐ SSOT: the status feed's client registry lives only here.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	clients map[*wsClient]bool
	mu      sync.RWMutex

	closed bool
}

// wsClient is one connected subscriber with its buffered outbox.
type wsClient struct {
	conn *websocket.Conn
	send chan StatusEvent
}

// NewHub creates the status feed hub. allowedOrigins is matched against
// the Origin header during the upgrade handshake; requests without an
// Origin header (non-browser clients) are always accepted.
func NewHub(allowedOrigins []string, log *logger.Logger) *Hub {
	h := &Hub{
		logger:  log.WithField("module", "status_feed"),
		clients: make(map[*wsClient]bool),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(allowedOrigins),
	}
	return h
}

// checkOrigin builds the handshake origin filter.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// HandleWS upgrades the request and registers the subscriber.
// GET /api/v1/insights/ws
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error response.
		h.logger.WithError(err).Debug("WebSocket upgrade rejected")
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan StatusEvent, wsSendBufferSize),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.WithFields(map[string]interface{}{
		"remote":  conn.RemoteAddr().String(),
		"clients": count,
	}).Debug("Status feed subscriber connected")

	go h.writePump(client)
	go h.readPump(client)
}

// NotifyStatus implements domain.StatusNotifier. Events are dropped for
// subscribers whose outbox is full.
func (h *Hub) NotifyStatus(iso string, category domain.Category, status domain.InsightStatus, at time.Time) {
	event := StatusEvent{
		ISOCode:  iso,
		Category: category,
		Status:   status,
		At:       at,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- event:
		default:
			h.logger.WithFields(map[string]interface{}{
				"iso_code": iso,
				"category": string(category),
			}).Debug("Dropped status event for slow subscriber")
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all subscribers and stops accepting new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// remove drops one subscriber from the registry.
func (h *Hub) remove(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client] {
		delete(h.clients, client)
		close(client.send)
	}
}

// writePump drains the client's outbox onto the connection and keeps
// the connection alive with pings. It exits when the outbox closes or a
// write fails.
func (h *Hub) writePump(client *wsClient) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case event, ok := <-client.send:
			if !ok {
				client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				client.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := client.conn.WriteJSON(event); err != nil {
				h.remove(client)
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(client)
				return
			}
		}
	}
}

// readPump discards inbound frames until the peer disconnects. The feed
// is one-way; reading is only needed to notice the close.
func (h *Hub) readPump(client *wsClient) {
	defer h.remove(client)

	client.conn.SetReadLimit(512)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
