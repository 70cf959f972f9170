package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"MarketLab/internal/domain/models"
	domainrepo "MarketLab/internal/domain/repository"
	"MarketLab/pkg/logger"
)

const (
	writeWait    = 5 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// same-origin is not enforced; the sim serves a local frontend
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub broadcasts every news record to connected websocket clients. It is a
// NewsSink: the simulation pushes, the hub fans out. Slow clients get
// dropped frames, never a stalled simulation.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *logger.Logger
}

type client struct {
	conn *websocket.Conn
	send chan models.NewsView
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{clients: make(map[*client]struct{}), log: log}
}

var _ domainrepo.NewsSink = (*Hub)(nil)

// Push broadcasts the record to every client. Non-blocking per client.
func (h *Hub) Push(rec models.NewsRecord) {
	view := rec.View()
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- view:
		default:
			// client too slow, skip this frame
		}
	}
}

// Clients reports the current connection count.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handler upgrades the request and serves the news stream until the client
// disconnects.
func (h *Hub) Handler(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	cl := &client{conn: conn, send: make(chan models.NewsView, sendBuffer)}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("websocket client connected", logger.String("remote", conn.RemoteAddr().String()))

	go h.writeLoop(cl)
	h.readLoop(cl)
	return nil
}

func (h *Hub) writeLoop(cl *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case view, ok := <-cl.send:
			if !ok {
				return
			}
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteJSON(view); err != nil {
				h.drop(cl)
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(cl)
				return
			}
		}
	}
}

// readLoop exists only to detect disconnects; clients send nothing.
func (h *Hub) readLoop(cl *client) {
	defer h.drop(cl)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()
	_ = cl.conn.Close()
}

// Shutdown closes every connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		close(cl.send)
		_ = cl.conn.Close()
		delete(h.clients, cl)
	}
}
