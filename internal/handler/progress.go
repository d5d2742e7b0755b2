package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Pradeep2535/Comic-AI-Generator/internal/models"
)

const (
	writeWait      = 10 * time.Second
	clientQueueLen = 16
)

// ProgressHub fans generation progress events out to connected
// websocket clients. At most one generation runs at a time, so every
// client simply sees the full event stream.
type ProgressHub struct {
	mu       sync.RWMutex
	clients  map[*progressClient]struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

type progressClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewProgressHub creates an empty hub.
func NewProgressHub(log *zap.Logger) *ProgressHub {
	return &ProgressHub{
		clients: make(map[*progressClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: log,
	}
}

// Notify implements pipeline.ProgressNotifier. Slow clients get their
// queue dropped rather than blocking the pipeline.
func (h *ProgressHub) Notify(event models.ProgressEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("Failed to marshal progress event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			h.logger.Warn("Progress client queue full, dropping event")
		}
	}
}

// HandleProgress upgrades the connection and streams progress events
// until the client disconnects.
func (h *ProgressHub) HandleProgress(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := &progressClient{conn: conn, send: make(chan []byte, clientQueueLen)}
	h.register(client)
	h.logger.Debug("Progress client connected", zap.String("ip", c.ClientIP()))

	go client.writePump()
	client.readPump(h)
}

func (h *ProgressHub) register(client *progressClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *ProgressHub) unregister(client *progressClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// Close drops every connected client. Called during server shutdown.
func (h *ProgressHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// readPump discards inbound messages; its job is to detect disconnects.
func (c *progressClient) readPump(h *ProgressHub) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *progressClient) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
