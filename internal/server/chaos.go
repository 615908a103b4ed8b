package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// ChaosUpdate is the payload pushed to chaos feed subscribers
type ChaosUpdate struct {
	ChaosLevel int `json:"chaos_level"`
	ChaosTier  int `json:"chaos_tier"`
}

// ChaosHub fans chaos level changes out to websocket subscribers such as the
// audio engine and the visual effects layer.
type ChaosHub struct {
	mu      sync.Mutex
	clients map[*chaosClient]bool
	last    []byte
	logger  *zap.Logger
}

// NewChaosHub creates an empty hub
func NewChaosHub(logger *zap.Logger) *ChaosHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChaosHub{
		clients: make(map[*chaosClient]bool),
		logger:  logger,
	}
}

// OnChaosChange broadcasts the new level to every subscriber. Slow
// subscribers drop updates rather than block the game.
func (h *ChaosHub) OnChaosChange(level, tier int) {
	data, err := json.Marshal(ChaosUpdate{ChaosLevel: level, ChaosTier: tier})
	if err != nil {
		h.logger.Error("Failed to marshal chaos update", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = data
	for c := range h.clients {
		c.enqueue(data)
	}
}

// Subscribers returns the number of connected subscribers
func (h *ChaosHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

func (h *ChaosHub) add(c *chaosClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = true
	if h.last != nil {
		c.enqueue(h.last)
	}
}

func (h *ChaosHub) remove(c *chaosClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Close disconnects every subscriber
func (h *ChaosHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

type chaosClient struct {
	hub  *ChaosHub
	conn *websocket.Conn
	send chan []byte
}

func newChaosClient(hub *ChaosHub, conn *websocket.Conn) *chaosClient {
	return &chaosClient{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 16),
	}
}

// enqueue is called with the hub lock held
func (c *chaosClient) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		c.hub.logger.Debug("Chaos subscriber buffer full, dropping update")
	}
}

// readPump discards inbound messages and detects disconnects
func (c *chaosClient) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("Chaos feed read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump writes queued updates and keeps the connection alive with pings
func (c *chaosClient) writePump() {
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
