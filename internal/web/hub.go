package web

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/user/hsk-life/internal/interfaces"
	"github.com/user/hsk-life/internal/types"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Effects buffered per connection before it is dropped as too slow.
	sendBuffer = 64
)

var _ interfaces.EffectSink = (*Hub)(nil)

// client is one websocket subscribed to a player's effects
type client struct {
	hub      *Hub
	playerID string
	conn     *websocket.Conn
	send     chan []byte
}

// Hub fans effects out to the websockets of the player they belong to
type Hub struct {
	clients map[string]map[*client]struct{}
	mu      sync.Mutex
	Logger  *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		Logger:  logger,
	}
}

// Emit delivers an effect to every connection of its player. It never blocks: a
// connection whose buffer is full is dropped.
func (h *Hub) Emit(effect types.Effect) {
	payload, err := json.Marshal(effect)
	if err != nil {
		h.Logger.Error("Failed to serialize effect", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[effect.PlayerID] {
		select {
		case c.send <- payload:
		default:
			h.Logger.Warn("Dropping slow websocket client", zap.String("player_id", c.playerID))
			h.removeLocked(c)
		}
	}
}

// Subscribers returns the number of open connections of a player
func (h *Hub) Subscribers(playerID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[playerID])
}

// Attach registers a websocket for a player and starts its pumps
func (h *Hub) Attach(playerID string, conn *websocket.Conn) {
	c := &client{
		hub:      h,
		playerID: playerID,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.clients[playerID] == nil {
		h.clients[playerID] = make(map[*client]struct{})
	}
	h.clients[playerID][c] = struct{}{}
	h.mu.Unlock()
	h.Logger.Info("Websocket client connected", zap.String("player_id", playerID))

	go c.writePump()
	go c.readPump()
}

// CloseAll disconnects every client
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for c := range set {
			h.removeLocked(c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	set, ok := h.clients[c.playerID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.playerID)
	}
	close(c.send)
	h.Logger.Info("Websocket client disconnected", zap.String("player_id", c.playerID))
}

// readPump only drains control frames; the effect stream is one-way
func (c *client) readPump() {
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.Logger.Warn("Websocket read failed",
					zap.String("player_id", c.playerID),
					zap.Error(err))
			}
			return
		}
	}
}

func (c *client) writePump() {
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
