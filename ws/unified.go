package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"coinTossServer/config"
	"coinTossServer/game"
	"coinTossServer/match"
	"coinTossServer/state"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// ChannelMatches is the feed of matches played by anyone on this server
const ChannelMatches = "matches"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  config.WSReadBufferSize,
	WriteBufferSize: config.WSWriteBufferSize,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ClientConnection represents a connected dashboard with its subscriptions
type ClientConnection struct {
	ID            string
	Conn          *websocket.Conn
	Subscriptions map[string]bool
	mu            sync.RWMutex
	Send          chan []byte
	hub           *Hub
}

// ClientMessage is a message from the dashboard
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type subscriptionData struct {
	Channel string `json:"channel"`
}

type channelMessage struct {
	channel string
	payload interface{}
}

// Hub is the central message dispatcher for dashboard connections
type Hub struct {
	matches *match.Service

	clients      map[*ClientConnection]bool
	clientsMutex sync.RWMutex

	register   chan *ClientConnection
	unregister chan *ClientConnection
	broadcast  chan channelMessage
	done       chan struct{}

	clientIDCounter int64
}

func NewHub(svc *match.Service) *Hub {
	return &Hub{
		matches:    svc,
		clients:    make(map[*ClientConnection]bool),
		register:   make(chan *ClientConnection),
		unregister: make(chan *ClientConnection),
		broadcast:  make(chan channelMessage, 100),
		done:       make(chan struct{}),
	}
}

// Run dispatches registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	log.Info("🚀 Dashboard event hub started")

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.clientsMutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.Conn.Close()
			}
			h.clientsMutex.Unlock()
			log.Info("🛑 Dashboard event hub stopped")
			return

		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.clientsMutex.Unlock()
			log.Infof("✅ Client registered: %s (Total: %d)", client.ID, total)

		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.clientsMutex.Unlock()
			log.Infof("👋 Client unregistered: %s (Total: %d)", client.ID, total)

		case message := <-h.broadcast:
			h.broadcastToSubscribers(message.channel, message.payload)
		}
	}
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

// PublishMatch announces a played match on the matches feed.
// The server seed stays out of the feed; it is revealed via /api/verify.
func (h *Hub) PublishMatch(m state.MatchCommitment) {
	message := channelMessage{
		channel: ChannelMatches,
		payload: map[string]interface{}{
			"type":           "match_played",
			"matchId":        m.MatchID,
			"serverSeedHash": m.ServerSeedHash,
			"config":         m.Config,
			"createdAt":      m.CreatedAt.Format(time.RFC3339),
		},
	}

	select {
	case h.broadcast <- message:
	default:
		log.Warn("⚠️  Broadcast channel full, dropping match_played")
	}
}

// broadcastToSubscribers sends message to all clients subscribed to a channel
func (h *Hub) broadcastToSubscribers(channel string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Errorf("❌ Failed to marshal message for %s: %v", channel, err)
		return
	}

	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	for client := range h.clients {
		client.mu.RLock()
		subscribed := client.Subscriptions[channel]
		client.mu.RUnlock()

		if subscribed {
			select {
			case client.Send <- data:
			default:
				// Client's send channel is full, skip
				log.Warnf("⚠️  Client %s send buffer full, skipping message", client.ID)
			}
		}
	}
}

// HandleWS is the dashboard WebSocket endpoint
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	log.Debug("📥 WebSocket connection from: ", r.RemoteAddr)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("❌ WebSocket upgrade failed: ", err)
		return
	}

	client := &ClientConnection{
		ID:            h.generateClientID(),
		Conn:          conn,
		Subscriptions: make(map[string]bool),
		Send:          make(chan []byte, config.WSSendQueueSize),
		hub:           h,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// generateClientID creates a unique client ID
func (h *Hub) generateClientID() string {
	id := atomic.AddInt64(&h.clientIDCounter, 1)
	return fmt.Sprintf("%d-%d", time.Now().Unix(), id)
}

// writePump sends messages from the Send channel to the WebSocket
func (c *ClientConnection) writePump() {
	ticker := time.NewTicker(config.WSPingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warnf("❌ Write error for client %s: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.hub.done:
			return
		}
	}
}

// readPump reads messages from the WebSocket and handles requests
func (c *ClientConnection) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
		return nil
	})

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warnf("❌ Read error for client %s: %v", c.ID, err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage processes incoming client messages
func (c *ClientConnection) handleMessage(msg ClientMessage) {
	switch msg.Type {
	case "start":
		c.handleStart(msg.Data)

	case "verify":
		c.handleVerify(msg.Data)

	case "subscribe":
		var data subscriptionData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.Channel == "" {
			c.sendError("subscribe requires a channel")
			return
		}
		c.mu.Lock()
		c.Subscriptions[data.Channel] = true
		c.mu.Unlock()
		log.Debugf("📡 Client %s subscribed to: %s", c.ID, data.Channel)

		c.sendInitialData(data.Channel)

	case "unsubscribe":
		var data subscriptionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("unsubscribe requires a channel")
			return
		}
		c.mu.Lock()
		delete(c.Subscriptions, data.Channel)
		c.mu.Unlock()
		log.Debugf("📴 Client %s unsubscribed from: %s", c.ID, data.Channel)

	default:
		log.Warnf("⚠️  Unknown message type from client %s: %s", c.ID, msg.Type)
		c.sendError("unknown message type: " + msg.Type)
	}
}

// handleStart plays a match for this client only. The run blocks this
// client's reader until the result is queued.
func (c *ClientConnection) handleStart(raw json.RawMessage) {
	var req match.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		c.sendError("invalid start request")
		return
	}

	result, err := c.hub.matches.Play(context.Background(), req)
	if errors.Is(err, game.ErrConfiguration) {
		c.sendError(err.Error())
		return
	}
	if err != nil {
		log.Errorf("❌ Failed to play match for client %s: %v", c.ID, err)
		c.sendError("failed to play match")
		return
	}

	c.send(map[string]interface{}{
		"type":  "match_result",
		"match": result,
	})
}

// sendInitialData backfills a new subscriber
func (c *ClientConnection) sendInitialData(channel string) {
	switch channel {
	case ChannelMatches:
		recent := c.hub.matches.History().Recent()
		history := make([]map[string]interface{}, 0, len(recent))
		for _, m := range recent {
			history = append(history, map[string]interface{}{
				"matchId":        m.MatchID,
				"serverSeedHash": m.ServerSeedHash,
				"config":         m.Config,
				"createdAt":      m.CreatedAt.Format(time.RFC3339),
			})
		}
		c.send(map[string]interface{}{
			"type":    "match_history",
			"matches": history,
		})
	}
}

func (c *ClientConnection) sendError(message string) {
	c.send(map[string]interface{}{
		"type":  "error",
		"error": message,
	})
}

func (c *ClientConnection) send(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("❌ Failed to marshal message for client %s: %v", c.ID, err)
		return
	}
	select {
	case c.Send <- data:
	default:
		log.Warnf("⚠️  Client %s send buffer full, skipping message", c.ID)
	}
}
