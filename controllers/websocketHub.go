package controllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go-food-ordering/logger"
	"go-food-ordering/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many messages a client may fall behind before it is
	// dropped.
	sendBuffer = 16
)

// Message is the envelope pushed to websocket clients.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type wsClient struct {
	conn     *websocket.Conn
	tenantID primitive.ObjectID
	send     chan []byte
}

// Hub tracks the live websocket connections, keyed by the tenant of the
// session that opened them.
type Hub struct {
	upgrader websocket.Upgrader
	log      logger.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log:     log,
		clients: make(map[*wsClient]struct{}),
	}
}

// HandleWebSocket upgrades an authenticated request. The connection only
// receives messages of the session's tenant; anything the client sends is
// discarded.
func (h *Hub) HandleWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := middleware.TenantID(c)
		if !ok {
			respondMessage(c, http.StatusBadRequest, "Tenant ID is required")
			return
		}

		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.log.Warn("Error during connection upgrade: ", err)
			return
		}

		client := &wsClient{conn: conn, tenantID: tenantID, send: make(chan []byte, sendBuffer)}
		h.mu.Lock()
		h.clients[client] = struct{}{}
		h.mu.Unlock()

		go h.writePump(client)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(client)
				return
			}
		}
	}
}

// writePump is the only writer of client.conn.
func (h *Hub) writePump(client *wsClient) {
	for message := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.Warn("Error writing message: ", err)
			h.remove(client)
			return
		}
	}
}

// Broadcast queues message for every client of tenantID. It never waits on
// the network: a client whose queue is full is dropped.
func (h *Hub) Broadcast(tenantID primitive.ObjectID, message Message) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.log.Error("Error marshaling message: ", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if client.tenantID != tenantID {
			continue
		}
		select {
		case client.send <- messageBytes:
		default:
			h.log.Warn("Dropping slow websocket client")
			h.drop(client)
		}
	}
}

// Clients returns the number of live connections.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.drop(client)
	}
}

func (h *Hub) remove(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		h.drop(client)
	}
}

// drop must be called with h.mu held.
func (h *Hub) drop(client *wsClient) {
	delete(h.clients, client)
	close(client.send)
	client.conn.Close()
}
