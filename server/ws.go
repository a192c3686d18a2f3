package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	errs "github.com/techagentng/chatterbox/errors"
	"github.com/techagentng/chatterbox/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub tracks which connections are joined to which room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

func (h *Hub) join(roomID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
}

func (h *Hub) leave(roomID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.rooms[roomID]; ok && clients[client] {
		delete(clients, client)
		close(client.send)
		if len(clients) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Broadcast fans a projected message out to every connection joined to the
// room. A consumer with a full buffer is skipped rather than allowed to
// stall the room.
func (h *Hub) Broadcast(roomID string, msg models.MessageResponse) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[roomID] {
		select {
		case client.send <- msg:
		default:
		}
	}
}

// Client is one live connection, bound to the sender identity the gate
// resolved for it. The identity lives exactly as long as the connection.
type Client struct {
	conn   *websocket.Conn
	send   chan models.MessageResponse
	sender models.SenderIdentity
	roomID string
}

// handleChatWS is the connection authentication gate. The raw Authorization
// header value is handed to the resolver before the upgrade happens, so a
// connection the resolver rejects never joins the hub and never sees message
// traffic.
func (s *Server) handleChatWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Query("room_id")
		if roomID == "" {
			respondAndAbort(c, "room_id is required", http.StatusBadRequest, nil,
				errs.New("room_id is required", http.StatusBadRequest))
			return
		}

		identity, err := s.AuthService.ResolveToken(c.GetHeader("Authorization"))
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil,
				errs.New("Authentication error", http.StatusUnauthorized))
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			conn:   conn,
			send:   make(chan models.MessageResponse, sendBufferSize),
			sender: *identity,
			roomID: roomID,
		}
		s.Hub.join(roomID, client)

		go client.writePump()
		client.readPump(c.Request.Context(), s)
	}
}

// readPump persists each inbound frame and fans it out. It returns when the
// client disconnects, which also tears down the identity binding.
func (c *Client) readPump(ctx context.Context, s *Server) {
	defer func() {
		s.Hub.leave(c.roomID, c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var req models.SendMessageRequest
		if err := c.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}

		msg, err := s.MessageService.SendMessage(ctx, c.roomID, c.sender.UserID, req.Body)
		if err != nil {
			log.Printf("failed to store message from %s: %v", c.sender.UserID, err)
			continue
		}
		s.Hub.Broadcast(c.roomID, *msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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
