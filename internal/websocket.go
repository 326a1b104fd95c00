package pomodoro

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// writeWait bounds a single client write.
const writeWait = 10 * time.Second

type client struct {
	id string
	// version of the newest timer snapshot written to this client.
	version uint64
}

// Hub tracks connected browser clients and fans out views to them.
// Writes happen under mu so each connection has a single writer.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Add registers a connection and returns its client id.
func (h *Hub) Add(conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{id: id}
	return id
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func write(conn *websocket.Conn, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Send writes message to a single client.
func (h *Hub) Send(conn *websocket.Conn, message any) error {
	jsonMessage, err := json.Marshal(message)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return write(conn, jsonMessage)
}

// SendView writes view to a single client unless it already has a newer one.
func (h *Hub) SendView(conn *websocket.Conn, view View) error {
	jsonMessage, err := json.Marshal(view)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[conn]
	if ok && view.Timer.Version < c.version {
		return nil
	}
	if err := write(conn, jsonMessage); err != nil {
		return err
	}
	if ok {
		c.version = view.Timer.Version
	}
	return nil
}

// Broadcast writes view to every client that has not seen it yet, dropping
// clients that fail or time out.
func (h *Hub) Broadcast(view View) {
	jsonMessage, err := json.Marshal(view)
	if err != nil {
		log.Error("Error marshaling message", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, c := range h.clients {
		if view.Timer.Version <= c.version {
			continue
		}
		if err := write(conn, jsonMessage); err != nil {
			log.Error("Error sending message to client", "client", c.id, "err", err)
			conn.Close()
			delete(h.clients, conn)
			continue
		}
		c.version = view.Timer.Version
	}
}

// @Summary WebSocket connection endpoint
// @Description Streams the timer view on every change and accepts text commands:
// @Description start, pause, reset, get_state, mode:<focus|break>, focus:<minutes>, break:<minutes>
// @Tags websocket
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {string} string "Bad Request"
// @Router /connect [get]
func (s *Server) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Websocket upgrade failed", "err", err)
		return
	}

	id := s.Hub.Add(conn)
	log.Info("Client connected", "client", id, "addr", conn.RemoteAddr())

	defer func() {
		conn.Close()
		s.Hub.Remove(conn)
		log.Info("Client disconnected", "client", id)
	}()

	if err := s.Hub.SendView(conn, s.View()); err != nil {
		log.Error("Error sending initial state", "client", id, "err", err)
		return
	}

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("Websocket read failed", "client", id, "err", err)
			}
			return
		}

		message := strings.TrimSpace(string(p))
		log.Debug("Client command", "client", id, "command", message)
		if message == "get_state" {
			if err := s.Hub.SendView(conn, s.View()); err != nil {
				log.Error("Error sending state", "client", id, "err", err)
				return
			}
			continue
		}

		if err := s.Execute(message); err != nil {
			reply := ErrorMessage{Event: "error", Error: err.Error()}
			if err := s.Hub.Send(conn, reply); err != nil {
				return
			}
		}
	}
}
