package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/unistroke/internal/app"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventsHub broadcasts recognition results to WebSocket clients.
type EventsHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewEventsHub creates an empty hub.
func NewEventsHub() *EventsHub {
	return &EventsHub{clients: make(map[*websocket.Conn]bool)}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *EventsHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish sends res to every connected client. Clients whose write fails
// are dropped.
func (h *EventsHub) Publish(res app.Result) {
	msg, err := json.Marshal(map[string]any{
		"type":   "result",
		"result": res,
	})
	if err != nil {
		log.Printf("failed to encode result: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
