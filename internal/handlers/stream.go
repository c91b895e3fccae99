package handlers

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/alertdash/alertdash/internal/engine"
)

// StreamHandler pushes ingest results to connected dashboard clients over
// WebSocket. Wire it to the engine via its Broadcast method as the OnIngest
// hook.
type StreamHandler struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewStreamHandler creates a new live stream handler
func NewStreamHandler() *StreamHandler {
	return &StreamHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // same-origin enforcement is left to the proxy
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// SetupRoutes configures WebSocket routes
func (h *StreamHandler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/stream", h.HandleStream)
}

// HandleStream upgrades the connection and keeps it registered until the
// client disconnects
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade stream connection: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("Stream client connected from %s (%d total)", r.RemoteAddr, count)

	// Drain reads so close frames and pings are processed; clients never
	// send application messages.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("Stream read error: %v", err)
				}
				return
			}
		}
	}()
}

// Broadcast sends an ingest result to every connected client. Write failures
// drop the client.
func (h *StreamHandler) Broadcast(res engine.IngestResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(res); err != nil {
			log.Printf("Dropping stream client: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount returns the number of connected stream clients
func (h *StreamHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *StreamHandler) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		log.Printf("Stream client disconnected (%d total)", len(h.clients))
	}
	h.mu.Unlock()
	conn.Close()
}
