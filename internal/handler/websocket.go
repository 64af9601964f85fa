package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/CageChen/docforge/internal/config"
	"github.com/CageChen/docforge/internal/watcher"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// FileChange is the payload of a fileChange message
type FileChange struct {
	Event    string `json:"event"`
	Path     string `json:"path"`
	FolderID int    `json:"folderId"`
}

// WSHandler handles WebSocket connections for live reload. A client that
// connects with ?path= only receives changes to that document.
type WSHandler struct {
	cfg     *config.Config
	clients map[*websocket.Conn]string
	mu      sync.RWMutex
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler(cfg *config.Config) *WSHandler {
	return &WSHandler{
		cfg:     cfg,
		clients: make(map[*websocket.Conn]string),
	}
}

// HandleWS handles WebSocket upgrade and connection
func (h *WSHandler) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer func() {
		h.removeClient(conn)
		_ = conn.Close()
	}()

	h.addClient(conn, c.Query("path"))

	// Keep connection alive until the client goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// OnFileChange is called when a document change is detected
func (h *WSHandler) OnFileChange(event watcher.Event) {
	eventType := event.Type.String()
	if event.Type == watcher.EventWrite {
		eventType = "update"
	}

	docPath := event.Rel
	if event.FolderID >= 0 && event.FolderID < len(h.cfg.Folders) {
		docPath = h.cfg.Folders[event.FolderID].Alias + "/" + event.Rel
	}

	h.broadcast(WSMessage{
		Type: "fileChange",
		Payload: FileChange{
			Event:    eventType,
			Path:     docPath,
			FolderID: event.FolderID,
		},
	}, docPath)
}

// Clients returns the number of connected clients.
func (h *WSHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *WSHandler) addClient(conn *websocket.Conn, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = path
}

func (h *WSHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *WSHandler) broadcast(msg WSMessage, docPath string) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client, path := range h.clients {
		if path == "" || path == docPath {
			clients = append(clients, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.removeClient(client)
		}
	}
}
