package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/chathub"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The widget is served from the public club site, a different origin
	// than this service.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the connection and hands it to the hub. The
// connection is unregistered (excluded from routing) until its first event
// is a valid register; role binding and admin token checks happen inside
// the hub loop.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	// The server-minted id doubles as the VisitorIdentity if the
	// connection registers as a visitor.
	client := &chathub.WebSocketClient{
		ID:   uuid.New().String(),
		Hub:  h.Hub,
		Conn: conn,
		Send: make(chan models.Envelope, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
