package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-projections/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, check against allowed origins
		return true
	},
}

type WebSocketHandler struct {
	hub    *services.WebSocketHub
	logger *logrus.Logger
}

func NewWebSocketHandler(hub *services.WebSocketHub, logger *logrus.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// HandleWebSocket upgrades the HTTP connection and registers the client
// with the run-event hub
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("Failed to upgrade connection: %v", err)
		return
	}

	client := services.NewClient(h.hub, conn, c.ClientIP())
	h.hub.Register(client)

	welcomeMsg := map[string]interface{}{
		"type": "welcome",
		"data": map[string]interface{}{
			"message":   "Connected to the projections feed",
			"topics":    []string{services.TopicRuns, services.TopicProjections},
			"timestamp": time.Now().UTC(),
		},
	}

	if err := conn.WriteJSON(welcomeMsg); err != nil {
		h.logger.Errorf("Failed to send welcome message: %v", err)
		conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all
	// work in new goroutines
	go client.WritePump()
	go client.ReadPump()
}
