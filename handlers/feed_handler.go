package handlers

import (
	"net/http"

	"questionbank/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // cross-origin requests are accepted everywhere
	},
}

type FeedHandler struct {
	hub *services.Hub
	log *zap.Logger
}

// NewFeedHandler takes a nil hub when the feed is disabled.
func NewFeedHandler(hub *services.Hub, log *zap.Logger) *FeedHandler {
	return &FeedHandler{
		hub: hub,
		log: log,
	}
}

// Subscribe upgrades to a WebSocket that receives every ingested batch.
func (h *FeedHandler) Subscribe(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Question feed is disabled"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.RegisterClient(conn)
}
