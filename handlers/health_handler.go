package handlers

import (
	"context"
	"net/http"
	"time"

	"questionbank/services"

	"github.com/gin-gonic/gin"
)

const RootMessage = "HSC GenAI Backend is Running! 🚀"

type HealthHandler struct {
	questionService *services.QuestionService
}

func NewHealthHandler(questionService *services.QuestionService) *HealthHandler {
	return &HealthHandler{questionService: questionService}
}

// Root is the liveness route. It never touches storage.
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, RootMessage)
}

// Health reports whether the question store answers a ping.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.questionService.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
