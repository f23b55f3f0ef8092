package handlers

import (
	"errors"
	"io"
	"net/http"

	"questionbank/models"
	"questionbank/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuestionHandler struct {
	questionService *services.QuestionService
	log             *zap.Logger
}

func NewQuestionHandler(questionService *services.QuestionService, log *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		log:             log,
	}
}

// CreateQuestions accepts one question object or an array of them.
func (h *QuestionHandler) CreateQuestions(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "message": "Payload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid JSON payload"})
		return
	}

	payload, err := models.DecodePayload(body)
	switch {
	case errors.Is(err, models.ErrEmptyPayload):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No questions provided"})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid JSON payload"})
		return
	}

	inputs, err := payload.Questions()
	if err != nil {
		h.saveFailed(c, &services.Error{Kind: services.ErrValidation, Op: "decode questions", Err: err})
		return
	}

	saved, err := h.questionService.SaveQuestions(c.Request.Context(), inputs)
	if err != nil {
		h.saveFailed(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Questions saved successfully!",
		"count":   len(saved),
		"data":    saved,
	})
}

func (h *QuestionHandler) saveFailed(c *gin.Context, err error) {
	kind := services.KindOf(err)
	if kind == services.ErrClientInput {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No questions provided"})
		return
	}

	h.log.Error("Error saving questions", zap.Stringer("kind", kind), zap.Error(err))
	c.JSON(statusFor(kind), gin.H{
		"success": false,
		"error":   "Failed to save questions",
		"details": err.Error(),
	})
}

// GetQuestions lists the newest questions, optionally filtered by tag.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	filter := services.QuestionFilter{
		Subject:  c.Query("subject"),
		Chapter:  c.Query("chapter"),
		Topic:    c.Query("topic"),
		ExamType: c.Query("examType"),
	}

	questions, err := h.questionService.ListQuestions(c.Request.Context(), filter)
	if err != nil {
		kind := services.KindOf(err)
		h.log.Error("Error listing questions", zap.Stringer("kind", kind), zap.Error(err))
		c.JSON(statusFor(kind), gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(questions),
		"data":    questions,
	})
}

// statusFor maps an error kind to its response status. Validation failures
// share 500 with store failures.
func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.ErrClientInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
