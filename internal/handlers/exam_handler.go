package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"exam-service/internal/history"
	"exam-service/internal/models"
	"exam-service/internal/selection"
	"exam-service/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultQuestionCount = 10

type ExamHandler struct {
	Service *service.ExamService
}

func NewExamHandler(s *service.ExamService) *ExamHandler {
	return &ExamHandler{Service: s}
}

// scopeFrom builds the learner scope from the auth middleware header.
func scopeFrom(c *gin.Context) history.Scope {
	if userID := c.GetHeader("X-User-ID"); userID != "" {
		return history.ForLearner(userID)
	}
	return history.Global()
}

// SelectQuestions serves GET /questions?count=&mode=&topic=.
func (h *ExamHandler) SelectQuestions(c *gin.Context) {
	count := defaultQuestionCount
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
			return
		}
		count = parsed
	}

	mode, err := selection.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions, err := h.Service.SelectQuestions(context.Background(), selection.Request{
		Count: count,
		Mode:  mode,
		Topic: c.Query("topic"),
		Scope: scopeFrom(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     len(questions),
		"mode":      mode,
		"questions": questions,
	})
}

// GetQuestion serves GET /questions/:id.
func (h *ExamHandler) GetQuestion(c *gin.Context) {
	q, err := h.Service.GetQuestion(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, q)
}

// ListTopics serves GET /topics.
func (h *ExamHandler) ListTopics(c *gin.Context) {
	type topicInfo struct {
		Topic     string `json:"topic"`
		Questions int    `json:"questions"`
	}
	topics := make([]topicInfo, 0, len(models.Topics))
	for _, t := range models.Topics {
		topics = append(topics, topicInfo{
			Topic:     t,
			Questions: len(h.Service.Catalog.ByTopic(t)),
		})
	}
	c.JSON(http.StatusOK, topics)
}
