package handlers

import (
	"context"
	"errors"
	"net/http"

	"exam-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct {
	Service *service.ExamService
}

func NewAnswerHandler(s *service.ExamService) *AnswerHandler {
	return &AnswerHandler{Service: s}
}

// SubmitAnswer serves POST /answers.
func (h *AnswerHandler) SubmitAnswer(c *gin.Context) {
	var req struct {
		QuestionID string   `json:"question_id" binding:"required"`
		Selected   []string `json:"selected" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.Service.SubmitAnswer(context.Background(), scopeFrom(c), req.QuestionID, req.Selected)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, outcome)
}
