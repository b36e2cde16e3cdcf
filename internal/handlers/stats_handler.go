package handlers

import (
	"context"
	"net/http"

	"exam-service/internal/history"
	"exam-service/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	Service *service.ExamService
}

func NewStatsHandler(s *service.ExamService) *StatsHandler {
	return &StatsHandler{Service: s}
}

// GetUserStats serves GET /users/:id/stats.
func (h *StatsHandler) GetUserStats(c *gin.Context) {
	summaries, err := h.Service.TopicSummaries(context.Background(), history.ForLearner(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.Param("id"),
		"topics":  summaries,
	})
}

// GetGlobalStats serves GET /stats.
func (h *StatsHandler) GetGlobalStats(c *gin.Context) {
	summaries, err := h.Service.TopicSummaries(context.Background(), history.Global())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": summaries})
}
