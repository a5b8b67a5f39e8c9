package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/session"
	"github.com/fleveque/stock-agent/internal/storage"
)

// StatsHandler reports language-model usage and history size.
type StatsHandler struct {
	llmCallRepo storage.LLMCallRepository
	session     *session.Session
	logger      *zap.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(llmCallRepo storage.LLMCallRepository, s *session.Session, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{llmCallRepo: llmCallRepo, session: s, logger: logger}
}

// Stats returns counters since process start.
// Route: GET /api/v1/stats
func (h *StatsHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	calls, err := h.llmCallRepo.Count(ctx)
	if err != nil {
		h.logger.Error("counting llm calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	failed, err := h.llmCallRepo.CountFailed(ctx)
	if err != nil {
		h.logger.Error("counting failed llm calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	saved, err := h.session.Count(ctx)
	if err != nil {
		h.logger.Error("counting history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"llm_calls":        calls,
		"llm_calls_failed": failed,
		"history_saved":    saved,
	})
}
