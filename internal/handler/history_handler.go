package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/session"
)

// HistoryHandler exposes the session's saved queries.
type HistoryHandler struct {
	session *session.Session
	logger  *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(s *session.Session, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{session: s, logger: logger}
}

type historyItem struct {
	Number int    `json:"number"`
	Query  string `json:"query"`
}

// Save stores a query in the history.
// Route: POST /api/v1/history  {"query": "..."}
func (h *HistoryHandler) Save(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.session.Save(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, session.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": session.EmptyQueryMessage})
			return
		}
		h.logger.Error("saving history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// List returns the most recent saved queries, newest first, numbered from 1.
// Route: GET /api/v1/history
func (h *HistoryHandler) List(c *gin.Context) {
	entries, err := h.session.Recent(c.Request.Context())
	if err != nil {
		h.logger.Error("listing history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	items := make([]historyItem, len(entries))
	for i, e := range entries {
		items[i] = historyItem{Number: i + 1, Query: e.Query}
	}

	c.JSON(http.StatusOK, gin.H{"history": items})
}

// Clear empties the history.
// Route: DELETE /api/v1/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.session.Close(c.Request.Context()); err != nil {
		h.logger.Error("clearing history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
