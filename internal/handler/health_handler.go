// Package handler contains HTTP request handlers.
// In Gin, a handler is any function with signature func(*gin.Context).
// No need for controller classes, just functions grouped by file.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	llmProvider   string
	llmConfigured bool
}

// NewHealthHandler creates a new HealthHandler. llmConfigured reports
// whether the selected provider has an API key; without one the service
// still runs and every model answer is an error string.
func NewHealthHandler(llmProvider string, llmConfigured bool) *HealthHandler {
	return &HealthHandler{llmProvider: llmProvider, llmConfigured: llmConfigured}
}

// Healthz responds with service status.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"service":        "stock-agent",
		"llm_provider":   h.llmProvider,
		"llm_configured": h.llmConfigured,
	})
}
