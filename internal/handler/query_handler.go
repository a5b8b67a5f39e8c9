package handler

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/model"
	"github.com/fleveque/stock-agent/internal/session"
)

// ChartRoutePrefix is where rendered charts are served.
const ChartRoutePrefix = "/api/v1/charts/"

// Responder answers a free-text query.
type Responder interface {
	Respond(ctx context.Context, query string) (model.Classification, []model.ResponseItem)
}

// QueryHandler runs queries through the agent pipeline.
type QueryHandler struct {
	agent  Responder
	logger *zap.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(agent Responder, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{agent: agent, logger: logger}
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Mode    model.Mode           `json:"mode"`
	Tickers []string             `json:"tickers"`
	Items   []model.ResponseItem `json:"items"`
}

// Query answers a query.
// Route: POST /api/v1/query  {"query": "stock price of TSLA"}
//
// The call blocks until every market data fetch and model call for the
// query has finished.
func (h *QueryHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if session.IsBlank(req.Query) {
		c.JSON(http.StatusBadRequest, gin.H{"error": session.EmptyQueryMessage})
		return
	}

	classification, items := h.agent.Respond(c.Request.Context(), req.Query)

	for i := range items {
		if items[i].IsImage() {
			items[i].URL = ChartRoutePrefix + filepath.Base(items[i].Path)
		}
	}

	tickers := classification.Tickers
	if tickers == nil {
		tickers = []string{}
	}

	c.JSON(http.StatusOK, queryResponse{
		Mode:    classification.Mode,
		Tickers: tickers,
		Items:   items,
	})
}
