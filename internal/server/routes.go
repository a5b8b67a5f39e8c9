// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/config"
	"github.com/fleveque/stock-agent/internal/handler"
	"github.com/fleveque/stock-agent/internal/middleware"
	"github.com/fleveque/stock-agent/internal/session"
	"github.com/fleveque/stock-agent/internal/storage"
)

// Deps are the collaborators the handlers need. Dependencies are passed
// explicitly; there is no DI container.
type Deps struct {
	Agent       handler.Responder
	Session     *session.Session
	Charts      *storage.FileSystem
	LLMCallRepo storage.LLMCallRepository
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler(cfg.LLM.Provider, cfg.LLM.Configured())
	queryHandler := handler.NewQueryHandler(deps.Agent, logger)
	chartHandler := handler.NewChartHandler(deps.Charts, logger)
	historyHandler := handler.NewHistoryHandler(deps.Session, logger)
	statsHandler := handler.NewStatsHandler(deps.LLMCallRepo, deps.Session, logger)

	r.GET("/healthz", healthHandler.Healthz)

	// CORS middleware applies to the entire API group. Group middleware only
	// runs for matched routes, so preflight requests need a route of their own.
	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	{
		api.OPTIONS("/*path", func(*gin.Context) {})

		api.POST("/query", queryHandler.Query)
		api.GET("/charts/:file", chartHandler.GetChart)

		api.POST("/history", historyHandler.Save)
		api.GET("/history", historyHandler.List)
		api.DELETE("/history", historyHandler.Clear)

		api.GET("/stats", statsHandler.Stats)
	}
}
