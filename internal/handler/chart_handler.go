package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/storage"
)

// ChartHandler serves chart images rendered by earlier queries.
type ChartHandler struct {
	fs     *storage.FileSystem
	logger *zap.Logger
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler(fs *storage.FileSystem, logger *zap.Logger) *ChartHandler {
	return &ChartHandler{fs: fs, logger: logger}
}

// GetChart serves a chart PNG.
// Route: GET /api/v1/charts/:file  (e.g. AAPL_plot.png)
func (h *ChartHandler) GetChart(c *gin.Context) {
	name := c.Param("file")

	data, err := h.fs.ReadFile(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chart not found"})
			return
		}
		h.logger.Warn("chart read failed", zap.String("file", name), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chart name"})
		return
	}

	// A chart is overwritten each time its ticker is queried again.
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/png", data)
}
