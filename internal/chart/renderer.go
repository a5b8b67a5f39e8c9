// Package chart draws one-month price trend charts and stores them as PNG
// files next to each other in the chart directory.
package chart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/model"
	"github.com/fleveque/stock-agent/internal/storage"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no price data to chart")

// Renderer turns a price history into a stored chart image.
type Renderer struct {
	fs        *storage.FileSystem
	processor *ImageProcessor
	width     int
	height    int
	logger    *zap.Logger
}

// NewRenderer creates a Renderer writing width x height charts to fs.
func NewRenderer(fs *storage.FileSystem, width, height int, logger *zap.Logger) *Renderer {
	return &Renderer{
		fs:        fs,
		processor: NewImageProcessor(width),
		width:     width,
		height:    height,
		logger:    logger,
	}
}

// Render draws the one-month trend line for symbol (Date vs Close Price
// with dot markers and a grid) and writes it to {chart_dir}/{T}_plot.png, returning the path.
// An existing chart for the same symbol is overwritten.
func (r *Renderer) Render(ctx context.Context, symbol string, history model.PriceHistory) (string, error) {
	if history.Empty() {
		return "", ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	symbol = strings.ToUpper(symbol)

	raw, err := r.draw(symbol, history)
	if err != nil {
		return "", fmt.Errorf("drawing chart for %s: %w", symbol, err)
	}

	normalized, err := r.processor.Normalize(raw)
	if err != nil {
		return "", err
	}

	path, err := r.fs.Write(symbol, normalized)
	if err != nil {
		return "", err
	}

	r.logger.Debug("chart rendered",
		zap.String("symbol", symbol),
		zap.Int("points", len(history)),
		zap.String("path", path),
	)
	return path, nil
}

// draw renders the PNG with go-chart. A history whose dates or closes
// span a zero range (a single point, for instance) fails here.
func (r *Renderer) draw(symbol string, history model.PriceHistory) ([]byte, error) {
	xs := make([]time.Time, len(history))
	ys := make([]float64, len(history))
	for i, p := range history {
		xs[i] = p.Date
		ys[i] = p.Close
	}

	grid := gochart.Style{
		StrokeColor: drawing.ColorFromHex("dddddd"),
		StrokeWidth: 1,
	}

	graph := gochart.Chart{
		Title:  symbol + " — 1 Month Trend",
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           "Date",
			ValueFormatter: gochart.TimeDateValueFormatter,
			GridMajorStyle: grid,
		},
		YAxis: gochart.YAxis{
			Name:           "Close Price",
			GridMajorStyle: grid,
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    symbol,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: gochart.ColorBlue,
					StrokeWidth: 2,
					DotColor:    gochart.ColorBlue,
					DotWidth:    3,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
