// Package service contains the agent pipeline: ticker extraction, query
// classification and response assembly.
//
// A query flows through it like this:
//
//	Classify: tickers confirmed by the market data provider -> ticker mode
//	          else a finance keyword                         -> finance mode
//	          else                                           -> reject mode
//	Assemble: ticker mode  -> header, then price, profile, chart, insight per ticker
//	          finance mode -> the language model's answer to the raw query
//	          reject mode  -> RejectMessage
//
// Nothing here returns an error. Failures become text items so that one
// ticker's problem never hides the rest of the answer.
package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/model"
	"github.com/fleveque/stock-agent/internal/provider"
)

// RejectMessage is the single item returned for out-of-scope queries.
const RejectMessage = "I can only help with stock market and finance questions. " +
	"Try a ticker like AAPL or a topic like dividends or ETFs."

// NoTrendData replaces the AI insight when there is no one-month history.
const NoTrendData = "No trend data available."

// Completer answers a prompt with text. Failures come back as text too.
type Completer interface {
	Complete(ctx context.Context, prompt string) string
}

// ChartRenderer stores a chart for a price history and returns its path.
type ChartRenderer interface {
	Render(ctx context.Context, symbol string, history model.PriceHistory) (string, error)
}

// ResponseAssembler builds the ordered answer for a classified query.
type ResponseAssembler struct {
	classifier *QueryClassifier
	market     provider.MarketDataProvider
	charts     ChartRenderer
	llm        Completer
	logger     *zap.Logger
}

// NewResponseAssembler wires the assembler to its collaborators.
func NewResponseAssembler(
	classifier *QueryClassifier,
	market provider.MarketDataProvider,
	charts ChartRenderer,
	llm Completer,
	logger *zap.Logger,
) *ResponseAssembler {
	return &ResponseAssembler{
		classifier: classifier,
		market:     market,
		charts:     charts,
		llm:        llm,
		logger:     logger,
	}
}

// Respond classifies query and assembles the answer.
func (a *ResponseAssembler) Respond(ctx context.Context, query string) (model.Classification, []model.ResponseItem) {
	c := a.classifier.Classify(ctx, query)
	a.logger.Info("query classified",
		zap.String("mode", string(c.Mode)),
		zap.Strings("tickers", c.Tickers),
	)
	return c, a.Assemble(ctx, c, query)
}

// Assemble returns the answer items for c. The result is never empty.
func (a *ResponseAssembler) Assemble(ctx context.Context, c model.Classification, query string) []model.ResponseItem {
	switch {
	case c.Mode == model.ModeTicker && len(c.Tickers) > 0:
		return a.tickerReport(ctx, c.Tickers)
	case c.Mode == model.ModeFinance:
		return []model.ResponseItem{model.TextItem(a.llm.Complete(ctx, query))}
	default:
		return []model.ResponseItem{model.TextItem(RejectMessage)}
	}
}

func (a *ResponseAssembler) tickerReport(ctx context.Context, tickers []string) []model.ResponseItem {
	items := []model.ResponseItem{
		model.TextItem("🔍 Detected tickers: " + strings.Join(tickers, ", ")),
	}

	// Sequential on purpose: items must come out in ticker order.
	for _, t := range tickers {
		items = append(items, model.TextItem(a.spotPrice(ctx, t)))
		items = append(items, model.TextItem(a.profile(ctx, t)))

		history := a.monthHistory(ctx, t)
		if path, ok := a.chart(ctx, t, history); ok {
			items = append(items, model.ImageItem(path))
		}
		items = append(items, model.TextItem(fmt.Sprintf(" **AI Insight for %s:**\n%s", t, a.insight(ctx, t, history))))
	}

	return items
}

func (a *ResponseAssembler) spotPrice(ctx context.Context, symbol string) string {
	price, ok, err := a.market.DailyClose(ctx, symbol)
	switch {
	case err != nil:
		return fmt.Sprintf(" Error fetching stock data for %s: %v", symbol, err)
	case !ok:
		return fmt.Sprintf(" No data found for %s (may be delisted or invalid).", symbol)
	default:
		return fmt.Sprintf(" **Current price of %s:** $%.2f", symbol, price)
	}
}

func (a *ResponseAssembler) profile(ctx context.Context, symbol string) string {
	p, err := a.market.Profile(ctx, symbol)
	if err != nil {
		a.logger.Debug("profile lookup failed", zap.String("symbol", symbol), zap.Error(err))
		return " No company info available."
	}
	if p == nil {
		p = &model.CompanyProfile{}
	}
	return FormatProfile(p)
}

// FormatProfile renders the five profile lines, "N/A" for missing fields.
func FormatProfile(p *model.CompanyProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, " **Company:** %s\n", model.OrNA(p.Name))
	fmt.Fprintf(&b, " **Sector:** %s\n", model.OrNA(p.Sector))
	fmt.Fprintf(&b, " **Industry:** %s\n", model.OrNA(p.Industry))
	fmt.Fprintf(&b, " **Market Cap:** %s\n", p.MarketCapDisplay())
	fmt.Fprintf(&b, " **Website:** %s\n", model.OrNA(p.Website))
	return b.String()
}

// monthHistory fetches the window shared by the chart and the insight.
// A fetch error counts as no data.
func (a *ResponseAssembler) monthHistory(ctx context.Context, symbol string) model.PriceHistory {
	history, err := a.market.History(ctx, symbol, model.Window1M)
	if err != nil {
		a.logger.Warn("one-month history fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}
	return history
}

// chart renders the history. Any failure means no chart item, not an error item.
func (a *ResponseAssembler) chart(ctx context.Context, symbol string, history model.PriceHistory) (string, bool) {
	if history.Empty() {
		return "", false
	}
	path, err := a.charts.Render(ctx, symbol, history)
	if err != nil {
		a.logger.Warn("chart rendering skipped", zap.String("symbol", symbol), zap.Error(err))
		return "", false
	}
	return path, true
}

func (a *ResponseAssembler) insight(ctx context.Context, symbol string, history model.PriceHistory) string {
	if history.Empty() {
		return NoTrendData
	}
	return a.llm.Complete(ctx, BuildInsightPrompt(symbol, history))
}

// BuildInsightPrompt embeds the start, end and percent change of a
// non-empty history in the trend explanation prompt.
func BuildInsightPrompt(symbol string, history model.PriceHistory) string {
	return fmt.Sprintf(`Analyze the last 1-month price movement of %s.

Start Price: %.2f
End Price: %.2f
Percentage Change: %.2f%%

Explain the trend in simple words (no financial advice).`,
		symbol, history.First(), history.Last(), history.PercentChange())
}
