package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/model"
	"github.com/fleveque/stock-agent/internal/provider"
)

// Ticker symbols are 1 to 5 ASCII letters.
const (
	minTickerLen = 1
	maxTickerLen = 5
)

// TickerExtractor finds stock symbols in free text. There is no symbol
// dictionary: every plausible token is checked against the market data
// provider, so a query costs one round trip per short alphabetic word.
type TickerExtractor struct {
	market provider.MarketDataProvider
	dedupe bool
	logger *zap.Logger
}

// NewTickerExtractor creates an extractor. With dedupe set, a token that
// appears more than once is validated and reported once.
func NewTickerExtractor(market provider.MarketDataProvider, dedupe bool, logger *zap.Logger) *TickerExtractor {
	return &TickerExtractor{
		market: market,
		dedupe: dedupe,
		logger: logger,
	}
}

// Extract returns the confirmed tickers in the order they first appear.
// A candidate is confirmed when the provider has one day of history for it.
// Provider errors mean "not a ticker" and are never returned.
func (e *TickerExtractor) Extract(ctx context.Context, query string) []string {
	var tickers []string
	seen := make(map[string]bool)

	for _, candidate := range Candidates(query) {
		if e.dedupe {
			if seen[candidate] {
				continue
			}
			seen[candidate] = true
		}

		history, err := e.market.History(ctx, candidate, model.Window1D)
		if err != nil {
			e.logger.Debug("ticker validation failed",
				zap.String("candidate", candidate),
				zap.Error(err),
			)
			continue
		}
		if history.Empty() {
			continue
		}

		tickers = append(tickers, candidate)
	}

	return tickers
}

// Candidates returns the uppercased whitespace-separated tokens of query
// that could be ticker symbols, in input order, repeats included.
func Candidates(query string) []string {
	var out []string
	for _, token := range strings.Fields(query) {
		token = strings.ToUpper(token)
		if isTickerShaped(token) {
			out = append(out, token)
		}
	}
	return out
}

func isTickerShaped(token string) bool {
	if len(token) < minTickerLen || len(token) > maxTickerLen {
		return false
	}
	for i := 0; i < len(token); i++ {
		if c := token[i]; c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
