package service

import (
	"context"
	"strings"

	"github.com/fleveque/stock-agent/internal/model"
)

// DefaultFinanceKeywords gate general finance questions that name no ticker.
// Matching is a case-insensitive substring test, not whole-word.
var DefaultFinanceKeywords = []string{
	"stock", "share", "invest", "dividend", "nasdaq", "nyse", "p/e",
	"market", "price", "portfolio", "etf", "bond", "earnings", "finance",
	"trading", "crypto", "ipo", "index", "equity", "valuation", "revenue",
	"interest rate", "inflation",
}

// QueryClassifier decides how a query is answered. Rules, in order:
// confirmed tickers win, then finance keywords, otherwise the query is rejected.
type QueryClassifier struct {
	extractor *TickerExtractor
	keywords  []string
}

// NewQueryClassifier creates a classifier using DefaultFinanceKeywords plus extra.
func NewQueryClassifier(extractor *TickerExtractor, extra []string) *QueryClassifier {
	keywords := make([]string, 0, len(DefaultFinanceKeywords)+len(extra))
	keywords = append(keywords, DefaultFinanceKeywords...)
	for _, kw := range extra {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return &QueryClassifier{extractor: extractor, keywords: keywords}
}

// Classify runs ticker extraction and, failing that, the keyword gate.
func (c *QueryClassifier) Classify(ctx context.Context, query string) model.Classification {
	if tickers := c.extractor.Extract(ctx, query); len(tickers) > 0 {
		return model.Classification{Mode: model.ModeTicker, Tickers: tickers}
	}
	if c.IsFinance(query) {
		return model.Classification{Mode: model.ModeFinance}
	}
	return model.Classification{Mode: model.ModeReject}
}

// IsFinance reports whether query mentions any finance keyword.
func (c *QueryClassifier) IsFinance(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
