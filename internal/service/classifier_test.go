package service

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/model"
)

func newTestClassifier(market *fakeMarket, extra ...string) *QueryClassifier {
	return NewQueryClassifier(NewTickerExtractor(market, true, zap.NewNop()), extra)
}

func TestClassify(t *testing.T) {
	market := newFakeMarket()
	market.addTicker("AAPL", 190)
	market.addTicker("TSLA", 250)

	tests := []struct {
		name        string
		query       string
		wantMode    model.Mode
		wantTickers []string
	}{
		{"lone ticker", "AAPL", model.ModeTicker, []string{"AAPL"}},
		{"ticker beats keywords", "stock price of tsla", model.ModeTicker, []string{"TSLA"}},
		{"dividend keyword", "how do dividends work for retirees", model.ModeFinance, nil},
		{"substring match", "what is a shareholder", model.ModeFinance, nil},
		{"multi-word keyword", "Why does the Interest Rate matter", model.ModeFinance, nil},
		{"p/e keyword", "explain a high p/e", model.ModeFinance, nil},
		{"out of scope", "Explain machine learning", model.ModeReject, nil},
		{"empty", "", model.ModeReject, nil},
	}

	c := newTestClassifier(market)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(context.Background(), tt.query)
			if got.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", got.Mode, tt.wantMode)
			}
			if !reflect.DeepEqual(got.Tickers, tt.wantTickers) {
				t.Errorf("tickers = %v, want %v", got.Tickers, tt.wantTickers)
			}
		})
	}
}

func TestClassify_ExtraKeywords(t *testing.T) {
	market := newFakeMarket()

	if got := newTestClassifier(market).Classify(context.Background(), "what are futures contracts"); got.Mode != model.ModeReject {
		t.Fatalf("expected reject without extra keywords, got %s", got.Mode)
	}

	c := newTestClassifier(market, "  Futures ", "")
	if got := c.Classify(context.Background(), "what are futures contracts"); got.Mode != model.ModeFinance {
		t.Errorf("expected finance with extra keyword, got %s", got.Mode)
	}
}
