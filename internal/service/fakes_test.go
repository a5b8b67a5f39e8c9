package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fleveque/stock-agent/internal/model"
)

// fakeMarket is an in-memory MarketDataProvider. Symbols not in daily are
// unknown and yield empty histories.
type fakeMarket struct {
	mu       sync.Mutex
	daily    map[string]model.PriceHistory
	monthly  map[string]model.PriceHistory
	profiles map[string]*model.CompanyProfile
	errs     map[string]error // per-symbol error for every call
	calls    map[string]int   // History(…, Window1D) calls per symbol
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		daily:    map[string]model.PriceHistory{},
		monthly:  map[string]model.PriceHistory{},
		profiles: map[string]*model.CompanyProfile{},
		errs:     map[string]error{},
		calls:    map[string]int{},
	}
}

// addTicker registers symbol with a one-day close and the given monthly closes.
func (f *fakeMarket) addTicker(symbol string, spot float64, monthly ...float64) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	f.daily[symbol] = model.PriceHistory{{Date: day, Close: spot}}

	var h model.PriceHistory
	for i, c := range monthly {
		h = append(h, model.PricePoint{Date: day.AddDate(0, 0, i-len(monthly)), Close: c})
	}
	f.monthly[symbol] = h
}

func (f *fakeMarket) History(_ context.Context, symbol string, window model.Window) (model.PriceHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if window == model.Window1D {
		f.calls[symbol]++
	}
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	if window == model.Window1M {
		return f.monthly[symbol], nil
	}
	return f.daily[symbol], nil
}

func (f *fakeMarket) DailyClose(ctx context.Context, symbol string) (float64, bool, error) {
	h, err := f.History(ctx, symbol, model.Window1D)
	if err != nil || h.Empty() {
		return 0, false, err
	}
	return h.Last(), true, nil
}

func (f *fakeMarket) Profile(_ context.Context, symbol string) (*model.CompanyProfile, error) {
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	if p, ok := f.profiles[symbol]; ok {
		return p, nil
	}
	return nil, errors.New("no profile")
}

func (f *fakeMarket) Name() string { return "fake" }

// fakeCompleter returns a fixed answer and records every prompt.
type fakeCompleter struct {
	answer  string
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) string {
	f.prompts = append(f.prompts, prompt)
	return f.answer
}

// fakeRenderer returns a path per symbol, or err for every call.
type fakeRenderer struct {
	err      error
	rendered []string
}

func (f *fakeRenderer) Render(_ context.Context, symbol string, history model.PriceHistory) (string, error) {
	if history.Empty() {
		return "", errors.New("empty history")
	}
	if f.err != nil {
		return "", f.err
	}
	f.rendered = append(f.rendered, symbol)
	return "/charts/" + symbol + "_plot.png", nil
}
