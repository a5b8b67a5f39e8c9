// Package provider defines the interface for market data sources.
// Absence of data (unknown or delisted symbol) is an empty result,
// not an error, at this boundary.
package provider

import (
	"context"

	"github.com/fleveque/stock-agent/internal/model"
)

// MarketDataProvider supplies price history and company metadata for a symbol.
type MarketDataProvider interface {
	// History returns daily closes over the window, oldest first.
	// An unknown symbol yields an empty history and a nil error.
	History(ctx context.Context, symbol string, window model.Window) (model.PriceHistory, error)

	// DailyClose returns the most recent close; ok is false when there is no data.
	DailyClose(ctx context.Context, symbol string) (price float64, ok bool, err error)

	// Profile returns descriptive metadata. Missing fields are left empty.
	Profile(ctx context.Context, symbol string) (*model.CompanyProfile, error)

	// Name returns a human-readable name for the provider.
	Name() string
}

// dailyCloseFromHistory is the DailyClose implementation shared by providers
// that only expose History.
func dailyCloseFromHistory(ctx context.Context, p MarketDataProvider, symbol string) (float64, bool, error) {
	history, err := p.History(ctx, symbol, model.Window1D)
	if err != nil {
		return 0, false, err
	}
	if history.Empty() {
		return 0, false, nil
	}
	return history.Last(), true, nil
}
