package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/model"
)

// YahooProvider reads prices from the Yahoo Finance v8 chart API and company
// metadata from the quoteSummary API (sector, industry, website) plus the
// finance-go equity quote (name, market cap).
type YahooProvider struct {
	client *resty.Client
	logger *zap.Logger

	// equityLookup is finance-go's equity.Get; swapped out in tests.
	equityLookup func(symbol string) (*finance.Equity, error)
}

// NewYahooProvider creates a provider against baseURL
// (normally https://query1.finance.yahoo.com).
func NewYahooProvider(baseURL, userAgent string, timeout time.Duration, logger *zap.Logger) *YahooProvider {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", "application/json")

	return &YahooProvider{
		client:       client,
		logger:       logger,
		equityLookup: equity.Get,
	}
}

func (y *YahooProvider) Name() string { return "yahoo" }

// yahooChartResponse mirrors the parts of the v8 chart payload we read.
// Closes are pointers because Yahoo emits null for missing bars.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// History fetches daily closes for the window.
func (y *YahooProvider) History(ctx context.Context, symbol string, window model.Window) (model.PriceHistory, error) {
	symbol = strings.ToUpper(symbol)

	resp, err := y.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"range":    string(window),
			"interval": "1d",
		}).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("fetching chart for %s: %w", symbol, err)
	}

	// Yahoo answers unknown symbols with 404 and a chart.error body.
	if resp.StatusCode() == http.StatusNotFound {
		return model.PriceHistory{}, nil
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart API returned %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	var chart yahooChartResponse
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		return nil, fmt.Errorf("decoding chart for %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		y.logger.Debug("yahoo chart error",
			zap.String("symbol", symbol),
			zap.String("code", chart.Chart.Error.Code),
			zap.String("description", chart.Chart.Error.Description),
		)
		return model.PriceHistory{}, nil
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return model.PriceHistory{}, nil
	}

	result := chart.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	history := make(model.PriceHistory, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		history = append(history, model.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	return history, nil
}

// DailyClose returns the last close of the one-day window.
func (y *YahooProvider) DailyClose(ctx context.Context, symbol string) (float64, bool, error) {
	return dailyCloseFromHistory(ctx, y, symbol)
}

type yahooSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
				Website  string `json:"website"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

// Profile combines two independent lookups. Either half may fail on its own;
// only when both fail is an error returned.
func (y *YahooProvider) Profile(ctx context.Context, symbol string) (*model.CompanyProfile, error) {
	symbol = strings.ToUpper(symbol)
	profile := &model.CompanyProfile{}

	eqErr := y.fillFromEquity(symbol, profile)
	if eqErr != nil {
		y.logger.Debug("equity lookup failed", zap.String("symbol", symbol), zap.Error(eqErr))
	}

	sumErr := y.fillFromSummary(ctx, symbol, profile)
	if sumErr != nil {
		y.logger.Debug("asset profile lookup failed", zap.String("symbol", symbol), zap.Error(sumErr))
	}

	if eqErr != nil && sumErr != nil {
		return nil, fmt.Errorf("profile for %s: %w", symbol, eqErr)
	}
	return profile, nil
}

func (y *YahooProvider) fillFromEquity(symbol string, profile *model.CompanyProfile) error {
	eq, err := y.equityLookup(symbol)
	if err != nil {
		return fmt.Errorf("equity quote: %w", err)
	}
	// finance-go returns nil, nil when Yahoo has no quote for the symbol.
	if eq == nil {
		return nil
	}

	profile.Name = eq.LongName
	if profile.Name == "" {
		profile.Name = eq.ShortName
	}
	if eq.MarketCap > 0 {
		capUSD := float64(eq.MarketCap)
		profile.MarketCapUSD = &capUSD
	}
	return nil
}

func (y *YahooProvider) fillFromSummary(ctx context.Context, symbol string, profile *model.CompanyProfile) error {
	resp, err := y.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParam("modules", "assetProfile").
		Get("/v10/finance/quoteSummary/{symbol}")
	if err != nil {
		return fmt.Errorf("fetching quote summary: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("yahoo quoteSummary API returned %d", resp.StatusCode())
	}

	var summary yahooSummaryResponse
	if err := json.Unmarshal(resp.Body(), &summary); err != nil {
		return fmt.Errorf("decoding quote summary: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return fmt.Errorf("yahoo quoteSummary error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil
	}

	asset := summary.QuoteSummary.Result[0].AssetProfile
	profile.Sector = asset.Sector
	profile.Industry = asset.Industry
	profile.Website = asset.Website
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
