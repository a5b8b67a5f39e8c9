package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/model"
)

const chartAAPL = `{"chart":{"result":[{"timestamp":[1700000000,1700086400,1700172800],
"indicators":{"quote":[{"close":[100.0,null,110.0]}]}}],"error":null}}`

const chartNotFound = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

const summaryAAPL = `{"quoteSummary":{"result":[{"assetProfile":{"sector":"Technology",
"industry":"Consumer Electronics","website":"https://www.apple.com"}}],"error":null}}`

// newTestYahoo serves canned Yahoo payloads keyed by URL path.
func newTestYahoo(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *YahooProvider {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(chartNotFound))
	}))
	t.Cleanup(srv.Close)

	p := NewYahooProvider(srv.URL, "test-agent", 5*time.Second, zap.NewNop())
	p.equityLookup = func(string) (*finance.Equity, error) { return nil, nil }
	return p
}

func jsonBody(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestYahooProvider_History(t *testing.T) {
	var gotRange string
	p := newTestYahoo(t, map[string]func(http.ResponseWriter, *http.Request){
		"/v8/finance/chart/AAPL": func(w http.ResponseWriter, r *http.Request) {
			gotRange = r.URL.Query().Get("range")
			jsonBody(chartAAPL)(w, r)
		},
	})

	history, err := p.History(context.Background(), "aapl", model.Window1M)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if gotRange != "1mo" {
		t.Errorf("expected range=1mo, got %q", gotRange)
	}

	// The null close is skipped.
	if len(history) != 2 {
		t.Fatalf("expected 2 points, got %d", len(history))
	}
	if history.First() != 100.0 || history.Last() != 110.0 {
		t.Errorf("unexpected closes: %v", history)
	}
	if !history[0].Date.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected first date %s", history[0].Date)
	}
}

func TestYahooProvider_History_UnknownSymbol(t *testing.T) {
	p := newTestYahoo(t, nil)

	history, err := p.History(context.Background(), "ZZZZ", model.Window1D)
	if err != nil {
		t.Fatalf("expected no error for unknown symbol, got %v", err)
	}
	if !history.Empty() {
		t.Errorf("expected empty history, got %v", history)
	}
}

func TestYahooProvider_History_ChartErrorWith200(t *testing.T) {
	p := newTestYahoo(t, map[string]func(http.ResponseWriter, *http.Request){
		"/v8/finance/chart/OLD": jsonBody(chartNotFound),
	})

	history, err := p.History(context.Background(), "OLD", model.Window1D)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !history.Empty() {
		t.Errorf("expected empty history, got %v", history)
	}
}

func TestYahooProvider_History_ServerError(t *testing.T) {
	p := newTestYahoo(t, map[string]func(http.ResponseWriter, *http.Request){
		"/v8/finance/chart/AAPL": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		},
	})

	if _, err := p.History(context.Background(), "AAPL", model.Window1D); err == nil {
		t.Error("expected error on 500")
	}
}

func TestYahooProvider_DailyClose(t *testing.T) {
	p := newTestYahoo(t, map[string]func(http.ResponseWriter, *http.Request){
		"/v8/finance/chart/AAPL": jsonBody(chartAAPL),
	})

	price, ok, err := p.DailyClose(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("DailyClose failed: %v", err)
	}
	if !ok || price != 110.0 {
		t.Errorf("expected (110, true), got (%v, %v)", price, ok)
	}

	_, ok, err = p.DailyClose(context.Background(), "NOPE")
	if err != nil || ok {
		t.Errorf("expected (false, nil) for unknown symbol, got (%v, %v)", ok, err)
	}
}

func TestYahooProvider_Profile(t *testing.T) {
	p := newTestYahoo(t, map[string]func(http.ResponseWriter, *http.Request){
		"/v10/finance/quoteSummary/AAPL": jsonBody(summaryAAPL),
	})
	p.equityLookup = func(symbol string) (*finance.Equity, error) {
		eq := &finance.Equity{LongName: "Apple Inc.", MarketCap: 2_891_370_000_000}
		return eq, nil
	}

	profile, err := p.Profile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile.Name != "Apple Inc." {
		t.Errorf("expected name Apple Inc., got %q", profile.Name)
	}
	if profile.Sector != "Technology" || profile.Industry != "Consumer Electronics" {
		t.Errorf("unexpected sector/industry: %q / %q", profile.Sector, profile.Industry)
	}
	if profile.Website != "https://www.apple.com" {
		t.Errorf("unexpected website %q", profile.Website)
	}
	if profile.MarketCapDisplay() != "$2891.37B" {
		t.Errorf("unexpected market cap %q", profile.MarketCapDisplay())
	}
}

func TestYahooProvider_Profile_PartialData(t *testing.T) {
	// Summary endpoint 404s; equity data alone is enough.
	p := newTestYahoo(t, nil)
	p.equityLookup = func(string) (*finance.Equity, error) {
		return &finance.Equity{LongName: "Tesla, Inc."}, nil
	}

	profile, err := p.Profile(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("expected partial profile, got error %v", err)
	}
	if profile.Name != "Tesla, Inc." {
		t.Errorf("unexpected name %q", profile.Name)
	}
	if model.OrNA(profile.Sector) != model.NotAvailable {
		t.Errorf("expected sector N/A, got %q", profile.Sector)
	}
	if profile.MarketCapDisplay() != model.NotAvailable {
		t.Errorf("expected market cap N/A, got %q", profile.MarketCapDisplay())
	}
}

func TestYahooProvider_Profile_BothFail(t *testing.T) {
	p := newTestYahoo(t, nil)
	p.equityLookup = func(string) (*finance.Equity, error) {
		return nil, errors.New("network down")
	}

	_, err := p.Profile(context.Background(), "TSLA")
	if err == nil || !strings.Contains(err.Error(), "network down") {
		t.Errorf("expected wrapped equity error, got %v", err)
	}
}
