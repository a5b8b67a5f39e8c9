package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/model"
	"github.com/fleveque/stock-agent/internal/session"
	"github.com/fleveque/stock-agent/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResponder struct {
	classification model.Classification
	items          []model.ResponseItem
	queries        []string
}

func (f *fakeResponder) Respond(_ context.Context, query string) (model.Classification, []model.ResponseItem) {
	f.queries = append(f.queries, query)
	return f.classification, f.items
}

func newTestSession(t *testing.T) (*session.Session, storage.LLMCallRepository) {
	t.Helper()
	db, err := storage.NewDatabase(storage.MemoryPath)
	if err != nil {
		t.Fatalf("creating database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return session.New(storage.NewHistoryRepository(db), 10), storage.NewLLMCallRepository(db)
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	router := gin.New()
	router.GET("/healthz", NewHealthHandler("mistral", false).Healthz)

	w := doJSON(router, "GET", "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["llm_configured"] != false || body["llm_provider"] != "mistral" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestQuery_TickerMode(t *testing.T) {
	agent := &fakeResponder{
		classification: model.Classification{Mode: model.ModeTicker, Tickers: []string{"AAPL"}},
		items: []model.ResponseItem{
			model.TextItem("🔍 Detected tickers: AAPL"),
			model.ImageItem("/var/charts/AAPL_plot.png"),
		},
	}
	router := gin.New()
	router.POST("/api/v1/query", NewQueryHandler(agent, zap.NewNop()).Query)

	w := doJSON(router, "POST", "/api/v1/query", `{"query": "aapl"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp queryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Mode != model.ModeTicker || len(resp.Tickers) != 1 {
		t.Errorf("unexpected classification %+v", resp)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[1].URL != "/api/v1/charts/AAPL_plot.png" {
		t.Errorf("unexpected chart URL %q", resp.Items[1].URL)
	}
}

func TestQuery_RejectsBlank(t *testing.T) {
	agent := &fakeResponder{}
	router := gin.New()
	router.POST("/api/v1/query", NewQueryHandler(agent, zap.NewNop()).Query)

	tests := []struct {
		name string
		body string
	}{
		{"blank query", `{"query": "   "}`},
		{"missing query", `{}`},
		{"invalid json", `{"query":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, "POST", "/api/v1/query", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}

	w := doJSON(router, "POST", "/api/v1/query", `{"query": ""}`)
	if !strings.Contains(w.Body.String(), session.EmptyQueryMessage) {
		t.Errorf("expected %q in body, got %s", session.EmptyQueryMessage, w.Body.String())
	}
	if len(agent.queries) != 0 {
		t.Errorf("agent should not run for invalid input, ran %d times", len(agent.queries))
	}
}

func TestGetChart(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.NewFileSystem(dir)
	if err != nil {
		t.Fatalf("creating filesystem: %v", err)
	}
	png := []byte("\x89PNG\r\n\x1a\nfake")
	if err := os.WriteFile(filepath.Join(dir, "AAPL_plot.png"), png, 0644); err != nil {
		t.Fatalf("writing chart: %v", err)
	}

	router := gin.New()
	router.GET("/api/v1/charts/:file", NewChartHandler(fs, zap.NewNop()).GetChart)

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/charts/AAPL_plot.png", http.StatusOK},
		{"/api/v1/charts/MSFT_plot.png", http.StatusNotFound},
		{"/api/v1/charts/config.yaml", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := doJSON(router, "GET", tt.path, "")
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
			if tt.want == http.StatusOK {
				if ct := w.Header().Get("Content-Type"); ct != "image/png" {
					t.Errorf("expected image/png, got %q", ct)
				}
				if !bytes.Equal(w.Body.Bytes(), png) {
					t.Error("unexpected chart bytes")
				}
			}
		})
	}
}

func TestHistory_SaveListClear(t *testing.T) {
	s, _ := newTestSession(t)
	h := NewHistoryHandler(s, zap.NewNop())

	router := gin.New()
	router.POST("/api/v1/history", h.Save)
	router.GET("/api/v1/history", h.List)
	router.DELETE("/api/v1/history", h.Clear)

	for _, q := range []string{"AAPL", "what is an ETF", "TSLA"} {
		if w := doJSON(router, "POST", "/api/v1/history", `{"query": "`+q+`"}`); w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	}
	if w := doJSON(router, "POST", "/api/v1/history", `{"query": " "}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank query, got %d", w.Code)
	}

	w := doJSON(router, "GET", "/api/v1/history", "")
	var body struct {
		History []historyItem `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	want := []historyItem{{1, "TSLA"}, {2, "what is an ETF"}, {3, "AAPL"}}
	if len(body.History) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(body.History))
	}
	for i := range want {
		if body.History[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, body.History[i], want[i])
		}
	}

	if w := doJSON(router, "DELETE", "/api/v1/history", ""); w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	w = doJSON(router, "GET", "/api/v1/history", "")
	if !strings.Contains(w.Body.String(), `"history":[]`) {
		t.Errorf("expected empty history, got %s", w.Body.String())
	}
}

func TestStats(t *testing.T) {
	s, calls := newTestSession(t)
	ctx := context.Background()

	errText := "API Error: 401"
	_ = calls.Create(ctx, &model.LLMCall{Provider: "mistral", Model: "m", Success: true})
	_ = calls.Create(ctx, &model.LLMCall{Provider: "mistral", Model: "m", ErrorText: &errText})
	_, _ = s.Save(ctx, "AAPL")

	router := gin.New()
	router.GET("/api/v1/stats", NewStatsHandler(calls, s, zap.NewNop()).Stats)

	w := doJSON(router, "GET", "/api/v1/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]int64
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["llm_calls"] != 2 || body["llm_calls_failed"] != 1 || body["history_saved"] != 1 {
		t.Errorf("unexpected stats %v", body)
	}
}
