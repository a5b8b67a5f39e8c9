// Package app wires the agent together from configuration. Both the HTTP
// server and the CLI build the same graph:
//
//	config -> storage (SQLite + chart dir) -> market provider, LLM completer,
//	chart renderer -> extractor -> classifier -> assembler, plus one session.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/chart"
	"github.com/fleveque/stock-agent/internal/config"
	"github.com/fleveque/stock-agent/internal/llm"
	"github.com/fleveque/stock-agent/internal/provider"
	"github.com/fleveque/stock-agent/internal/service"
	"github.com/fleveque/stock-agent/internal/session"
	"github.com/fleveque/stock-agent/internal/storage"
)

// App holds the long-lived pieces of a running agent.
type App struct {
	Config      *config.Config
	Agent       *service.ResponseAssembler
	Session     *session.Session
	Charts      *storage.FileSystem
	LLMCallRepo storage.LLMCallRepository

	db     *sqlx.DB
	logger *zap.Logger
}

// NewLogger returns a development logger for debug level (or when dev is
// set) and a production JSON logger otherwise.
func NewLogger(level string, dev bool) (*zap.Logger, error) {
	if dev || level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewCLILogger returns a development logger that stays quiet below warn
// level unless verbose is set, so log lines do not interleave with answers.
func NewCLILogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

// New builds the agent from cfg. A missing LLM API key is logged, not fatal.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.Storage.DatabasePath != storage.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	fs, err := storage.NewFileSystem(cfg.Storage.ChartDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chart storage: %w", err)
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	if !cfg.LLM.Configured() {
		logger.Warn("no API key for LLM provider; model answers will be error messages",
			zap.String("provider", client.ProviderName()),
		)
	}

	historyRepo := storage.NewHistoryRepository(db)
	llmCallRepo := storage.NewLLMCallRepository(db)

	market := provider.NewYahooProvider(cfg.Market.BaseURL, cfg.Market.UserAgent, cfg.Market.Timeout, logger)
	completer := llm.NewCompleter(client, llmCallRepo, cfg.LLM.Timeout, logger)
	renderer := chart.NewRenderer(fs, cfg.Chart.Width, cfg.Chart.Height, logger)

	extractor := service.NewTickerExtractor(market, cfg.Agent.DedupeTickers, logger)
	classifier := service.NewQueryClassifier(extractor, cfg.Agent.FinanceKeywords)
	assembler := service.NewResponseAssembler(classifier, market, renderer, completer, logger)

	logger.Info("agent ready",
		zap.String("market", market.Name()),
		zap.String("llm_provider", client.ProviderName()),
		zap.String("llm_model", client.ModelName()),
		zap.String("database", cfg.Storage.DatabasePath),
		zap.String("chart_dir", cfg.Storage.ChartDir),
	)

	return &App{
		Config:      cfg,
		Agent:       assembler,
		Session:     session.New(historyRepo, cfg.Session.DisplayLimit),
		Charts:      fs,
		LLMCallRepo: llmCallRepo,
		db:          db,
		logger:      logger,
	}, nil
}

// Close ends the session and releases the database.
func (a *App) Close(ctx context.Context) error {
	if err := a.Session.Close(ctx); err != nil {
		a.logger.Warn("clearing session history", zap.Error(err))
	}
	return a.db.Close()
}
