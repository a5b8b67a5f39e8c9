// Package config handles application configuration using Viper.
// Viper merges defaults, a YAML file and environment variables in priority order.
// A .env file (if present) is loaded first so API keys can live outside the shell profile.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration struct. Nested structs organize related settings.
// `mapstructure` tags tell Viper how to map YAML/env keys to struct fields.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	CORS    CORSConfig    `mapstructure:"cors"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Market  MarketConfig  `mapstructure:"market"`
	Chart   ChartConfig   `mapstructure:"chart"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	// DatabasePath defaults to ":memory:", so history and the LLM call log
	// live only as long as the process.
	DatabasePath string `mapstructure:"database_path"`
	ChartDir     string `mapstructure:"chart_dir"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LLMConfig struct {
	// Provider selects the chat-completion backend: "mistral", "openai" or "anthropic".
	Provider  string         `mapstructure:"provider"`
	Mistral   ProviderConfig `mapstructure:"mistral"`
	OpenAI    ProviderConfig `mapstructure:"openai"`
	Anthropic ProviderConfig `mapstructure:"anthropic"`
	Timeout   time.Duration  `mapstructure:"timeout"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type MarketConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ChartConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type AgentConfig struct {
	// DedupeTickers reports a repeated ticker once (first-seen order).
	DedupeTickers bool `mapstructure:"dedupe_tickers"`
	// FinanceKeywords extends the built-in keyword set.
	FinanceKeywords []string `mapstructure:"finance_keywords"`
}

type SessionConfig struct {
	DisplayLimit int `mapstructure:"display_limit"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(configPath string) (*Config, error) {
	// Missing .env is normal in production. godotenv never overrides
	// variables that are already set.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.database_path", ":memory:")
	v.SetDefault("storage.chart_dir", "./storage/charts")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:8501"})
	v.SetDefault("llm.provider", "mistral")
	v.SetDefault("llm.mistral.model", "mistral-medium-latest")
	v.SetDefault("llm.mistral.base_url", "https://api.mistral.ai/v1")
	v.SetDefault("llm.openai.model", "gpt-4o")
	v.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("market.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("market.user_agent", "Mozilla/5.0")
	v.SetDefault("market.timeout", 15*time.Second)
	v.SetDefault("chart.width", 800)
	v.SetDefault("chart.height", 400)
	v.SetDefault("agent.dedupe_tickers", true)
	v.SetDefault("agent.finance_keywords", []string{})
	v.SetDefault("session.display_limit", 10)
	v.SetDefault("log.level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read config file (ignore "not found": defaults + env are enough)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// STOCKAGENT_ prefix + nested keys: STOCKAGENT_SERVER_PORT=9090 → server.port=9090
	v.SetEnvPrefix("STOCKAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The conventional vendor variables are honoured too, so an existing
	// MISTRAL_API_KEY export works without renaming it.
	bindings := map[string][]string{
		"llm.mistral.api_key":   {"STOCKAGENT_LLM_MISTRAL_API_KEY", "MISTRAL_API_KEY"},
		"llm.openai.api_key":    {"STOCKAGENT_LLM_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"llm.anthropic.api_key": {"STOCKAGENT_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Session.DisplayLimit <= 0 {
		cfg.Session.DisplayLimit = 10
	}

	return &cfg, nil
}

// Address returns the listen address string like "0.0.0.0:8080".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Active returns the settings of the selected LLM provider.
func (l LLMConfig) Active() ProviderConfig {
	switch strings.ToLower(l.Provider) {
	case "openai":
		return l.OpenAI
	case "anthropic":
		return l.Anthropic
	default:
		return l.Mistral
	}
}

// Configured reports whether the selected provider has an API key.
// A missing key is not fatal: every completion degrades to an error string.
func (l LLMConfig) Configured() bool {
	return l.Active().APIKey != ""
}
