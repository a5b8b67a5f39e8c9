// Package llm provides a provider-agnostic interface for chat-completion
// language models. Mistral and OpenAI share the OpenAI-compatible wire
// format; Anthropic uses its own SDK.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/fleveque/stock-agent/internal/config"
)

// Client is the interface for LLM providers. Keep it small: one prompt in,
// one answer out.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ProviderName() string
	ModelName() string
}

// NewClient builds the client selected by cfg.Provider.
// A missing API key is not an error here; the provider rejects the call and
// the Completer turns that into an error string.
func NewClient(cfg config.LLMConfig) (Client, error) {
	switch name := strings.ToLower(cfg.Provider); name {
	case "mistral", "openai":
		p := cfg.Active()
		return NewOpenAICompatClient(name, p.APIKey, p.Model, p.BaseURL), nil
	case "anthropic":
		return NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
