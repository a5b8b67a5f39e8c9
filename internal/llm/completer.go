package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/model"
	"github.com/fleveque/stock-agent/internal/storage"
)

// ErrMalformedResponse is returned when a provider replies successfully but
// carries no usable answer text.
var ErrMalformedResponse = errors.New("response missing choices[0].message.content")

// Completer wraps a Client so that callers always get a string back.
// Failures are rendered as user-facing text instead of Go errors, which is
// what the answer assembler and both front ends expect:
//
//	transport failure        -> "API/Network error: <err>"
//	provider or format error -> "API Error: <detail>"
//
// Every call is recorded in the LLM call log.
type Completer struct {
	client  Client
	calls   storage.LLMCallRepository
	timeout time.Duration
	logger  *zap.Logger
}

// NewCompleter creates a Completer. calls may be nil to skip call tracking.
func NewCompleter(client Client, calls storage.LLMCallRepository, timeout time.Duration, logger *zap.Logger) *Completer {
	return &Completer{
		client:  client,
		calls:   calls,
		timeout: timeout,
		logger:  logger,
	}
}

// Complete sends prompt to the configured model and returns the answer text
// or an error string.
func (c *Completer) Complete(ctx context.Context, prompt string) string {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	answer, err := c.client.Complete(ctx, prompt)
	duration := time.Since(start).Milliseconds()

	c.recordCall(ctx, len(prompt), err, duration)

	if err != nil {
		c.logger.Warn("LLM call failed",
			zap.String("provider", c.client.ProviderName()),
			zap.String("model", c.client.ModelName()),
			zap.Int64("duration_ms", duration),
			zap.Error(err),
		)
		return FormatError(err)
	}
	return answer
}

// FormatError maps a client error onto the text shown to the user.
func FormatError(err error) string {
	var (
		apiErr       *openai.APIError
		reqErr       *openai.RequestError
		anthropicErr *anthropic.Error
	)
	switch {
	case errors.Is(err, ErrMalformedResponse):
		return fmt.Sprintf("API Error: %v", ErrMalformedResponse)
	case errors.As(err, &apiErr):
		return fmt.Sprintf("API Error: %d - %s", apiErr.HTTPStatusCode, apiErr.Message)
	case errors.As(err, &reqErr):
		return fmt.Sprintf("API Error: %d - %s", reqErr.HTTPStatusCode, reqErr.Body)
	case errors.As(err, &anthropicErr):
		return fmt.Sprintf("API Error: %d - %s", anthropicErr.StatusCode, anthropicErr.Error())
	default:
		return fmt.Sprintf("API/Network error: %v", err)
	}
}

// recordCall saves call metadata for cost and failure tracking. A tracking
// failure is logged, never surfaced.
func (c *Completer) recordCall(ctx context.Context, promptChars int, callErr error, durationMs int64) {
	if c.calls == nil {
		return
	}

	call := &model.LLMCall{
		Provider:    c.client.ProviderName(),
		Model:       c.client.ModelName(),
		PromptChars: promptChars,
		Success:     callErr == nil,
		DurationMs:  &durationMs,
	}
	if callErr != nil {
		msg := callErr.Error()
		call.ErrorText = &msg
	}

	// The request context may already be past its deadline.
	if err := c.calls.Create(context.WithoutCancel(ctx), call); err != nil {
		c.logger.Error("failed to record LLM call", zap.Error(err))
	}
}
