package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatClient talks to any OpenAI-compatible chat-completions endpoint.
// Mistral's API (https://api.mistral.ai/v1) speaks the same protocol, so one
// client covers both; only the base URL, key and model differ.
type OpenAICompatClient struct {
	client   *openai.Client
	provider string
	model    string
}

// NewOpenAICompatClient creates a client for provider ("mistral" or "openai").
func NewOpenAICompatClient(provider, apiKey, model, baseURL string) *OpenAICompatClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompatClient{
		client:   openai.NewClientWithConfig(cfg),
		provider: provider,
		model:    model,
	}
}

func (o *OpenAICompatClient) ProviderName() string { return o.provider }
func (o *OpenAICompatClient) ModelName() string     { return o.model }

// Complete sends the prompt as a single user message and returns
// choices[0].message.content.
func (o *OpenAICompatClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrMalformedResponse
	}

	return resp.Choices[0].Message.Content, nil
}
