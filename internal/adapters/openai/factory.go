package openai

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is the LM Studio server address
const DefaultBaseURL = "http://localhost:1234/v1"

// DefaultAPIKey is the placeholder credential local servers accept
const DefaultAPIKey = "lm-studio"

// chatCompleter is the part of the go-openai client the strategy depends on
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// newCompleter creates a client pointed at an OpenAI-compatible server
func newCompleter(baseURL, apiKey string) chatCompleter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiKey == "" {
		apiKey = DefaultAPIKey
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return openai.NewClientWithConfig(cfg)
}
