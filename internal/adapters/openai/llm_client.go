package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
)

// EmptyChoiceReason is the Empty reason when the server returns no text
const EmptyChoiceReason = "Local model returned an empty message"

// LocalStrategy is the provider strategy for OpenAI-compatible local servers.
// The client is built on first use and reused for every later call.
type LocalStrategy struct {
	baseURL string
	apiKey  string
	logger  *zap.Logger

	once      sync.Once
	completer chatCompleter
}

// NewLocalStrategy creates a strategy for the server at baseURL
func NewLocalStrategy(baseURL, apiKey string, logger *zap.Logger) *LocalStrategy {
	return &LocalStrategy{
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// Provider implements core.Strategy
func (s *LocalStrategy) Provider() core.Provider {
	return core.ProviderLocal
}

// Ready implements core.Strategy. Local servers need no credential.
func (s *LocalStrategy) Ready() error {
	return nil
}

// Invoke implements core.Strategy
func (s *LocalStrategy) Invoke(ctx context.Context, call core.Call) (core.Result, error) {
	req := BuildRequest(call)

	s.logger.Debug("Sending local chat completion",
		zap.String("model", req.Model),
		zap.String("base_url", s.baseURL),
		zap.Int("parts", len(req.Messages[1].MultiContent)))

	resp, err := s.client().CreateChatCompletion(ctx, req)
	if err != nil {
		return core.Result{}, &core.ProviderError{
			Provider: core.ProviderLocal,
			Err:      fmt.Errorf("failed to create chat completion: %w", err),
		}
	}

	if len(resp.Choices) == 0 {
		return core.Result{}, &core.ProviderError{
			Provider: core.ProviderLocal,
			Err:      errors.New("empty response from local model: no choices"),
		}
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return core.Empty(EmptyChoiceReason), nil
	}

	return core.Success(text), nil
}

func (s *LocalStrategy) client() chatCompleter {
	s.once.Do(func() {
		if s.completer == nil {
			s.completer = newCompleter(s.baseURL, s.apiKey)
		}
	})
	return s.completer
}
