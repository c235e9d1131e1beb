package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// MissingKeyMessage is reported when no Gemini credential is configured
const MissingKeyMessage = "GEMINI_API_KEY not found in environment or .env file."

// SafetyFilterReason is the Empty reason for responses without text
const SafetyFilterReason = "Possible Safety Filter Trigger"

// GeminiStrategy is the cloud provider strategy backed by Google Gemini.
// One client is created on first use and shared by all calls.
type GeminiStrategy struct {
	apiKey  string
	baseURL string
	logger  *zap.Logger

	once      sync.Once
	generator contentGenerator
	initErr   error
}

// NewGeminiStrategy creates a Gemini strategy. An empty apiKey leaves the
// strategy unavailable; calls then fail with a configuration error.
func NewGeminiStrategy(apiKey, baseURL string, logger *zap.Logger) *GeminiStrategy {
	return &GeminiStrategy{
		apiKey:  apiKey,
		baseURL: baseURL,
		logger:  logger,
	}
}

// newGeminiStrategyWithGenerator wires a prebuilt generator, used by tests
func newGeminiStrategyWithGenerator(apiKey string, gen contentGenerator, logger *zap.Logger) *GeminiStrategy {
	s := NewGeminiStrategy(apiKey, "", logger)
	s.once.Do(func() { s.generator = gen })
	return s
}

// Provider implements core.Strategy
func (s *GeminiStrategy) Provider() core.Provider {
	return core.ProviderCloud
}

// Ready implements core.Strategy
func (s *GeminiStrategy) Ready() error {
	if s.apiKey == "" {
		return &core.ConfigError{Message: MissingKeyMessage}
	}
	return nil
}

// Invoke implements core.Strategy
func (s *GeminiStrategy) Invoke(ctx context.Context, call core.Call) (core.Result, error) {
	if err := s.Ready(); err != nil {
		return core.Result{}, err
	}

	gen, err := s.client()
	if err != nil {
		return core.Result{}, err
	}

	req := BuildRequest(call)
	s.logger.Debug("Sending Gemini request",
		zap.String("model", req.Model),
		zap.Int("parts", len(req.Contents[0].Parts)),
		zap.Bool("search_tool", len(req.Config.Tools) > 0))

	resp, err := gen.GenerateContent(ctx, req.Model, req.Contents, req.Config)
	if err != nil {
		return core.Result{}, &core.ProviderError{
			Provider: core.ProviderCloud,
			Err:      fmt.Errorf("failed to generate content with Gemini: %w", err),
		}
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		reason := SafetyFilterReason
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			reason = fmt.Sprintf("%s: %s", SafetyFilterReason, resp.PromptFeedback.BlockReason)
		}
		return core.Empty(reason), nil
	}

	return core.Success(text), nil
}

func (s *GeminiStrategy) client() (contentGenerator, error) {
	s.once.Do(func() {
		s.generator, s.initErr = newGenerator(context.Background(), s.apiKey, s.baseURL)
	})
	return s.generator, s.initErr
}

// responseText joins the non-thought text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
