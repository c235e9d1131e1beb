package bedrock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
)

// DisabledMessage is reported when a Bedrock model is used while the provider is off
const DisabledMessage = "Amazon Bedrock is disabled (set bedrock.enabled and bedrock.region)."

// BedrockStrategy is the provider strategy for Amazon Bedrock models
type BedrockStrategy struct {
	enabled   bool
	region    string
	maxTokens int32
	logger    *zap.Logger

	once    sync.Once
	client  converser
	initErr error
}

// NewBedrockStrategy creates a Bedrock strategy. AWS configuration is
// loaded on the first call.
func NewBedrockStrategy(enabled bool, region string, maxTokens int, logger *zap.Logger) *BedrockStrategy {
	return &BedrockStrategy{
		enabled:   enabled,
		region:    region,
		maxTokens: int32(maxTokens),
		logger:    logger,
	}
}

// Provider implements core.Strategy
func (s *BedrockStrategy) Provider() core.Provider {
	return core.ProviderBedrock
}

// Ready implements core.Strategy
func (s *BedrockStrategy) Ready() error {
	if !s.enabled || s.region == "" {
		return &core.ConfigError{Message: DisabledMessage}
	}
	return nil
}

// Invoke implements core.Strategy
func (s *BedrockStrategy) Invoke(ctx context.Context, call core.Call) (core.Result, error) {
	if err := s.Ready(); err != nil {
		return core.Result{}, err
	}

	client, err := s.converser(ctx)
	if err != nil {
		return core.Result{}, &core.ConfigError{Message: err.Error()}
	}

	input := BuildInput(call, s.maxTokens)
	s.logger.Debug("Sending Bedrock converse request",
		zap.String("model", call.Model.ProviderModel),
		zap.String("region", s.region),
		zap.Int("blocks", len(input.Messages[0].Content)))

	out, err := client.Converse(ctx, input)
	if err != nil {
		return core.Result{}, &core.ProviderError{
			Provider: core.ProviderBedrock,
			Err:      fmt.Errorf("failed to invoke Bedrock model: %w", err),
		}
	}

	text := outputText(out)
	if strings.TrimSpace(text) == "" {
		reason := "No text content"
		if out != nil && out.StopReason != "" {
			reason = fmt.Sprintf("Stop reason: %s", out.StopReason)
		}
		return core.Empty(reason), nil
	}

	return core.Success(text), nil
}

func (s *BedrockStrategy) converser(ctx context.Context) (converser, error) {
	s.once.Do(func() {
		if s.client == nil {
			s.client, s.initErr = newConverser(ctx, s.region)
		}
	})
	return s.client, s.initErr
}
