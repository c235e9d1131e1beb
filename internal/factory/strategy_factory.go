package factory

import (
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
)

// StrategyFactory creates one strategy per provider
type StrategyFactory struct {
	gemini  *GeminiFactory
	openai  *OpenAIFactory
	bedrock *BedrockFactory
}

// NewStrategyFactory creates a new strategy factory
func NewStrategyFactory(cfg *config.Config, logger *zap.Logger) *StrategyFactory {
	return &StrategyFactory{
		gemini:  NewGeminiFactory(cfg, logger),
		openai:  NewOpenAIFactory(cfg, logger),
		bedrock: NewBedrockFactory(cfg, logger),
	}
}

// CreateStrategies creates the strategies for every provider
func (f *StrategyFactory) CreateStrategies() ([]core.Strategy, error) {
	local, err := f.openai.CreateStrategy()
	if err != nil {
		return nil, err
	}

	return []core.Strategy{
		f.gemini.CreateStrategy(),
		local,
		f.bedrock.CreateStrategy(),
	}, nil
}
