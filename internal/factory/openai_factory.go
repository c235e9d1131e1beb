package factory

import (
	"github.com/mikey/phishguard/internal/adapters/openai"
	"github.com/mikey/phishguard/internal/config"
	"go.uber.org/zap"
)

// OpenAIFactory creates the strategy for the local OpenAI-compatible server
type OpenAIFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewOpenAIFactory creates a new OpenAI-compatible factory
func NewOpenAIFactory(cfg *config.Config, logger *zap.Logger) *OpenAIFactory {
	return &OpenAIFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStrategy creates the local strategy
func (f *OpenAIFactory) CreateStrategy() (*openai.LocalStrategy, error) {
	localCfg, err := f.cfg.GetLocal()
	if err != nil {
		return nil, err
	}

	return openai.NewLocalStrategy(localCfg.BaseURL, localCfg.APIKey, f.logger.Named("local")), nil
}
