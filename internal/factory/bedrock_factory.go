package factory

import (
	"github.com/mikey/phishguard/internal/adapters/bedrock"
	"github.com/mikey/phishguard/internal/config"
	"go.uber.org/zap"
)

// BedrockFactory creates the Bedrock strategy
type BedrockFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewBedrockFactory creates a new Bedrock factory
func NewBedrockFactory(cfg *config.Config, logger *zap.Logger) *BedrockFactory {
	return &BedrockFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStrategy creates the Bedrock strategy
func (f *BedrockFactory) CreateStrategy() *bedrock.BedrockStrategy {
	bedrockCfg := f.cfg.GetBedrock()

	return bedrock.NewBedrockStrategy(
		bedrockCfg.Enabled,
		bedrockCfg.Region,
		bedrockCfg.MaxTokens,
		f.logger.Named("bedrock"),
	)
}
