package factory

import (
	"github.com/mikey/phishguard/internal/adapters/gemini"
	"github.com/mikey/phishguard/internal/config"
	"go.uber.org/zap"
)

// GeminiFactory creates the cloud strategy
type GeminiFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGeminiFactory creates a new Gemini factory
func NewGeminiFactory(cfg *config.Config, logger *zap.Logger) *GeminiFactory {
	return &GeminiFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStrategy creates the Gemini strategy. A missing API key is not an
// error here; calls report it as a configuration error instead.
func (f *GeminiFactory) CreateStrategy() *gemini.GeminiStrategy {
	geminiCfg := f.cfg.GetGemini()

	if geminiCfg.APIKey == "" {
		f.logger.Warn("GEMINI_API_KEY is not set, cloud models are offline")
	}

	return gemini.NewGeminiStrategy(geminiCfg.APIKey, geminiCfg.BaseURL, f.logger.Named("gemini"))
}
