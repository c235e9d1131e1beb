package factory

import (
	"fmt"

	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/utils"
	"go.uber.org/zap"
)

// ServiceFactory creates the analysis service
type ServiceFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	strategies    *StrategyFactory
	recorder      core.Recorder
	textProcessor *utils.TextProcessor
}

// NewServiceFactory creates a new service factory
func NewServiceFactory(
	cfg *config.Config,
	logger *zap.Logger,
	strategies *StrategyFactory,
	recorder core.Recorder,
	textProcessor *utils.TextProcessor,
) *ServiceFactory {
	return &ServiceFactory{
		cfg:           cfg,
		logger:        logger,
		strategies:    strategies,
		recorder:      recorder,
		textProcessor: textProcessor,
	}
}

// CreateService builds the registry from configuration and binds the strategies
func (f *ServiceFactory) CreateService() (*core.AnalysisService, error) {
	models, err := f.cfg.GetModels()
	if err != nil {
		return nil, err
	}

	registry, err := core.NewRegistry(models...)
	if err != nil {
		return nil, fmt.Errorf("invalid model registry: %w", err)
	}

	strategies, err := f.strategies.CreateStrategies()
	if err != nil {
		return nil, err
	}

	inference, err := f.cfg.GetInference()
	if err != nil {
		return nil, err
	}

	service, err := core.NewAnalysisService(
		registry,
		strategies,
		f.logger,
		f.recorder,
		f.textProcessor,
		inference.Timeout,
		inference.ArenaConcurrency,
	)
	if err != nil {
		return nil, err
	}

	status := "OFFLINE"
	if service.CloudAvailable() {
		status = "CONNECTED"
	}
	f.logger.Info("Analysis service ready",
		zap.Strings("models", registry.Keys()),
		zap.String("cloud_api", status),
		zap.Duration("timeout", inference.Timeout))

	return service, nil
}
