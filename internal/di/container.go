package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phishguard/internal/adapters/intake"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/factory"
	"github.com/mikey/phishguard/internal/logging"
	"github.com/mikey/phishguard/internal/metrics"
	"github.com/mikey/phishguard/internal/ports"
	"github.com/mikey/phishguard/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// BuildContainer creates the container for the long-running service. The
// configuration file and environment drive every setting; explicitly set
// command line overrides in flags win.
func BuildContainer(flags *CLIFlags) (*dig.Container, error) {
	if flags == nil {
		flags = &CLIFlags{}
	}
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		cfg, err := config.New(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideAnalysis(container); err != nil {
		return nil, err
	}

	// Register intake
	if err := container.Provide(factory.NewIntakeFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.IntakeFactory) (ports.Intake, error) {
		return f.CreateIntake()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideAnalysis registers metrics, strategies and the analysis service.
// It expects *config.Config and *zap.Logger to be provided already.
func provideAnalysis(container *dig.Container) error {
	// Register metrics
	if err := container.Provide(prometheus.NewRegistry); err != nil {
		return err
	}
	if err := container.Provide(metrics.New); err != nil {
		return err
	}
	if err := container.Provide(func(m *metrics.Metrics) core.Recorder { return m }); err != nil {
		return err
	}
	if err := container.Provide(func(m *metrics.Metrics) intake.Recorder { return m }); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(logger *zap.Logger) *utils.TextProcessor {
		return utils.NewTextProcessor(logger.Named("text"))
	}); err != nil {
		return err
	}

	// Register factories
	if err := container.Provide(factory.NewStrategyFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewServiceFactory); err != nil {
		return err
	}

	// Register analysis service
	if err := container.Provide(func(f *factory.ServiceFactory) (*core.AnalysisService, error) {
		return f.CreateService()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(s *core.AnalysisService) ports.Analyzer { return s }); err != nil {
		return err
	}

	return nil
}
