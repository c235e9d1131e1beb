package factory

import (
	"github.com/mikey/phishguard/internal/adapters/intake"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/ports"
	"github.com/mikey/phishguard/internal/report"
	"go.uber.org/zap"
)

// IntakeFactory creates the SMTP intake mailbox
type IntakeFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	analyzer ports.Analyzer
	recorder intake.Recorder
}

// NewIntakeFactory creates a new intake factory
func NewIntakeFactory(cfg *config.Config, logger *zap.Logger, analyzer ports.Analyzer, recorder intake.Recorder) *IntakeFactory {
	return &IntakeFactory{
		cfg:      cfg,
		logger:   logger,
		analyzer: analyzer,
		recorder: recorder,
	}
}

// CreateIntake creates the intake with a directory report sink
func (f *IntakeFactory) CreateIntake() (*intake.SMTPIntake, error) {
	intakeCfg, err := f.cfg.GetIntake()
	if err != nil {
		return nil, err
	}
	inference, err := f.cfg.GetInference()
	if err != nil {
		return nil, err
	}

	return intake.NewSMTPIntake(
		f.analyzer,
		report.NewDirSink(f.cfg.GetReport().OutputDir),
		f.recorder,
		f.logger.Named("intake"),
		intake.Options{
			ListenAddress:   intakeCfg.ListenAddress,
			Domain:          intakeCfg.Domain,
			ModelKey:        intakeCfg.ModelKey,
			MaxMessageBytes: intakeCfg.MaxMessageBytes,
			MaxBodySize:     inference.MaxBodySize,
			ReadTimeout:     intakeCfg.ReadTimeout,
			WriteTimeout:    intakeCfg.WriteTimeout,
		},
	), nil
}
