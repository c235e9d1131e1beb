package di

import (
	"io"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phishguard/internal/adapters/console"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/logging"
)

// CLIFlags contains the command line flags shared by the interactive commands
type CLIFlags struct {
	ConfigFile string
	Verbose    bool
	JSONLog    bool

	// Overrides, applied only when set
	LocalBaseURL string
	GeminiAPIKey string
	Timeout      time.Duration
	MaxBodySize  int
}

// BuildCLIContainer creates the container for the interactive commands.
// Reports are printed to out; logs go to stderr.
func BuildCLIContainer(flags *CLIFlags, out io.Writer) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.New(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := provideAnalysis(container); err != nil {
		return nil, err
	}

	// Register console printer
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) *console.Printer {
		return console.NewPrinter(out, logger, flags.Verbose)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// applyFlags overrides configuration with explicitly set flags
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	if flags.LocalBaseURL != "" {
		cfg.Set("local.base_url", flags.LocalBaseURL)
	}
	if flags.GeminiAPIKey != "" {
		cfg.Set("gemini.api_key", flags.GeminiAPIKey)
	}
	if flags.Timeout > 0 {
		cfg.Set("inference.timeout", flags.Timeout.String())
	}
	if flags.MaxBodySize > 0 {
		cfg.Set("inference.max_body_size", flags.MaxBodySize)
	}
}
