package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/di"
	"github.com/mikey/phishguard/internal/metrics"
	"github.com/mikey/phishguard/internal/ports"
)

func newServeCmd(flags *di.CLIFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the SMTP report-phishing mailbox",
		Long: "Accepts messages over SMTP, triages each one with the configured intake\n" +
			"model and stores a PDF report in report.output_dir.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := di.BuildContainer(flags)
			if err != nil {
				return fmt.Errorf("failed to build dependency container: %w", err)
			}
			return dig.RootCause(container.Invoke(serve))
		},
	}
}

// serve is the service entry point that gets all dependencies injected
func serve(
	logger *zap.Logger,
	cfg *config.Config,
	intake ports.Intake,
	m *metrics.Metrics,
) error {
	defer logger.Sync() //nolint:errcheck

	var metricsServer *http.Server
	if mc := cfg.GetMetrics(); mc.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsServer = &http.Server{
			Addr:              mc.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Metrics endpoint listening", zap.String("address", mc.ListenAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server error", zap.Error(err))
			}
		}()
	}

	if err := intake.Start(); err != nil {
		return fmt.Errorf("failed to start intake: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("Shutting down...")

	if err := intake.Stop(); err != nil {
		logger.Error("Failed to stop intake", zap.Error(err))
	}

	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Error("Failed to stop metrics server", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
