package di

import (
	"bytes"
	"testing"
	"time"

	"github.com/mikey/phishguard/internal/adapters/console"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/metrics"
	"github.com/mikey/phishguard/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCLIContainerResolvesService(t *testing.T) {
	flags := &CLIFlags{
		GeminiAPIKey: "flag-key",
		Timeout:      5 * time.Second,
		MaxBodySize:  1024,
	}

	container, err := BuildCLIContainer(flags, &bytes.Buffer{})
	require.NoError(t, err)

	err = container.Invoke(func(svc *core.AnalysisService, cfg *config.Config, p *console.Printer, m *metrics.Metrics) {
		assert.True(t, svc.CloudAvailable())
		assert.NotNil(t, p)
		assert.NotNil(t, m)

		inf, err := cfg.GetInference()
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, inf.Timeout)
		assert.Equal(t, 1024, inf.MaxBodySize)
	})
	require.NoError(t, err)
}

func TestBuildContainerResolvesIntake(t *testing.T) {
	container, err := BuildContainer(&CLIFlags{})
	require.NoError(t, err)

	err = container.Invoke(func(in ports.Intake, analyzer ports.Analyzer) {
		assert.NotNil(t, in)
		assert.NotNil(t, analyzer)
	})
	require.NoError(t, err)
}

func TestBuildContainerAppliesFlagOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("PHISHGUARD_GEMINI_API_KEY", "")

	container, err := BuildContainer(&CLIFlags{
		GeminiAPIKey: "flag-key",
		LocalBaseURL: "http://127.0.0.1:9999/v1",
		Timeout:      7 * time.Second,
		MaxBodySize:  512,
	})
	require.NoError(t, err)

	err = container.Invoke(func(svc *core.AnalysisService, cfg *config.Config) {
		assert.True(t, svc.CloudAvailable())

		local, err := cfg.GetLocal()
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:9999/v1", local.BaseURL)

		inf, err := cfg.GetInference()
		require.NoError(t, err)
		assert.Equal(t, 7*time.Second, inf.Timeout)
		assert.Equal(t, 512, inf.MaxBodySize)
	})
	require.NoError(t, err)
}
