package config

import (
	"fmt"
	"time"

	"github.com/mikey/phishguard/internal/core"
)

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey  string
	BaseURL string
}

// LocalModel declares an extra model served by the local server
type LocalModel struct {
	Name         string   `mapstructure:"name"`
	Model        string   `mapstructure:"model"`
	Capabilities []string `mapstructure:"capabilities"`
}

// LocalConfig represents the configuration for the local OpenAI-compatible server
type LocalConfig struct {
	BaseURL string
	APIKey  string
	Models  []LocalModel
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Enabled     bool
	Region      string
	ModelID     string
	DisplayName string
	MaxTokens   int
}

// InferenceConfig bounds provider calls
type InferenceConfig struct {
	Timeout          time.Duration
	MaxBodySize      int
	ArenaConcurrency int
}

// IntakeConfig represents the SMTP intake mailbox
type IntakeConfig struct {
	ListenAddress   string
	Domain          string
	ModelKey        string
	MaxMessageBytes int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

// ReportConfig represents report output
type ReportConfig struct {
	OutputDir string
}

// MetricsConfig represents the Prometheus endpoint
type MetricsConfig struct {
	Enabled       bool
	ListenAddress string
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:  c.GetString("gemini.api_key"),
		BaseURL: c.GetString("gemini.base_url"),
	}
}

// GetLocal returns the local server configuration
func (c *Config) GetLocal() (LocalConfig, error) {
	var models []LocalModel
	if err := c.v.UnmarshalKey("local.models", &models); err != nil {
		return LocalConfig{}, fmt.Errorf("invalid local.models: %w", err)
	}

	return LocalConfig{
		BaseURL: c.GetString("local.base_url"),
		APIKey:  c.GetString("local.api_key"),
		Models:  models,
	}, nil
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Enabled:     c.GetBool("bedrock.enabled"),
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		DisplayName: c.GetString("bedrock.display_name"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
	}
}

// GetInference returns the inference configuration
func (c *Config) GetInference() (InferenceConfig, error) {
	timeout, err := c.GetDuration("inference.timeout")
	if err != nil {
		return InferenceConfig{}, err
	}

	return InferenceConfig{
		Timeout:          timeout,
		MaxBodySize:      c.GetInt("inference.max_body_size"),
		ArenaConcurrency: c.GetInt("inference.arena_concurrency"),
	}, nil
}

// GetIntake returns the intake mailbox configuration
func (c *Config) GetIntake() (IntakeConfig, error) {
	readTimeout, err := c.GetDuration("intake.read_timeout")
	if err != nil {
		return IntakeConfig{}, err
	}
	writeTimeout, err := c.GetDuration("intake.write_timeout")
	if err != nil {
		return IntakeConfig{}, err
	}

	return IntakeConfig{
		ListenAddress:   c.GetString("intake.listen_address"),
		Domain:          c.GetString("intake.domain"),
		ModelKey:        c.GetString("intake.model"),
		MaxMessageBytes: c.GetInt("intake.max_message_bytes"),
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
	}, nil
}

// GetReport returns the report configuration
func (c *Config) GetReport() ReportConfig {
	return ReportConfig{
		OutputDir: c.GetString("report.output_dir"),
	}
}

// GetMetrics returns the metrics configuration
func (c *Config) GetMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:       c.GetBool("metrics.enabled"),
		ListenAddress: c.GetString("metrics.listen_address"),
	}
}

// GetModels returns the model registry contents: the built-in models, the
// declared local models and the Bedrock model when that provider is enabled.
func (c *Config) GetModels() ([]core.ModelDescriptor, error) {
	models := core.DefaultModels()

	local, err := c.GetLocal()
	if err != nil {
		return nil, err
	}
	for _, lm := range local.Models {
		if lm.Name == "" || lm.Model == "" {
			return nil, fmt.Errorf("local model requires name and model (got %q/%q)", lm.Name, lm.Model)
		}
		caps := make([]core.Capability, 0, len(lm.Capabilities)+1)
		caps = append(caps, core.CapabilityText)
		for _, s := range lm.Capabilities {
			c, err := core.ParseCapability(s)
			if err != nil {
				return nil, fmt.Errorf("local model %q: %w", lm.Name, err)
			}
			caps = append(caps, c)
		}
		models = append(models, core.ModelDescriptor{
			DisplayName:   lm.Name,
			Provider:      core.ProviderLocal,
			ProviderModel: lm.Model,
			Capabilities:  core.NewCapabilitySet(caps...),
		})
	}

	bedrock := c.GetBedrock()
	if bedrock.Enabled {
		models = append(models, core.ModelDescriptor{
			DisplayName:   bedrock.DisplayName,
			Provider:      core.ProviderBedrock,
			ProviderModel: bedrock.ModelID,
			Capabilities:  core.NewCapabilitySet(core.CapabilityVision, core.CapabilityReasoning),
		})
	}

	return models, nil
}
