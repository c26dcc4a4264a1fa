// Package config loads pageforge configuration from pageforge.yaml, .env
// files, and PAGEFORGE_* environment variables, in that order of precedence
// (environment wins).
package config

import (
	"fmt"
	"time"

	"github.com/kbukum/pageforge/logger"
)

// Config is the root configuration for the pageforge service.
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Logger   logger.Config  `yaml:"logger" mapstructure:"logger"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Model    ModelConfig    `yaml:"model" mapstructure:"model"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Tracing  TracingConfig  `yaml:"tracing" mapstructure:"tracing"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host         string `yaml:"host" mapstructure:"host"`
	Port         int    `yaml:"port" mapstructure:"port"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout" mapstructure:"idle_timeout"`   // seconds
}

// DatabaseConfig configures the run document store.
type DatabaseConfig struct {
	// Path is the SQLite database file. ":memory:" opens an in-memory store.
	Path string `yaml:"path" mapstructure:"path"`
	// MaxOpenConns bounds the connection pool.
	MaxOpenConns int `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	// LogLevel controls gorm statement logging: silent, error, warn, info.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// ModelConfig configures the generative-model collaborator.
type ModelConfig struct {
	// Provider selects the client implementation: "openai" or "mock".
	Provider string `yaml:"provider" mapstructure:"provider"`
	// Model is the model identifier sent with each completion request.
	Model string `yaml:"model" mapstructure:"model"`
	// APIKey authenticates against the provider.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways).
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Temperature controls generation randomness.
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	// MaxTokens caps completion length. Zero uses the provider default.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PipelineConfig configures stage execution.
type PipelineConfig struct {
	// StageTimeout bounds a single stage, model call included.
	StageTimeout time.Duration `yaml:"stage_timeout" mapstructure:"stage_timeout"`
	// MaxAttempts is the attempt cap per stage, first attempt included.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
}

// TracingConfig configures OpenTelemetry trace export.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// SampleRatio in [0,1]; 1 traces every run.
	SampleRatio float64 `yaml:"sample_ratio" mapstructure:"sample_ratio"`
}

// ApplyDefaults applies default values to the full configuration tree.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 120
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120
	}
	c.Logger.ApplyDefaults()
	if c.Database.Path == "" {
		c.Database.Path = "pageforge.db"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 1
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = "warn"
	}
	if c.Model.Provider == "" {
		c.Model.Provider = "openai"
	}
	if c.Model.Temperature == 0 {
		c.Model.Temperature = 0.7
	}
	if c.Pipeline.StageTimeout == 0 {
		c.Pipeline.StageTimeout = 45 * time.Second
	}
	if c.Pipeline.MaxAttempts == 0 {
		c.Pipeline.MaxAttempts = 2
	}
	if c.Pipeline.InitialBackoff == 0 {
		c.Pipeline.InitialBackoff = 500 * time.Millisecond
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}
}

// Validate validates the configuration tree.
func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535] (got: %d)", c.Server.Port)
	}
	switch c.Model.Provider {
	case "openai", "mock":
	default:
		return fmt.Errorf("model.provider must be one of [openai, mock] (got: %s)", c.Model.Provider)
	}
	if c.Model.Provider == "openai" && c.Model.APIKey == "" {
		return fmt.Errorf("model.api_key is required for provider openai")
	}
	if c.Model.Provider == "openai" && c.Model.Model == "" {
		return fmt.Errorf("model.model is required for provider openai")
	}
	if c.Pipeline.MaxAttempts < 1 || c.Pipeline.MaxAttempts > 3 {
		return fmt.Errorf("pipeline.max_attempts must be in [1,3] (got: %d)", c.Pipeline.MaxAttempts)
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}
	return nil
}
