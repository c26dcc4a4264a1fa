package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PAGEFORGE"

// LoaderConfig holds optional file overrides.
type LoaderConfig struct {
	ConfigFile string // explicit config file path
	EnvFile    string // explicit .env file path
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads configuration into a Config. It looks for pageforge.yaml in the
// working directory and ./config, loads a .env file if present, binds
// PAGEFORGE_* environment variables (PAGEFORGE_SERVER_PORT overrides
// server.port), applies defaults, and validates the result.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	if envFile := resolveEnvFile(lc.EnvFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "[config] warning: failed to load %s: %v\n", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", lc.ConfigFile, err)
		}
	} else {
		v.SetConfigName("pageforge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read pageforge.yaml: %w", err)
			}
			// No config file is fine; env and defaults carry the load.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// bindKeys registers every known key with viper so AutomaticEnv resolves
// nested keys that never appear in a config file.
func bindKeys(v *viper.Viper) {
	keys := []string{
		"server.host", "server.port", "server.read_timeout", "server.write_timeout", "server.idle_timeout",
		"logger.level", "logger.format", "logger.output", "logger.no_color", "logger.caller",
		"database.path", "database.max_open_conns", "database.log_level",
		"model.provider", "model.model", "model.api_key", "model.base_url",
		"model.temperature", "model.max_tokens",
		"pipeline.stage_timeout", "pipeline.max_attempts", "pipeline.initial_backoff",
		"tracing.enabled", "tracing.endpoint", "tracing.sample_ratio",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

func resolveEnvFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, candidate := range []string{".env", "config/.env"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
