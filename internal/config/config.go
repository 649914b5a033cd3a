// Package config loads SDK configuration from defaults, an optional YAML
// file, and AUTOMAGIK_TELEMETRY_* environment variables, in ascending
// priority. User-supplied values from the public client config are overlaid
// on top by the telemetry package.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backend names understood by the factory.
const (
	BackendOTLP       = "otlp"
	BackendClickHouse = "clickhouse"
	BackendOpenSearch = "opensearch"
)

type Config struct {
	ProjectName    string `mapstructure:"project_name"`
	ProjectVersion string `mapstructure:"project_version"`
	Organization   string `mapstructure:"organization"`
	Environment    string `mapstructure:"environment"`

	Backend string `mapstructure:"backend"`

	Endpoint        string `mapstructure:"endpoint"`
	MetricsEndpoint string `mapstructure:"metrics_endpoint"`
	LogsEndpoint    string `mapstructure:"logs_endpoint"`

	Timeout              time.Duration `mapstructure:"timeout"`
	BatchSize            int           `mapstructure:"batch_size"`
	FlushQueueDepth      int           `mapstructure:"flush_queue_depth"`
	CompressionEnabled   bool          `mapstructure:"compression_enabled"`
	CompressionThreshold int           `mapstructure:"compression_threshold"`
	MaxRetries           int           `mapstructure:"max_retries"`
	RetryBackoffBase     time.Duration `mapstructure:"retry_backoff_base"`

	// Enabled is tri-state: nil means "auto-detect from the environment".
	Enabled *bool `mapstructure:"-"`
	Verbose bool  `mapstructure:"verbose"`

	// ResourceAttributes are merged into every event's resource context,
	// e.g. cloud.provider/cloud.region for hosts that know their placement.
	ResourceAttributes map[string]string `mapstructure:"resource_attributes"`

	ClickHouse ClickHouseConfig `mapstructure:"clickhouse"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ClickHouseConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	Database     string `mapstructure:"database"`
	TracesTable  string `mapstructure:"traces_table"`
	MetricsTable string `mapstructure:"metrics_table"`
	LogsTable    string `mapstructure:"logs_table"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
}

type OpenSearchConfig struct {
	URL           string `mapstructure:"url"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	TLSSkipVerify bool   `mapstructure:"tls_skip_verify"`
	IndexPrefix   string `mapstructure:"index_prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("organization", "namastex")
	v.SetDefault("environment", "production")
	v.SetDefault("backend", BackendOTLP)
	v.SetDefault("endpoint", "https://telemetry.namastex.ai/v1/traces")
	v.SetDefault("metrics_endpoint", "https://telemetry.namastex.ai/v1/metrics")
	v.SetDefault("logs_endpoint", "https://telemetry.namastex.ai/v1/logs")
	v.SetDefault("timeout", "5s")
	v.SetDefault("batch_size", 100)
	v.SetDefault("flush_queue_depth", 16)
	v.SetDefault("compression_enabled", true)
	v.SetDefault("compression_threshold", 1024)
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_backoff_base", "1s")
	v.SetDefault("verbose", false)
	v.SetDefault("clickhouse.endpoint", "http://localhost:8123")
	v.SetDefault("clickhouse.database", "telemetry")
	v.SetDefault("clickhouse.traces_table", "traces")
	v.SetDefault("clickhouse.metrics_table", "metrics")
	v.SetDefault("clickhouse.logs_table", "logs")
	v.SetDefault("clickhouse.username", "default")
	v.SetDefault("clickhouse.password", "")
	v.SetDefault("opensearch.url", "https://localhost:9200")
	v.SetDefault("opensearch.username", "admin")
	v.SetDefault("opensearch.tls_skip_verify", true)
	v.SetDefault("opensearch.index_prefix", "automagik-telemetry")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("telemetry")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/automagik")
	}

	// Environment variables override
	v.SetEnvPrefix("AUTOMAGIK_TELEMETRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The enabled flag is tri-state, so only adopt it when explicitly set
	// by file or environment; nil keeps the opt-in auto-detection active.
	if v.IsSet("enabled") {
		enabled := v.GetBool("enabled")
		cfg.Enabled = &enabled
	}

	return &cfg, nil
}

// Validate checks required fields and value ranges. Called after the public
// client config has been overlaid, so project name and version must be set.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ProjectName) == "" {
		return fmt.Errorf("project_name is required and cannot be empty")
	}
	if strings.TrimSpace(c.ProjectVersion) == "" {
		return fmt.Errorf("project_version is required and cannot be empty")
	}
	for _, endpoint := range []string{c.Endpoint, c.MetricsEndpoint, c.LogsEndpoint} {
		if endpoint == "" {
			continue
		}
		u, err := url.Parse(endpoint)
		if err != nil || u.Host == "" {
			return fmt.Errorf("endpoint must be a valid URL (got: %s)", endpoint)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("endpoint must use http or https protocol (got: %s)", endpoint)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive (got: %s)", c.Timeout)
	}
	if c.Timeout > 60*time.Second {
		return fmt.Errorf("timeout should not exceed 60 seconds (got: %s)", c.Timeout)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive (got: %d)", c.BatchSize)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1 (got: %d)", c.MaxRetries)
	}
	return nil
}
