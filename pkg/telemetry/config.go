package telemetry

import (
	"time"

	"github.com/namastexlabs/automagik-telemetry/internal/config"
)

// Config is the public client configuration. Only ProjectName and
// ProjectVersion are required; everything else falls back to the value
// from the configuration file, the AUTOMAGIK_TELEMETRY_* environment, or
// the built-in default, in that order below an explicit field here.
type Config struct {
	ProjectName    string
	ProjectVersion string
	Organization   string
	Environment    string

	// Backend selects the delivery strategy: "otlp" (default),
	// "clickhouse", or "opensearch".
	Backend string

	Endpoint        string
	MetricsEndpoint string
	LogsEndpoint    string

	Timeout    time.Duration
	BatchSize  int
	MaxRetries int

	// CompressionEnabled is tri-state: nil keeps the default (on).
	CompressionEnabled   *bool
	CompressionThreshold int

	// Enabled forces telemetry on or off. When nil, the client detects
	// consent from the environment (see resolveEnabled).
	Enabled *bool
	Verbose bool

	// ConfigFile points at an explicit YAML file; empty means the default
	// search path (./telemetry.yaml, /etc/automagik/telemetry.yaml).
	ConfigFile string

	// ResourceAttributes are merged into every event's resource context.
	ResourceAttributes map[string]string
}

// resolve loads the layered configuration and overlays the caller's
// explicit fields on top.
func (c Config) resolve() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		return nil, err
	}

	cfg.ProjectName = c.ProjectName
	cfg.ProjectVersion = c.ProjectVersion
	if c.Organization != "" {
		cfg.Organization = c.Organization
	}
	if c.Environment != "" {
		cfg.Environment = c.Environment
	}
	if c.Backend != "" {
		cfg.Backend = c.Backend
	}
	if c.Endpoint != "" {
		cfg.Endpoint = c.Endpoint
	}
	if c.MetricsEndpoint != "" {
		cfg.MetricsEndpoint = c.MetricsEndpoint
	}
	if c.LogsEndpoint != "" {
		cfg.LogsEndpoint = c.LogsEndpoint
	}
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	if c.BatchSize > 0 {
		cfg.BatchSize = c.BatchSize
	}
	if c.MaxRetries > 0 {
		cfg.MaxRetries = c.MaxRetries
	}
	if c.CompressionEnabled != nil {
		cfg.CompressionEnabled = *c.CompressionEnabled
	}
	if c.CompressionThreshold > 0 {
		cfg.CompressionThreshold = c.CompressionThreshold
	}
	if c.Enabled != nil {
		cfg.Enabled = c.Enabled
	}
	if c.Verbose {
		cfg.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if len(c.ResourceAttributes) > 0 {
		if cfg.ResourceAttributes == nil {
			cfg.ResourceAttributes = make(map[string]string, len(c.ResourceAttributes))
		}
		for k, v := range c.ResourceAttributes {
			cfg.ResourceAttributes[k] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Bool is a convenience for the tri-state pointer fields.
func Bool(v bool) *bool {
	return &v
}
