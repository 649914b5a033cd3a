// Package backend defines the delivery strategy interface and selects an
// implementation from configuration. All implementations honor the same
// contract: methods report success as a boolean and never panic their way
// out to the caller.
package backend

import (
	"context"

	"github.com/namastexlabs/automagik-telemetry/internal/backend/clickhouse"
	"github.com/namastexlabs/automagik-telemetry/internal/backend/opensearch"
	"github.com/namastexlabs/automagik-telemetry/internal/backend/otlphttp"
	"github.com/namastexlabs/automagik-telemetry/internal/config"
	"github.com/namastexlabs/automagik-telemetry/internal/logging"
	"github.com/namastexlabs/automagik-telemetry/pkg/event"
	"github.com/namastexlabs/automagik-telemetry/pkg/otlp"
)

// Backend delivers telemetry to a destination. Implementations may be
// direct (one request per call) or batching, in which case Flush forces
// delivery of everything buffered so far.
type Backend interface {
	SendTrace(ctx context.Context, span *otlp.Span) bool
	SendMetric(ctx context.Context, m *event.Metric) bool
	SendLog(ctx context.Context, l *event.Log) bool

	// Flush delivers any buffered data. Returns true when nothing was
	// buffered or everything was delivered.
	Flush(ctx context.Context) bool

	// Close flushes and releases background resources. The backend must
	// not be used afterwards.
	Close(ctx context.Context) bool
}

// New selects a backend by the configured name. An unrecognized name
// falls back to the OTLP backend with a warning rather than failing,
// since telemetry must never take the host application down.
func New(cfg *config.Config, log *logging.Logger) Backend {
	switch cfg.Backend {
	case config.BackendClickHouse:
		return clickhouse.New(cfg, log)
	case config.BackendOpenSearch:
		return opensearch.New(cfg, log)
	case config.BackendOTLP:
		return otlphttp.New(cfg, log)
	default:
		log.Warn("unknown backend, falling back to otlp", logging.Backend(cfg.Backend))
		return otlphttp.New(cfg, log)
	}
}
