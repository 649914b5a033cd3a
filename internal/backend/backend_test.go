package backend

import (
	"context"
	"testing"
	"time"

	"github.com/namastexlabs/automagik-telemetry/internal/backend/clickhouse"
	"github.com/namastexlabs/automagik-telemetry/internal/backend/opensearch"
	"github.com/namastexlabs/automagik-telemetry/internal/backend/otlphttp"
	"github.com/namastexlabs/automagik-telemetry/internal/config"
	"github.com/namastexlabs/automagik-telemetry/internal/logging"
)

func factoryConfig(name string) *config.Config {
	return &config.Config{
		Backend:          name,
		Endpoint:         "https://telemetry.namastex.ai/v1/traces",
		Timeout:          2 * time.Second,
		BatchSize:        10,
		MaxRetries:       1,
		RetryBackoffBase: 10 * time.Millisecond,
		ClickHouse: config.ClickHouseConfig{
			Endpoint: "http://localhost:8123",
			Database: "telemetry",
		},
		OpenSearch: config.OpenSearchConfig{
			URL:         "https://localhost:9200",
			IndexPrefix: "automagik-telemetry",
		},
	}
}

func TestNewSelectsBackendByName(t *testing.T) {
	log := logging.Discard()

	if _, ok := New(factoryConfig(config.BackendOTLP), log).(*otlphttp.Backend); !ok {
		t.Error("Expected otlp backend for otlp")
	}

	b := New(factoryConfig(config.BackendClickHouse), log)
	ch, ok := b.(*clickhouse.Backend)
	if !ok {
		t.Fatal("Expected clickhouse backend for clickhouse")
	}
	ch.Close(context.Background())

	if _, ok := New(factoryConfig(config.BackendOpenSearch), log).(*opensearch.Backend); !ok {
		t.Error("Expected opensearch backend for opensearch")
	}
}

func TestNewUnknownFallsBackToOTLP(t *testing.T) {
	b := New(factoryConfig("mystery"), logging.Discard())
	if _, ok := b.(*otlphttp.Backend); !ok {
		t.Fatalf("Expected otlp fallback for unknown backend, got %T", b)
	}
}
