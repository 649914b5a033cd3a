// Package opensearch indexes telemetry as flattened documents through the
// OpenSearch bulk API. Each signal type gets its own index under the
// configured prefix and buffering is delegated to the bulk indexer.
package opensearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchutil"

	"github.com/namastexlabs/automagik-telemetry/internal/config"
	"github.com/namastexlabs/automagik-telemetry/internal/logging"
	"github.com/namastexlabs/automagik-telemetry/internal/metrics"
	"github.com/namastexlabs/automagik-telemetry/pkg/event"
	"github.com/namastexlabs/automagik-telemetry/pkg/otlp"
)

type Backend struct {
	client *opensearch.Client
	prefix string
	log    *logging.Logger

	mu       sync.Mutex
	indexers map[string]opensearchutil.BulkIndexer
	failed   atomic.Int64
}

func New(cfg *config.Config, log *logging.Logger) *Backend {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.OpenSearch.TLSSkipVerify,
		},
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{cfg.OpenSearch.URL},
		Username:  cfg.OpenSearch.Username,
		Password:  cfg.OpenSearch.Password,
		Transport: transport,
	})
	if err != nil {
		// The client constructor only fails on malformed addresses. The
		// backend still satisfies the never-fail contract: every send
		// reports false.
		log.Warn("opensearch client setup failed", logging.Error(err))
	}

	return &Backend{
		client:   client,
		prefix:   cfg.OpenSearch.IndexPrefix,
		log:      log.With(logging.Backend(config.BackendOpenSearch)),
		indexers: make(map[string]opensearchutil.BulkIndexer),
	}
}

func (b *Backend) SendTrace(ctx context.Context, span *otlp.Span) bool {
	if span == nil {
		return false
	}
	doc := map[string]any{
		"@timestamp":      nanosToTime(span.StartTimeUnixNano),
		"trace_id":        span.TraceID,
		"span_id":         span.SpanID,
		"parent_span_id":  span.ParentSpanID,
		"span_name":       span.Name,
		"span_kind":       span.Kind,
		"duration_ns":     durationNs(span),
		"status_code":     span.Status.Code,
		"status_message":  span.Status.Message,
		"attributes":      span.AttributeMap(),
	}
	if span.Resource != nil {
		doc["resource"] = span.Resource.AttributeMap()
	}
	metrics.RowsEnqueued.WithLabelValues("trace").Inc()
	return b.index(ctx, "trace", doc)
}

func (b *Backend) SendMetric(ctx context.Context, m *event.Metric) bool {
	if m == nil || m.Name == "" {
		return false
	}
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	doc := map[string]any{
		"@timestamp":  ts,
		"metric_name": m.Name,
		"metric_type": string(m.Type),
		"unit":        m.Unit,
		"value":       m.Value,
		"attributes":  m.Attributes,
		"resource":    m.Resource,
	}
	metrics.RowsEnqueued.WithLabelValues("metric").Inc()
	return b.index(ctx, "metric", doc)
}

func (b *Backend) SendLog(ctx context.Context, l *event.Log) bool {
	if l == nil || l.Message == "" {
		return false
	}
	ts := l.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	severity := string(l.Severity)
	if severity == "" {
		severity = string(event.SeverityInfo)
	}
	doc := map[string]any{
		"@timestamp":      ts,
		"message":         l.Message,
		"severity_text":   severity,
		"severity_number": event.SeverityNumber(severity),
		"trace_id":        l.TraceID,
		"span_id":         l.SpanID,
		"attributes":      l.Attributes,
		"resource":        l.Resource,
	}
	metrics.RowsEnqueued.WithLabelValues("log").Inc()
	return b.index(ctx, "log", doc)
}

// Flush closes the active bulk indexers, forcing out buffered documents.
// Returns true when no document failed since the previous flush.
func (b *Backend) Flush(ctx context.Context) bool {
	before := b.failed.Load()

	b.mu.Lock()
	active := b.indexers
	b.indexers = make(map[string]opensearchutil.BulkIndexer)
	b.mu.Unlock()

	ok := true
	for signal, bi := range active {
		if err := bi.Close(ctx); err != nil {
			b.log.Warn("bulk indexer close failed", logging.Signal(signal), logging.Error(err))
			ok = false
		}
	}
	return ok && b.failed.Load() == before
}

func (b *Backend) Close(ctx context.Context) bool {
	return b.Flush(ctx)
}

func (b *Backend) index(ctx context.Context, signal string, doc map[string]any) bool {
	if b.client == nil {
		return false
	}
	bi, err := b.indexer(signal)
	if err != nil {
		b.log.Warn("bulk indexer setup failed", logging.Signal(signal), logging.Error(err))
		return false
	}

	data, err := json.Marshal(doc)
	if err != nil {
		b.log.Debug("document serialization failed", logging.Signal(signal), logging.Error(err))
		return false
	}

	err = bi.Add(ctx, opensearchutil.BulkIndexerItem{
		Action: "index",
		Body:   bytes.NewReader(data),
		OnFailure: func(_ context.Context, _ opensearchutil.BulkIndexerItem, res opensearchutil.BulkIndexerResponseItem, err error) {
			b.failed.Add(1)
			metrics.RowsDropped.WithLabelValues(signal, metrics.ReasonRetriesExhausted).Inc()
			if err != nil {
				b.log.Warn("bulk index failed", logging.Signal(signal), logging.Error(err))
			} else {
				b.log.Warn("bulk index rejected",
					logging.Signal(signal),
					"error_type", res.Error.Type,
					"error_reason", res.Error.Reason,
				)
			}
		},
	})
	if err != nil {
		b.log.Warn("bulk add failed", logging.Signal(signal), logging.Error(err))
		return false
	}
	return true
}

// indexer returns the bulk indexer for a signal type, creating it on first
// use. Indexers are recreated after every Flush since Close is terminal.
func (b *Backend) indexer(signal string) (opensearchutil.BulkIndexer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if bi, ok := b.indexers[signal]; ok {
		return bi, nil
	}
	bi, err := opensearchutil.NewBulkIndexer(opensearchutil.BulkIndexerConfig{
		Client:     b.client,
		Index:      fmt.Sprintf("%s-%ss", b.prefix, signal),
		NumWorkers: 1,
	})
	if err != nil {
		return nil, err
	}
	b.indexers[signal] = bi
	return bi, nil
}

func durationNs(span *otlp.Span) int64 {
	if span.EndTimeUnixNano > span.StartTimeUnixNano {
		return span.EndTimeUnixNano - span.StartTimeUnixNano
	}
	return 0
}

func nanosToTime(ns int64) time.Time {
	if ns <= 0 {
		return time.Now().UTC()
	}
	return time.Unix(0, ns).UTC()
}
