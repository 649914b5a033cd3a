// Package otlphttp is the stateless OTLP/HTTP backend: every send call
// serializes its payload and delivers it immediately through the retry
// controller. Nothing is ever buffered, so Flush is a no-op.
package otlphttp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/namastexlabs/automagik-telemetry/internal/config"
	"github.com/namastexlabs/automagik-telemetry/internal/logging"
	"github.com/namastexlabs/automagik-telemetry/internal/transport"
	"github.com/namastexlabs/automagik-telemetry/pkg/event"
	"github.com/namastexlabs/automagik-telemetry/pkg/otlp"
)

type Backend struct {
	traces  string
	metrics string
	logs    string
	sender  *transport.Sender
	log     *logging.Logger
}

func New(cfg *config.Config, log *logging.Logger) *Backend {
	sender := transport.NewSender(transport.Options{
		Timeout:              cfg.Timeout,
		CompressionEnabled:   cfg.CompressionEnabled,
		CompressionThreshold: cfg.CompressionThreshold,
		MaxRetries:           cfg.MaxRetries,
		BackoffBase:          cfg.RetryBackoffBase,
	}, log)

	return &Backend{
		traces:  cfg.Endpoint,
		metrics: cfg.MetricsEndpoint,
		logs:    cfg.LogsEndpoint,
		sender:  sender,
		log:     log.With(logging.Backend(config.BackendOTLP)),
	}
}

// SendTrace serializes the span into a resourceSpans envelope and delivers
// it to the primary endpoint.
func (b *Backend) SendTrace(ctx context.Context, span *otlp.Span) bool {
	if span == nil {
		return false
	}
	return b.send(ctx, b.traces, otlp.NewTracesPayload(span), "trace")
}

// SendMetric converts the metric point to its OTLP shape and delivers it to
// the metrics endpoint.
func (b *Backend) SendMetric(ctx context.Context, m *event.Metric) bool {
	if m == nil || m.Name == "" {
		return false
	}

	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	point := otlp.NumberDataPoint{
		TimeUnixNano: ts.UnixNano(),
		Attributes:   attrList(m.Attributes),
	}
	if float64(int64(m.Value)) == m.Value {
		i := int64(m.Value)
		point.AsInt = &i
	} else {
		v := m.Value
		point.AsDouble = &v
	}

	metric := otlp.Metric{Name: m.Name, Unit: m.Unit}
	switch m.Type {
	case event.MetricCounter:
		metric.Sum = &otlp.Sum{
			DataPoints:             []otlp.NumberDataPoint{point},
			AggregationTemporality: otlp.AggregationTemporalityCumulative,
			IsMonotonic:            true,
		}
	case event.MetricHistogram:
		metric.Histogram = &otlp.Histogram{
			DataPoints: []otlp.HistogramDataPoint{{
				TimeUnixNano: ts.UnixNano(),
				Count:        1,
				Sum:          m.Value,
				Attributes:   attrList(m.Attributes),
			}},
			AggregationTemporality: otlp.AggregationTemporalityDelta,
		}
	default:
		metric.Gauge = &otlp.Gauge{DataPoints: []otlp.NumberDataPoint{point}}
	}

	endpoint := b.metrics
	if m.Endpoint != "" {
		endpoint = m.Endpoint
	}
	payload := otlp.NewMetricsPayload(otlp.ResourceFromMap(m.Resource), otlp.Scope{}, metric)
	return b.send(ctx, endpoint, payload, "metric")
}

// SendLog converts the log record to its OTLP shape and delivers it to the
// logs endpoint.
func (b *Backend) SendLog(ctx context.Context, l *event.Log) bool {
	if l == nil || l.Message == "" {
		return false
	}

	ts := l.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	rec := otlp.LogRecord{
		TimeUnixNano:         ts.UnixNano(),
		ObservedTimeUnixNano: time.Now().UnixNano(),
		SeverityNumber:       event.SeverityNumber(string(l.Severity)),
		SeverityText:         string(l.Severity),
		Body:                 otlp.StringVal(l.Message),
		Attributes:           attrList(l.Attributes),
		TraceID:              l.TraceID,
		SpanID:               l.SpanID,
	}

	endpoint := b.logs
	if l.Endpoint != "" {
		endpoint = l.Endpoint
	}
	payload := otlp.NewLogsPayload(otlp.ResourceFromMap(l.Resource), otlp.Scope{}, rec)
	return b.send(ctx, endpoint, payload, "log")
}

// Flush is a no-op: this backend never buffers.
func (b *Backend) Flush(_ context.Context) bool {
	return true
}

// Close is a no-op: there is no background state to stop.
func (b *Backend) Close(_ context.Context) bool {
	return true
}

func (b *Backend) send(ctx context.Context, endpoint string, payload any, signal string) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		b.log.Debug("payload serialization failed", logging.Signal(signal), logging.Error(err))
		return false
	}

	err = b.sender.Send(ctx, transport.Request{
		URL:         endpoint,
		Body:        body,
		ContentType: "application/json",
		Signal:      signal,
	})
	return err == nil
}

func attrList(attrs map[string]any) []otlp.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]otlp.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		out = append(out, otlp.Attr(k, v))
	}
	return out
}
