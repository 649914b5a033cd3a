package clickhouse

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/namastexlabs/automagik-telemetry/pkg/event"
	"github.com/namastexlabs/automagik-telemetry/pkg/otlp"
)

const timestampLayout = "2006-01-02 15:04:05"

// traceRow flattens an OTLP span and its resource context into a TraceRow.
func traceRow(span *otlp.Span) TraceRow {
	tsNs := span.StartTimeUnixNano
	if tsNs <= 0 {
		tsNs = time.Now().UnixNano()
	}

	var durationMs int64
	if span.EndTimeUnixNano > span.StartTimeUnixNano {
		durationMs = (span.EndTimeUnixNano - span.StartTimeUnixNano) / 1_000_000
	}

	statusCode := "OK"
	if span.Status.Code != otlp.StatusCodeOK && span.Status.Message != "" {
		statusCode = span.Status.Message
	}

	attrs := span.AttributeMap()
	res := span.Resource.AttributeMap()

	name := span.Name
	if name == "" {
		name = "unknown"
	}
	kind := span.Kind
	if kind == "" {
		kind = otlp.SpanKindInternal
	}

	instName := res["telemetry.sdk.name"]
	instVersion := res["telemetry.sdk.version"]
	if span.Scope != nil && span.Scope.Name != "" {
		instName = span.Scope.Name
		instVersion = span.Scope.Version
	}

	return TraceRow{
		TraceID:                span.TraceID,
		SpanID:                 span.SpanID,
		ParentSpanID:           span.ParentSpanID,
		Timestamp:              time.Unix(0, tsNs).UTC().Format(timestampLayout),
		TimestampNs:            tsNs,
		DurationMs:             durationMs,
		ServiceName:            orDefault(res["service.name"], "unknown"),
		SpanName:               name,
		SpanKind:               kind,
		StatusCode:             statusCode,
		StatusMessage:          span.Status.Message,
		ProjectName:            res["project.name"],
		ProjectVersion:         res["project.version"],
		Environment:            orDefault(res["deployment.environment"], "production"),
		Hostname:               res["host.name"],
		Attributes:             attrs,
		UserID:                 attrs["user.id"],
		SessionID:              attrs["session.id"],
		OSType:                 res["os.type"],
		OSVersion:              res["os.version"],
		RuntimeName:            res["process.runtime.name"],
		RuntimeVersion:         res["process.runtime.version"],
		CloudProvider:          res["cloud.provider"],
		CloudRegion:            res["cloud.region"],
		CloudZone:              res["cloud.availability_zone"],
		InstrumentationName:    instName,
		InstrumentationVersion: instVersion,
	}
}

// metricRow flattens a metric point into a MetricRow. The second return
// value reports whether the metric type was recognized; the caller logs a
// warning for unknown types, which fall back to GAUGE.
func metricRow(m *event.Metric) (MetricRow, bool) {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	metricType := "GAUGE"
	monotonic := uint8(0)
	known := true
	switch m.Type {
	case event.MetricGauge:
	case event.MetricCounter:
		// COUNTER is stored as SUM for schema compatibility.
		metricType = "SUM"
		monotonic = 1
	case event.MetricHistogram:
		metricType = "HISTOGRAM"
	case event.MetricSummary:
		metricType = "SUMMARY"
	default:
		known = false
	}

	row := MetricRow{
		MetricID:       uuid.NewString(),
		Timestamp:      ts.UTC().Format(timestampLayout),
		TimestampNs:    ts.UnixNano(),
		MetricName:     m.Name,
		MetricType:     metricType,
		MetricUnit:     m.Unit,
		IsMonotonic:    monotonic,
		BucketCounts:   uintSlice(m.Attributes["bucket_counts"]),
		ExplicitBounds: floatSlice(m.Attributes["explicit_bounds"]),
		QuantileValues: floatSlice(m.Attributes["quantile_values"]),
		ServiceName:    orDefault(m.Resource["service.name"], "unknown"),
		ProjectName:    m.Resource["project.name"],
		ProjectVersion: m.Resource["project.version"],
		Environment:    orDefault(m.Resource["deployment.environment"], "production"),
		Hostname:       m.Resource["host.name"],
		Attributes:     stringifyAttrs(m.Attributes),
	}

	if float64(int64(m.Value)) == m.Value {
		row.ValueInt = int64(m.Value)
	} else {
		row.ValueFloat = m.Value
	}

	return row, known
}

// logRow flattens a log record into a LogRow. now is the ingestion time,
// recorded as the observed timestamp.
func logRow(l *event.Log) LogRow {
	now := time.Now()
	ts := l.Timestamp
	if ts.IsZero() {
		ts = now
	}

	severityText := string(l.Severity)
	if severityText == "" {
		severityText = string(event.SeverityInfo)
	}

	bodyType := "STRING"
	if json.Valid([]byte(l.Message)) {
		bodyType = "JSON"
	}

	attrs := stringifyAttrs(l.Attributes)
	excType := attrs["exception.type"]
	isException := uint8(0)
	if excType != "" {
		isException = 1
	}

	return LogRow{
		Timestamp:           ts.UTC().Format(timestampLayout),
		TimestampNs:         ts.UnixNano(),
		ObservedTimestamp:   now.UTC().Format(timestampLayout),
		ObservedTimestampNs: now.UnixNano(),
		TraceID:             l.TraceID,
		SpanID:              l.SpanID,
		SeverityText:        severityText,
		SeverityNumber:      event.SeverityNumber(strings.ToUpper(severityText)),
		Body:                l.Message,
		BodyType:            bodyType,
		ServiceName:         orDefault(l.Resource["service.name"], "unknown"),
		ProjectName:         l.Resource["project.name"],
		ProjectVersion:      l.Resource["project.version"],
		Environment:         orDefault(l.Resource["deployment.environment"], "production"),
		Hostname:            l.Resource["host.name"],
		Attributes:          attrs,
		ExceptionType:       excType,
		ExceptionMessage:    attrs["exception.message"],
		ExceptionStacktrace: attrs["exception.stacktrace"],
		IsException:         isException,
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// stringifyAttrs coerces every attribute value to its string form.
func stringifyAttrs(attrs map[string]any) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		switch val := v.(type) {
		case string:
			out[k] = val
		case bool:
			out[k] = strconv.FormatBool(val)
		case int:
			out[k] = strconv.Itoa(val)
		case int64:
			out[k] = strconv.FormatInt(val, 10)
		case float64:
			out[k] = strconv.FormatFloat(val, 'g', -1, 64)
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}

// uintSlice reads histogram bucket counts from an attribute value: either a
// typed slice, a []any of numbers, or a JSON-encoded array string. Anything
// else yields nil.
func uintSlice(v any) []uint64 {
	switch val := v.(type) {
	case nil:
		return nil
	case []uint64:
		return val
	case []any:
		out := make([]uint64, 0, len(val))
		for _, item := range val {
			f, ok := toFloat(item)
			if !ok || f < 0 {
				return nil
			}
			out = append(out, uint64(f))
		}
		return out
	case string:
		var out []uint64
		if err := json.Unmarshal([]byte(val), &out); err != nil {
			return nil
		}
		return out
	}
	return nil
}

// floatSlice reads histogram bounds or summary quantiles the same way.
func floatSlice(v any) []float64 {
	switch val := v.(type) {
	case nil:
		return nil
	case []float64:
		return val
	case []any:
		out := make([]float64, 0, len(val))
		for _, item := range val {
			f, ok := toFloat(item)
			if !ok {
				return nil
			}
			out = append(out, f)
		}
		return out
	case string:
		var out []float64
		if err := json.Unmarshal([]byte(val), &out); err != nil {
			return nil
		}
		return out
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	}
	return 0, false
}
