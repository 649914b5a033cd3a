// Package event defines the host-facing telemetry event model: metric and
// log records handed to a backend, the metric type and log severity enums,
// and the standard event name constants.
package event

import "time"

// MetricType classifies a metric point.
type MetricType string

const (
	MetricGauge     MetricType = "gauge"
	MetricCounter   MetricType = "counter"
	MetricHistogram MetricType = "histogram"
	MetricSummary   MetricType = "summary"
)

// LogSeverity is the textual severity of a log record.
type LogSeverity string

const (
	SeverityTrace LogSeverity = "TRACE"
	SeverityDebug LogSeverity = "DEBUG"
	SeverityInfo  LogSeverity = "INFO"
	SeverityWarn  LogSeverity = "WARN"
	SeverityError LogSeverity = "ERROR"
	SeverityFatal LogSeverity = "FATAL"
)

// SeverityNumber maps severity text to its OTLP severity number.
// Unrecognized input maps to INFO (9). WARNING and CRITICAL are accepted
// as aliases for WARN and FATAL.
func SeverityNumber(text string) int32 {
	switch LogSeverity(text) {
	case SeverityTrace:
		return 1
	case SeverityDebug:
		return 5
	case SeverityInfo:
		return 9
	case SeverityWarn, "WARNING":
		return 13
	case SeverityError:
		return 17
	case SeverityFatal, "CRITICAL":
		return 21
	default:
		return 9
	}
}

// Metric is a single metric point submitted by the host.
type Metric struct {
	Name       string
	Value      float64
	Type       MetricType
	Unit       string
	Attributes map[string]any
	Resource   map[string]string
	// Timestamp of the measurement; zero means "now".
	Timestamp time.Time
	// Endpoint overrides the backend's configured metrics endpoint for
	// this point only. Ignored by batching backends.
	Endpoint string
}

// Log is a single log record submitted by the host.
type Log struct {
	Message    string
	Severity   LogSeverity
	Attributes map[string]any
	Resource   map[string]string
	// Timestamp of the event; zero means "now".
	Timestamp time.Time
	TraceID   string
	SpanID    string
	// Endpoint overrides the backend's configured logs endpoint for this
	// record only. Ignored by batching backends.
	Endpoint string
}

// Standard event names shared across Automagik projects.
const (
	FeatureUsed      = "automagik.feature.used"
	APIRequest       = "automagik.api.request"
	CommandExecuted  = "automagik.command.executed"
	OperationLatency = "automagik.operation.latency"
	Error            = "automagik.error"
	SessionStarted   = "automagik.session.started"
	SessionEnded     = "automagik.session.ended"
)
