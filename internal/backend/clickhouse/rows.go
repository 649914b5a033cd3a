package clickhouse

// Row types are the flat, typed projections of wire events into the
// ClickHouse schema. Typed top-level columns are derived once at transform
// time; everything else lands in the string-valued attributes map.

// TraceRow matches the traces table schema.
type TraceRow struct {
	TraceID                string            `json:"trace_id"`
	SpanID                 string            `json:"span_id"`
	ParentSpanID           string            `json:"parent_span_id"`
	Timestamp              string            `json:"timestamp"`
	TimestampNs            int64             `json:"timestamp_ns"`
	DurationMs             int64             `json:"duration_ms"`
	ServiceName            string            `json:"service_name"`
	SpanName               string            `json:"span_name"`
	SpanKind               string            `json:"span_kind"`
	StatusCode             string            `json:"status_code"`
	StatusMessage          string            `json:"status_message"`
	ProjectName            string            `json:"project_name"`
	ProjectVersion         string            `json:"project_version"`
	Environment            string            `json:"environment"`
	Hostname               string            `json:"hostname"`
	Attributes             map[string]string `json:"attributes"`
	UserID                 string            `json:"user_id"`
	SessionID              string            `json:"session_id"`
	OSType                 string            `json:"os_type"`
	OSVersion              string            `json:"os_version"`
	RuntimeName            string            `json:"runtime_name"`
	RuntimeVersion         string            `json:"runtime_version"`
	CloudProvider          string            `json:"cloud_provider"`
	CloudRegion            string            `json:"cloud_region"`
	CloudZone              string            `json:"cloud_zone"`
	InstrumentationName    string            `json:"instrumentation_name"`
	InstrumentationVersion string            `json:"instrumentation_version"`
}

// MetricRow matches the metrics table schema. Either ValueInt or ValueFloat
// carries the measurement, decided by whether the input was a whole number.
type MetricRow struct {
	MetricID       string            `json:"metric_id"`
	Timestamp      string            `json:"timestamp"`
	TimestampNs    int64             `json:"timestamp_ns"`
	MetricName     string            `json:"metric_name"`
	MetricType     string            `json:"metric_type"`
	MetricUnit     string            `json:"metric_unit"`
	ValueInt       int64             `json:"value_int"`
	ValueFloat     float64           `json:"value_float"`
	IsMonotonic    uint8             `json:"is_monotonic"`
	BucketCounts   []uint64          `json:"bucket_counts"`
	ExplicitBounds []float64         `json:"explicit_bounds"`
	QuantileValues []float64         `json:"quantile_values"`
	ServiceName    string            `json:"service_name"`
	ProjectName    string            `json:"project_name"`
	ProjectVersion string            `json:"project_version"`
	Environment    string            `json:"environment"`
	Hostname       string            `json:"hostname"`
	Attributes     map[string]string `json:"attributes"`
}

// LogRow matches the logs table schema.
type LogRow struct {
	Timestamp           string            `json:"timestamp"`
	TimestampNs         int64             `json:"timestamp_ns"`
	ObservedTimestamp   string            `json:"observed_timestamp"`
	ObservedTimestampNs int64             `json:"observed_timestamp_ns"`
	TraceID             string            `json:"trace_id"`
	SpanID              string            `json:"span_id"`
	SeverityText        string            `json:"severity_text"`
	SeverityNumber      int32             `json:"severity_number"`
	Body                string            `json:"body"`
	BodyType            string            `json:"body_type"`
	ServiceName         string            `json:"service_name"`
	ProjectName         string            `json:"project_name"`
	ProjectVersion      string            `json:"project_version"`
	Environment         string            `json:"environment"`
	Hostname            string            `json:"hostname"`
	Attributes          map[string]string `json:"attributes"`
	ExceptionType       string            `json:"exception_type"`
	ExceptionMessage    string            `json:"exception_message"`
	ExceptionStacktrace string            `json:"exception_stacktrace"`
	IsException         uint8             `json:"is_exception"`
}
