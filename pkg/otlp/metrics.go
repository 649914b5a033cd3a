package otlp

// Aggregation temporality values.
const (
	AggregationTemporalityDelta      = 1
	AggregationTemporalityCumulative = 2
)

// NumberDataPoint is a single gauge or sum sample. Exactly one of AsInt or
// AsDouble is set.
type NumberDataPoint struct {
	TimeUnixNano int64      `json:"timeUnixNano"`
	AsInt        *int64     `json:"asInt,omitempty"`
	AsDouble     *float64   `json:"asDouble,omitempty"`
	Attributes   []KeyValue `json:"attributes,omitempty"`
}

// Gauge holds instantaneous measurements.
type Gauge struct {
	DataPoints []NumberDataPoint `json:"dataPoints"`
}

// Sum holds cumulative or delta measurements.
type Sum struct {
	DataPoints             []NumberDataPoint `json:"dataPoints"`
	AggregationTemporality int               `json:"aggregationTemporality"`
	IsMonotonic            bool              `json:"isMonotonic"`
}

// HistogramDataPoint is a single distribution sample.
type HistogramDataPoint struct {
	TimeUnixNano   int64      `json:"timeUnixNano"`
	Count          uint64     `json:"count"`
	Sum            float64    `json:"sum"`
	BucketCounts   []uint64   `json:"bucketCounts,omitempty"`
	ExplicitBounds []float64  `json:"explicitBounds,omitempty"`
	Attributes     []KeyValue `json:"attributes,omitempty"`
}

// Histogram holds bucketed distribution measurements.
type Histogram struct {
	DataPoints             []HistogramDataPoint `json:"dataPoints"`
	AggregationTemporality int                  `json:"aggregationTemporality"`
}

// Metric is one named series with exactly one data kind populated.
type Metric struct {
	Name      string     `json:"name"`
	Unit      string     `json:"unit,omitempty"`
	Gauge     *Gauge     `json:"gauge,omitempty"`
	Sum       *Sum       `json:"sum,omitempty"`
	Histogram *Histogram `json:"histogram,omitempty"`
}

// ScopeMetrics groups metrics by instrumentation scope.
type ScopeMetrics struct {
	Scope   Scope    `json:"scope"`
	Metrics []Metric `json:"metrics"`
}

// ResourceMetrics groups scope metrics under one resource.
type ResourceMetrics struct {
	Resource     Resource       `json:"resource"`
	ScopeMetrics []ScopeMetrics `json:"scopeMetrics"`
}

// MetricsPayload is the body of an OTLP/HTTP metrics request.
type MetricsPayload struct {
	ResourceMetrics []ResourceMetrics `json:"resourceMetrics"`
}

// NewMetricsPayload wraps a single metric in the full envelope.
func NewMetricsPayload(res Resource, scope Scope, m Metric) MetricsPayload {
	return MetricsPayload{
		ResourceMetrics: []ResourceMetrics{{
			Resource: res,
			ScopeMetrics: []ScopeMetrics{{
				Scope:   scope,
				Metrics: []Metric{m},
			}},
		}},
	}
}
