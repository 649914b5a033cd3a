// Package otlp defines the OTLP/JSON wire shapes shared by every backend:
// tagged attribute values, spans, metric points, and log records, plus the
// resourceSpans/resourceMetrics/resourceLogs envelopes sent over HTTP.
package otlp

import (
	"fmt"
	"strconv"
)

func stringify(v any) string { return fmt.Sprintf("%v", v) }

// Span kind names as they appear on the wire.
const (
	SpanKindInternal = "SPAN_KIND_INTERNAL"
	SpanKindServer   = "SPAN_KIND_SERVER"
	SpanKindClient   = "SPAN_KIND_CLIENT"
)

// StatusCodeOK is the OTLP status code for a successful span.
const StatusCodeOK = 1

// AnyValue is a tagged union: exactly one of the four variants is set.
// Use the constructors below rather than populating fields directly.
type AnyValue struct {
	StringValue *string  `json:"stringValue,omitempty"`
	IntValue    *int64   `json:"intValue,omitempty"`
	DoubleValue *float64 `json:"doubleValue,omitempty"`
	BoolValue   *bool    `json:"boolValue,omitempty"`
}

// StringVal returns an AnyValue holding a string.
func StringVal(s string) AnyValue { return AnyValue{StringValue: &s} }

// IntVal returns an AnyValue holding an integer.
func IntVal(i int64) AnyValue { return AnyValue{IntValue: &i} }

// DoubleVal returns an AnyValue holding a float.
func DoubleVal(f float64) AnyValue { return AnyValue{DoubleValue: &f} }

// BoolVal returns an AnyValue holding a bool.
func BoolVal(b bool) AnyValue { return AnyValue{BoolValue: &b} }

// AsString coerces the populated variant to its string form. An empty
// (malformed) value coerces to "".
func (v AnyValue) AsString() string {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.IntValue != nil:
		return strconv.FormatInt(*v.IntValue, 10)
	case v.DoubleValue != nil:
		return strconv.FormatFloat(*v.DoubleValue, 'g', -1, 64)
	case v.BoolValue != nil:
		return strconv.FormatBool(*v.BoolValue)
	}
	return ""
}

// IsZero reports whether no variant is populated.
func (v AnyValue) IsZero() bool {
	return v.StringValue == nil && v.IntValue == nil && v.DoubleValue == nil && v.BoolValue == nil
}

// KeyValue is a single OTLP attribute.
type KeyValue struct {
	Key   string   `json:"key"`
	Value AnyValue `json:"value"`
}

// Attr builds a KeyValue from a Go value, coercing unsupported types to
// their string form.
func Attr(key string, value any) KeyValue {
	switch v := value.(type) {
	case string:
		return KeyValue{Key: key, Value: StringVal(v)}
	case bool:
		return KeyValue{Key: key, Value: BoolVal(v)}
	case int:
		return KeyValue{Key: key, Value: IntVal(int64(v))}
	case int32:
		return KeyValue{Key: key, Value: IntVal(int64(v))}
	case int64:
		return KeyValue{Key: key, Value: IntVal(v)}
	case float32:
		return KeyValue{Key: key, Value: DoubleVal(float64(v))}
	case float64:
		return KeyValue{Key: key, Value: DoubleVal(v)}
	default:
		return KeyValue{Key: key, Value: StringVal(stringify(v))}
	}
}

// Resource describes the emitting process/service.
type Resource struct {
	Attributes []KeyValue `json:"attributes"`
}

// ResourceFromMap builds a Resource from flat string attributes.
func ResourceFromMap(attrs map[string]string) Resource {
	r := Resource{Attributes: make([]KeyValue, 0, len(attrs))}
	for k, v := range attrs {
		r.Attributes = append(r.Attributes, KeyValue{Key: k, Value: StringVal(v)})
	}
	return r
}

// AttributeMap flattens the resource attributes into a string map.
func (r *Resource) AttributeMap() map[string]string {
	if r == nil {
		return nil
	}
	m := make(map[string]string, len(r.Attributes))
	for _, kv := range r.Attributes {
		m[kv.Key] = kv.Value.AsString()
	}
	return m
}

// Scope identifies the instrumentation that produced a signal.
type Scope struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Status is the completion status of a span.
type Status struct {
	Code    int32  `json:"code"`
	Message string `json:"message,omitempty"`
}

// Span is a single timed operation record. Resource carries the emitting
// service context alongside the span for backends that flatten both into
// one row; it is lifted into the envelope when building a TracesPayload
// and never serialized inline.
type Span struct {
	TraceID           string     `json:"traceId"`
	SpanID            string     `json:"spanId"`
	ParentSpanID      string     `json:"parentSpanId,omitempty"`
	Name              string     `json:"name"`
	Kind              string     `json:"kind,omitempty"`
	StartTimeUnixNano int64      `json:"startTimeUnixNano,omitempty"`
	EndTimeUnixNano   int64      `json:"endTimeUnixNano,omitempty"`
	Attributes        []KeyValue `json:"attributes,omitempty"`
	Status            Status     `json:"status"`

	Resource *Resource `json:"-"`
	Scope    *Scope    `json:"-"`
}

// AttributeMap flattens the span attributes into a string map, coercing
// every typed value to its string form.
func (s *Span) AttributeMap() map[string]string {
	m := make(map[string]string, len(s.Attributes))
	for _, kv := range s.Attributes {
		m[kv.Key] = kv.Value.AsString()
	}
	return m
}

// ScopeSpans groups spans by instrumentation scope.
type ScopeSpans struct {
	Scope Scope  `json:"scope"`
	Spans []Span `json:"spans"`
}

// ResourceSpans groups scope spans under one resource.
type ResourceSpans struct {
	Resource   Resource     `json:"resource"`
	ScopeSpans []ScopeSpans `json:"scopeSpans"`
}

// TracesPayload is the body of an OTLP/HTTP traces request.
type TracesPayload struct {
	ResourceSpans []ResourceSpans `json:"resourceSpans"`
}

// NewTracesPayload wraps a single span in the full envelope, lifting its
// resource and scope out of the span.
func NewTracesPayload(span *Span) TracesPayload {
	var res Resource
	if span.Resource != nil {
		res = *span.Resource
	}
	var scope Scope
	if span.Scope != nil {
		scope = *span.Scope
	}
	return TracesPayload{
		ResourceSpans: []ResourceSpans{{
			Resource: res,
			ScopeSpans: []ScopeSpans{{
				Scope: scope,
				Spans: []Span{*span},
			}},
		}},
	}
}
