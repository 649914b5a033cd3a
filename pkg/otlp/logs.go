package otlp

// LogRecord is a single log entry.
type LogRecord struct {
	TimeUnixNano         int64      `json:"timeUnixNano"`
	ObservedTimeUnixNano int64      `json:"observedTimeUnixNano,omitempty"`
	SeverityNumber       int32      `json:"severityNumber,omitempty"`
	SeverityText         string     `json:"severityText,omitempty"`
	Body                 AnyValue   `json:"body"`
	Attributes           []KeyValue `json:"attributes,omitempty"`
	TraceID              string     `json:"traceId,omitempty"`
	SpanID               string     `json:"spanId,omitempty"`
}

// ScopeLogs groups log records by instrumentation scope.
type ScopeLogs struct {
	Scope      Scope       `json:"scope"`
	LogRecords []LogRecord `json:"logRecords"`
}

// ResourceLogs groups scope logs under one resource.
type ResourceLogs struct {
	Resource  Resource    `json:"resource"`
	ScopeLogs []ScopeLogs `json:"scopeLogs"`
}

// LogsPayload is the body of an OTLP/HTTP logs request.
type LogsPayload struct {
	ResourceLogs []ResourceLogs `json:"resourceLogs"`
}

// NewLogsPayload wraps a single log record in the full envelope.
func NewLogsPayload(res Resource, scope Scope, rec LogRecord) LogsPayload {
	return LogsPayload{
		ResourceLogs: []ResourceLogs{{
			Resource: res,
			ScopeLogs: []ScopeLogs{{
				Scope:      scope,
				LogRecords: []LogRecord{rec},
			}},
		}},
	}
}
