package logging

import "log/slog"

// Common field names for consistent logging across the SDK.
const (
	FieldBackend  = "backend"
	FieldSignal   = "signal"
	FieldEndpoint = "endpoint"
	FieldRows     = "rows"
	FieldBytes    = "bytes"
	FieldAttempt  = "attempt"
	FieldStatus   = "status"
	FieldError    = "error"
)

// Backend returns a slog attribute for the backend name.
func Backend(name string) slog.Attr {
	return slog.String(FieldBackend, name)
}

// Signal returns a slog attribute for the signal type (trace/metric/log).
func Signal(kind string) slog.Attr {
	return slog.String(FieldSignal, kind)
}

// Endpoint returns a slog attribute for the delivery endpoint.
func Endpoint(url string) slog.Attr {
	return slog.String(FieldEndpoint, url)
}

// Rows returns a slog attribute for a batch row count.
func Rows(n int) slog.Attr {
	return slog.Int(FieldRows, n)
}

// Bytes returns a slog attribute for a payload size.
func Bytes(n int) slog.Attr {
	return slog.Int(FieldBytes, n)
}

// Attempt returns a slog attribute for a delivery attempt number.
func Attempt(n int) slog.Attr {
	return slog.Int(FieldAttempt, n)
}

// Status returns a slog attribute for an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Error returns a slog attribute for an error value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}
