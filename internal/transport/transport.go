// Package transport builds and sends the HTTP requests that carry telemetry
// payloads: optional gzip compression, optional basic auth, a per-request
// deadline, and classification of every outcome as success, retryable, or
// terminal. Retries are layered on top in retry.go.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/namastexlabs/automagik-telemetry/internal/logging"
	"github.com/namastexlabs/automagik-telemetry/internal/metrics"
)

// StatusError reports a non-200 response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Retryable reports whether the status indicates a transient server-side
// failure. Client errors (4xx) mean the request itself is malformed and
// retrying cannot fix it.
func (e *StatusError) Retryable() bool {
	return e.Code >= 500
}

// Request describes one delivery. Signal is a trace/metric/log label used
// only for logging and self-metrics.
type Request struct {
	URL         string
	Body        []byte
	ContentType string
	Username    string
	Password    string
	Signal      string
}

// Options configures a Sender.
type Options struct {
	Timeout              time.Duration
	CompressionEnabled   bool
	CompressionThreshold int
	MaxRetries           int
	BackoffBase          time.Duration
	// RetryClientErrors makes 4xx responses retryable as well. The OLAP
	// insert path retries every non-200 outcome; the OTLP path treats 4xx
	// as terminal.
	RetryClientErrors bool
}

// Sender delivers payloads over HTTP.
type Sender struct {
	client *http.Client
	opts   Options
	log    *logging.Logger
}

func NewSender(opts Options, log *logging.Logger) *Sender {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = time.Second
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Sender{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		log:    log,
	}
}

// prepare gzips the body when compression is enabled and the payload
// exceeds the threshold. It returns the bytes to send and the value for
// the Content-Encoding header ("" when uncompressed).
func (s *Sender) prepare(body []byte) ([]byte, string, error) {
	if !s.opts.CompressionEnabled || len(body) <= s.opts.CompressionThreshold {
		return body, "", nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, "", fmt.Errorf("compress payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("compress payload: %w", err)
	}
	return buf.Bytes(), "gzip", nil
}

// send performs a single delivery attempt with the already-prepared body.
func (s *Sender) send(ctx context.Context, req Request, body []byte, encoding string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", req.ContentType)
	if encoding != "" {
		httpReq.Header.Set("Content-Encoding", encoding)
	}
	if req.Username != "" {
		httpReq.SetBasicAuth(req.Username, req.Password)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		metrics.DeliveryAttempts.WithLabelValues(req.Signal, metrics.OutcomeRetryable).Inc()
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{Code: resp.StatusCode, Body: string(respBody)}
		outcome := metrics.OutcomeTerminal
		if statusErr.Retryable() || s.opts.RetryClientErrors {
			outcome = metrics.OutcomeRetryable
		}
		metrics.DeliveryAttempts.WithLabelValues(req.Signal, outcome).Inc()
		return statusErr
	}

	metrics.DeliveryAttempts.WithLabelValues(req.Signal, metrics.OutcomeSuccess).Inc()
	metrics.PayloadBytes.WithLabelValues(req.Signal).Add(float64(len(body)))
	return nil
}
