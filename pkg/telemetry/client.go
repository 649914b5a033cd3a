// Package telemetry is the embeddable opt-in telemetry client. A Client
// accepts events from the host application and hands them to the
// configured delivery backend. Every tracking call returns a boolean and
// never panics: telemetry is strictly best-effort and must not take the
// host down with it.
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/namastexlabs/automagik-telemetry/internal/backend"
	"github.com/namastexlabs/automagik-telemetry/internal/config"
	"github.com/namastexlabs/automagik-telemetry/internal/logging"
	"github.com/namastexlabs/automagik-telemetry/pkg/event"
	"github.com/namastexlabs/automagik-telemetry/pkg/otlp"
)

// Metric and Log are the public event types accepted by TrackMetric and
// TrackLog.
type (
	Metric = event.Metric
	Log    = event.Log
)

// Attribute string values longer than this are truncated before delivery.
const maxAttrLen = 500

type Client struct {
	cfg      *config.Config
	log      *logging.Logger
	backend  backend.Backend
	resource map[string]string

	userID    string
	sessionID string
	enabled   atomic.Bool
}

// New builds a client for the given project. The returned client may be
// disabled (no consent detected); all tracking calls on a disabled client
// succeed without doing anything.
func New(c Config) (*Client, error) {
	cfg, err := c.resolve()
	if err != nil {
		return nil, fmt.Errorf("telemetry config: %w", err)
	}

	log := logging.Discard()
	if cfg.Verbose {
		log = logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	}

	cl := &Client{
		cfg:       cfg,
		log:       log,
		backend:   backend.New(cfg, log),
		resource:  resourceAttributes(cfg),
		userID:    userID(),
		sessionID: uuid.NewString(),
	}
	cl.enabled.Store(resolveEnabled(cfg.Enabled))

	cl.log.Debug("telemetry client ready",
		logging.Backend(cfg.Backend),
		"project", cfg.ProjectName,
		"enabled", cl.enabled.Load(),
	)
	return cl, nil
}

// IsEnabled reports whether events are currently being delivered.
func (c *Client) IsEnabled() bool {
	return c.enabled.Load()
}

// Enable turns delivery on for this client instance.
func (c *Client) Enable() {
	c.enabled.Store(true)
}

// Disable turns delivery off for this client instance. Use OptOut to
// persist the choice across processes.
func (c *Client) Disable() {
	c.enabled.Store(false)
}

// UserID returns the stable anonymous installation identifier.
func (c *Client) UserID() string {
	return c.userID
}

// SessionID returns the identifier shared by all events from this client.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Backend returns the name of the delivery backend in use.
func (c *Client) Backend() string {
	return c.cfg.Backend
}

// Status describes a client's resolved delivery state.
type Status struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Backend   string `json:"backend" yaml:"backend"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	UserID    string `json:"user_id" yaml:"user_id"`
	SessionID string `json:"session_id" yaml:"session_id"`
}

// Status reports the client's consent state and resolved delivery target.
func (c *Client) Status() Status {
	return Status{
		Enabled:   c.enabled.Load(),
		Backend:   c.Backend(),
		Endpoint:  c.Endpoint(),
		UserID:    c.userID,
		SessionID: c.sessionID,
	}
}

// Endpoint returns the resolved primary delivery endpoint.
func (c *Client) Endpoint() string {
	if c.cfg.Backend == config.BackendClickHouse {
		return c.cfg.ClickHouse.Endpoint
	}
	if c.cfg.Backend == config.BackendOpenSearch {
		return c.cfg.OpenSearch.URL
	}
	return c.cfg.Endpoint
}

// TrackEvent records a named event as a zero-duration span. Attributes may
// hold strings, integers, floats, and booleans; other types are coerced to
// their string form.
func (c *Client) TrackEvent(ctx context.Context, name string, attrs map[string]any) bool {
	if !c.enabled.Load() {
		return true
	}
	if name == "" {
		c.log.Debug("event rejected: empty name")
		return false
	}
	span := c.newSpan(name, attrs)
	return c.backend.SendTrace(ctx, span)
}

// TrackMetric records one metric point.
func (c *Client) TrackMetric(ctx context.Context, m Metric) bool {
	if !c.enabled.Load() {
		return true
	}
	if m.Name == "" {
		c.log.Debug("metric rejected: empty name")
		return false
	}
	if m.Type == "" {
		m.Type = event.MetricGauge
	}
	m.Attributes = truncateAttrs(m.Attributes)
	m.Resource = c.mergedResource(m.Resource)
	return c.backend.SendMetric(ctx, &m)
}

// TrackLog records one log entry.
func (c *Client) TrackLog(ctx context.Context, l Log) bool {
	if !c.enabled.Load() {
		return true
	}
	if l.Message == "" {
		c.log.Debug("log rejected: empty message")
		return false
	}
	if l.Severity == "" {
		l.Severity = event.SeverityInfo
	}
	l.Attributes = truncateAttrs(l.Attributes)
	l.Resource = c.mergedResource(l.Resource)
	return c.backend.SendLog(ctx, &l)
}

// TrackError records an error as an ERROR-severity log entry carrying
// exception attributes.
func (c *Client) TrackError(ctx context.Context, err error, attrs map[string]any) bool {
	if !c.enabled.Load() {
		return true
	}
	if err == nil {
		return false
	}
	merged := make(map[string]any, len(attrs)+2)
	for k, v := range attrs {
		merged[k] = v
	}
	merged["exception.type"] = fmt.Sprintf("%T", err)
	merged["exception.message"] = err.Error()
	return c.TrackLog(ctx, Log{
		Message:    err.Error(),
		Severity:   event.SeverityError,
		Attributes: merged,
	})
}

// Flush forces delivery of anything buffered by the backend. Returns true
// when nothing was buffered or everything was delivered.
func (c *Client) Flush(ctx context.Context) bool {
	return c.backend.Flush(ctx)
}

// Close flushes and shuts the backend down. The client must not be used
// afterwards. Hosts should call this before process exit; nothing flushes
// automatically.
func (c *Client) Close(ctx context.Context) bool {
	return c.backend.Close(ctx)
}

func (c *Client) newSpan(name string, attrs map[string]any) *otlp.Span {
	now := time.Now().UnixNano()

	kvs := make([]otlp.KeyValue, 0, len(attrs)+2)
	for k, v := range attrs {
		kvs = append(kvs, otlp.Attr(k, truncateValue(v)))
	}
	kvs = append(kvs,
		otlp.Attr("user.id", c.userID),
		otlp.Attr("session.id", c.sessionID),
	)

	res := otlp.ResourceFromMap(c.resource)
	return &otlp.Span{
		TraceID:           hexID(32),
		SpanID:            hexID(16),
		Name:              name,
		Kind:              otlp.SpanKindInternal,
		StartTimeUnixNano: now,
		EndTimeUnixNano:   now,
		Attributes:        kvs,
		Status:            otlp.Status{Code: otlp.StatusCodeOK},
		Resource:          &res,
		Scope:             &otlp.Scope{Name: sdkName, Version: sdkVersion},
	}
}

func (c *Client) mergedResource(extra map[string]string) map[string]string {
	merged := make(map[string]string, len(c.resource)+len(extra)+2)
	for k, v := range c.resource {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	merged["user.id"] = c.userID
	merged["session.id"] = c.sessionID
	return merged
}

// hexID returns n hex characters of randomness, the OTLP identifier shape
// for trace (32) and span (16) ids.
func hexID(n int) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	for len(id) < n {
		id += strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return id[:n]
}

func truncateAttrs(attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return attrs
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = truncateValue(v)
	}
	return out
}

func truncateValue(v any) any {
	if s, ok := v.(string); ok && len(s) > maxAttrLen {
		return s[:maxAttrLen]
	}
	return v
}
