package telemetry

import (
	"context"
	"time"

	"github.com/namastexlabs/automagik-telemetry/pkg/event"
)

// Convenience wrappers for the standard Automagik event vocabulary.

// TrackFeature records usage of a named feature.
func (c *Client) TrackFeature(ctx context.Context, feature string, attrs map[string]any) bool {
	merged := withAttr(attrs, "feature.name", feature)
	return c.TrackEvent(ctx, event.FeatureUsed, merged)
}

// TrackCommand records execution of a CLI or API command.
func (c *Client) TrackCommand(ctx context.Context, command string, success bool, attrs map[string]any) bool {
	merged := withAttr(attrs, "command.name", command)
	merged["command.success"] = success
	return c.TrackEvent(ctx, event.CommandExecuted, merged)
}

// TrackLatency records the duration of a named operation as a histogram
// point in milliseconds.
func (c *Client) TrackLatency(ctx context.Context, operation string, d time.Duration, attrs map[string]any) bool {
	merged := withAttr(attrs, "operation.name", operation)
	return c.TrackMetric(ctx, Metric{
		Name:       event.OperationLatency,
		Value:      float64(d.Milliseconds()),
		Type:       event.MetricHistogram,
		Unit:       "ms",
		Attributes: merged,
	})
}

// TrackSessionStart records the beginning of a host session.
func (c *Client) TrackSessionStart(ctx context.Context, attrs map[string]any) bool {
	return c.TrackEvent(ctx, event.SessionStarted, attrs)
}

// TrackSessionEnd records the end of a host session with its duration.
func (c *Client) TrackSessionEnd(ctx context.Context, d time.Duration, attrs map[string]any) bool {
	merged := withAttr(attrs, "session.duration_ms", d.Milliseconds())
	return c.TrackEvent(ctx, event.SessionEnded, merged)
}

func withAttr(attrs map[string]any, key string, value any) map[string]any {
	merged := make(map[string]any, len(attrs)+1)
	for k, v := range attrs {
		merged[k] = v
	}
	merged[key] = value
	return merged
}
