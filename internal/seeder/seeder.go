// Package seeder generates synthetic telemetry through a real client,
// used by the CLI to exercise a backend end to end and to populate
// development stores with plausible data.
package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/namastexlabs/automagik-telemetry/pkg/event"
	"github.com/namastexlabs/automagik-telemetry/pkg/telemetry"
)

// Options controls what the seeder generates.
type Options struct {
	Count    int
	Interval time.Duration
	// Signals to generate; empty means all of trace, metric, log, error.
	Signals []string
}

// Result counts what was generated and accepted.
type Result struct {
	Sent   int
	Failed int
}

var defaultSignals = []string{"trace", "metric", "log", "error"}

// Run generates Count events round-robin across the requested signal
// types and reports how many the client accepted.
func Run(ctx context.Context, client *telemetry.Client, opts Options) (Result, error) {
	if opts.Count <= 0 {
		opts.Count = 100
	}
	signals := opts.Signals
	if len(signals) == 0 {
		signals = defaultSignals
	}

	gofakeit.Seed(time.Now().UnixNano())

	var res Result
	for i := 0; i < opts.Count; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		var ok bool
		switch signals[i%len(signals)] {
		case "trace":
			ok = sendTrace(ctx, client)
		case "metric":
			ok = sendMetric(ctx, client)
		case "log":
			ok = sendLog(ctx, client)
		case "error":
			ok = sendError(ctx, client)
		default:
			return res, fmt.Errorf("unknown signal type: %s", signals[i%len(signals)])
		}

		if ok {
			res.Sent++
		} else {
			res.Failed++
		}

		if opts.Interval > 0 && i < opts.Count-1 {
			time.Sleep(opts.Interval)
		}
	}
	return res, nil
}

var features = []string{
	"agent.run", "workflow.execute", "memory.search",
	"tool.invoke", "config.reload", "export.json",
}

func sendTrace(ctx context.Context, client *telemetry.Client) bool {
	return client.TrackFeature(ctx, features[rand.Intn(len(features))], map[string]any{
		"request.id": gofakeit.UUID(),
		"http.route": "/" + gofakeit.Word(),
		"durable":    gofakeit.Bool(),
	})
}

func sendMetric(ctx context.Context, client *telemetry.Client) bool {
	switch rand.Intn(3) {
	case 0:
		return client.TrackMetric(ctx, telemetry.Metric{
			Name:  "automagik.requests.total",
			Value: float64(gofakeit.Number(1, 500)),
			Type:  event.MetricCounter,
			Unit:  "1",
		})
	case 1:
		return client.TrackLatency(ctx,
			features[rand.Intn(len(features))],
			time.Duration(gofakeit.Number(1, 2000))*time.Millisecond,
			nil,
		)
	default:
		return client.TrackMetric(ctx, telemetry.Metric{
			Name:  "automagik.memory.bytes",
			Value: gofakeit.Float64Range(1e6, 5e8),
			Type:  event.MetricGauge,
			Unit:  "By",
		})
	}
}

func sendLog(ctx context.Context, client *telemetry.Client) bool {
	severities := []event.LogSeverity{
		event.SeverityDebug, event.SeverityInfo,
		event.SeverityInfo, event.SeverityWarn,
	}
	return client.TrackLog(ctx, telemetry.Log{
		Message:  gofakeit.HackerPhrase(),
		Severity: severities[rand.Intn(len(severities))],
		Attributes: map[string]any{
			"component": gofakeit.Word(),
			"host.ip":   gofakeit.IPv4Address(),
		},
	})
}

func sendError(ctx context.Context, client *telemetry.Client) bool {
	return client.TrackError(ctx, gofakeit.ErrorDatabase(), map[string]any{
		"component": gofakeit.Word(),
	})
}
