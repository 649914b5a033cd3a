// Package metrics exposes the SDK's own Prometheus counters. Hosts that
// already serve a /metrics endpoint get delivery visibility for free; hosts
// that don't simply never scrape them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RowsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automagik_telemetry_rows_enqueued_total",
			Help: "Total number of rows added to a delivery batch",
		},
		[]string{"signal"},
	)

	Flushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automagik_telemetry_flushes_total",
			Help: "Total number of batch flushes by outcome",
		},
		[]string{"signal", "outcome"},
	)

	RowsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automagik_telemetry_rows_dropped_total",
			Help: "Total number of rows dropped without delivery",
		},
		[]string{"signal", "reason"},
	)

	FlushQueueEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "automagik_telemetry_flush_queue_evictions_total",
			Help: "Total number of auto-flush jobs evicted from a full queue",
		},
	)

	DeliveryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automagik_telemetry_delivery_attempts_total",
			Help: "Total number of HTTP delivery attempts by outcome",
		},
		[]string{"signal", "outcome"},
	)

	PayloadBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automagik_telemetry_payload_bytes_total",
			Help: "Total payload bytes sent, after optional compression",
		},
		[]string{"signal"},
	)
)

// Drop reasons.
const (
	ReasonRetriesExhausted = "retries_exhausted"
	ReasonQueueEvicted     = "queue_evicted"
)

// Delivery attempt outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeRetryable = "retryable"
	OutcomeTerminal  = "terminal"
)
