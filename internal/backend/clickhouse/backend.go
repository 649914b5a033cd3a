// Package clickhouse is the batching backend: events are flattened into
// schema rows, accumulated per signal type, and inserted through the
// ClickHouse HTTP API as JSONEachRow. A batch that crosses the configured
// size threshold is handed to a background flusher over a bounded queue so
// the enqueue path never blocks on network I/O.
package clickhouse

import (
	"context"
	"strings"
	"sync"

	"github.com/namastexlabs/automagik-telemetry/internal/config"
	"github.com/namastexlabs/automagik-telemetry/internal/logging"
	"github.com/namastexlabs/automagik-telemetry/internal/metrics"
	"github.com/namastexlabs/automagik-telemetry/internal/transport"
	"github.com/namastexlabs/automagik-telemetry/pkg/event"
	"github.com/namastexlabs/automagik-telemetry/pkg/otlp"
)

// flushJob is one signal type's batch, taken from the backend and waiting
// for delivery by the background flusher.
type flushJob struct {
	signal string
	rows   int
	send   func(ctx context.Context) error
}

type Backend struct {
	endpoint  string
	database  string
	tables    tableSet
	username  string
	password  string
	batchSize int
	sender    *transport.Sender
	log       *logging.Logger

	mu         sync.Mutex
	traceRows  []TraceRow
	metricRows []MetricRow
	logRows    []LogRow

	flushCh chan flushJob
	pending sync.WaitGroup
	stopCh  chan struct{}
	done    chan struct{}
	stop    sync.Once
}

type tableSet struct {
	traces  string
	metrics string
	logs    string
}

func New(cfg *config.Config, log *logging.Logger) *Backend {
	sender := transport.NewSender(transport.Options{
		Timeout:              cfg.Timeout,
		CompressionEnabled:   cfg.CompressionEnabled,
		CompressionThreshold: cfg.CompressionThreshold,
		MaxRetries:           cfg.MaxRetries,
		BackoffBase:          cfg.RetryBackoffBase,
		RetryClientErrors:    true,
	}, log)

	depth := cfg.FlushQueueDepth
	if depth < 1 {
		depth = 16
	}

	b := &Backend{
		endpoint: strings.TrimRight(cfg.ClickHouse.Endpoint, "/"),
		database: cfg.ClickHouse.Database,
		tables: tableSet{
			traces:  cfg.ClickHouse.TracesTable,
			metrics: cfg.ClickHouse.MetricsTable,
			logs:    cfg.ClickHouse.LogsTable,
		},
		username:  cfg.ClickHouse.Username,
		password:  cfg.ClickHouse.Password,
		batchSize: cfg.BatchSize,
		sender:    sender,
		log:       log.With(logging.Backend(config.BackendClickHouse)),
		flushCh:   make(chan flushJob, depth),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	go b.run()
	return b
}

// SendTrace transforms the span into a row and appends it to the trace
// batch, handing the batch to the flusher when it reaches the size
// threshold. The call never blocks on delivery.
func (b *Backend) SendTrace(_ context.Context, span *otlp.Span) bool {
	if span == nil {
		return false
	}
	row := traceRow(span)

	b.mu.Lock()
	b.traceRows = append(b.traceRows, row)
	var taken []TraceRow
	if len(b.traceRows) >= b.batchSize {
		taken = b.traceRows
		b.traceRows = nil
	}
	b.mu.Unlock()

	metrics.RowsEnqueued.WithLabelValues("trace").Inc()
	if taken != nil {
		b.enqueueFlush(b.traceJob(taken))
	}
	return true
}

// SendMetric transforms the metric point and appends it to the metric batch.
func (b *Backend) SendMetric(_ context.Context, m *event.Metric) bool {
	if m == nil || m.Name == "" {
		return false
	}
	row, known := metricRow(m)
	if !known {
		b.log.Warn("unrecognized metric type, storing as GAUGE",
			logging.Signal("metric"),
			"metric_type", string(m.Type),
			"metric_name", m.Name,
		)
	}

	b.mu.Lock()
	b.metricRows = append(b.metricRows, row)
	var taken []MetricRow
	if len(b.metricRows) >= b.batchSize {
		taken = b.metricRows
		b.metricRows = nil
	}
	b.mu.Unlock()

	metrics.RowsEnqueued.WithLabelValues("metric").Inc()
	if taken != nil {
		b.enqueueFlush(b.metricJob(taken))
	}
	return true
}

// SendLog transforms the log record and appends it to the log batch.
func (b *Backend) SendLog(_ context.Context, l *event.Log) bool {
	if l == nil || l.Message == "" {
		return false
	}
	row := logRow(l)

	b.mu.Lock()
	b.logRows = append(b.logRows, row)
	var taken []LogRow
	if len(b.logRows) >= b.batchSize {
		taken = b.logRows
		b.logRows = nil
	}
	b.mu.Unlock()

	metrics.RowsEnqueued.WithLabelValues("log").Inc()
	if taken != nil {
		b.enqueueFlush(b.logJob(taken))
	}
	return true
}

// Flush waits for queued auto-flushes to drain, then takes whatever is
// still batched and delivers each signal type concurrently. It returns
// true only if every delivery succeeded. Safe to call with nothing
// buffered: no network calls are made.
func (b *Backend) Flush(ctx context.Context) bool {
	b.pending.Wait()

	b.mu.Lock()
	traces := b.traceRows
	mets := b.metricRows
	logs := b.logRows
	b.traceRows = nil
	b.metricRows = nil
	b.logRows = nil
	b.mu.Unlock()

	var jobs []flushJob
	if len(traces) > 0 {
		jobs = append(jobs, b.traceJob(traces))
	}
	if len(mets) > 0 {
		jobs = append(jobs, b.metricJob(mets))
	}
	if len(logs) > 0 {
		jobs = append(jobs, b.logJob(logs))
	}
	if len(jobs) == 0 {
		return true
	}

	results := make(chan bool, len(jobs))
	for _, job := range jobs {
		go func(job flushJob) {
			results <- b.deliver(ctx, job)
		}(job)
	}

	ok := true
	for range jobs {
		if !<-results {
			ok = false
		}
	}
	return ok
}

// Close flushes outstanding rows and stops the background flusher.
func (b *Backend) Close(ctx context.Context) bool {
	ok := b.Flush(ctx)
	b.stop.Do(func() {
		close(b.stopCh)
	})
	<-b.done
	return ok
}

// enqueueFlush hands a batch to the background flusher without blocking.
// When the queue is full the oldest queued batch is evicted and its rows
// are counted as dropped.
func (b *Backend) enqueueFlush(job flushJob) {
	b.pending.Add(1)
	for {
		select {
		case b.flushCh <- job:
			return
		default:
		}

		select {
		case evicted := <-b.flushCh:
			metrics.FlushQueueEvictions.Inc()
			metrics.RowsDropped.WithLabelValues(evicted.signal, metrics.ReasonQueueEvicted).Add(float64(evicted.rows))
			b.log.Warn("flush queue full, evicting oldest batch",
				logging.Signal(evicted.signal),
				logging.Rows(evicted.rows),
			)
			b.pending.Done()
		default:
		}
	}
}

// run is the background flusher. Auto-flush outcomes are observable only
// through logging and self-metrics; callers that need a delivery guarantee
// use Flush.
func (b *Backend) run() {
	defer close(b.done)
	for {
		select {
		case job := <-b.flushCh:
			b.deliver(context.Background(), job)
			b.pending.Done()
		case <-b.stopCh:
			for {
				select {
				case job := <-b.flushCh:
					b.deliver(context.Background(), job)
					b.pending.Done()
				default:
					return
				}
			}
		}
	}
}

// deliver runs one batch through the retry controller. Rows were already
// removed from the batch; on exhausted retries they are dropped and
// counted, not re-queued.
func (b *Backend) deliver(ctx context.Context, job flushJob) bool {
	if err := job.send(ctx); err != nil {
		metrics.Flushes.WithLabelValues(job.signal, "failure").Inc()
		metrics.RowsDropped.WithLabelValues(job.signal, metrics.ReasonRetriesExhausted).Add(float64(job.rows))
		b.log.Warn("batch delivery failed, dropping rows",
			logging.Signal(job.signal),
			logging.Rows(job.rows),
			logging.Error(err),
		)
		return false
	}
	metrics.Flushes.WithLabelValues(job.signal, "success").Inc()
	b.log.Debug("batch delivered",
		logging.Signal(job.signal),
		logging.Rows(job.rows),
	)
	return true
}
