package clickhouse

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/namastexlabs/automagik-telemetry/internal/config"
	"github.com/namastexlabs/automagik-telemetry/internal/logging"
	"github.com/namastexlabs/automagik-telemetry/pkg/event"
)

// capture records every insert the fake ClickHouse receives.
type capture struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   int
}

type capturedRequest struct {
	query string
	auth  string
	lines int
}

func (c *capture) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lines := 0
		for _, line := range bytes.Split(body, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				lines++
			}
		}
		c.mu.Lock()
		c.requests = append(c.requests, capturedRequest{
			query: r.URL.Query().Get("query"),
			auth:  r.Header.Get("Authorization"),
			lines: lines,
		})
		status := c.status
		c.mu.Unlock()
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
	}
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func (c *capture) get(i int) capturedRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests[i]
}

func testConfig(endpoint string, batchSize int) *config.Config {
	return &config.Config{
		Backend:          config.BackendClickHouse,
		Timeout:          2 * time.Second,
		BatchSize:        batchSize,
		FlushQueueDepth:  4,
		MaxRetries:       1,
		RetryBackoffBase: 10 * time.Millisecond,
		ClickHouse: config.ClickHouseConfig{
			Endpoint:     endpoint,
			Database:     "telemetry",
			TracesTable:  "traces",
			MetricsTable: "metrics",
			LogsTable:    "logs",
			Username:     "default",
			Password:     "secret",
		},
	}
}

func TestAutoFlushAtBatchSize(t *testing.T) {
	cap := &capture{}
	server := httptest.NewServer(cap.handler())
	defer server.Close()

	b := New(testConfig(server.URL, 3), logging.Discard())
	defer b.Close(context.Background())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if !b.SendTrace(ctx, testSpan()) {
			t.Fatal("SendTrace returned false")
		}
	}
	if !b.Flush(ctx) {
		t.Fatal("Flush returned false")
	}
	if cap.count() != 1 {
		t.Fatalf("Expected 1 delivery after 2 sends + flush, got %d", cap.count())
	}

	cap.mu.Lock()
	cap.requests = nil
	cap.mu.Unlock()

	for i := 0; i < 3; i++ {
		b.SendTrace(ctx, testSpan())
	}
	// Flush drains the queued auto-flush; nothing should remain batched.
	b.Flush(ctx)
	if cap.count() != 1 {
		t.Fatalf("Expected exactly 1 delivery for a full batch, got %d", cap.count())
	}
	if got := cap.get(0).lines; got != 3 {
		t.Errorf("Expected 3 rows in the batch, got %d", got)
	}
}

func TestFlushEmptyMakesNoNetworkCalls(t *testing.T) {
	cap := &capture{}
	server := httptest.NewServer(cap.handler())
	defer server.Close()

	b := New(testConfig(server.URL, 100), logging.Discard())
	defer b.Close(context.Background())

	if !b.Flush(context.Background()) {
		t.Fatal("Flush on empty backend should return true")
	}
	if cap.count() != 0 {
		t.Fatalf("Expected zero network calls, got %d", cap.count())
	}
}

func TestBatchSplitAcrossAutoFlushAndExplicitFlush(t *testing.T) {
	cap := &capture{}
	server := httptest.NewServer(cap.handler())
	defer server.Close()

	b := New(testConfig(server.URL, 100), logging.Discard())
	defer b.Close(context.Background())

	ctx := context.Background()
	for i := 0; i < 150; i++ {
		if !b.SendTrace(ctx, testSpan()) {
			t.Fatalf("SendTrace %d returned false", i)
		}
	}
	if !b.Flush(ctx) {
		t.Fatal("Flush returned false")
	}

	if cap.count() != 2 {
		t.Fatalf("Expected 2 deliveries for 150 events at batch size 100, got %d", cap.count())
	}
	if got := cap.get(0).lines + cap.get(1).lines; got != 150 {
		t.Errorf("Expected 150 rows across deliveries, got %d", got)
	}
}

func TestInsertQueryAndAuth(t *testing.T) {
	cap := &capture{}
	server := httptest.NewServer(cap.handler())
	defer server.Close()

	b := New(testConfig(server.URL, 100), logging.Discard())
	defer b.Close(context.Background())

	ctx := context.Background()
	b.SendTrace(ctx, testSpan())
	b.SendMetric(ctx, &event.Metric{Name: "m", Value: 1, Type: event.MetricGauge})
	b.SendLog(ctx, &event.Log{Message: "hello", Severity: event.SeverityInfo})
	if !b.Flush(ctx) {
		t.Fatal("Flush returned false")
	}

	if cap.count() != 3 {
		t.Fatalf("Expected 3 deliveries (one per signal), got %d", cap.count())
	}

	queries := map[string]bool{}
	for i := 0; i < 3; i++ {
		req := cap.get(i)
		queries[req.query] = true
		if !strings.HasPrefix(req.auth, "Basic ") {
			t.Errorf("Expected Basic auth header, got %q", req.auth)
		}
	}
	for _, want := range []string{
		"INSERT INTO telemetry.traces FORMAT JSONEachRow",
		"INSERT INTO telemetry.metrics FORMAT JSONEachRow",
		"INSERT INTO telemetry.logs FORMAT JSONEachRow",
	} {
		if !queries[want] {
			t.Errorf("Missing insert query %q (got %v)", want, queries)
		}
	}
}

func TestFlushReportsDeliveryFailure(t *testing.T) {
	cap := &capture{status: http.StatusInternalServerError}
	server := httptest.NewServer(cap.handler())
	defer server.Close()

	b := New(testConfig(server.URL, 100), logging.Discard())
	defer b.Close(context.Background())

	ctx := context.Background()
	b.SendTrace(ctx, testSpan())
	if b.Flush(ctx) {
		t.Fatal("Flush should return false when delivery fails")
	}

	// Rows were taken before the attempt and are not re-queued: a second
	// flush has nothing to send.
	cap.mu.Lock()
	cap.status = http.StatusOK
	cap.requests = nil
	cap.mu.Unlock()
	if !b.Flush(ctx) {
		t.Fatal("Flush on drained backend should return true")
	}
	if cap.count() != 0 {
		t.Fatalf("Expected no re-delivery of dropped rows, got %d requests", cap.count())
	}
}

func TestSendRejectsNilAndEmpty(t *testing.T) {
	cap := &capture{}
	server := httptest.NewServer(cap.handler())
	defer server.Close()

	b := New(testConfig(server.URL, 100), logging.Discard())
	defer b.Close(context.Background())

	ctx := context.Background()
	if b.SendTrace(ctx, nil) {
		t.Error("SendTrace(nil) should return false")
	}
	if b.SendMetric(ctx, &event.Metric{Value: 1}) {
		t.Error("SendMetric without a name should return false")
	}
	if b.SendLog(ctx, &event.Log{}) {
		t.Error("SendLog without a message should return false")
	}
}
