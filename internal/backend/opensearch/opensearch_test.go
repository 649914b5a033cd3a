package opensearch

import (
	"bytes"
	"context"
	"fmt"
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
	"github.com/namastexlabs/automagik-telemetry/pkg/otlp"
)

// fakeBulk answers the OpenSearch bulk API: one meta line and one document
// line per item, answered with a per-item status.
type fakeBulk struct {
	mu         sync.Mutex
	paths      []string
	docs       int
	itemStatus int
}

func (f *fakeBulk) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/_bulk") {
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{}`)
			return
		}
		body, _ := io.ReadAll(r.Body)
		lines := 0
		for _, line := range bytes.Split(body, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				lines++
			}
		}
		items := lines / 2

		f.mu.Lock()
		f.paths = append(f.paths, r.URL.Path)
		f.docs += items
		status := f.itemStatus
		f.mu.Unlock()
		if status == 0 {
			status = 201
		}

		var sb strings.Builder
		sb.WriteString(`{"took":1,"errors":`)
		if status >= 400 {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
		sb.WriteString(`,"items":[`)
		for i := 0; i < items; i++ {
			if i > 0 {
				sb.WriteString(",")
			}
			if status >= 400 {
				fmt.Fprintf(&sb, `{"index":{"status":%d,"error":{"type":"mapper_parsing_exception","reason":"bad document"}}}`, status)
			} else {
				fmt.Fprintf(&sb, `{"index":{"status":%d}}`, status)
			}
		}
		sb.WriteString("]}")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sb.String())
	}
}

func testBackend(serverURL string) *Backend {
	return New(&config.Config{
		Backend: config.BackendOpenSearch,
		Timeout: 2 * time.Second,
		OpenSearch: config.OpenSearchConfig{
			URL:         serverURL,
			IndexPrefix: "automagik-telemetry",
		},
	}, logging.Discard())
}

func testSpan() *otlp.Span {
	return &otlp.Span{
		TraceID:           "0123456789abcdef0123456789abcdef",
		SpanID:            "0123456789abcdef",
		Name:              "test.event",
		StartTimeUnixNano: 1_700_000_000_000_000_000,
		EndTimeUnixNano:   1_700_000_001_000_000_000,
		Status:            otlp.Status{Code: otlp.StatusCodeOK},
	}
}

func TestIndexAndFlush(t *testing.T) {
	fake := &fakeBulk{}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	b := testBackend(server.URL)
	ctx := context.Background()

	if !b.SendTrace(ctx, testSpan()) {
		t.Fatal("SendTrace returned false")
	}
	if !b.SendMetric(ctx, &event.Metric{Name: "m", Value: 1, Type: event.MetricGauge}) {
		t.Fatal("SendMetric returned false")
	}
	if !b.SendLog(ctx, &event.Log{Message: "hello", Severity: event.SeverityInfo}) {
		t.Fatal("SendLog returned false")
	}

	if !b.Flush(ctx) {
		t.Fatal("Flush returned false")
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.docs != 3 {
		t.Fatalf("Expected 3 documents indexed, got %d", fake.docs)
	}
	indices := map[string]bool{}
	for _, p := range fake.paths {
		indices[p] = true
	}
	for _, want := range []string{
		"/automagik-telemetry-traces/_bulk",
		"/automagik-telemetry-metrics/_bulk",
		"/automagik-telemetry-logs/_bulk",
	} {
		if !indices[want] {
			t.Errorf("Missing bulk request to %s (got %v)", want, fake.paths)
		}
	}
}

func TestFlushReportsItemFailures(t *testing.T) {
	fake := &fakeBulk{itemStatus: 400}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	b := testBackend(server.URL)
	ctx := context.Background()

	if !b.SendTrace(ctx, testSpan()) {
		t.Fatal("SendTrace should accept the document")
	}
	if b.Flush(ctx) {
		t.Fatal("Flush should return false when items are rejected")
	}

	// A new flush cycle starts clean.
	if !b.Flush(ctx) {
		t.Fatal("Flush with nothing buffered should return true")
	}
}

func TestFlushEmpty(t *testing.T) {
	fake := &fakeBulk{}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	b := testBackend(server.URL)
	if !b.Flush(context.Background()) {
		t.Fatal("Flush on empty backend should return true")
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.paths) != 0 {
		t.Fatalf("Expected no bulk requests, got %v", fake.paths)
	}
}

func TestSendRejectsEmpty(t *testing.T) {
	b := testBackend("http://localhost:1")
	ctx := context.Background()
	if b.SendTrace(ctx, nil) {
		t.Error("SendTrace(nil) should return false")
	}
	if b.SendMetric(ctx, &event.Metric{Value: 1}) {
		t.Error("SendMetric without name should return false")
	}
	if b.SendLog(ctx, &event.Log{}) {
		t.Error("SendLog without message should return false")
	}
}
