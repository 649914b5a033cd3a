package clickhouse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/namastexlabs/automagik-telemetry/internal/transport"
)

func (b *Backend) traceJob(rows []TraceRow) flushJob {
	return flushJob{
		signal: "trace",
		rows:   len(rows),
		send: func(ctx context.Context) error {
			return insert(ctx, b, b.tables.traces, "trace", rows)
		},
	}
}

func (b *Backend) metricJob(rows []MetricRow) flushJob {
	return flushJob{
		signal: "metric",
		rows:   len(rows),
		send: func(ctx context.Context) error {
			return insert(ctx, b, b.tables.metrics, "metric", rows)
		},
	}
}

func (b *Backend) logJob(rows []LogRow) flushJob {
	return flushJob{
		signal: "log",
		rows:   len(rows),
		send: func(ctx context.Context) error {
			return insert(ctx, b, b.tables.logs, "log", rows)
		},
	}
}

// insert posts one batch to the ClickHouse HTTP interface. The INSERT
// statement travels in the query string and the rows travel in the body,
// one JSON object per line.
func insert[T any](ctx context.Context, b *Backend, table, signal string, rows []T) error {
	body, err := encodeRows(rows)
	if err != nil {
		return fmt.Errorf("encoding %s rows: %w", signal, err)
	}
	return b.sender.Send(ctx, transport.Request{
		URL:         insertURL(b.endpoint, b.database, table),
		Body:        body,
		ContentType: "application/x-ndjson",
		Username:    b.username,
		Password:    b.password,
		Signal:      signal,
	})
}

func insertURL(endpoint, database, table string) string {
	q := url.Values{}
	q.Set("query", fmt.Sprintf("INSERT INTO %s.%s FORMAT JSONEachRow", database, table))
	return endpoint + "/?" + q.Encode()
}

func encodeRows[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range rows {
		if err := enc.Encode(&rows[i]); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
