package seeder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namastexlabs/automagik-telemetry/pkg/telemetry"
)

func testClient(t *testing.T, serverURL string) *telemetry.Client {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(orig) })

	client, err := telemetry.New(telemetry.Config{
		ProjectName:     "seeder-test",
		ProjectVersion:  "1.0.0",
		Endpoint:        serverURL + "/v1/traces",
		MetricsEndpoint: serverURL + "/v1/metrics",
		LogsEndpoint:    serverURL + "/v1/logs",
		MaxRetries:      1,
		Enabled:         telemetry.Bool(true),
	})
	require.NoError(t, err)
	return client
}

func TestRunSendsAllSignals(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	defer client.Close(context.Background())

	res, err := Run(context.Background(), client, Options{Count: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, res.Sent)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, int64(8), requests.Load())
}

func TestRunSignalSubset(t *testing.T) {
	var traces atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/traces" {
			traces.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	defer client.Close(context.Background())

	res, err := Run(context.Background(), client, Options{Count: 5, Signals: []string{"trace"}})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Sent)
	assert.Equal(t, int64(5), traces.Load())
}

func TestRunUnknownSignal(t *testing.T) {
	client := testClient(t, "http://localhost:1")
	defer client.Close(context.Background())

	_, err := Run(context.Background(), client, Options{Count: 1, Signals: []string{"bogus"}})
	assert.Error(t, err)
}

func TestRunCountsRejections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	defer client.Close(context.Background())

	res, err := Run(context.Background(), client, Options{Count: 4, Signals: []string{"trace"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Sent)
	assert.Equal(t, 4, res.Failed)
}

func TestRunHonorsContextCancellation(t *testing.T) {
	client := testClient(t, "http://localhost:1")
	defer client.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, client, Options{Count: 100})
	assert.ErrorIs(t, err, context.Canceled)
}
