package monitoring

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushRecord struct {
	method string
	path   string
	body   string
}

func newPushgateway(t *testing.T, status int) (*httptest.Server, *pushRecord) {
	t.Helper()
	rec := &pushRecord{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.method, rec.path, rec.body = r.Method, r.URL.Path, string(body)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestPush(t *testing.T) {
	srv, rec := newPushgateway(t, http.StatusOK)

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.IncOutcome("ingested")
	m.IncErrorsTotal("fetch")
	m.ObserveFetch(300 * time.Millisecond)

	require.NoError(t, Push(context.Background(), srv.URL, "kgharvest", reg))

	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/metrics/job/kgharvest", rec.path)
	assert.Contains(t, rec.body, `kgharvest_sources_total{outcome="ingested"} 1`)
	assert.Contains(t, rec.body, `kgharvest_errors_total{type="fetch"} 1`)
	assert.Contains(t, rec.body, "kgharvest_fetch_duration_seconds_count 1")
}

func TestPush_GatewayRejects(t *testing.T) {
	srv, _ := newPushgateway(t, http.StatusBadRequest)

	err := Push(context.Background(), srv.URL, "kgharvest", prometheus.NewRegistry())
	assert.ErrorContains(t, err, "unexpected status code 400")
}
