package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.IncOutcome("ingested")
	m.IncOutcome("ingested")
	m.IncErrorsTotal("fetch")
	m.ObserveFetch(150 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SourcesTotal.WithLabelValues("ingested")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("fetch")))

	n, err := testutil.GatherAndCount(reg, "kgharvest_fetch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}

func TestMetrics_ObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRequest("GET", "/api/health", 503, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/health", "503")))
	n, err := testutil.GatherAndCount(reg, "kgharvest_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
