package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimode/disposable/internal/metrics"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.CacheHits.Inc()
	m.ObserveFetch(time.Now(), nil, 3)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	// four cache counters, fetches{result="success"}, duration, domains_loaded
	assert.Equal(t, 7, n)
}

func TestNew_NilRegistererDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.New(nil)
		metrics.New(nil)
	})
}

func TestNew_SharedRegistererReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	var a, b *metrics.Metrics
	require.NotPanics(t, func() {
		a = metrics.New(reg)
		b = metrics.New(reg)
	})

	a.CacheHits.Inc()
	b.CacheHits.Inc()
	a.ObserveFetch(time.Now(), nil, 1)
	b.ObserveFetch(time.Now(), errors.New("boom"), 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(b.CacheHits))

	n, err := testutil.GatherAndCount(reg, "disposable_fetches_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n) // success and failure series, one family
}

func TestNew_ConflictingCollectorLeftUnregistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "disposable_cache_hits_total",
		Help: "something else entirely",
	})))

	var m *metrics.Metrics
	require.NotPanics(t, func() { m = metrics.New(reg) })
	m.CacheHits.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
}

func TestObserveFetch(t *testing.T) {
	m := metrics.New(nil)

	m.ObserveFetch(time.Now(), nil, 42)
	m.ObserveFetch(time.Now(), errors.New("boom"), 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fetches.WithLabelValues(metrics.ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fetches.WithLabelValues(metrics.ResultFailure)))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.DomainsLoaded))
}
