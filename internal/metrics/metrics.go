// Package metrics provides Prometheus instrumentation for the domain list provider.
package metrics

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes used as the "result" label.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics tracks cache effectiveness and remote fetches.
type Metrics struct {
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	CacheExpired  prometheus.Counter
	CacheErrors   prometheus.Counter
	Fetches       *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	DomainsLoaded prometheus.Gauge
}

// New creates the metrics and registers them on reg.
// A nil reg creates unregistered collectors. Collectors already registered
// on reg, e.g. by another Provider, are shared, so counts add up across
// providers.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CacheHits: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "disposable_cache_hits_total",
			Help: "Domain list requests served from a valid cache entry",
		})),
		CacheMisses: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "disposable_cache_misses_total",
			Help: "Domain list requests that found no usable cache entry",
		})),
		CacheExpired: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "disposable_cache_expired_total",
			Help: "Cache entries discarded because they had expired",
		})),
		CacheErrors: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "disposable_cache_errors_total",
			Help: "Cache read, write or delete failures",
		})),
		Fetches: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "disposable_fetches_total",
			Help: "Remote domain list fetches by result",
		}, []string{"result"})),
		FetchDuration: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "disposable_fetch_duration_seconds",
			Help:    "Duration of remote domain list fetches including parsing",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		})),
		DomainsLoaded: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "disposable_domains_loaded",
			Help: "Number of domains in the most recently fetched list",
		})),
	}
}

// register adds c to reg and returns the collector to use. When an equal
// collector is already registered it is returned instead. Other registration
// errors leave c unregistered; instrumentation must never fail a lookup.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

// ObserveFetch records the outcome of a fetch.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveFetch(start time.Time, err error, domains int) {
	m.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.Fetches.WithLabelValues(ResultFailure).Inc()
		return
	}
	m.Fetches.WithLabelValues(ResultSuccess).Inc()
	m.DomainsLoaded.Set(float64(domains))
}
