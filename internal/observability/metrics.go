package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rossv/designstorms-sub000/internal/sampler"
	"github.com/rossv/designstorms-sub000/internal/storm"
)

const namespace = "designstorm"

// Metrics holds the Prometheus collectors for storm generation.
type Metrics struct {
	StormsGenerated  *prometheus.CounterVec // labels: fidelity={precise,fast}, locked={true,false}
	Fallbacks        *prometheus.CounterVec // labels: reason
	GenerateDuration prometheus.Histogram
	StormSamples     prometheus.Histogram

	CurveCache *prometheus.CounterVec // labels: result={hit,miss}

	Published *prometheus.CounterVec // labels: outcome={success,error}
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		StormsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storms_generated_total",
			Help:      help("Storms generated by fidelity and time-axis locking."),
		}, []string{"fidelity", "locked"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      help("Fail-soft fallbacks taken during generation, by reason."),
		}, []string{"reason"}),
		GenerateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_duration_seconds",
			Help:      help("Wall time of one storm generation."),
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		StormSamples: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "storm_samples",
			Help:      help("Sample count of generated storms."),
			Buckets:   []float64{2, 10, 50, 100, 250, 500, 1000, 2500, 10000},
		}),
		CurveCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "curve_cache_total",
			Help:      help("Curve cache lookups by result."),
		}, []string{"result"}),
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "published_total",
			Help:      help("Storms published to Kafka by outcome."),
		}, []string{"outcome"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.StormsGenerated,
		m.Fallbacks,
		m.GenerateDuration,
		m.StormSamples,
		m.CurveCache,
		m.Published,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

// ObserveStorm records one generation.
func (m *Metrics) ObserveStorm(p storm.Params, r storm.Result, elapsed time.Duration) {
	locked := "false"
	if r.TimestepLocked {
		locked = "true"
	}
	m.StormsGenerated.WithLabelValues(p.Fidelity.String(), locked).Inc()
	for _, reason := range r.Fallbacks {
		m.Fallbacks.WithLabelValues(reason).Inc()
	}
	m.GenerateDuration.Observe(elapsed.Seconds())
	m.StormSamples.Observe(float64(r.Len()))
}

// ObservePublish records the outcome of a Kafka publish.
func (m *Metrics) ObservePublish(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.Published.WithLabelValues(outcome).Inc()
}

// InstrumentCache counts hits and misses of a curve cache.
func (m *Metrics) InstrumentCache(inner sampler.Cache) sampler.Cache {
	return &instrumentedCache{inner: inner, m: m}
}

type instrumentedCache struct {
	inner sampler.Cache
	m     *Metrics
}

func (c *instrumentedCache) Get(k sampler.Key) (sampler.Curve, bool) {
	v, ok := c.inner.Get(k)
	if ok {
		c.m.CurveCache.WithLabelValues("hit").Inc()
	} else {
		c.m.CurveCache.WithLabelValues("miss").Inc()
	}
	return v, ok
}

func (c *instrumentedCache) Put(k sampler.Key, v sampler.Curve) {
	c.inner.Put(k, v)
}
