package instrument

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/relit-dev/relit/pkg/bind"
	"github.com/relit-dev/relit/pkg/dom"
)

// Middleware decorates one hole's update callback. hole is the
// callback's position in its Create call.
type Middleware func(hole int, next bind.Update) bind.Update

// Wrap applies the middleware chain to every callback of a Create
// call, first middleware outermost.
func Wrap(updates []bind.Update, mw ...Middleware) []bind.Update {
	out := make([]bind.Update, len(updates))
	for i, u := range updates {
		for j := len(mw) - 1; j >= 0; j-- {
			u = mw[j](i, u)
		}
		out[i] = u
	}
	return out
}

// MetricsConfig configures the Prometheus middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "relit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for update duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// Document, when set, records the document's mutation-op delta per
	// update. An idempotent update shows up as a zero observation.
	Document *dom.Document
}

// MetricsOption configures the Prometheus middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

// WithDocument enables per-update mutation-op observations against doc.
func WithDocument(doc *dom.Document) MetricsOption {
	return func(c *MetricsConfig) { c.Document = doc }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "relit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	updatesTotal   *prometheus.CounterVec
	updateDuration *prometheus.HistogramVec
	updatePanics   *prometheus.CounterVec
	mutationOps    *prometheus.HistogramVec
}

// Metrics are registered once per registry; repeated Prometheus calls
// against the same registry share one instance.
var (
	metricsMu  sync.Mutex
	metricsFor = map[prometheus.Registerer]*metrics{}
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		updatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "updates_total",
			Help:        "Total number of hole updates applied",
			ConstLabels: config.ConstLabels,
		}, []string{"hole", "status"}),

		updateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "update_duration_seconds",
			Help:        "Update application duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"hole"}),

		updatePanics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "update_panics_total",
			Help:        "Total number of updates that panicked",
			ConstLabels: config.ConstLabels,
		}, []string{"hole"}),

		mutationOps: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutation_ops",
			Help:        "DOM mutation operations performed per update",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}, []string{"hole"}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for
// hole updates.
//
// Metrics collected:
//   - relit_updates_total: Counter of updates by hole and status
//   - relit_update_duration_seconds: Histogram of update duration
//   - relit_update_panics_total: Counter of updates that panicked
//   - relit_mutation_ops: Histogram of DOM ops per update (with WithDocument)
//
// Example:
//
//	updates := instrument.Wrap(
//	    bind.Create(root, holes),
//	    instrument.Prometheus(instrument.WithNamespace("myapp")),
//	)
//
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	metricsMu.Lock()
	m := metricsFor[config.Registry]
	if m == nil {
		m = initMetrics(config)
		metricsFor[config.Registry] = m
	}
	metricsMu.Unlock()

	return func(hole int, next bind.Update) bind.Update {
		label := strconv.Itoa(hole)
		return func(v any) {
			var before uint64
			if config.Document != nil {
				before = config.Document.MutationOps()
			}
			start := time.Now()

			status := "success"
			defer func() {
				m.updateDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
				m.updatesTotal.WithLabelValues(label, status).Inc()
				if config.Document != nil {
					delta := config.Document.MutationOps() - before
					m.mutationOps.WithLabelValues(label).Observe(float64(delta))
				}
			}()
			defer func() {
				if r := recover(); r != nil {
					status = "panic"
					m.updatePanics.WithLabelValues(label).Inc()
					panic(r)
				}
			}()

			next(v)
		}
	}
}
