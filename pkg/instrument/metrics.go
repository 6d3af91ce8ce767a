package instrument

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/loom/pkg/fiber"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "loom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "loom",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a fiber.Observer that records render activity as Prometheus
// metrics. Create one per registry.
type Metrics struct {
	passesTotal    *prometheus.CounterVec
	passDuration   prometheus.Histogram
	fibersVisited  prometheus.Counter
	fibersMounted  *prometheus.CounterVec
	updatesQueued  *prometheus.CounterVec
	updatesApplied prometheus.Counter
	rerenders      prometheus.Counter
}

// NewMetrics registers the render metrics and returns the observer.
// It panics if the metrics are already registered with the registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_passes_total",
			Help:        "Total number of render passes, by whether the tree was walked",
			ConstLabels: config.ConstLabels,
		}, []string{"walked"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_pass_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		fibersVisited: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fibers_visited_total",
			Help:        "Total number of fibers visited by render walks",
			ConstLabels: config.ConstLabels,
		}),

		fibersMounted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fibers_mounted_total",
			Help:        "Total number of fibers mounted, by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		updatesQueued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "state_updates_queued_total",
			Help:        "Total number of state setter calls, by phase",
			ConstLabels: config.ConstLabels,
		}, []string{"phase"}),

		updatesApplied: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "state_updates_applied_total",
			Help:        "Total number of state updates applied",
			ConstLabels: config.ConstLabels,
		}),

		rerenders: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "component_rerenders_total",
			Help:        "Total number of render-phase component re-invocations",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) PassStarted(ctx context.Context, _ string) context.Context {
	return ctx
}

func (m *Metrics) PassFinished(_ context.Context, stats fiber.PassStats) {
	m.passesTotal.WithLabelValues(strconv.FormatBool(stats.Walked)).Inc()
	m.passDuration.Observe(stats.Duration.Seconds())
	m.fibersVisited.Add(float64(stats.Visited))
	m.updatesApplied.Add(float64(stats.Updates))
	m.rerenders.Add(float64(stats.Rerenders))
}

func (m *Metrics) FiberMounted(kind fiber.Kind) {
	m.fibersMounted.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) UpdateQueued(renderPhase bool) {
	phase := "external"
	if renderPhase {
		phase = "render"
	}
	m.updatesQueued.WithLabelValues(phase).Inc()
}
