// Package metrics exports reconciler activity as Prometheus metrics.
//
// A Collector implements core.Observer and can wrap a dom.Host to count host
// mutations:
//
//	c := metrics.New(cfg.Metrics.Namespace)
//	c.MustRegister(prometheus.DefaultRegisterer)
//	r := core.New(c.InstrumentHost(doc), core.WithObserver(c))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/vdom/pkg/config"
	"github.com/go-drift/vdom/pkg/core"
)

const subsystem = "reconciler"

// Update outcomes.
const (
	OutcomeRendered = "rendered"
	OutcomeSkipped  = "skipped"
)

// Collector holds the reconciler metrics.
type Collector struct {
	mounts         *prometheus.CounterVec
	unmounts       *prometheus.CounterVec
	updates        *prometheus.CounterVec
	renderFailures *prometheus.CounterVec
	updateDuration *prometheus.HistogramVec
	mutations      *prometheus.CounterVec
}

var _ core.Observer = (*Collector)(nil)

// New creates a collector whose metric names are prefixed with namespace.
func New(namespace string) *Collector {
	return &Collector{
		mounts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "mounts_total",
				Help:      "Count of mounted component instances.",
			},
			[]string{"component"},
		),
		unmounts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "unmounts_total",
				Help:      "Count of unmounted component instances.",
			},
			[]string{"component"},
		),
		updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "updates_total",
				Help:      "Count of component updates by outcome.",
			},
			[]string{"component", "outcome"},
		),
		renderFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "render_failures_total",
				Help:      "Count of renders that panicked or returned an invalid result.",
			},
			[]string{"component"},
		),
		updateDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "update_duration_seconds",
				Help:      "Time spent rendering and diffing a component update.",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"component"},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "host_mutations_total",
				Help:      "Count of host tree mutations by operation.",
			},
			[]string{"op"},
		),
	}
}

// FromConfig returns a collector for cfg, or nil when metrics are disabled.
func FromConfig(cfg *config.Config) *Collector {
	if cfg == nil || !cfg.Metrics.Enabled {
		return nil
	}
	return New(cfg.Metrics.Namespace)
}

// Collectors returns every metric of c.
func (c *Collector) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.mounts,
		c.unmounts,
		c.updates,
		c.renderFailures,
		c.updateDuration,
		c.mutations,
	}
}

// Register registers all metrics with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range c.Collectors() {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Collector) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(c.Collectors()...)
}

func (c *Collector) ComponentMounted(component string) {
	c.mounts.WithLabelValues(component).Inc()
}

func (c *Collector) ComponentUpdated(component string, rendered bool, elapsed time.Duration) {
	if !rendered {
		c.updates.WithLabelValues(component, OutcomeSkipped).Inc()
		return
	}
	c.updates.WithLabelValues(component, OutcomeRendered).Inc()
	c.updateDuration.WithLabelValues(component).Observe(elapsed.Seconds())
}

func (c *Collector) ComponentUnmounted(component string) {
	c.unmounts.WithLabelValues(component).Inc()
}

func (c *Collector) RenderFailed(component string) {
	c.renderFailures.WithLabelValues(component).Inc()
}
