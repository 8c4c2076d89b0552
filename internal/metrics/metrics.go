// Package metrics exposes timeline activity as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tOgg1/chatline/internal/models"
	"github.com/tOgg1/chatline/internal/timeline"
)

const namespace = "chatline"

// Collector records Store changes and history loads. It satisfies
// timeline.Recorder.
type Collector struct {
	registry *prometheus.Registry

	storeChanges *prometheus.CounterVec
	historyLoads *prometheus.CounterVec
	badge        prometheus.Gauge
}

var _ timeline.Recorder = (*Collector)(nil)

// New creates a Collector backed by its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		storeChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_changes_total",
				Help:      "Committed timeline store changes by operation.",
			},
			[]string{"op"},
		),
		historyLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "history_loads_total",
				Help:      "Older history requests by outcome.",
			},
			[]string{"outcome"},
		),
		badge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "badge_count",
				Help:      "Current unread badge count.",
			},
		),
	}
	c.registry.MustRegister(c.storeChanges, c.historyLoads, c.badge)
	return c
}

// StoreChanged counts a committed change and tracks the badge.
func (c *Collector) StoreChanged(op models.Op, badge int) {
	c.storeChanges.WithLabelValues(string(op)).Inc()
	c.badge.Set(float64(badge))
}

// HistoryLoad counts a pagination outcome.
func (c *Collector) HistoryLoad(outcome timeline.LoadOutcome) {
	c.historyLoads.WithLabelValues(string(outcome)).Inc()
}

// Registry returns the underlying registry, e.g. to add process collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
