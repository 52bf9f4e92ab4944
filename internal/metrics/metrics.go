// Package metrics holds the Prometheus collectors exported by `flick serve`.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abelbrown/flick/internal/work"
)

// Namespace prefixes every metric name.
const Namespace = "flick"

// Collector holds all Prometheus metrics for the application.
// Each Collector owns its registry, so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Domain metrics
	Swipes            *prometheus.CounterVec
	EngagementUpdates *prometheus.CounterVec

	// Background work
	WorkItems    *prometheus.CounterVec
	WorkDuration *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Swipes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "swipes_total",
				Help:      "Committed swipe decisions",
			},
			[]string{"action", "topic"},
		),
		EngagementUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "engagement_updates_total",
				Help:      "Approve/disapprove toggles persisted",
			},
			[]string{"action", "active"},
		),
		WorkItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "work_items_total",
				Help:      "Finished background work items",
			},
			[]string{"type", "status"},
		),
		WorkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "work_duration_seconds",
				Help:      "Background work duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"type"},
		),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Swipes,
		c.EngagementUpdates,
		c.WorkItems,
		c.WorkDuration,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveSwipe records one committed decision.
func (c *Collector) ObserveSwipe(action, topic string) {
	c.Swipes.WithLabelValues(action, topic).Inc()
}

// ObserveEngagement records one persisted toggle.
func (c *Collector) ObserveEngagement(action string, active bool) {
	c.EngagementUpdates.WithLabelValues(action, strconv.FormatBool(active)).Inc()
}

// ObserveWork is a work.Pool observer counting finished items.
func (c *Collector) ObserveWork(e work.Event) {
	switch e.Change {
	case work.ChangeCompleted, work.ChangeFailed:
		c.WorkItems.WithLabelValues(string(e.Item.Type), string(e.Item.Status)).Inc()
		c.WorkDuration.WithLabelValues(string(e.Item.Type)).Observe(e.Item.Duration().Seconds())
	}
}
