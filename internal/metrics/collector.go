// Package metrics exposes prometheus instrumentation for the engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the engine's metrics. Construct it once per process; the
// underlying registry is private so tests can build collectors freely.
type Collector struct {
	registry *prometheus.Registry

	messagesValidated *prometheus.CounterVec
	messagesBuilt     prometheus.Counter
	buildFailures     prometheus.Counter
	parseFailures     prometheus.Counter
	validateDuration  prometheus.Histogram
}

// NewCollector creates and registers the engine metrics.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		messagesValidated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iso20022",
			Name:      "messages_validated_total",
			Help:      "Messages validated, by outcome",
		}, []string{"outcome"}),
		messagesBuilt: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "iso20022",
			Name:      "messages_built_total",
			Help:      "Documents serialized successfully",
		}),
		buildFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "iso20022",
			Name:      "build_failures_total",
			Help:      "Build calls rejected by validation",
		}),
		parseFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "iso20022",
			Name:      "parse_failures_total",
			Help:      "Documents rejected as unparseable",
		}),
		validateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "iso20022",
			Name:      "validate_duration_seconds",
			Help:      "Time spent validating one message",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ObserveValidation records one validation call.
func (c *Collector) ObserveValidation(valid bool, duration time.Duration) {
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	c.messagesValidated.WithLabelValues(outcome).Inc()
	c.validateDuration.Observe(duration.Seconds())
}

// ObserveBuild records one build call.
func (c *Collector) ObserveBuild(err error) {
	if err != nil {
		c.buildFailures.Inc()
		return
	}
	c.messagesBuilt.Inc()
}

// ObserveParseFailure records one rejected document.
func (c *Collector) ObserveParseFailure() {
	c.parseFailures.Inc()
}

// Handler returns the /metrics HTTP handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
