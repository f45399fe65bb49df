// Package metrics exposes Prometheus metrics for the query layer and the HTTP
// surface.
//
// All collectors are registered on a private registry owned by Collector, so
// tests can build as many collectors as they like without clashing on the
// global default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "datagate"

// Collector owns the registry and every metric family of the service.
type Collector struct {
	registry *prometheus.Registry
	Queries  *QueryMetrics
	Requests *RequestMetrics
}

// NewCollector registers all metric families. Go runtime and process
// collectors are added as well.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry: registry,
		Queries:  NewQueryMetrics(registry),
		Requests: NewRequestMetrics(registry),
	}
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
