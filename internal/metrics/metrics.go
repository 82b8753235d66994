// Package metrics exposes compiler activity as Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the picograph collectors and a private registry.
type Recorder struct {
	registry *prometheus.Registry

	compiles    *prometheus.CounterVec
	nodes       *prometheus.CounterVec
	duration    prometheus.Histogram
	outputBytes prometheus.Histogram
	cacheHits   *prometheus.CounterVec
}

// New creates a Recorder with its collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		compiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picograph_compiles_total",
				Help: "Compilations by outcome kind",
			},
			[]string{"result"},
		),
		nodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picograph_node_emits_total",
				Help: "Nodes visited while compiling, by definition",
			},
			[]string{"definition", "mode"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "picograph_compile_duration_seconds",
			Help:    "Duration of compilations",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		outputBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "picograph_output_bytes",
			Help:    "Size of generated Lua source",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picograph_cache_lookups_total",
				Help: "Compile cache lookups by result",
			},
			[]string{"result"},
		),
	}
	r.registry.MustRegister(r.compiles, r.nodes, r.duration, r.outputBytes, r.cacheHits)
	return r
}

// Hooks returns compiler lifecycle hooks feeding the collectors.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEmit: func(e *domain.NodeEvent) {
			mode := "value"
			if e.Exec {
				mode = "exec"
			}
			r.nodes.WithLabelValues(e.DefinitionID, mode).Inc()
		},
		OnCompileFinish: func(e *domain.CompileEvent) {
			if e.Err != nil {
				r.compiles.WithLabelValues(domain.ErrorKind(e.Err)).Inc()
				return
			}
			r.compiles.WithLabelValues("ok").Inc()
			r.outputBytes.Observe(float64(e.Bytes))
		},
	}
}

// ObserveDuration records the wall time of one compile.
func (r *Recorder) ObserveDuration(d time.Duration) {
	r.duration.Observe(d.Seconds())
}

// ObserveCache records a cache lookup.
func (r *Recorder) ObserveCache(hit bool) {
	if hit {
		r.cacheHits.WithLabelValues("hit").Inc()
		return
	}
	r.cacheHits.WithLabelValues("miss").Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the collectors in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
