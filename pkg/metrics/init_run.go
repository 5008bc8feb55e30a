package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.RunInputNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "daocluster_run_input_nodes_total",
			Help: "Number of nodes in the input graph for this run",
		},
	)

	r.RunInputLinksTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "daocluster_run_input_links_total",
			Help: "Number of links in the input graph for this run",
		},
	)

	r.RunLevelsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "daocluster_run_levels_total",
			Help: "Number of hierarchy levels built by this run",
		},
	)

	r.RunDurationSeconds = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "daocluster_run_duration_seconds",
			Help:    "Wall-clock duration of a full clustering run",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
	)

	r.RunGamma = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "daocluster_run_gamma",
			Help: "Resolution parameter (gamma) used for this run",
		},
	)
}
