package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initOutputMetrics() {
	r.OutputClustersSelectedTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "daocluster_output_clusters_selected_total",
			Help: "Clusters selected for output, by selection mode",
		},
		[]string{"mode"},
	)

	r.OutputWriteErrorsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "daocluster_output_write_errors_total",
			Help: "Errors encountered writing CNL output",
		},
	)
}
