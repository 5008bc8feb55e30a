package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLevelMetrics() {
	r.LevelClustersTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "daocluster_level_clusters_total",
			Help: "Number of clusters formed at a given hierarchy level",
		},
		[]string{"level"},
	)

	r.LevelFullSize = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "daocluster_level_full_size",
			Help: "Sum of member counts across all clusters at a level",
		},
		[]string{"level"},
	)

	r.LevelModularityGain = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "daocluster_level_modularity_gain",
			Help: "Aggregate modularity gain achieved building a level",
		},
		[]string{"level"},
	)

	r.LevelReductionRatio = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "daocluster_level_reduction_ratio",
			Help: "Ratio of clusters to input items at a level (lower means more aggregation)",
		},
		[]string{"level"},
	)
}
