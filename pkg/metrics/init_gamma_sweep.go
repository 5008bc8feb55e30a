package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGammaSweepMetrics() {
	r.GammaSweepStepsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "daocluster_gamma_sweep_steps_total",
			Help: "Number of gamma values evaluated during a resolution sweep",
		},
	)

	r.GammaSweepBestScore = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "daocluster_gamma_sweep_best_score",
			Help: "Best hierarchy score found so far during a resolution sweep",
		},
	)

	r.GammaSweepDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "daocluster_gamma_sweep_duration_seconds",
			Help:    "Duration of a single gamma value's clustering pass within a sweep",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)
}
