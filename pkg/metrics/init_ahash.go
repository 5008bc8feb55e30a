package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAhashMetrics() {
	r.AhashBucketsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "daocluster_ahash_buckets_total",
			Help: "Number of distinct AgordiHash buckets in use",
		},
	)

	r.AhashBucketHitsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "daocluster_ahash_bucket_hits_total",
			Help: "Candidate lookups that landed in a non-empty AgordiHash bucket",
		},
	)

	r.AhashBucketMissesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "daocluster_ahash_bucket_misses_total",
			Help: "Candidate lookups that landed in an empty AgordiHash bucket",
		},
	)

	r.AhashOverflowsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "daocluster_ahash_overflows_total",
			Help: "AgordiHash accumulator overflows encountered during a run",
		},
	)
}
