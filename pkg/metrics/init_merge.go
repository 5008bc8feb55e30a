package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initMergeMetrics() {
	r.MergeCandidatesEvaluatedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "daocluster_merge_candidates_evaluated_total",
			Help: "Candidate merge pairs evaluated for modularity gain",
		},
	)

	r.MergesAppliedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "daocluster_merges_applied_total",
			Help: "Merges actually applied while building a level",
		},
	)

	r.MutualCandidateMatchesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "daocluster_mutual_candidate_matches_total",
			Help: "Candidate pairs found to be each other's mutual best match",
		},
	)
}
