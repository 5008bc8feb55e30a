package metrics

import (
	"strconv"
	"time"
)

// RecordRun records the top-level shape and duration of a completed
// clustering run.
func (r *Registry) RecordRun(inputNodes, inputLinks, levels int, gamma float32, duration time.Duration) {
	r.RunInputNodesTotal.Set(float64(inputNodes))
	r.RunInputLinksTotal.Set(float64(inputLinks))
	r.RunLevelsTotal.Set(float64(levels))
	r.RunGamma.Set(float64(gamma))
	r.RunDurationSeconds.Observe(duration.Seconds())
}

// RecordLevel records the shape of a single hierarchy level once it has
// finished being built.
func (r *Registry) RecordLevel(levelNum uint16, clusters, fullSize int, modularityGain, reductionRatio float64) {
	label := strconv.FormatUint(uint64(levelNum), 10)
	r.LevelClustersTotal.WithLabelValues(label).Set(float64(clusters))
	r.LevelFullSize.WithLabelValues(label).Set(float64(fullSize))
	r.LevelModularityGain.WithLabelValues(label).Set(modularityGain)
	r.LevelReductionRatio.WithLabelValues(label).Set(reductionRatio)
}

// RecordGammaSweepStep records one evaluated gamma value in a resolution
// sweep.
func (r *Registry) RecordGammaSweepStep(duration time.Duration) {
	r.GammaSweepStepsTotal.Inc()
	r.GammaSweepDuration.Observe(duration.Seconds())
}

// RecordGammaSweepBest sets the gauge tracking the best score seen so far in
// a sweep. Callers track the running maximum themselves since Prometheus
// gauges do not expose their current value for comparison.
func (r *Registry) RecordGammaSweepBest(score float64) {
	r.GammaSweepBestScore.Set(score)
}

// RecordAhashLookup records whether a candidate lookup hit a populated
// AgordiHash bucket.
func (r *Registry) RecordAhashLookup(hit bool) {
	if hit {
		r.AhashBucketHitsTotal.Inc()
	} else {
		r.AhashBucketMissesTotal.Inc()
	}
}

// RecordAhashOverflow records an AgordiHash accumulator overflow.
func (r *Registry) RecordAhashOverflow() {
	r.AhashOverflowsTotal.Inc()
}

// SetAhashBucketCount sets the current number of distinct AgordiHash
// buckets in use.
func (r *Registry) SetAhashBucketCount(n int) {
	r.AhashBucketsTotal.Set(float64(n))
}

// RecordMergeCandidate records one candidate pair evaluated for modularity
// gain, and whether it was found to be a mutual best match and/or applied.
func (r *Registry) RecordMergeCandidate(mutual, applied bool) {
	r.MergeCandidatesEvaluatedTotal.Inc()
	if mutual {
		r.MutualCandidateMatchesTotal.Inc()
	}
	if applied {
		r.MergesAppliedTotal.Inc()
	}
}

// RecordOutputSelection records how many clusters a given selection mode
// produced.
func (r *Registry) RecordOutputSelection(mode string, count int) {
	r.OutputClustersSelectedTotal.WithLabelValues(mode).Set(float64(count))
}

// RecordOutputWriteError records a failure while writing CNL output.
func (r *Registry) RecordOutputWriteError() {
	r.OutputWriteErrorsTotal.Inc()
}
