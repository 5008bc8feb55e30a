package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics exposed for a clustering run.
type Registry struct {
	// Run-level gauges
	RunInputNodesTotal prometheus.Gauge
	RunInputLinksTotal prometheus.Gauge
	RunLevelsTotal      prometheus.Gauge
	RunDurationSeconds  prometheus.Histogram
	RunGamma            prometheus.Gauge

	// Per-level metrics, keyed by level number
	LevelClustersTotal     *prometheus.GaugeVec
	LevelFullSize           *prometheus.GaugeVec
	LevelModularityGain     *prometheus.GaugeVec
	LevelReductionRatio     *prometheus.GaugeVec

	// Gamma sweep metrics
	GammaSweepStepsTotal  prometheus.Counter
	GammaSweepBestScore   prometheus.Gauge
	GammaSweepDuration    prometheus.Histogram

	// AgordiHash bucketing metrics
	AhashBucketsTotal       prometheus.Gauge
	AhashBucketHitsTotal    prometheus.Counter
	AhashBucketMissesTotal  prometheus.Counter
	AhashOverflowsTotal     prometheus.Counter

	// Candidate merge metrics
	MergeCandidatesEvaluatedTotal prometheus.Counter
	MergesAppliedTotal            prometheus.Counter
	MutualCandidateMatchesTotal   prometheus.Counter

	// Output selection metrics
	OutputClustersSelectedTotal *prometheus.GaugeVec
	OutputWriteErrorsTotal      prometheus.Counter

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide metrics registry, created once.
// Prefer NewRegistry for a run whose metrics should not be shared with any
// other concurrent run against the same process.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initRunMetrics()
	r.initLevelMetrics()
	r.initGammaSweepMetrics()
	r.initAhashMetrics()
	r.initMergeMetrics()
	r.initOutputMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
