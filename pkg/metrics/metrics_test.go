package metrics

import (
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.RunInputNodesTotal == nil {
		t.Error("RunInputNodesTotal not initialized")
	}
	if r.LevelClustersTotal == nil {
		t.Error("LevelClustersTotal not initialized")
	}
	if r.AhashBucketsTotal == nil {
		t.Error("AhashBucketsTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()

	r.RecordRun(1000, 5000, 4, 1.0, 250*time.Millisecond)

	var metric dto.Metric
	if err := r.RunInputNodesTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 1000 {
		t.Errorf("RunInputNodesTotal = %v, want 1000", metric.Gauge.GetValue())
	}

	if err := r.RunLevelsTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 4 {
		t.Errorf("RunLevelsTotal = %v, want 4", metric.Gauge.GetValue())
	}
}

func TestRecordLevel(t *testing.T) {
	r := NewRegistry()

	r.RecordLevel(0, 120, 1000, 0.42, 0.12)
	r.RecordLevel(1, 30, 120, 0.05, 0.25)

	level0, err := r.LevelClustersTotal.GetMetricWithLabelValues("0")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := level0.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 120 {
		t.Errorf("level 0 clusters = %v, want 120", metric.Gauge.GetValue())
	}

	level1, err := r.LevelClustersTotal.GetMetricWithLabelValues("1")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if err := level1.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 30 {
		t.Errorf("level 1 clusters = %v, want 30", metric.Gauge.GetValue())
	}
}

func TestRecordGammaSweepStepAndBest(t *testing.T) {
	r := NewRegistry()

	r.RecordGammaSweepStep(10 * time.Millisecond)
	r.RecordGammaSweepStep(12 * time.Millisecond)
	r.RecordGammaSweepBest(0.61)

	var metric dto.Metric
	if err := r.GammaSweepStepsTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("GammaSweepStepsTotal = %v, want 2", metric.Counter.GetValue())
	}

	if err := r.GammaSweepBestScore.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 0.61 {
		t.Errorf("GammaSweepBestScore = %v, want 0.61", metric.Gauge.GetValue())
	}
}

func TestRecordAhashLookup(t *testing.T) {
	r := NewRegistry()

	r.RecordAhashLookup(true)
	r.RecordAhashLookup(true)
	r.RecordAhashLookup(false)
	r.RecordAhashOverflow()
	r.SetAhashBucketCount(42)

	var metric dto.Metric
	if err := r.AhashBucketHitsTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("AhashBucketHitsTotal = %v, want 2", metric.Counter.GetValue())
	}

	if err := r.AhashBucketMissesTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("AhashBucketMissesTotal = %v, want 1", metric.Counter.GetValue())
	}

	if err := r.AhashOverflowsTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("AhashOverflowsTotal = %v, want 1", metric.Counter.GetValue())
	}

	if err := r.AhashBucketsTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 42 {
		t.Errorf("AhashBucketsTotal = %v, want 42", metric.Gauge.GetValue())
	}
}

func TestRecordMergeCandidate(t *testing.T) {
	r := NewRegistry()

	r.RecordMergeCandidate(true, true)
	r.RecordMergeCandidate(true, false)
	r.RecordMergeCandidate(false, false)

	var metric dto.Metric
	if err := r.MergeCandidatesEvaluatedTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 3 {
		t.Errorf("MergeCandidatesEvaluatedTotal = %v, want 3", metric.Counter.GetValue())
	}

	if err := r.MutualCandidateMatchesTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("MutualCandidateMatchesTotal = %v, want 2", metric.Counter.GetValue())
	}

	if err := r.MergesAppliedTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("MergesAppliedTotal = %v, want 1", metric.Counter.GetValue())
	}
}

func TestRecordOutputSelection(t *testing.T) {
	r := NewRegistry()

	r.RecordOutputSelection("SIGNIF_OWNER", 17)
	r.RecordOutputSelection("ROOT", 1)
	r.RecordOutputWriteError()

	signif, err := r.OutputClustersSelectedTotal.GetMetricWithLabelValues("SIGNIF_OWNER")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := signif.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 17 {
		t.Errorf("SIGNIF_OWNER selected = %v, want 17", metric.Gauge.GetValue())
	}

	if err := r.OutputWriteErrorsTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("OutputWriteErrorsTotal = %v, want 1", metric.Counter.GetValue())
	}
}

func TestGetPrometheusRegistry(t *testing.T) {
	r := NewRegistry()
	// A labelled GaugeVec is only gathered once it has a child.
	r.RecordLevel(0, 1, 1, 0, 0)
	promRegistry := r.GetPrometheusRegistry()

	if promRegistry == nil {
		t.Fatal("GetPrometheusRegistry() returned nil")
	}

	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	if len(metrics) == 0 {
		t.Error("No metrics registered")
	}

	expectedMetrics := []string{
		"daocluster_run_input_nodes_total",
		"daocluster_level_clusters_total",
		"daocluster_ahash_buckets_total",
	}

	metricNames := make(map[string]bool)
	for _, m := range metrics {
		metricNames[m.GetName()] = true
	}

	for _, expected := range expectedMetrics {
		if !metricNames[expected] {
			t.Errorf("Expected metric %s not found", expected)
		}
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	promRegistry := r.GetPrometheusRegistry()

	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	for _, m := range metrics {
		name := m.GetName()
		if !strings.HasPrefix(name, "daocluster_") {
			t.Errorf("Metric %s does not have daocluster_ prefix", name)
		}
	}
}

func TestRunDurationHistogram(t *testing.T) {
	r := NewRegistry()

	r.RecordRun(10, 20, 2, 1.0, 100*time.Millisecond)
	r.RecordRun(10, 20, 2, 1.0, 300*time.Millisecond)

	var metric dto.Metric
	if err := r.RunDurationSeconds.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("sample count = %v, want 2", metric.Histogram.GetSampleCount())
	}

	sum := metric.Histogram.GetSampleSum()
	if sum < 0.39 || sum > 0.41 {
		t.Errorf("sample sum = %v, want ~0.4", sum)
	}
}

func BenchmarkRecordLevel(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordLevel(0, 100, 1000, 0.1, 0.1)
	}
}

func BenchmarkRecordMergeCandidate(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordMergeCandidate(true, false)
	}
}

func BenchmarkSetGauge(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RunInputNodesTotal.Set(float64(i))
	}
}
