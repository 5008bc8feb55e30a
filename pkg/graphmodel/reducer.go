package graphmodel

import (
	"sort"

	"github.com/dd0wney/daocluster/pkg/config"
)

// Reducer folds statistically insignificant links into node self-weight
// before clustering, for directed+weighted graphs only. It never
// mutates a Graph directly: callers pass it the raw per-node link list
// and apply its Reduced output themselves, which keeps the heavy/light
// windowing logic testable in isolation from ingestion.
type Reducer struct {
	policy config.ReductionPolicy
	rMin   int
}

// NewReducer builds a Reducer for the given policy. rMin is the
// minimum-retain count, typically derived from the graph's node count.
func NewReducer(policy config.ReductionPolicy, rMin int) *Reducer {
	return &Reducer{policy: policy, rMin: rMin}
}

// Active reports whether this reducer actually removes anything; NONE
// is a no-op pass-through.
func (r *Reducer) Active() bool {
	return r.policy != config.ReductionNone
}

// Result is the outcome of reducing one node's raw link list: the
// surviving (heavy) links in original relative order, and the
// self-weight contribution folded from the removed (light) links.
type Result struct {
	Kept           []Link
	SelfWeightGain float64
}

// Reduce applies the configured policy to a node's raw links, returning
// the surviving heavy links and the self-weight to add. selfLinks is the
// count of self-links interleaved in the raw batch (already excluded
// from links); it extends the heavy window so reduction never starves
// the heavy side below rMin because of self-link interleaving.
func (r *Reducer) Reduce(links []Link, selfLinks int) Result {
	if !r.Active() || len(links) == 0 {
		return Result{Kept: links}
	}

	n := len(links)
	rMin := r.rMin + selfLinks
	if rMin > n {
		rMin = n
	}

	sorted := make([]int, n)
	for i := range sorted {
		sorted[i] = i
	}
	sort.Slice(sorted, func(a, b int) bool {
		return links[sorted[a]].Weight < links[sorted[b]].Weight
	})

	scale := 0.5
	if r.policy == config.ReductionSevere {
		scale = 0.85
	}

	// sorted is ascending by weight: the prefix (light side) is folded,
	// the suffix (heavy side, from the high end) is kept. Walk both ends
	// toward the middle until the light cumulative weight would reach
	// the heavy cumulative weight scaled by `scale`.
	lightSum, heavySum := 0.0, 0.0
	lightCount := 0
	heavyStart := n // index into sorted where the kept suffix begins

	for lightCount < n-rMin {
		nextLight := links[sorted[lightCount]].Weight
		if lightSum < heavySum*scale && heavyStart > lightCount {
			lightSum += nextLight
			lightCount++
			for lightCount < n-rMin && links[sorted[lightCount]].Weight == nextLight {
				lightSum += links[sorted[lightCount]].Weight
				lightCount++
			}
			continue
		}

		if heavyStart > lightCount {
			heavyStart--
			heavySum += links[sorted[heavyStart]].Weight
			continue
		}
		break
	}

	keptIdx := make(map[int]bool, n-lightCount)
	for i := lightCount; i < n; i++ {
		keptIdx[sorted[i]] = true
	}

	kept := make([]Link, 0, len(keptIdx))
	var gain float64
	for i, l := range links {
		if keptIdx[i] {
			kept = append(kept, l)
		} else {
			gain += l.Weight
		}
	}

	return Result{Kept: kept, SelfWeightGain: gain}
}
