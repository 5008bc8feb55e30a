package clusterer

import (
	"math"
	"sort"

	"github.com/dd0wney/daocluster/pkg/config"
	"github.com/dd0wney/daocluster/pkg/graphmodel"
)

// buildResult is the outcome of forming one new level from the current
// item set: the clusters themselves, the owner-ref lists to splice back
// onto the descendants (nodes or lower-level clusters), and the
// aggregate modularity gain achieved.
type buildResult struct {
	clusters     []graphmodel.Cluster
	ownersByItem [][]graphmodel.OwnerRef
	gain         float64
	merges       int
}

// buildLevel forms the next level's clusters from items and their merge
// groups. Items not covered by any multi-member group are propagated
// unchanged as singleton clusters. fuzzy controls whether multi-owner
// descendants (overlap) get proportional activation-count shares
// (fuzzy) or equal shares (crisp); level-building always allows a
// descendant into exactly one group in this implementation (see
// DESIGN.md for the overlap-policy simplification), so the distinction
// only affects TotAc bookkeeping consumed downstream by unwrap.
func buildLevel(items []item, groups [][]uint32, s []float64, w float64, gamma float32, levNum uint16, fuzzy bool) buildResult {
	covered := make([]bool, len(items))
	for _, g := range groups {
		for _, idx := range g {
			covered[idx] = true
		}
	}
	for i := range items {
		if !covered[i] {
			groups = append(groups, []uint32{uint32(i)})
		}
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a][0] < groups[b][0] })

	itemToCluster := make([]uint32, len(items))
	clusters := make([]graphmodel.Cluster, len(groups))
	var gain float64
	var merges int

	for ci, group := range groups {
		if len(group) > 1 {
			merges++
		}
		var selfWeight float64
		des := make([]uint32, len(group))
		for gi, idx := range group {
			des[gi] = idx
			itemToCluster[idx] = uint32(ci)
			selfWeight += items[idx].weight
		}
		// Intra-group link weight contributes twice to self-weight; also
		// accumulate the merge gain this group realized over its internal
		// pairs.
		memberSet := make(map[uint32]bool, len(group))
		for _, idx := range group {
			memberSet[idx] = true
		}
		for _, idx := range group {
			for _, nb := range items[idx].links {
				if memberSet[nb.dest] && nb.dest > idx {
					selfWeight += 2 * nb.weight
					gain += modularityGain(nb.weight, s[idx], s[nb.dest], w, gamma)
				}
			}
		}

		clusters[ci] = graphmodel.Cluster{
			ID:     uint32(ci),
			LevNum: levNum,
			Des:    des,
			Weight: selfWeight,
		}
	}

	// Aggregate sibling links between the new clusters.
	for ci, group := range groups {
		agg := make(map[uint32]float64)
		for _, idx := range group {
			for _, nb := range items[idx].links {
				destCluster := itemToCluster[nb.dest]
				if destCluster == uint32(ci) {
					continue // intra-group, already folded into self-weight
				}
				agg[destCluster] += nb.weight
			}
		}
		dests := make([]uint32, 0, len(agg))
		for d := range agg {
			dests = append(dests, d)
		}
		sort.Slice(dests, func(a, b int) bool { return dests[a] < dests[b] })
		links := make([]graphmodel.ClusterLink, len(dests))
		for i, d := range dests {
			links[i] = graphmodel.ClusterLink{Dest: d, Weight: agg[d]}
		}
		clusters[ci].Links = links
	}

	ownersByItem := make([][]graphmodel.OwnerRef, len(items))
	for ci, group := range groups {
		numAc := uint32(1)
		if fuzzy {
			numAc = uint32(len(group))
		}
		for _, idx := range group {
			ownersByItem[idx] = append(ownersByItem[idx], graphmodel.OwnerRef{Dest: uint32(ci), NumAc: numAc})
		}
		clusters[ci].TotAc = numAc
	}

	return buildResult{clusters: clusters, ownersByItem: ownersByItem, gain: gain, merges: merges}
}

// shouldStop evaluates the termination rules from ClusterOptions against
// the level just built.
func shouldStop(opts config.ClusterOptions, newClusterCount int, gain float64, edgeCount int) bool {
	forceContinue := false
	if opts.RootBound.Active() {
		switch opts.RootBound.Direction {
		case config.RootDown, config.RootBoth:
			if newClusterCount <= int(opts.RootBound.RootMax) {
				return true
			}
		}
		switch opts.RootBound.Direction {
		case config.RootUp, config.RootBoth:
			// UP (and BOTH) force continued clustering past a
			// non-gainful step; NONNEGATIVE overrides that and restores
			// the ordinary stop-on-non-positive-gain rule.
			forceContinue = !opts.RootBound.NonNegative
		}
	}

	if gain <= 0 && !forceContinue {
		return true
	}

	if opts.GainMargEffective() {
		threshold := float64(opts.GainMarg)
		achieved := gain
		if opts.GainMargDiv && edgeCount > 0 {
			achieved /= math.Sqrt(float64(edgeCount))
		}
		if achieved < threshold {
			return true
		}
	}

	return false
}
