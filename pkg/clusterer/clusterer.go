package clusterer

import (
	"fmt"

	"github.com/dd0wney/daocluster/pkg/config"
	"github.com/dd0wney/daocluster/pkg/graphmodel"
	"github.com/dd0wney/daocluster/pkg/hierarchy"
	"github.com/dd0wney/daocluster/pkg/logging"
	"github.com/dd0wney/daocluster/pkg/metrics"
	"github.com/dd0wney/daocluster/pkg/runtime"
)

// Cluster runs the full bottom-up agglomerative build described by
// opts against the nodes released from a Graph, recording progress via
// rt.Logger and m (nil m disables metrics). It stops once a level's
// merge groups produce no further gainful merges, a configured root
// bound is satisfied, or the gain-margin threshold is crossed, and
// returns the assembled Hierarchy.
func Cluster(nodes []graphmodel.Node, opts config.ClusterOptions, rt *runtime.Runtime, m *metrics.Registry) (*hierarchy.Hierarchy, error) {
	if rt == nil {
		rt = runtime.Default()
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("clusterer: invalid options: %w", err)
	}

	gamma := opts.Gamma
	if opts.DynamicGamma() {
		gamma = resolveDynamicGamma(nodes)
	}

	var levels []hierarchy.Level

	items := itemsFromNodes(nodes)
	levNum := uint16(0)
	edgeCount := countEdges(items)

	const maxLevels = 64
	for levNum = 0; int(levNum) < maxLevels; levNum++ {
		if len(items) <= 1 {
			break
		}

		w := totalWeight(items)
		s := make([]float64, len(items))
		for i, it := range items {
			s[i] = incidentWeight(it)
		}

		cands := mcands(items, s, w, gamma, opts.FilterMargin)
		groups, stats := mergeGroups(cands, opts.UseAhash)

		bridged := false
		if allSingletonGroups(groups) && opts.RootBound.Active() && opts.RootBound.Standalone &&
			len(items) > int(opts.RootBound.RootMax) && len(items) >= 2 {
			if merged := applyStandaloneBridge(groups, items, s, w, gamma, opts.RootBound.NonNegative); len(merged) != len(groups) {
				groups = merged
				bridged = true
			}
		}

		lr := buildLevel(items, groups, s, w, gamma, levNum, opts.FuzzyOverlap)

		if m != nil {
			m.RecordLevel(levNum, len(lr.clusters), len(items), lr.gain, reductionRatio(len(items), len(lr.clusters)))
			for i := 0; i < stats.ahashHits; i++ {
				m.RecordAhashLookup(true)
			}
			for i := 0; i < stats.ahashMisses; i++ {
				m.RecordAhashLookup(false)
			}
			for i := 0; i < stats.ahashOverflow; i++ {
				m.RecordAhashOverflow()
			}
			m.RecordMergeCandidate(stats.mutualMatches > 0, lr.merges > 0)
		}
		if rt.Logger != nil {
			rt.Logger.Info("level built",
				logging.LevelNum(levNum),
				logging.Gamma(gamma),
			)
			if bridged {
				rt.Logger.Info("standalone root bound bridged disconnected components", logging.LevelNum(levNum))
			}
		}

		// Splice owner backreferences onto this level's descendants.
		applyOwners(levNum, nodes, levels, lr.ownersByItem)

		levels = append(levels, hierarchy.Level{Clusters: lr.clusters, FullSize: uint32(len(items))})

		if shouldStop(opts, len(lr.clusters), lr.gain, edgeCount) {
			break
		}
		if len(lr.clusters) == len(items) {
			// No group merged anything; further iteration would loop
			// forever re-proposing the same singleton partition.
			break
		}

		items = itemsFromClusters(lr.clusters)
	}

	return hierarchy.New(nodes, levels, gamma), nil
}

// applyOwners splices the owner back-references computed for level
// levNum onto that level's descendants: Node.Owners when levNum==0,
// otherwise the previous level's Cluster.Owners.
func applyOwners(levNum uint16, nodes []graphmodel.Node, prior []hierarchy.Level, owners [][]graphmodel.OwnerRef) {
	if levNum == 0 {
		for i, o := range owners {
			if i < len(nodes) {
				nodes[i].Owners = o
			}
		}
		return
	}
	below := prior[len(prior)-1].Clusters
	for i, o := range owners {
		if i < len(below) {
			below[i].Owners = o
		}
	}
}

// allSingletonGroups reports whether every group is a lone propagated
// item, i.e. the round produced no merges at all.
func allSingletonGroups(groups [][]uint32) bool {
	for _, g := range groups {
		if len(g) > 1 {
			return false
		}
	}
	return true
}

// applyStandaloneBridge forces a merge between the two lowest-index items
// when a STANDALONE root bound needs to keep shrinking the root level past
// a round with no natural mutual-candidate merges — the situation that
// arises once the graph has fully collapsed into disconnected components,
// since mcands/mergeGroups only ever propose merges along existing
// adjacency. It bridges exactly one pair per level (the lowest-index
// components), not an exhaustive minimum-cost pairing across every
// disconnected component; reaching root_max across more than two
// components takes one bridge per subsequent level. NONNEGATIVE rejects
// the bridge outright when its modularity gain would be negative, which
// for a genuinely disconnected pair (zero link weight) is the common case,
// so NONNEGATIVE effectively disables cross-component bridging.
func applyStandaloneBridge(groups [][]uint32, items []item, s []float64, w float64, gamma float32, nonNegative bool) [][]uint32 {
	if len(items) < 2 {
		return groups
	}
	i, j := uint32(0), uint32(1)
	gain := modularityGain(linkWeightBetween(items[i], j), s[i], s[j], w, gamma)
	if nonNegative && gain < 0 {
		return groups
	}

	out := make([][]uint32, 0, len(groups))
	for _, g := range groups {
		if len(g) == 1 && (g[0] == i || g[0] == j) {
			continue
		}
		out = append(out, g)
	}
	return append(out, []uint32{i, j})
}

func linkWeightBetween(it item, dest uint32) float64 {
	for _, nb := range it.links {
		if nb.dest == dest {
			return nb.weight
		}
	}
	return 0
}

func countEdges(items []item) int {
	n := 0
	for _, it := range items {
		n += len(it.links)
	}
	return n / 2
}

func reductionRatio(before, after int) float64 {
	if before == 0 {
		return 0
	}
	return float64(after) / float64(before)
}

// resolveDynamicGamma picks a resolution from the network's density when
// opts requests automatic selection (Gamma < 0): denser networks need a
// higher gamma to avoid collapsing to a single giant cluster. This
// mirrors the heuristic the original tool falls back to when no
// explicit gamma or sweep range is given.
func resolveDynamicGamma(nodes []graphmodel.Node) float32 {
	if len(nodes) == 0 {
		return 1.0
	}
	var edges int
	for _, n := range nodes {
		edges += len(n.Links)
	}
	density := float64(edges) / float64(len(nodes))
	switch {
	case density > 20:
		return 1.5
	case density > 5:
		return 1.0
	default:
		return 0.75
	}
}
