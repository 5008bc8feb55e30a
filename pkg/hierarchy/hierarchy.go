// Package hierarchy assembles the levels a Clusterer run produces into a
// navigable pyramid: per-level clusters, the root set (clusters with no
// owner), and the unwrap operation that expands any cluster down to its
// member nodes with accumulated membership shares.
package hierarchy

import (
	"sort"

	"github.com/dd0wney/daocluster/pkg/graphmodel"
)

// Level is one level of the hierarchy: its clusters plus the item count
// the level was built from (needed for reduction-ratio reporting).
type Level struct {
	Clusters []graphmodel.Cluster
	FullSize uint32
}

// Score summarizes a completed Hierarchy: the modularity achieved at the
// stop point, the number of distinct non-propagated clusters across all
// levels, and the number of directed node-to-node links in the original
// input.
type Score struct {
	Modularity float64
	Clusters   int
	NodeLinks  int
}

// Hierarchy is the full pyramid produced by a clustering run: the
// level-0 nodes (with owner back-references already populated) and the
// levels built above them.
type Hierarchy struct {
	Nodes  []graphmodel.Node
	Levels []Level
	Gamma  float32
}

// New builds a Hierarchy from a completed run's nodes and levels.
func New(nodes []graphmodel.Node, levels []Level, gamma float32) *Hierarchy {
	return &Hierarchy{Nodes: nodes, Levels: levels, Gamma: gamma}
}

// Root returns the top-level clusters that have no owner: the clusters
// on the last built level, since every cluster below the top is owned
// by something above it.
func (h *Hierarchy) Root() []graphmodel.Cluster {
	if len(h.Levels) == 0 {
		return nil
	}
	top := h.Levels[len(h.Levels)-1].Clusters
	out := make([]graphmodel.Cluster, 0, len(top))
	for _, c := range top {
		if c.IsRoot() {
			out = append(out, c)
		}
	}
	return out
}

// Unwrap recursively expands cluster (at level levNum) down to its
// member nodes, multiplying the per-path share at each hop. When
// maxShareOnly is true, a node reachable via more than one descent path
// keeps only the largest share seen; otherwise shares from independent
// paths are summed. The returned map carries no order; UnwrapOrdered
// returns the same shares sorted by node id.
func (h *Hierarchy) Unwrap(levNum uint16, cluster graphmodel.Cluster, maxShareOnly bool) map[uint32]float64 {
	shares := make(map[uint32]float64)
	h.unwrapInto(levNum, cluster, 1.0, maxShareOnly, shares)
	return shares
}

func (h *Hierarchy) unwrapInto(levNum uint16, cluster graphmodel.Cluster, pathShare float64, maxShareOnly bool, shares map[uint32]float64) {
	if levNum == 0 {
		for _, nodeIdx := range cluster.Des {
			if int(nodeIdx) >= len(h.Nodes) {
				continue
			}
			node := &h.Nodes[nodeIdx]
			share := pathShare * ownerShare(node.Owners, cluster.ID, cluster.TotAc)
			accumulate(shares, node.ID, share, maxShareOnly)
		}
		return
	}

	below := h.Levels[levNum-1].Clusters
	for _, childIdx := range cluster.Des {
		if int(childIdx) >= len(below) {
			continue
		}
		child := below[childIdx]
		share := pathShare * ownerShare(child.Owners, cluster.ID, cluster.TotAc)
		h.unwrapInto(levNum-1, child, share, maxShareOnly, shares)
	}
}

// ownerShare returns a descendant's fraction of cluster's membership:
// NumAc/TotAc from the OwnerRef matching ownerID, the fuzzy-overlap
// formula that also covers the crisp case (NumAc=TotAc=1 there, so the
// ratio is always 1). Falls back to a full 1.0 share when no matching
// ownership entry is recorded, which should only happen for a
// structurally inconsistent hierarchy.
func ownerShare(owners []graphmodel.OwnerRef, ownerID uint32, totAc uint32) float64 {
	for _, o := range owners {
		if o.Dest == ownerID {
			if totAc == 0 {
				return 1.0
			}
			return float64(o.NumAc) / float64(totAc)
		}
	}
	return 1.0
}

func accumulate(shares map[uint32]float64, id uint32, share float64, maxShareOnly bool) {
	if maxShareOnly {
		if share > shares[id] {
			shares[id] = share
		}
		return
	}
	shares[id] += share
}

// UnwrapOrdered is Unwrap with its result flattened into node-id order,
// the stable presentation order the output formats require.
func (h *Hierarchy) UnwrapOrdered(levNum uint16, cluster graphmodel.Cluster, maxShareOnly bool) []NodeShare {
	raw := h.Unwrap(levNum, cluster, maxShareOnly)
	out := make([]NodeShare, 0, len(raw))
	for id, s := range raw {
		out = append(out, NodeShare{NodeID: id, Share: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID < out[j].NodeID })
	return out
}

// NodeShare pairs a node id with its accumulated membership share in an
// unwrapped cluster.
type NodeShare struct {
	NodeID uint32
	Share  float64
}

// ComputeScore derives the Hierarchy's summary Score: modularity at the
// stop point for the stored gamma, the count of distinct non-propagated
// clusters (a cluster whose single descendant is also its descendant's
// only owner is a pure propagation and does not count), and the number
// of directed node links in the original input.
func (h *Hierarchy) ComputeScore() Score {
	modularity := h.modularityAtTop()
	clusters := 0
	for levNum, lvl := range h.Levels {
		for i := range lvl.Clusters {
			c := &lvl.Clusters[i]
			if h.isWrapperAt(uint16(levNum), c) {
				continue
			}
			clusters++
		}
	}

	nodeLinks := 0
	for _, n := range h.Nodes {
		nodeLinks += len(n.Links)
	}

	return Score{Modularity: clamp(modularity, -0.5, 1), Clusters: clusters, NodeLinks: nodeLinks}
}

// isWrapperAt reports whether cluster c at level levNum is a pure
// propagation: its single descendant's only owner is c itself.
func (h *Hierarchy) isWrapperAt(levNum uint16, c *graphmodel.Cluster) bool {
	if len(c.Des) != 1 {
		return false
	}
	var ownerCount int
	if levNum == 0 {
		idx := c.Des[0]
		if int(idx) >= len(h.Nodes) {
			return false
		}
		ownerCount = len(h.Nodes[idx].Owners)
	} else {
		below := h.Levels[levNum-1].Clusters
		idx := c.Des[0]
		if int(idx) >= len(below) {
			return false
		}
		ownerCount = len(below[idx].Owners)
	}
	return c.IsWrapper(ownerCount)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// modularityAtTop computes Q = Σ_c [w_c/W − γ·(s_c/W)²] over the root
// clusters, where w_c is a cluster's self-weight and s_c its total
// incident weight (self-weight plus adjacency). Falls back to 0 when
// there are no levels (a graph too small to merge).
func (h *Hierarchy) modularityAtTop() float64 {
	if len(h.Levels) == 0 {
		return 0
	}
	top := h.Levels[len(h.Levels)-1].Clusters

	var w float64
	for _, n := range h.Nodes {
		w += n.Weight
		for _, l := range n.Links {
			w += l.Weight
		}
	}
	if w == 0 {
		return 0
	}

	var q float64
	for _, c := range top {
		s := incidentWeight(c)
		q += c.Weight/w - float64(h.Gamma)*(s/w)*(s/w)
	}
	return q
}

func incidentWeight(c graphmodel.Cluster) float64 {
	s := c.Weight
	for _, l := range c.Links {
		s += l.Weight
	}
	return s
}
