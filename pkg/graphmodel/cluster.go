package graphmodel

// ClusterLink is an aggregated adjacency entry between two clusters on
// the same level, analogous to Link but keyed by cluster index rather
// than node id.
type ClusterLink struct {
	Dest   uint32
	Weight float64
}

// Cluster is a non-leaf item formed by the Clusterer at some level: a
// merge group of descendants (nodes at level 0, clusters at level>0)
// together with its aggregated sibling adjacency and its own owners at
// the next level up.
type Cluster struct {
	ID     uint32
	LevNum uint16

	// Des holds the indices of this cluster's direct descendants: node
	// indices when LevNum==0, otherwise cluster indices into level
	// LevNum-1.
	Des []uint32

	Links  []ClusterLink
	Owners []OwnerRef

	Weight float64

	// TotAc/NumAc support overlap share bookkeeping: TotAc is the
	// denominator for the NumAc of every descendant OwnerRef that points
	// at this cluster, so a descendant's share of this cluster is
	// NumAc/TotAc. The Clusterer sets it to 1 (crisp) or to the group
	// size (fuzzy), the same value it gives those NumAc fields.
	TotAc uint32
}

// IsWrapper reports whether this cluster has exactly one descendant and
// is itself the descendant's only owner — a pure propagation carrying no
// new structure, excluded from non-HIER outputs.
func (c *Cluster) IsWrapper(descendantOwnerCount int) bool {
	return len(c.Des) == 1 && descendantOwnerCount == 1
}

// IsRoot reports whether this cluster has no owners.
func (c *Cluster) IsRoot() bool {
	return len(c.Owners) == 0
}
