// Package graphmodel holds the owning store for the input graph: Node,
// Link, Cluster, OwnerRef, the Graph ingestion API, the Reducer policy
// engine for low-weight link folding, and ErrorAccumulator diagnostics.
// Nodes and Clusters are referenced by (level, index) pairs rather than
// pointers, matching the arena layout called for once ownership moves
// into a Hierarchy.
package graphmodel

import "math"

// IDNone is the reserved sentinel for "no node/cluster".
const IDNone uint32 = math.MaxUint32

// Link is a directed adjacency entry: a destination node id and its
// weight. Missing weight on an unweighted graph is represented as 1.
type Link struct {
	Dest   uint32
	Weight float64
}

// OwnerRef is a back-pointer from a descendant to one of the clusters
// that contains it, ordered by the owner's index. NumAc is the
// per-owner activation count; the descendant's share of that owner is
// NumAc divided by the owner Cluster's TotAc. The Clusterer sets NumAc to
// 1 under crisp overlap and to the merge group's size under fuzzy overlap.
type OwnerRef struct {
	Dest  uint32
	NumAc uint32
}

// Node is a level-0 item: an input vertex with its doubled self-weight,
// ordered unique adjacency list, and back-pointers to the level-1
// clusters that own it.
type Node struct {
	ID     uint32
	Weight float64
	Links  []Link
	Owners []OwnerRef
}

// Degree returns the number of distinct neighbors.
func (n *Node) Degree() int {
	return len(n.Links)
}

// LinkTo returns the link to dest and whether it exists. Links are kept
// sorted by Dest, so this binary-searches the slice.
func (n *Node) LinkTo(dest uint32) (Link, bool) {
	lo, hi := 0, len(n.Links)
	for lo < hi {
		mid := (lo + hi) / 2
		if n.Links[mid].Dest < dest {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(n.Links) && n.Links[lo].Dest == dest {
		return n.Links[lo], true
	}
	return Link{}, false
}

// insertLink inserts or accumulates a link into a sorted, duplicate-free
// adjacency list. It reports whether a duplicate was seen (added=false
// means the weight was merged into (or discarded in favor of) an
// existing entry rather than creating a new one).
func insertLink(links []Link, dest uint32, weight float64, sumDuplicates bool) ([]Link, bool) {
	lo, hi := 0, len(links)
	for lo < hi {
		mid := (lo + hi) / 2
		if links[mid].Dest < dest {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(links) && links[lo].Dest == dest {
		if sumDuplicates {
			links[lo].Weight += weight
		}
		return links, false
	}
	links = append(links, Link{})
	copy(links[lo+1:], links[lo:])
	links[lo] = Link{Dest: dest, Weight: weight}
	return links, true
}
