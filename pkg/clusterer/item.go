// Package clusterer implements the bottom-up agglomerative level
// builder: computing modularity gains between items, selecting
// mutually-best candidate groups, forming the next level's clusters,
// and tracking fuzzy membership shares until a termination rule fires.
package clusterer

import "github.com/dd0wney/daocluster/pkg/graphmodel"

// item is the capability interface the builder needs from either a
// level-0 Node or a higher-level Cluster: an index, its adjacency, and
// its current self-weight. "Item is Node or Cluster" polymorphism is
// abstracted behind this small capability interface rather than a
// tagged variant threaded through every algorithm.
type item struct {
	index  uint32
	weight float64
	links  []neighbor
}

// neighbor is an item's view of one adjacent item at the current level:
// destination index and aggregated bidirectional weight.
type neighbor struct {
	dest   uint32
	weight float64
}

// itemsFromNodes builds the level-0 item set directly from Graph-owned
// nodes, preserving node-id order (the stable ordering invariant
// required by the determinism rules). Node ids need not be contiguous,
// so neighbor destinations are remapped from node id to slice index.
func itemsFromNodes(nodes []graphmodel.Node) []item {
	idToIndex := make(map[uint32]uint32, len(nodes))
	for i, n := range nodes {
		idToIndex[n.ID] = uint32(i)
	}

	items := make([]item, len(nodes))
	for i, n := range nodes {
		links := make([]neighbor, len(n.Links))
		for j, l := range n.Links {
			links[j] = neighbor{dest: idToIndex[l.Dest], weight: l.Weight}
		}
		items[i] = item{index: uint32(i), weight: n.Weight, links: links}
	}
	return items
}

// itemsFromClusters builds the level k+1 item set from level k's
// clusters, in cluster-insertion order (also a stable, deterministic
// order).
func itemsFromClusters(clusters []graphmodel.Cluster) []item {
	items := make([]item, len(clusters))
	for i, c := range clusters {
		links := make([]neighbor, len(c.Links))
		for j, l := range c.Links {
			links[j] = neighbor{dest: l.Dest, weight: l.Weight}
		}
		items[i] = item{index: uint32(i), weight: c.Weight, links: links}
	}
	return items
}
