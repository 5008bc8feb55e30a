package graphmodel

import (
	"fmt"
	"sort"

	"github.com/dd0wney/daocluster/pkg/config"
	"github.com/dd0wney/daocluster/pkg/runtime"
)

// Graph is the owning store for nodes and their ordered, unique
// adjacency lists during ingestion. Ownership transfers out via
// Release once a Clusterer run begins; after that the Graph is empty.
type Graph struct {
	nodes         map[uint32]*Node
	order         []uint32 // insertion order, permuted on first read if shuffle was requested
	shuffle       bool
	shuffled      bool
	directed      bool
	sumDuplicates bool
	reduction     config.ReductionPolicy
	errs          *ErrorAccumulator
	rt            *runtime.Runtime
}

// New preallocates the id->Node map for expectedNodes entries. If
// shuffle is true, IngestionOrder permutes node ingestion order (which
// only affects tie-break scratch order, never the final deterministic
// result, since Release always hands back nodes sorted by id) using
// rt's seeded PRNG.
func New(rt *runtime.Runtime, expectedNodes int, shuffle bool, sumDuplicates bool, reduction config.ReductionPolicy) *Graph {
	if rt == nil {
		rt = runtime.Default()
	}
	g := &Graph{
		nodes:         make(map[uint32]*Node, expectedNodes),
		order:         make([]uint32, 0, expectedNodes),
		shuffle:       shuffle,
		sumDuplicates: sumDuplicates,
		reduction:     reduction,
		errs:          NewErrorAccumulator(),
		rt:            rt,
	}
	return g
}

// IngestionOrder returns the ids in the order they were added, permuted
// by the Runtime's seeded PRNG the first time this is called if New was
// given shuffle=true (permuted once and cached, not reshuffled on
// further calls). Release's output order is unaffected; this is for
// callers that want to observe or log raw ingestion order, e.g. staging
// diagnostics ahead of a run.
func (g *Graph) IngestionOrder() []uint32 {
	if g.shuffle && !g.shuffled {
		g.shuffleOrder()
		g.shuffled = true
	}
	out := make([]uint32, len(g.order))
	copy(out, g.order)
	return out
}

// Errors returns the ErrorAccumulator gathering ingestion diagnostics.
func (g *Graph) Errors() *ErrorAccumulator {
	return g.errs
}

// NodeCount returns the number of nodes currently held by the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Has reports whether id has been added.
func (g *Graph) Has(id uint32) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddNodes adds each id as a new node. An id already present is
// recorded as a duplicate and discarded rather than overwriting the
// existing node.
func (g *Graph) AddNodes(ids []uint32) {
	for _, id := range ids {
		g.addNode(id)
	}
}

// AddNodeRange adds count nodes with ids firstID, firstID+1, ....
func (g *Graph) AddNodeRange(firstID uint32, count int) {
	for i := 0; i < count; i++ {
		g.addNode(firstID + uint32(i))
	}
}

func (g *Graph) addNode(id uint32) {
	if _, exists := g.nodes[id]; exists {
		g.errs.DuplicateNode(id)
		return
	}
	g.nodes[id] = &Node{ID: id}
	g.order = append(g.order, id)
}

// shuffleOrder applies the Runtime's PRNG to the ingestion order. Only
// affects bookkeeping order, never the final clustering result.
func (g *Graph) shuffleOrder() {
	g.rt.Shuffle(len(g.order), func(i, j int) {
		g.order[i], g.order[j] = g.order[j], g.order[i]
	})
}

// AddNodeLinks adds links from an existing src to existing destinations.
// Self-links are always treated as edges, contributing 2*w to the
// source's self-weight regardless of directed. Undirected non-self links
// insert two symmetric adjacency entries; directed links insert one.
// Duplicates accumulate their weight when sumDuplicates is set,
// otherwise the later occurrence is discarded and recorded.
func (g *Graph) AddNodeLinks(directed bool, src uint32, links []Link) error {
	srcNode, ok := g.nodes[src]
	if !ok {
		return &ReferenceError{Src: src, Dst: src}
	}
	for _, l := range links {
		if err := g.addOneLink(directed, srcNode, l); err != nil {
			return err
		}
	}
	return nil
}

// AddNodeAndLinks behaves like AddNodeLinks but creates src and any
// missing destinations rather than rejecting unknown ids.
func (g *Graph) AddNodeAndLinks(directed bool, src uint32, links []Link) error {
	if !g.Has(src) {
		g.addNode(src)
	}
	for _, l := range links {
		if !g.Has(l.Dest) {
			g.addNode(l.Dest)
		}
	}
	return g.AddNodeLinks(directed, src, links)
}

func (g *Graph) addOneLink(directed bool, srcNode *Node, l Link) error {
	dstNode, ok := g.nodes[l.Dest]
	if !ok {
		return &ReferenceError{Src: srcNode.ID, Dst: l.Dest}
	}

	weight := l.Weight

	if l.Dest == srcNode.ID {
		srcNode.Weight += 2 * weight
		return nil
	}

	var added bool
	srcNode.Links, added = insertLink(srcNode.Links, l.Dest, weight, g.sumDuplicates)
	if !added && !g.sumDuplicates {
		g.errs.DuplicateLink(srcNode.ID, l.Dest)
	}

	if !directed {
		dstNode.Links, added = insertLink(dstNode.Links, srcNode.ID, weight, g.sumDuplicates)
		if !added && !g.sumDuplicates {
			g.errs.DuplicateLink(l.Dest, srcNode.ID)
		}
	}
	return nil
}

// TotalWeight returns the graph's total weight: sum of node self-weights
// plus the weight of every adjacency entry. For an undirected graph each
// edge contributes twice (once from each endpoint's adjacency list),
// matching the bookkeeping invariant checked by the clustering engine.
func (g *Graph) TotalWeight() float64 {
	var total float64
	for _, n := range g.nodes {
		total += n.Weight
		for _, l := range n.Links {
			total += l.Weight
		}
	}
	return total
}

// Validate checks the adjacency invariant (sorted, duplicate-free links)
// on every node, returning ErrLinksUnordered wrapped with node context on
// the first violation found. Intended for ClusterOptions.Validation ==
// SEVERE.
func (g *Graph) Validate() error {
	ids := g.sortedIDs()
	for _, id := range ids {
		n := g.nodes[id]
		for i := 1; i < len(n.Links); i++ {
			if n.Links[i-1].Dest >= n.Links[i].Dest {
				return fmt.Errorf("%w: node %d", ErrLinksUnordered, id)
			}
		}
	}
	return nil
}

func (g *Graph) sortedIDs() []uint32 {
	ids := make([]uint32, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Release transfers ownership of all nodes out of the Graph in
// ascending-id order (the stable order the Clusterer requires for
// determinism), resetting the Graph to empty. The second return value
// reports whether the graph was ingested as directed.
func (g *Graph) Release() ([]Node, bool) {
	ids := g.sortedIDs()
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = *g.nodes[id]
	}
	g.nodes = make(map[uint32]*Node)
	g.order = g.order[:0]
	return out, g.directed
}

// SetDirected records whether this graph's links were ingested as a
// directed graph; Release reports it back to the caller.
func (g *Graph) SetDirected(directed bool) {
	g.directed = directed
}
