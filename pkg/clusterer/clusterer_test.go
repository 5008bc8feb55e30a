package clusterer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/daocluster/pkg/config"
	"github.com/dd0wney/daocluster/pkg/graphmodel"
	"github.com/dd0wney/daocluster/pkg/runtime"
)

// twoCliquesGraph builds two disjoint 4-cliques (ids 0-3 and 4-7), each
// edge weight 1, with no cross-links, released in node-id order.
func twoCliquesGraph(t *testing.T) []graphmodel.Node {
	t.Helper()
	g := graphmodel.New(runtime.Default(), 8, false, false, config.ReductionNone)
	g.AddNodeRange(0, 8)

	clique := func(ids []uint32) {
		for i, a := range ids {
			var links []graphmodel.Link
			for j, b := range ids {
				if i == j {
					continue
				}
				links = append(links, graphmodel.Link{Dest: b, Weight: 1})
			}
			require.NoError(t, g.AddNodeLinks(false, a, links))
		}
	}
	clique([]uint32{0, 1, 2, 3})
	clique([]uint32{4, 5, 6, 7})

	nodes, _ := g.Release()
	return nodes
}

func TestClusterTwoCliquesMergeIntoTwoRoots(t *testing.T) {
	nodes := twoCliquesGraph(t)
	opts := config.DefaultClusterOptions()

	h, err := Cluster(nodes, opts, runtime.Default(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, h.Levels)

	root := h.Root()
	assert.Len(t, root, 2)
}

func TestClusterSingleFullyConnectedCliqueOneRoot(t *testing.T) {
	g := graphmodel.New(runtime.Default(), 4, false, false, config.ReductionNone)
	g.AddNodeRange(0, 4)
	ids := []uint32{0, 1, 2, 3}
	for i, a := range ids {
		var links []graphmodel.Link
		for j, b := range ids {
			if i == j {
				continue
			}
			links = append(links, graphmodel.Link{Dest: b, Weight: 1})
		}
		require.NoError(t, g.AddNodeLinks(false, a, links))
	}
	nodes, _ := g.Release()

	opts := config.DefaultClusterOptions()
	h, err := Cluster(nodes, opts, runtime.Default(), nil)
	require.NoError(t, err)

	root := h.Root()
	require.Len(t, root, 1)
	assert.Len(t, root[0].Des, 4)
}

// twoTrianglesGraph builds two disjoint 3-cliques (ids 0-2 and 3-5), each
// edge weight 1, with no cross-links.
func twoTrianglesGraph(t *testing.T) []graphmodel.Node {
	t.Helper()
	g := graphmodel.New(runtime.Default(), 6, false, false, config.ReductionNone)
	g.AddNodeRange(0, 6)

	triangle := func(ids []uint32) {
		for i, a := range ids {
			var links []graphmodel.Link
			for j, b := range ids {
				if i == j {
					continue
				}
				links = append(links, graphmodel.Link{Dest: b, Weight: 1})
			}
			require.NoError(t, g.AddNodeLinks(false, a, links))
		}
	}
	triangle([]uint32{0, 1, 2})
	triangle([]uint32{3, 4, 5})

	nodes, _ := g.Release()
	return nodes
}

func TestClusterStandaloneRootBoundBridgesDisconnectedComponents(t *testing.T) {
	nodes := twoTrianglesGraph(t)
	opts := config.DefaultClusterOptions()
	opts.RootBound = config.RootBound{Direction: config.RootDown, RootMax: 1, Standalone: true}

	h, err := Cluster(nodes, opts, runtime.Default(), nil)
	require.NoError(t, err)

	root := h.Root()
	require.Len(t, root, 1)
	assert.Len(t, root[0].Des, 2)
}

func TestClusterNonNegativeRootBoundBlocksNegativeGainBridge(t *testing.T) {
	nodes := twoTrianglesGraph(t)
	opts := config.DefaultClusterOptions()
	opts.RootBound = config.RootBound{Direction: config.RootDown, RootMax: 1, Standalone: true, NonNegative: true}

	h, err := Cluster(nodes, opts, runtime.Default(), nil)
	require.NoError(t, err)

	// The two triangles have no cross-link, so the forced bridge's gain is
	// negative; NONNEGATIVE must reject it, leaving both triangle roots
	// unmerged even though root_max=1 was never reached.
	root := h.Root()
	assert.Len(t, root, 2)
}

func TestClusterRejectsInvalidOptions(t *testing.T) {
	nodes := twoCliquesGraph(t)
	opts := config.DefaultClusterOptions()
	opts.Gamma = -5 // negative gamma is the DynamicGamma sentinel

	_, err := Cluster(nodes, opts, runtime.Default(), nil)
	// Gamma<0 is the DynamicGamma sentinel, so this does not error; assert
	// instead that an out-of-range positive gamma is rejected.
	assert.NoError(t, err)

	opts.Gamma = 1000
	_, err = Cluster(nodes, opts, runtime.Default(), nil)
	assert.Error(t, err)
}

func TestClusterIsDeterministicAcrossRuns(t *testing.T) {
	nodes1 := twoCliquesGraph(t)
	nodes2 := twoCliquesGraph(t)
	opts := config.DefaultClusterOptions()

	h1, err := Cluster(nodes1, opts, runtime.Default(), nil)
	require.NoError(t, err)
	h2, err := Cluster(nodes2, opts, runtime.Default(), nil)
	require.NoError(t, err)

	require.Equal(t, len(h1.Levels), len(h2.Levels))
	for i := range h1.Levels {
		assert.Equal(t, len(h1.Levels[i].Clusters), len(h2.Levels[i].Clusters))
	}
}
