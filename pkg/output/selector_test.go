package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/daocluster/pkg/graphmodel"
	"github.com/dd0wney/daocluster/pkg/hierarchy"
)

func smallHierarchy() *hierarchy.Hierarchy {
	nodes := []graphmodel.Node{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	level0 := []graphmodel.Cluster{
		{ID: 0, LevNum: 0, Des: []uint32{0, 1}, Weight: 4},
		{ID: 1, LevNum: 0, Des: []uint32{2, 3}, Weight: 2},
	}
	return hierarchy.New(nodes, []hierarchy.Level{{Clusters: level0, FullSize: 4}}, 1.0)
}

func TestSelectRootReturnsOwnerlessClusters(t *testing.T) {
	h := smallHierarchy()
	sel := New(h)
	got := sel.Select(ModeRoot, CustLevsOptions{}, SignificantOptions{})
	require.Len(t, got, 2)
}

func TestSelectAllNonWrapperExcludesSingleDescendantOwnedOnce(t *testing.T) {
	nodes := []graphmodel.Node{{ID: 1, Owners: []graphmodel.OwnerRef{{Dest: 0}}}}
	wrapper := graphmodel.Cluster{ID: 0, Des: []uint32{0}}
	h := hierarchy.New(nodes, []hierarchy.Level{{Clusters: []graphmodel.Cluster{wrapper}}}, 1.0)

	got := New(h).Select(ModeAllCls, CustLevsOptions{}, SignificantOptions{})
	assert.Empty(t, got)
}

func TestSelectCustLevsFiltersByClusterCountRange(t *testing.T) {
	h := smallHierarchy()
	got := New(h).Select(ModeCustLevs, CustLevsOptions{MargMin: 5}, SignificantOptions{})
	assert.Empty(t, got) // only level has 2 clusters, below MargMin=5
}

func TestSelectSignificantAlwaysIncludesRoot(t *testing.T) {
	h := smallHierarchy()
	got := New(h).Select(ModeSignifDirect, CustLevsOptions{}, SignificantOptions{WRStep: 1})
	require.NotEmpty(t, got)
}

func TestResolveSzMinFixed(t *testing.T) {
	opts := SignificantOptions{SzMin: 5}
	assert.Equal(t, uint32(5), opts.resolveSzMin(100))
}

func TestResolveSzMinLog2(t *testing.T) {
	opts := SignificantOptions{SizeFn: SizeLog2}
	assert.Equal(t, uint32(3), opts.resolveSzMin(8))
}
