package graphmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertLinkKeepsSortedOrder(t *testing.T) {
	var links []Link
	var added bool

	links, added = insertLink(links, 5, 1.0, false)
	require.True(t, added)
	links, added = insertLink(links, 2, 1.0, false)
	require.True(t, added)
	links, added = insertLink(links, 8, 1.0, false)
	require.True(t, added)

	require.Len(t, links, 3)
	assert.Equal(t, []uint32{2, 5, 8}, destsOf(links))
}

func TestInsertLinkDuplicateDiscardedWhenNotSumming(t *testing.T) {
	links, _ := insertLink(nil, 3, 1.0, false)
	links, added := insertLink(links, 3, 5.0, false)

	assert.False(t, added)
	assert.Len(t, links, 1)
	assert.Equal(t, 1.0, links[0].Weight)
}

func TestInsertLinkDuplicateAccumulatesWhenSumming(t *testing.T) {
	links, _ := insertLink(nil, 3, 1.0, true)
	links, added := insertLink(links, 3, 5.0, true)

	assert.False(t, added)
	assert.Len(t, links, 1)
	assert.Equal(t, 6.0, links[0].Weight)
}

func TestNodeLinkTo(t *testing.T) {
	n := &Node{ID: 1}
	n.Links, _ = insertLink(n.Links, 2, 1.5, false)
	n.Links, _ = insertLink(n.Links, 9, 2.5, false)

	l, ok := n.LinkTo(9)
	require.True(t, ok)
	assert.Equal(t, 2.5, l.Weight)

	_, ok = n.LinkTo(42)
	assert.False(t, ok)
}

func destsOf(links []Link) []uint32 {
	out := make([]uint32, len(links))
	for i, l := range links {
		out[i] = l.Dest
	}
	return out
}
