package graphmodel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorAccumulatorTracksDuplicates(t *testing.T) {
	e := NewErrorAccumulator()
	assert.False(t, e.HasDuplicates())
	assert.Equal(t, "", e.Show())

	e.DuplicateNode(5)
	e.DuplicateNode(5)
	e.DuplicateLink(1, 2)

	assert.True(t, e.HasDuplicates())
	assert.Equal(t, 1, e.DuplicateNodeCount())
	assert.Equal(t, 1, e.DuplicateLinkCount())
	assert.NotEqual(t, "", e.Show())
}

func TestReferenceErrorUnwrapsToSentinel(t *testing.T) {
	err := &ReferenceError{Src: 1, Dst: 2}
	assert.True(t, errors.Is(err, ErrReferenceMissing))
}
