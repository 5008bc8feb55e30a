package graphmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/daocluster/pkg/config"
)

func TestReducerNoneIsPassthrough(t *testing.T) {
	r := NewReducer(config.ReductionNone, 3)
	links := []Link{{Dest: 1, Weight: 0.01}, {Dest: 2, Weight: 10}}

	result := r.Reduce(links, 0)
	assert.Equal(t, links, result.Kept)
	assert.Zero(t, result.SelfWeightGain)
}

func TestReducerSevereFoldsLightweightLinks(t *testing.T) {
	// Mirrors scenario S5: node 0 has 100 links, {0.01 x 90, 1 x 8, 10 x 2}.
	links := make([]Link, 0, 100)
	dest := uint32(1)
	for i := 0; i < 90; i++ {
		links = append(links, Link{Dest: dest, Weight: 0.01})
		dest++
	}
	for i := 0; i < 8; i++ {
		links = append(links, Link{Dest: dest, Weight: 1})
		dest++
	}
	for i := 0; i < 2; i++ {
		links = append(links, Link{Dest: dest, Weight: 10})
		dest++
	}

	r := NewReducer(config.ReductionSevere, 3)
	result := r.Reduce(links, 0)

	require.LessOrEqual(t, len(result.Kept), len(links))
	assert.Greater(t, result.SelfWeightGain, 0.0)

	var total float64
	for _, l := range result.Kept {
		total += l.Weight
	}
	total += result.SelfWeightGain
	var original float64
	for _, l := range links {
		original += l.Weight
	}
	assert.InDelta(t, original, total, 1e-9)
}

func TestReducerPreservesTotalWeight(t *testing.T) {
	links := []Link{
		{Dest: 1, Weight: 0.1},
		{Dest: 2, Weight: 0.2},
		{Dest: 3, Weight: 5},
		{Dest: 4, Weight: 7},
	}

	for _, policy := range []config.ReductionPolicy{config.ReductionAccurate, config.ReductionMean, config.ReductionSevere} {
		r := NewReducer(policy, 1)
		result := r.Reduce(links, 0)

		var total float64
		for _, l := range result.Kept {
			total += l.Weight
		}
		total += result.SelfWeightGain

		var original float64
		for _, l := range links {
			original += l.Weight
		}
		assert.InDeltaf(t, original, total, 1e-9, "policy %v did not conserve weight", policy)
	}
}

func TestReducerRespectsSelfLinkSkips(t *testing.T) {
	links := []Link{
		{Dest: 1, Weight: 0.01},
		{Dest: 2, Weight: 0.01},
		{Dest: 3, Weight: 5},
	}

	r := NewReducer(config.ReductionSevere, 2)
	withoutSkips := r.Reduce(links, 0)
	withSkips := r.Reduce(links, 2)

	assert.GreaterOrEqual(t, len(withSkips.Kept), len(withoutSkips.Kept)-1)
}
