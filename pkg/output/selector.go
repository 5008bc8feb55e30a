// Package output implements cluster selection and textual cluster-list
// serialization: which clusters of a Hierarchy are worth emitting (root
// set, per-level, custom level ranges, all non-wrapper clusters, or the
// significant-clusters density/weight filter), and the CNL-style text
// formats for writing out an unwrapped cluster's member nodes.
package output

import (
	"math"

	"github.com/dd0wney/daocluster/pkg/graphmodel"
	"github.com/dd0wney/daocluster/pkg/hierarchy"
)

// Mode selects which clusters a Selector emits.
type Mode int

const (
	ModeRoot Mode = iota
	ModePerLevel
	ModeCustLevs
	ModeAllCls
	ModeSignifDirect
	ModeSignifHier
	ModeHier
)

// OwnerAgg selects how multiple direct owners constrain a candidate
// representative cluster under the significant-clusters filter.
type OwnerAgg int

const (
	OwnerSingle OwnerAgg = iota // any one owner's constraint suffices
	OwnerAll                    // every owner's constraint must hold
)

// SizeFunc computes a minimum-size threshold from the total node count,
// an alternative to a fixed szmin.
type SizeFunc int

const (
	SizeFixed SizeFunc = iota
	SizeLog2
	SizeLogE
	SizeGoldenPow
	SizeNthRoot
)

const goldenInverse = 0.6180339887498949

// SignificantOptions configures the SIGNIF_* selection modes.
type SignificantOptions struct {
	SOwner      OwnerAgg
	DensDrop    float64
	DensBound   bool
	WRStep      float64 // (0,1]
	WRange      bool
	SzMin       uint32
	SizeFn      SizeFunc
	FltMembers  bool
}

// resolveSzMin returns the effective minimum unwrapped-size threshold,
// computed from SizeFn and the total node count when SizeFn is not
// SizeFixed.
func (o SignificantOptions) resolveSzMin(totalNodes int) uint32 {
	n := float64(totalNodes)
	switch o.SizeFn {
	case SizeLog2:
		return uint32(math.Log2(n))
	case SizeLogE:
		return uint32(math.Log(n))
	case SizeGoldenPow:
		return uint32(math.Pow(n, goldenInverse))
	case SizeNthRoot:
		if o.SzMin == 0 {
			return 0
		}
		return uint32(math.Pow(n, 1.0/float64(o.SzMin)))
	default:
		return o.SzMin
	}
}

// CustLevsOptions configures ModeCustLevs level selection.
type CustLevsOptions struct {
	MargMin, MargMax uint32 // cluster-count range, 0 = unbounded
	LevelMin, LevelMax uint16
	StepMin, StepMax int
	ClsRStep float64 // (0,1): next retained level has <= prev_size*ClsRStep clusters
}

// Selected is one cluster chosen for emission, with its unwrapped
// member/share map already computed.
type Selected struct {
	LevNum  uint16
	Cluster graphmodel.Cluster
	Members []hierarchy.NodeShare
}

// Selector chooses which clusters of a Hierarchy to emit under a given
// Mode, then unwraps each into its member/share list.
type Selector struct {
	h *hierarchy.Hierarchy
}

// New builds a Selector over an already-computed Hierarchy.
func New(h *hierarchy.Hierarchy) *Selector {
	return &Selector{h: h}
}

// Select runs the given mode's selection algorithm and returns the
// chosen clusters, each unwrapped to its member nodes in node-id order.
func (s *Selector) Select(mode Mode, cust CustLevsOptions, sig SignificantOptions) []Selected {
	switch mode {
	case ModeRoot:
		return s.selectRoot()
	case ModePerLevel:
		return s.selectAllLevels()
	case ModeCustLevs:
		return s.selectCustLevs(cust)
	case ModeAllCls:
		return s.selectAllNonWrapper()
	case ModeSignifDirect:
		return s.selectSignificant(sig, false)
	case ModeSignifHier:
		return s.selectSignificant(sig, true)
	case ModeHier:
		return s.selectAllLevels()
	default:
		return nil
	}
}

func (s *Selector) unwrapOne(levNum uint16, c graphmodel.Cluster) Selected {
	return Selected{LevNum: levNum, Cluster: c, Members: s.h.UnwrapOrdered(levNum, c, false)}
}

func (s *Selector) selectRoot() []Selected {
	if len(s.h.Levels) == 0 {
		return nil
	}
	topLevel := uint16(len(s.h.Levels) - 1)
	out := make([]Selected, 0)
	for _, c := range s.h.Root() {
		out = append(out, s.unwrapOne(topLevel, c))
	}
	return out
}

func (s *Selector) selectAllLevels() []Selected {
	var out []Selected
	for levNum, lvl := range s.h.Levels {
		for _, c := range lvl.Clusters {
			out = append(out, s.unwrapOne(uint16(levNum), c))
		}
	}
	return out
}

func (s *Selector) selectAllNonWrapper() []Selected {
	var out []Selected
	for levNum, lvl := range s.h.Levels {
		for i := range lvl.Clusters {
			c := lvl.Clusters[i]
			if s.isWrapper(uint16(levNum), c) {
				continue
			}
			out = append(out, s.unwrapOne(uint16(levNum), c))
		}
	}
	return out
}

func (s *Selector) isWrapper(levNum uint16, c graphmodel.Cluster) bool {
	if len(c.Des) != 1 {
		return false
	}
	var ownerCount int
	if levNum == 0 {
		idx := c.Des[0]
		if int(idx) < len(s.h.Nodes) {
			ownerCount = len(s.h.Nodes[idx].Owners)
		}
	} else {
		below := s.h.Levels[levNum-1].Clusters
		idx := c.Des[0]
		if int(idx) < len(below) {
			ownerCount = len(below[idx].Owners)
		}
	}
	return c.IsWrapper(ownerCount)
}

// selectCustLevs picks the subset of levels matching cust's constraints,
// then emits every cluster on each selected level. A level is kept only
// if it satisfies every configured constraint: the cluster-count range,
// the level-id range, the step-num range, and (when ClsRStep is set) a
// cluster count at most ClsRStep times that of the last retained level.
// With no constraint configured, every level is kept.
func (s *Selector) selectCustLevs(cust CustLevsOptions) []Selected {
	var out []Selected
	lastRetainedSize := -1
	step := 0
	for levNum, lvl := range s.h.Levels {
		n := len(lvl.Clusters)
		keep := true

		if cust.MargMin > 0 || cust.MargMax > 0 {
			keep = uint32(n) >= cust.MargMin && (cust.MargMax == 0 || uint32(n) <= cust.MargMax)
		}
		if cust.LevelMax > 0 && (uint16(levNum) < cust.LevelMin || uint16(levNum) > cust.LevelMax) {
			keep = false
		}
		if cust.StepMax > 0 && (step < cust.StepMin || step > cust.StepMax) {
			keep = false
		}
		if cust.ClsRStep > 0 && cust.ClsRStep < 1 {
			if lastRetainedSize >= 0 && float64(n) > float64(lastRetainedSize)*cust.ClsRStep {
				keep = false
			}
		}

		if keep {
			for _, c := range lvl.Clusters {
				out = append(out, s.unwrapOne(uint16(levNum), c))
			}
			lastRetainedSize = n
		}
		if levNum > 0 && n < len(s.h.Levels[levNum-1].Clusters) {
			step++
		}
	}
	return out
}

// selectSignificant implements the density/weight representative-cluster
// filter. hier selects whether constraints propagate from the direct
// owner (false) or the nearest representative ancestor (true).
func (s *Selector) selectSignificant(opts SignificantOptions, hier bool) []Selected {
	szMin := opts.resolveSzMin(len(s.h.Nodes))
	var out []Selected

	if len(s.h.Levels) == 0 {
		return nil
	}
	topLevel := len(s.h.Levels) - 1

	// constraints[levNum][clusterIdx] holds the inherited constraint this
	// cluster must satisfy, computed top-down.
	constraints := make([]map[uint32]constraint, len(s.h.Levels))
	for i := range constraints {
		constraints[i] = make(map[uint32]constraint)
	}

	for _, c := range s.h.Root() {
		out = append(out, s.unwrapOne(uint16(topLevel), c))
		s.propagateChildren(topLevel, c, constraint{density: 1.0, weight: c.Weight}, constraints)
	}

	for levNum := topLevel; levNum >= 0; levNum-- {
		for ci := range s.h.Levels[levNum].Clusters {
			c := s.h.Levels[levNum].Clusters[ci]
			cons, ok := constraints[levNum][uint32(ci)]
			if !ok {
				continue
			}
			rep := s.isRepresentative(c, cons, opts)
			var nextCons constraint
			if rep {
				members := s.h.UnwrapOrdered(uint16(levNum), c, false)
				if uint32(len(members)) >= szMin {
					out = append(out, Selected{LevNum: uint16(levNum), Cluster: c, Members: members})
				}
				nextCons = constraint{density: density(c), weight: c.Weight * opts.WRStep}
			} else if hier {
				nextCons = cons
			} else {
				nextCons = constraint{density: density(c) * scaledDrop(opts, levNum, topLevel), weight: c.Weight * opts.WRStep}
			}
			if levNum > 0 {
				s.propagateChildren(levNum, c, nextCons, constraints)
			}
		}
	}

	return out
}

func density(c graphmodel.Cluster) float64 {
	n := len(c.Des)
	if n == 0 {
		return 0
	}
	return c.Weight / float64(n)
}

func scaledDrop(opts SignificantOptions, levNum, topLevel int) float64 {
	if !opts.DensBound || topLevel == 0 {
		return opts.DensDrop
	}
	t := float64(topLevel-levNum) / float64(topLevel)
	return 1 - t*(1-opts.DensDrop)
}

// constraint is the density/weight bound a cluster inherits from its
// owner (or nearest representative ancestor, under hier mode) while
// walking the hierarchy top-down for significant-cluster selection.
type constraint struct {
	density float64
	weight  float64
}

func (s *Selector) propagateChildren(levNum int, c graphmodel.Cluster, cons constraint, constraints []map[uint32]constraint) {
	if levNum == 0 {
		return
	}
	for _, childIdx := range c.Des {
		constraints[levNum-1][childIdx] = cons
	}
}

func (s *Selector) isRepresentative(c graphmodel.Cluster, cons constraint, opts SignificantOptions) bool {
	d := density(c)
	ok := d >= cons.density && c.Weight <= cons.weight
	if ok && opts.WRange && opts.WRStep > 0 {
		ok = c.Weight >= cons.weight*(1-opts.WRStep)/opts.WRStep
	}
	return ok
}
