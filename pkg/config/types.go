// Package config holds the option types that shape a clustering run:
// ClusterOptions (the resolution/termination knobs passed to the
// Clusterer), ReductionPolicy (graph input-reduction strategy),
// RootBound (root-level termination rule), BuildProfile/Compat
// (macro-gated feature flags compared between library and driver), and
// BuildInfo (a stamped record of what produced a given Hierarchy).
package config

import "fmt"

// ReductionPolicy selects how aggressively low-weight input links are
// folded into node self-weight before clustering begins.
type ReductionPolicy int

const (
	ReductionNone ReductionPolicy = iota
	ReductionAccurate
	ReductionMean
	ReductionSevere
)

func (p ReductionPolicy) String() string {
	switch p {
	case ReductionNone:
		return "NONE"
	case ReductionAccurate:
		return "ACCURATE"
	case ReductionMean:
		return "MEAN"
	case ReductionSevere:
		return "SEVERE"
	default:
		return "UNKNOWN"
	}
}

// ParseReductionPolicy parses a ReductionPolicy from its string form,
// defaulting to ReductionNone on an unrecognized value.
func ParseReductionPolicy(s string) ReductionPolicy {
	switch s {
	case "NONE", "none":
		return ReductionNone
	case "ACCURATE", "accurate":
		return ReductionAccurate
	case "MEAN", "mean":
		return ReductionMean
	case "SEVERE", "severe":
		return ReductionSevere
	default:
		return ReductionNone
	}
}

// ValidationLevel controls the pre-clustering link consistency check.
type ValidationLevel int

const (
	ValidationOff ValidationLevel = iota
	ValidationStandard
	ValidationSevere
)

func (v ValidationLevel) String() string {
	switch v {
	case ValidationOff:
		return "NONE"
	case ValidationStandard:
		return "STANDARD"
	case ValidationSevere:
		return "SEVERE"
	default:
		return "UNKNOWN"
	}
}

// RootDirection selects which way the root-level termination bound is
// allowed to move the build.
type RootDirection int

const (
	RootUp RootDirection = iota
	RootDown
	RootBoth
)

func (d RootDirection) String() string {
	switch d {
	case RootUp:
		return "UP"
	case RootDown:
		return "DOWN"
	case RootBoth:
		return "BOTH"
	default:
		return "UNKNOWN"
	}
}

// RootBound terminates level-building once the root level has shrunk to
// at most RootMax clusters.
type RootBound struct {
	Direction   RootDirection `yaml:"direction" validate:"oneof=0 1 2"`
	RootMax     uint32        `yaml:"root_max" validate:"omitempty"`
	Standalone  bool          `yaml:"standalone"`
	NonNegative bool          `yaml:"nonnegative"`
}

// Active reports whether a root bound is configured at all.
func (b RootBound) Active() bool {
	return b.RootMax > 0
}

// ClusterOptions are the resolution and termination knobs passed to a
// Clusterer for a single run.
type ClusterOptions struct {
	Gamma         float32         `yaml:"gamma" validate:"required"`
	GammaMin      float32         `yaml:"gamma_min"`
	GammaMax      float32         `yaml:"gamma_max"`
	GammaStepRatio float32        `yaml:"gamma_step_ratio" validate:"omitempty,gte=0,lte=1"`
	FilterMargin  float32         `yaml:"filter_margin" validate:"gte=0,lte=1"`
	Reduction     ReductionPolicy `yaml:"reduction"`
	RootBound     RootBound       `yaml:"root_bound"`
	GainMarg      float32         `yaml:"gain_marg" validate:"gte=-0.5,lte=1"`
	GainMargDiv   bool            `yaml:"gain_marg_div"`
	Validation    ValidationLevel `yaml:"validation"`
	UseAhash      bool            `yaml:"use_ahash"`
	ModTrace      bool            `yaml:"modtrace"`
	FuzzyOverlap  bool            `yaml:"fuzzy_overlap"`
}

// DefaultClusterOptions returns the baseline options: single-resolution
// gamma=1, no reduction, no root bound, gain margin disabled, standard
// validation, AgordiHash acceleration on.
func DefaultClusterOptions() ClusterOptions {
	return ClusterOptions{
		Gamma:        1.0,
		FilterMargin: 0,
		Reduction:    ReductionNone,
		RootBound:    RootBound{Direction: RootDown},
		GainMarg:     0,
		Validation:   ValidationStandard,
		UseAhash:     true,
	}
}

// DynamicGamma reports whether this run requested automatic, per-level
// gamma resolution rather than a fixed value.
func (o ClusterOptions) DynamicGamma() bool {
	return o.Gamma < 0
}

// Sweep reports whether this run requested a multi-resolution gamma
// sweep (a [gamma_min, gamma_max] range with a nonzero step ratio).
func (o ClusterOptions) Sweep() bool {
	return o.GammaMax > o.GammaMin && o.GammaStepRatio > 0
}

// GainMargEffective reports whether the gain-margin early-termination
// rule applies to this run. It is disabled automatically whenever a
// root bound is configured, regardless of gamma mode: the original
// implementation's header and code disagree on this point when a
// dynamic-gamma sweep is also active, and the documented fix is to
// preserve the observable root_max-wins behavior rather than infer a
// stricter rule.
func (o ClusterOptions) GainMargEffective() bool {
	return o.GainMarg != 0 && !o.RootBound.Active()
}

// Validate checks a ClusterOptions for internally consistent values,
// mirroring the failure modes a driver must reject before starting a
// run: gamma out of range when not dynamic, and an inverted sweep range.
func (o ClusterOptions) Validate() error {
	cv := NewValidator("ClusterOptions")
	cv.When(!o.DynamicGamma() && !o.Sweep(), func(v *Validator) {
		v.RangeFloat("Gamma", float64(o.Gamma), 0, 100)
	})
	cv.When(o.GammaStepRatio > 0, func(v *Validator) {
		v.Custom("GammaMin", func() error {
			if o.GammaMin > o.GammaMax {
				return fmt.Errorf("gamma_min %v exceeds gamma_max %v", o.GammaMin, o.GammaMax)
			}
			return nil
		})
	})
	cv.RangeFloat("FilterMargin", float64(o.FilterMargin), 0, 1)
	cv.RangeFloat("GainMarg", float64(o.GainMarg), -0.5, 1)
	return cv.Validate()
}
