package config

// BuildProfile captures the macro-gated feature flags that must agree
// between the library that built a Hierarchy and a driver that later
// reads it back: clustering strategy and membership-sharing model are
// baked into the on-disk representation, not re-derived at load time.
type BuildProfile struct {
	CrispOverlap     bool `yaml:"crisp_overlap"`
	FuzzyOverlap     bool `yaml:"fuzzy_overlap"`
	ChainsExtra      bool `yaml:"chains_extra"`
	McandsPrefilter  bool `yaml:"mcands_prefilter"`
	DynamicGamma     bool `yaml:"dynamic_gamma"`
}

// DefaultBuildProfile returns the profile used when no explicit
// BuildProfile is supplied: crisp (non-overlapping) membership, no
// chains extension, no mcands prefilter, fixed gamma.
func DefaultBuildProfile() BuildProfile {
	return BuildProfile{
		CrispOverlap: true,
	}
}

// Compat reports whether two BuildProfiles agree on every flag that
// affects how a Hierarchy must be interpreted. A library built with
// fuzzy overlap cannot be read back correctly by a driver expecting
// crisp clusters, so Compat is checked before accepting a Hierarchy
// produced elsewhere.
func (p BuildProfile) Compat(other BuildProfile) bool {
	return p.CrispOverlap == other.CrispOverlap &&
		p.FuzzyOverlap == other.FuzzyOverlap &&
		p.ChainsExtra == other.ChainsExtra &&
		p.McandsPrefilter == other.McandsPrefilter &&
		p.DynamicGamma == other.DynamicGamma
}
