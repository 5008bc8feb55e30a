package config

import (
	"time"

	"github.com/google/uuid"
)

// BuildInfo stamps a record of what produced a given Hierarchy: a unique
// run identifier, the BuildProfile in effect, and the options used. Two
// Hierarchy outputs from distinct runs carry distinct RunIDs even when
// every other field matches, so they stay distinguishable in logs and
// metrics.
type BuildInfo struct {
	RunID     string         `yaml:"run_id"`
	BuiltAt   time.Time      `yaml:"built_at"`
	Profile   BuildProfile   `yaml:"profile"`
	Options   ClusterOptions `yaml:"options"`
}

// NewBuildInfo stamps a fresh BuildInfo with a new run identifier.
func NewBuildInfo(profile BuildProfile, opts ClusterOptions, builtAt time.Time) BuildInfo {
	return BuildInfo{
		RunID:   uuid.New().String(),
		BuiltAt: builtAt,
		Profile: profile,
		Options: opts,
	}
}
