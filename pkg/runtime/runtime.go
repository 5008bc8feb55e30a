// Package runtime holds the process-wide collaborators that need explicit
// threading rather than global mutable state: the trace sink and the seeded
// PRNG used for the Graph's optional input shuffle. A Runtime is created
// once by the driver and passed by pointer to graphmodel.New and
// clusterer.Cluster.
package runtime

import (
	"math/rand"

	"github.com/dd0wney/daocluster/pkg/logging"
)

// Runtime bundles the non-algorithmic collaborators threaded through the
// core: a structured logger and a seeded random source. It carries no
// clustering state of its own.
type Runtime struct {
	Logger Logger
	rng    *rand.Rand
	seed   int64
}

// Logger is re-exported so callers needn't import pkg/logging directly just
// to name the type in a Runtime literal.
type Logger = logging.Logger

// New builds a Runtime with the given logger and PRNG seed. A Runtime built
// with the same seed always shuffles input in the same way, which is
// required for deterministic results when Graph.New is given shuffle=true.
func New(logger Logger, seed int64) *Runtime {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Runtime{
		Logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
		seed:   seed,
	}
}

// Default builds a Runtime with a NopLogger and a fixed seed, suitable for
// tests and for callers that do not need reproducible-but-varied shuffling.
func Default() *Runtime {
	return New(logging.NewNopLogger(), 1)
}

// Seed returns the seed this Runtime's PRNG was constructed with.
func (r *Runtime) Seed() int64 {
	return r.seed
}

// Reseed replaces the PRNG with a freshly seeded one, letting a driver make
// a run reproducible after the fact (e.g. from a seed it read with Seed
// during a prior run).
func (r *Runtime) Reseed(seed int64) {
	r.seed = seed
	r.rng = rand.New(rand.NewSource(seed))
}

// Shuffle permutes ints 0..n-1 with the Runtime's PRNG, via Fisher-Yates.
// Used by Graph construction to randomize node ingestion order without
// affecting the deterministic result of clustering.
func (r *Runtime) Shuffle(n int, swap func(i, j int)) {
	r.rng.Shuffle(n, swap)
}

// Intn returns a non-negative random int in [0, n) from the Runtime's PRNG.
func (r *Runtime) Intn(n int) int {
	return r.rng.Intn(n)
}
