// Package ahash implements the Agordi order-invariant aggregating hash: an
// incremental, commutative, associative fingerprint over a multiset of
// unsigned 32-bit integers. The Clusterer uses it to bucket merge-candidate
// sets that are likely identical before falling back to an explicit
// set-equality check, turning an O(k^2) comparison into an O(k) one for the
// common case of dense mutual neighborhoods.
//
// The accumulator tracks two running sums (of the items and of their
// squares), each split into a low/high pair so that a cardinality overflow
// is detected rather than silently wrapped into a collision. Items are
// shifted by an additive constant before hashing; see Correction. The shift
// does not separate multisets of equal size whose items have equal sums and
// equal sums of squares (for example {1,7,10} and {2,5,11}), so equal
// fingerprints do not prove equal multisets.
package ahash

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"math/bits"
)

// ErrOverflow is returned when a hash's cardinality would exceed the bit
// budget of its carry words. The caller must discard the accumulator and the
// merge group it describes rather than risk a silent collision.
var ErrOverflow = errors.New("ahash: cardinality overflow")

// ErrUnderflow is returned by Sub/SubHash when the requested removal would
// drive a carry word negative, i.e. the value was never added.
var ErrUnderflow = errors.New("ahash: subtraction underflow")

// Correction selects how raw item values are adjusted before hashing.
type Correction uint8

const (
	// NoCorrection hashes items verbatim; {1,7,10} and {2,5,11} collide.
	NoCorrection Correction = iota
	// CorrectAll adds corval to every item before hashing, shrinking the
	// usable item range to [0, MaxUint32-corval]. Equal-size multisets
	// with equal sums and sums of squares, such as {1,7,10} and {2,5,11},
	// still collide after the shift. This is the default used by Clusterer.
	CorrectAll
)

// corval is the additive correction constant, floor(sqrt(MaxUint32)).
const corval uint32 = 1<<16 - 1

// Hash is an Agordi aggregating hash accumulator. The zero value is the
// empty hash. Hash is not safe for concurrent use; callers needing
// concurrent buckets should guard it externally (the Clusterer's bucket
// maps are per-level scratch, never shared across goroutines).
type Hash struct {
	lsum   uint32 // low part of the sum of corrected items
	hsum   uint32 // carries out of lsum across all adds
	lv2sum uint64 // low 64 bits of the sum of corrected-item squares
	hv2sum uint32 // carries out of lv2sum across all adds
	corr   Correction
}

// New returns an empty hash using CorrectAll, the strategy the Clusterer
// uses.
func New() *Hash {
	return &Hash{corr: CorrectAll}
}

// NewWithCorrection returns an empty hash using the given correction
// strategy.
func NewWithCorrection(c Correction) *Hash {
	return &Hash{corr: c}
}

func (h *Hash) correct(v uint32) (uint32, error) {
	if h.corr != CorrectAll {
		return v, nil
	}
	cv := v + corval
	if cv < corval {
		return 0, ErrOverflow
	}
	return cv, nil
}

// Add folds v into the hash. Add is commutative: the order in which items
// are added never affects the final state.
func (h *Hash) Add(v uint32) error {
	cv, err := h.correct(v)
	if err != nil {
		return err
	}

	oldLsum := h.lsum
	h.lsum += cv
	if h.lsum < oldLsum {
		if h.hsum == math.MaxUint32 {
			return ErrOverflow
		}
		h.hsum++
	}

	sq := uint64(cv) * uint64(cv)
	oldLv2 := h.lv2sum
	h.lv2sum += sq
	if h.lv2sum < oldLv2 {
		if h.hv2sum == math.MaxUint32 {
			return ErrOverflow
		}
		h.hv2sum++
	}
	return nil
}

// AddHash folds another hash's accumulated state into h, i.e.
// h.Add(x); h.Add(y) == (New()).AddHash(h(x)).AddHash(h(y)) for any
// partition of a multiset into chunks x, y. This lets per-item hashes be
// computed independently and merged, which the Clusterer uses when folding
// a descendant's mcand-set hash into its owning cluster's.
func (h *Hash) AddHash(other *Hash) error {
	newLsum := h.lsum + other.lsum
	carryL := uint64(0)
	if newLsum < h.lsum {
		carryL = 1
	}
	totalHsum := uint64(h.hsum) + uint64(other.hsum) + carryL
	if totalHsum > math.MaxUint32 {
		return ErrOverflow
	}

	newLv2 := h.lv2sum + other.lv2sum
	carryH := uint64(0)
	if newLv2 < h.lv2sum {
		carryH = 1
	}
	totalHv2 := uint64(h.hv2sum) + uint64(other.hv2sum) + carryH
	if totalHv2 > math.MaxUint32 {
		return ErrOverflow
	}

	h.lsum = newLsum
	h.hsum = uint32(totalHsum)
	h.lv2sum = newLv2
	h.hv2sum = uint32(totalHv2)
	return nil
}

// Sub removes v from the hash, the exact inverse of Add(v). Removing an
// item that was never added produces an undefined (but not panicking)
// result unless it underflows a carry word, in which case ErrUnderflow is
// returned.
func (h *Hash) Sub(v uint32) error {
	cv, err := h.correct(v)
	if err != nil {
		return err
	}

	borrowL := uint32(0)
	if h.lsum < cv {
		borrowL = 1
	}
	h.lsum -= cv
	if h.hsum < borrowL {
		return ErrUnderflow
	}
	h.hsum -= borrowL

	sq := uint64(cv) * uint64(cv)
	borrowH := uint32(0)
	if h.lv2sum < sq {
		borrowH = 1
	}
	h.lv2sum -= sq
	if h.hv2sum < borrowH {
		return ErrUnderflow
	}
	h.hv2sum -= borrowH
	return nil
}

// SubHash is the inverse of AddHash.
func (h *Hash) SubHash(other *Hash) error {
	borrowL := uint64(0)
	if h.lsum < other.lsum {
		borrowL = 1
	}
	newLsum := h.lsum - other.lsum
	totalHsum := uint64(h.hsum) - uint64(other.hsum) - borrowL
	if int64(uint64(h.hsum)-uint64(other.hsum)-borrowL) < 0 {
		return ErrUnderflow
	}

	borrowH := uint64(0)
	if h.lv2sum < other.lv2sum {
		borrowH = 1
	}
	newLv2 := h.lv2sum - other.lv2sum
	if int64(uint64(h.hv2sum)-uint64(other.hv2sum)-borrowH) < 0 {
		return ErrUnderflow
	}
	totalHv2 := uint64(h.hv2sum) - uint64(other.hv2sum) - borrowH

	h.lsum = newLsum
	h.hsum = uint32(totalHsum)
	h.lv2sum = newLv2
	h.hv2sum = uint32(totalHv2)
	return nil
}

// Empty reports whether no items have been added (or all additions were
// exactly cancelled out by Sub).
func (h *Hash) Empty() bool {
	return h.lsum == 0 && h.hsum == 0 && h.lv2sum == 0 && h.hv2sum == 0
}

// Sums returns the raw four-word fingerprint (lsum, hsum, lv2sum, hv2sum).
func (h *Hash) Sums() (lsum, hsum uint32, lv2sum uint64, hv2sum uint32) {
	return h.lsum, h.hsum, h.lv2sum, h.hv2sum
}

// Bytes returns the little-endian byte representation of the fingerprint,
// used for byte-lexicographic ordering and as a map-bucket key.
func (h *Hash) Bytes() []byte {
	buf := make([]byte, 20)
	binary.LittleEndian.PutUint32(buf[0:4], h.lsum)
	binary.LittleEndian.PutUint32(buf[4:8], h.hsum)
	binary.LittleEndian.PutUint64(buf[8:16], h.lv2sum)
	binary.LittleEndian.PutUint32(buf[16:20], h.hv2sum)
	return buf
}

// Key returns a fixed-size array suitable as a Go map key, grouping
// candidate sets whose fingerprints coincide.
func (h *Hash) Key() [20]byte {
	var k [20]byte
	copy(k[:], h.Bytes())
	return k
}

// Equal reports whether two hashes represent the same fingerprint.
func (h *Hash) Equal(other *Hash) bool {
	return h.lsum == other.lsum && h.hsum == other.hsum &&
		h.lv2sum == other.lv2sum && h.hv2sum == other.hv2sum
}

// Less implements the byte-lexicographic ordering on the little-endian
// representation, used for deterministic tie-breaking when two candidate
// groups must be ranked.
func (h *Hash) Less(other *Hash) bool {
	return bytes.Compare(h.Bytes(), other.Bytes()) < 0
}

// Digest folds the fingerprint into a single uint64, for use as a fast
// (non-cryptographic, non-collision-free) map/set hash value. Two hashes
// with the same fingerprint always produce the same digest.
func (h *Hash) Digest() uint64 {
	d := h.lv2sum
	d ^= uint64(h.lsum) ^ bits.RotateLeft64(uint64(h.hsum)<<32|uint64(h.hv2sum), 17)
	return d
}
