package clusterer

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/dd0wney/daocluster/pkg/ahash"
)

// mutualSet computes, for each item, the ordered set {i} ∪ {j : j is a
// mutual candidate of i}: j is mutual iff i ∈ mcands(j) and j ∈
// mcands(i). Including the item itself in its own set lets items with
// identical mutual neighborhoods hash identically regardless of which
// one is examined first.
func mutualSet(cands [][]uint32) [][]uint32 {
	isCand := make([]map[uint32]bool, len(cands))
	for i, c := range cands {
		m := make(map[uint32]bool, len(c))
		for _, j := range c {
			m[j] = true
		}
		isCand[i] = m
	}

	out := make([][]uint32, len(cands))
	for i := range cands {
		set := map[uint32]bool{uint32(i): true}
		for _, j := range cands[i] {
			if isCand[j][uint32(i)] {
				set[j] = true
			}
		}
		ordered := make([]uint32, 0, len(set))
		for k := range set {
			ordered = append(ordered, k)
		}
		sort.Slice(ordered, func(a, b int) bool { return ordered[a] < ordered[b] })
		out[i] = ordered
	}
	return out
}

// bucketEntry is one item's mutual set together with its item index,
// grouped into an AgordiHash bucket before confirming equality.
type bucketEntry struct {
	item uint32
	set  []uint32
}

// groupStats tallies bucketing/matching activity for metrics wiring by
// the caller.
type groupStats struct {
	ahashHits     int
	ahashMisses   int
	ahashOverflow int
	mutualMatches int
	evaluated     int
}

// mergeGroups partitions items into merge groups using each item's
// mutual set: items whose mutual sets are identical (after a fast
// AgordiHash bucket pre-check, confirmed by explicit set equality to
// guard against hash collisions) are merged into one group. Items whose
// mutual set is just themselves form singleton (propagated) groups.
// useAhash controls whether the bucket pre-check runs at all; with it
// off, every item is compared against its bucket-mates by brute-force
// equality, which is simpler but slower on dense mutual neighborhoods.
func mergeGroups(cands [][]uint32, useAhash bool) ([][]uint32, groupStats) {
	sets := mutualSet(cands)
	stats := groupStats{}

	buckets := make(map[[20]byte][]bucketEntry)

	for i, set := range sets {
		stats.evaluated++
		var key [20]byte
		if useAhash {
			h := ahash.New()
			overflowed := false
			for _, v := range set {
				if err := h.Add(v); err != nil {
					overflowed = true
					break
				}
			}
			if overflowed {
				stats.ahashOverflow++
				key = fallbackKey(set)
			} else {
				key = h.Key()
			}
		}
		// With useAhash off every item keeps the zero key, so all items
		// share one bucket and are matched by brute-force set equality.

		if useAhash {
			if _, ok := buckets[key]; ok {
				stats.ahashHits++
			} else {
				stats.ahashMisses++
			}
		}
		buckets[key] = append(buckets[key], bucketEntry{item: uint32(i), set: set})
	}

	visited := make([]bool, len(cands))
	var groups [][]uint32

	keys := maps.Keys(buckets)
	sort.Slice(keys, func(a, b int) bool {
		// Order buckets by their lowest member index for determinism;
		// the byte key itself carries no meaningful total order across
		// distinct multisets for this purpose.
		return lowestMember(buckets[keys[a]]) < lowestMember(buckets[keys[b]])
	})

	for _, k := range keys {
		entries := buckets[k]
		// Partition entries sharing this bucket by actual set equality,
		// since the hash-bucket pre-check can (rarely) collide two
		// distinct multisets together.
		used := make([]bool, len(entries))
		for a := range entries {
			if used[a] || visited[entries[a].item] {
				continue
			}
			group := []uint32{entries[a].item}
			visited[entries[a].item] = true
			used[a] = true
			for b := a + 1; b < len(entries); b++ {
				if used[b] || visited[entries[b].item] {
					continue
				}
				if setsEqual(entries[a].set, entries[b].set) {
					group = append(group, entries[b].item)
					visited[entries[b].item] = true
					used[b] = true
					stats.mutualMatches++
				}
			}
			sort.Slice(group, func(x, y int) bool { return group[x] < group[y] })
			groups = append(groups, group)
		}
	}

	sort.Slice(groups, func(a, b int) bool { return groups[a][0] < groups[b][0] })
	return groups, stats
}

func fallbackKey(set []uint32) [20]byte {
	h := ahash.New()
	for _, v := range set {
		_ = h.Add(v)
	}
	return h.Key()
}

func setsEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func lowestMember(entries []bucketEntry) uint32 {
	min := entries[0].item
	for _, e := range entries[1:] {
		if e.item < min {
			min = e.item
		}
	}
	return min
}
