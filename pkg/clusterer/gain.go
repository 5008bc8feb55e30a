package clusterer

import "math"

// gainTolerance is the numeric equality tolerance used when comparing
// modularity gains for ties: neighbors within this distance of the
// per-item maximum are all retained as candidates.
const gainTolerance = 1e-9

// totalWeight returns W, the total bidirectional network weight: sum of
// self-weights plus sum of all adjacency weights (each undirected edge
// counted from both endpoints, matching the Graph.TotalWeight
// convention).
func totalWeight(items []item) float64 {
	var w float64
	for _, it := range items {
		w += it.weight
		for _, nb := range it.links {
			w += nb.weight
		}
	}
	return w
}

// incidentWeight returns s_x, the total incident weight of item x: its
// self-weight plus the sum of its adjacency weights.
func incidentWeight(it item) float64 {
	s := it.weight
	for _, nb := range it.links {
		s += nb.weight
	}
	return s
}

// modularityGain computes ΔQ(i,j) for merging items i and j at
// resolution gamma, given the precomputed incident-weight vector s and
// total weight w. wij is the link weight between i and j as stored in
// i's links slice; callers pass it unchanged, and no factor of two is
// applied for undirected edges.
func modularityGain(wij float64, si, sj, w float64, gamma float32) float64 {
	if w == 0 {
		return 0
	}
	return wij/w - float64(gamma)*(si*sj)/(w*w)
}

// mcands computes, for each item, the set of neighbor indices achieving
// the maximal ΔQ against it (within gainTolerance), after an optional
// weight prefilter. filterMargin in [0,1]: when fewer than
// filterMargin*len(neighbors) neighbors have positive gain, the
// prefilter is skipped (too aggressive a cut would leave too few
// candidates to form merges from).
func mcands(items []item, s []float64, w float64, gamma float32, filterMargin float32) [][]uint32 {
	out := make([][]uint32, len(items))

	for i, it := range items {
		if len(it.links) == 0 {
			out[i] = nil
			continue
		}

		gains := make([]float64, len(it.links))
		positive := 0
		for j, nb := range it.links {
			gains[j] = modularityGain(nb.weight, s[i], s[nb.dest], w, gamma)
			if gains[j] > 0 {
				positive++
			}
		}

		candidates := it.links
		candGains := gains
		if filterMargin > 0 && float64(positive) >= float64(filterMargin)*float64(len(it.links)) {
			filtered := make([]neighbor, 0, positive)
			filteredGains := make([]float64, 0, positive)
			for j, nb := range it.links {
				if gains[j] > 0 {
					filtered = append(filtered, nb)
					filteredGains = append(filteredGains, gains[j])
				}
			}
			candidates = filtered
			candGains = filteredGains
		}

		if len(candidates) == 0 {
			out[i] = nil
			continue
		}

		best := candGains[0]
		for _, g := range candGains[1:] {
			if g > best {
				best = g
			}
		}

		var set []uint32
		for j, nb := range candidates {
			if math.Abs(candGains[j]-best) <= gainTolerance {
				set = append(set, nb.dest)
			}
		}
		out[i] = set
	}

	return out
}
