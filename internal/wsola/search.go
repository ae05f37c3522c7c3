package wsola

import "math"

// searchResult is the outcome of one correlation search.
type searchResult struct {
	delta int     // chosen offset from the ideal centre, in [-searchHalf, +searchHalf]
	ncc   float64 // normalised cross-correlation score of the chosen candidate
	found bool    // false if every candidate fetch failed (not enough data)
}

// search implements spec.md §4.3: for each integer delta in
// [-searchHalf, +searchHalf] (or delta=0 only if searchHalf==0), fetch the
// overlapSamples-length candidate starting at centre+delta from the ring
// and score it against tail by normalised cross-correlation. Ties resolve
// to the smallest |delta|, then the smaller delta.
//
// firstFrame must be true only before any frame has been emitted; in that
// case every candidate scores 0 and delta=0 is returned unconditionally,
// avoiding a non-deterministic choice from a meaningless search.
func search(r *ring, tail []int16, centre int64, searchHalf int, firstFrame bool) searchResult {
	if firstFrame {
		// Every candidate would score 0 against an all-zero tail; the
		// driver has already confirmed the ring covers the search span
		// (clipped at offset 0) before calling search, so delta=0 is
		// returned unconditionally.
		return searchResult{delta: 0, ncc: 0, found: true}
	}

	best := searchResult{found: false}
	bestNCC := math.Inf(-1)

	for delta := -searchHalf; delta <= searchHalf; delta++ {
		candidate, ok := r.readSegment(centre+int64(delta), len(tail))
		if !ok {
			continue
		}
		ncc := normalizedCrossCorrelation(tail, candidate)

		if !best.found {
			best = searchResult{delta: delta, ncc: ncc, found: true}
			bestNCC = ncc
			continue
		}

		if ncc > bestNCC {
			best = searchResult{delta: delta, ncc: ncc, found: true}
			bestNCC = ncc
		} else if ncc == bestNCC {
			if abs(delta) < abs(best.delta) || (abs(delta) == abs(best.delta) && delta < best.delta) {
				best = searchResult{delta: delta, ncc: ncc, found: true}
				bestNCC = ncc
			}
		}

		if searchHalf == 0 {
			break
		}
	}

	return best
}

// normalizedCrossCorrelation computes Σa·b / sqrt(Σa²·Σb²) in 64-bit
// integer accumulators with a final double-precision division, per
// spec.md §4.3 and §9. Returns 0 if either energy sum is zero.
func normalizedCrossCorrelation(a, b []int16) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, energyA, energyB int64
	for i := 0; i < n; i++ {
		ai, bi := int64(a[i]), int64(b[i])
		dot += ai * bi
		energyA += ai * ai
		energyB += bi * bi
	}

	if energyA == 0 || energyB == 0 {
		return 0
	}
	return float64(dot) / math.Sqrt(float64(energyA)*float64(energyB))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
