package wfc

import (
	"sort"

	"terraingen/internal/random"
	"terraingen/internal/tiles"
)

// Pick draws one tile from candidates. With probability UniformPickFraction
// the draw is uniform over the candidates sorted by ascending id; otherwise it
// is weighted by the neighbour-match priors.
func (h Heuristics) Pick(s *State, i int, candidates tiles.Set, rng random.Source) tiles.TileID {
	if candidates.Empty() {
		return tiles.Undecided
	}
	if rng.NextDouble() < h.Config.UniformPickFraction {
		ids := candidates.IDs()
		return ids[rng.NextIntN(len(ids))]
	}
	ordered := h.order(s, i, candidates)
	weights := make([]float64, len(ordered))
	total := 0.0
	for k, t := range ordered {
		weights[k] = h.weight(s, i, t)
		total += weights[k]
	}
	if total <= 0 {
		return ordered[0]
	}
	return ordered[weightedIndex(weights, total, rng)]
}

// order sorts candidates by descending weight, ties by ascending id.
func (h Heuristics) order(s *State, i int, candidates tiles.Set) []tiles.TileID {
	ids := candidates.IDs()
	weights := make(map[tiles.TileID]float64, len(ids))
	for _, t := range ids {
		weights[t] = h.weight(s, i, t)
	}
	sort.SliceStable(ids, func(a, b int) bool {
		return weights[ids[a]] > weights[ids[b]]
	})
	return ids
}

// Candidates returns the ordered try-list of a decision: the drawn tile first,
// then the rest by descending weight.
func (h Heuristics) Candidates(s *State, i int, candidates tiles.Set, rng random.Source) []tiles.TileID {
	first := h.Pick(s, i, candidates, rng)
	if first == tiles.Undecided {
		return nil
	}
	out := make([]tiles.TileID, 0, candidates.Count())
	out = append(out, first)
	for _, t := range h.order(s, i, candidates) {
		if t != first {
			out = append(out, t)
		}
	}
	return out
}
