package wfc

import (
	"math"

	"terraingen/internal/config"
	"terraingen/internal/random"
	"terraingen/internal/tiles"
)

const scoreEpsilon = 1e-9

// Heuristics picks the next cell to collapse and weights its candidates.
type Heuristics struct {
	Weights config.WeightsConfig
	Config  config.HeuristicsConfig
}

// weight is the prior of tile at i: base plus a boost per decided neighbour
// already holding tile.
func (h Heuristics) weight(s *State, i int, tile tiles.TileID) float64 {
	return h.Weights.Base + h.Weights.NeighborMatchBoost*float64(s.matches(i, tile))
}

// shannon returns -sum(p ln p) over the normalised weights of domain.
func (h Heuristics) shannon(s *State, i int, domain tiles.Set) float64 {
	ids := domain.IDs()
	weights := make([]float64, len(ids))
	total := 0.0
	for k, t := range ids {
		weights[k] = h.weight(s, i, t)
		total += weights[k]
	}
	if total <= 0 {
		return 0
	}
	entropy := 0.0
	for _, w := range weights {
		if w <= 0 {
			continue
		}
		p := w / total
		entropy -= p * math.Log(p)
	}
	return entropy
}

func (h Heuristics) modes() (domainSize, shannon bool) {
	shannon = h.Config.ShannonEntropy
	domainSize = h.Config.DomainEntropy || !shannon
	return domainSize, shannon
}

// SelectCell returns the coordinates of the next cell to collapse, or (-1, -1)
// once every cell is decided.
func (h Heuristics) SelectCell(s *State, rng random.Source) (int, int) {
	i, _ := h.selectIndex(s, rng)
	if i < 0 {
		return -1, -1
	}
	return s.coords(i)
}

// selectIndex runs the scoring and tie-break pipeline. The second result is
// the size of the minimum-score shortlist before tie-breaking.
func (h Heuristics) selectIndex(s *State, rng random.Source) (int, int) {
	domainSize, shannon := h.modes()

	var ties []int
	best := math.Inf(1)
	for i := range s.domains {
		if s.decided(i) {
			continue
		}
		var score float64
		if domainSize {
			score = float64(s.domains[i].Count())
		} else {
			score = h.shannon(s, i, s.domains[i])
		}
		switch {
		case score < best-scoreEpsilon:
			best = score
			ties = append(ties[:0], i)
		case math.Abs(score-best) <= scoreEpsilon:
			ties = append(ties, i)
		}
	}
	if len(ties) == 0 {
		return -1, 0
	}
	shortlist := len(ties)

	if domainSize && shannon && len(ties) > 1 {
		ties = h.narrowByShannon(s, ties)
	}

	single := domainSize != shannon
	if (single && h.Config.ApplyInfluenceForSingleHeuristic) || (!single && h.Config.MostConstraining) {
		ties = h.byInfluence(s, ties, rng)
	}
	if h.Config.PreferCentralCell && len(ties) > 1 {
		ties = centralCells(s, ties)
	}
	if len(ties) == 1 {
		return ties[0], shortlist
	}
	return ties[rng.NextIntN(len(ties))], shortlist
}

func (h Heuristics) narrowByShannon(s *State, ties []int) []int {
	best := math.Inf(1)
	out := ties[:0:0]
	for _, i := range ties {
		score := h.shannon(s, i, s.domains[i])
		switch {
		case score < best-scoreEpsilon:
			best = score
			out = append(out[:0], i)
		case math.Abs(score-best) <= scoreEpsilon:
			out = append(out, i)
		}
	}
	return out
}

// byInfluence prefers cells with more undecided neighbours. With a zero bias
// only the maximum survives; a positive bias draws one cell with weight
// 1 + bias*influence.
func (h Heuristics) byInfluence(s *State, ties []int, rng random.Source) []int {
	if len(ties) < 2 {
		return ties
	}
	bias := h.Config.MostConstrainingBias
	if bias <= 0 {
		best := -1
		var out []int
		for _, i := range ties {
			inf := s.undecidedNeighbors(i)
			switch {
			case inf > best:
				best = inf
				out = append(out[:0], i)
			case inf == best:
				out = append(out, i)
			}
		}
		return out
	}

	weights := make([]float64, len(ties))
	total := 0.0
	for k, i := range ties {
		weights[k] = 1 + bias*float64(s.undecidedNeighbors(i))
		total += weights[k]
	}
	return []int{ties[weightedIndex(weights, total, rng)]}
}

func centralCells(s *State, ties []int) []int {
	cx := float64(s.Width-1) / 2
	cy := float64(s.Height-1) / 2
	best := math.Inf(1)
	var out []int
	for _, i := range ties {
		x, y := s.coords(i)
		dist := math.Abs(float64(x)-cx) + math.Abs(float64(y)-cy)
		switch {
		case dist < best-scoreEpsilon:
			best = dist
			out = append(out[:0], i)
		case math.Abs(dist-best) <= scoreEpsilon:
			out = append(out, i)
		}
	}
	return out
}

// weightedIndex returns the first index whose cumulative weight exceeds a
// uniform draw over total.
func weightedIndex(weights []float64, total float64, rng random.Source) int {
	r := rng.NextDouble() * total
	acc := 0.0
	for k, w := range weights {
		acc += w
		if r < acc {
			return k
		}
	}
	return len(weights) - 1
}
