// Package random provides the injectable random source used by the solver.
package random

import "math/rand/v2"

// Source is the randomness consumed by cell selection and collapse.
type Source interface {
	// NextInt returns a non-negative pseudo-random int.
	NextInt() int
	// NextIntN returns a value in [0, max). It returns 0 when max <= 0.
	NextIntN(max int) int
	// NextIntRange returns a value in [min, max). It returns min when max <= min.
	NextIntRange(min, max int) int
	// NextDouble returns a value in [0, 1).
	NextDouble() float64
}

// PCG is a deterministic Source backed by math/rand/v2.
type PCG struct {
	r *rand.Rand
}

// NewPCG creates a deterministic source from seed.
func NewPCG(seed int64) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))}
}

func (p *PCG) NextInt() int {
	return p.r.IntN(1<<31 - 1)
}

func (p *PCG) NextIntN(max int) int {
	if max <= 0 {
		return 0
	}
	return p.r.IntN(max)
}

func (p *PCG) NextIntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + p.r.IntN(max-min)
}

func (p *PCG) NextDouble() float64 {
	return p.r.Float64()
}

// Fixed always returns the same values. The zero value returns zero everywhere,
// which makes every draw pick the first candidate.
type Fixed struct {
	Int    int
	Double float64
}

func (f Fixed) NextInt() int { return f.Int }

func (f Fixed) NextIntN(max int) int {
	if max <= 0 {
		return 0
	}
	if f.Int < 0 {
		return 0
	}
	return f.Int % max
}

func (f Fixed) NextIntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + f.NextIntN(max-min)
}

func (f Fixed) NextDouble() float64 {
	if f.Double < 0 || f.Double >= 1 {
		return 0
	}
	return f.Double
}
