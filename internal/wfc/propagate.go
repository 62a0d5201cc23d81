package wfc

import "terraingen/internal/tiles"

// Propagator restores local consistency after the cells in seeds were decided
// or narrowed. Passing a nil log runs without recording changes.
type Propagator interface {
	Propagate(s *State, seeds []int, log *Log) error
}

// DirectPropagator re-evaluates registry rules with full height and region
// context against every decided neighbour of the cells touched by a change.
type DirectPropagator struct {
	Registry *tiles.Registry
}

// Propagate walks a FIFO worklist seeded with the neighbours of seeds. Cells
// narrowed to one tile are decided on the spot and their neighbours queued.
func (p DirectPropagator) Propagate(s *State, seeds []int, log *Log) error {
	queue := make([]int, 0, len(seeds)*4)
	for _, i := range seeds {
		queue = appendNeighbors(s, queue, i)
	}
	for head := 0; head < len(queue); head++ {
		i := queue[head]
		if s.decided(i) {
			continue
		}
		domain := s.domains[i]
		allowed := p.allowed(s, i, domain)
		if allowed == domain {
			continue
		}
		if allowed.Empty() {
			x, y := s.coords(i)
			return &ContradictionError{X: x, Y: y}
		}
		s.removeTiles(i, allowed, log)
		if allowed.Single() {
			s.collapse(i, allowed.First(), log)
			queue = appendNeighbors(s, queue, i)
		}
	}
	return nil
}

// allowed filters domain down to the tiles every decided neighbour of i accepts.
func (p DirectPropagator) allowed(s *State, i int, domain tiles.Set) tiles.Set {
	var out tiles.Set
	for _, t := range domain.IDs() {
		if validAt(p.Registry, s, i, t) {
			out = out.Add(t)
		}
	}
	return out
}

// validAt reports whether tile may be placed at i given its decided neighbours.
func validAt(reg *tiles.Registry, s *State, i int, tile tiles.TileID) bool {
	for _, d := range tiles.Directions {
		j := s.neighbor(i, d)
		if j < 0 || !s.decided(j) {
			continue
		}
		if !reg.Allows(s.context(i, tile, j, d)) {
			return false
		}
	}
	return true
}

func appendNeighbors(s *State, queue []int, i int) []int {
	for _, d := range tiles.Directions {
		if j := s.neighbor(i, d); j >= 0 {
			queue = append(queue, j)
		}
	}
	return queue
}

// AC3Propagator enforces arc consistency against a precomputed RuleTable. It
// ignores height and region context, which the initial domain pruning and the
// collapse-time validity check cover.
type AC3Propagator struct {
	Table *tiles.RuleTable
}

type arc struct {
	cell int
	dir  tiles.Direction // from cell towards the neighbour it is revised against
}

// Propagate revises arcs until no domain changes. Arcs pointing at every seed
// start the queue; any removal re-queues the arcs of the revised cell's
// neighbours.
func (p AC3Propagator) Propagate(s *State, seeds []int, log *Log) error {
	queued := make([]bool, len(s.domains)*4)
	var queue []arc
	push := func(target int) {
		for _, d := range tiles.Directions {
			j := s.neighbor(target, d)
			if j < 0 {
				continue
			}
			back := d.Opposite()
			if k := j*4 + int(back); !queued[k] {
				queued[k] = true
				queue = append(queue, arc{cell: j, dir: back})
			}
		}
	}
	for _, i := range seeds {
		push(i)
	}

	for head := 0; head < len(queue); head++ {
		a := queue[head]
		queued[a.cell*4+int(a.dir)] = false
		if s.decided(a.cell) {
			continue
		}
		n := s.neighbor(a.cell, a.dir)
		domain := s.domains[a.cell]
		revised := domain & p.Table.Supported(s.Domain(n), a.dir)
		if revised == domain {
			continue
		}
		if revised.Empty() {
			x, y := s.coords(a.cell)
			return &ContradictionError{X: x, Y: y}
		}
		s.removeTiles(a.cell, revised, log)
		if revised.Single() {
			s.collapse(a.cell, revised.First(), log)
		}
		push(a.cell)
	}
	return nil
}
