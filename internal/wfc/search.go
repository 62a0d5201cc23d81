package wfc

import (
	"context"
	"errors"

	"terraingen/internal/tiles"
)

// frame is one branch point of the search.
type frame struct {
	cell       int
	candidates []tiles.TileID
	next       int
	mark       int
	depth      int
}

// errExhausted signals that a frame has no candidate left to try.
var errExhausted = errors.New("wfc: frame exhausted")

// search alternates selection and decision. Each decision pushes a frame whose
// candidates are tried in order; a failed candidate rolls the log back to the
// frame's mark. An exhausted frame is popped and its parent moves on to its
// next candidate. Without backtracking the stack never grows past one frame
// and the first contradiction ends the search.
func (s *Solver) search(ctx context.Context) error {
	var stack []*frame
	for {
		if err := s.checkBudget(ctx); err != nil {
			return err
		}
		i, shortlist := s.heuristics.selectIndex(s.state, s.rng)
		if i < 0 {
			return nil
		}
		s.sink.Shortlist(shortlist)

		s.stats.Iterations++
		if s.opts.MaxIterations > 0 && s.stats.Iterations > s.opts.MaxIterations {
			return ErrIterationLimit
		}
		if !s.opts.Backtracking {
			stack = stack[:0]
		}
		f := &frame{
			cell:  i,
			mark:  s.log.Mark(),
			depth: len(stack) + 1,
		}
		f.candidates = s.candidates(i)
		stack = append(stack, f)
		if f.depth > s.stats.MaxDepth {
			s.stats.MaxDepth = f.depth
		}

		for {
			top := stack[len(stack)-1]
			err := s.advance(ctx, top)
			if err == nil {
				break
			}
			if !errors.Is(err, errExhausted) {
				return err
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 || !s.opts.Backtracking {
				return s.frameFailure(top)
			}
			if err := s.rollback(ctx, stack[len(stack)-1]); err != nil {
				return err
			}
		}
	}
}

// candidates returns the ordered try-list of cell i, dropping tiles a decided
// neighbour rejects under full context.
func (s *Solver) candidates(i int) []tiles.TileID {
	var valid tiles.Set
	for _, t := range s.state.domains[i].IDs() {
		if validAt(s.reg, s.state, i, t) {
			valid = valid.Add(t)
		}
	}
	return s.heuristics.Candidates(s.state, i, valid, s.rng)
}

// advance tries the remaining candidates of f until one propagates cleanly.
func (s *Solver) advance(ctx context.Context, f *frame) error {
	if s.opts.MaxDepth > 0 && f.depth > s.opts.MaxDepth {
		f.next = len(f.candidates)
		return errExhausted
	}
	for f.next < len(f.candidates) {
		t := f.candidates[f.next]
		f.next++

		err := s.assign(f.cell, t)
		if n := s.log.Len(); n > s.stats.PeakLogSize {
			s.stats.PeakLogSize = n
		}
		if err == nil {
			return nil
		}

		var ce *ContradictionError
		if errors.As(err, &ce) {
			ce.Depth = f.depth
		}
		s.stats.Contradictions++
		s.sink.Contradiction(ctx, s.event(f.cell, f.depth))
		if !s.opts.Backtracking {
			return err
		}
		if err := s.rollback(ctx, f); err != nil {
			return err
		}
	}
	return errExhausted
}

// assign decides cell i as tile and propagates, both logged.
func (s *Solver) assign(i int, tile tiles.TileID) error {
	s.state.collapse(i, tile, s.log)
	return s.prop.Propagate(s.state, []int{i}, s.log)
}

// rollback restores the state at f's mark and enforces the backtrack and time
// bounds.
func (s *Solver) rollback(ctx context.Context, f *frame) error {
	s.log.Rollback(s.state, f.mark)
	s.stats.Backtracks++
	s.sink.Rollback(ctx, s.event(f.cell, f.depth))
	if s.opts.MaxBacktrackSteps > 0 && s.stats.Backtracks > s.opts.MaxBacktrackSteps {
		return ErrBacktrackLimit
	}
	return s.checkBudget(ctx)
}

// frameFailure describes why f ran out of candidates.
func (s *Solver) frameFailure(f *frame) error {
	x, y := s.state.coords(f.cell)
	return &ContradictionError{X: x, Y: y, Depth: f.depth}
}
