package wfc

import (
	"errors"
	"fmt"
)

var (
	// ErrContradiction reports a cell whose domain became empty with no
	// remaining alternative to try.
	ErrContradiction = errors.New("wfc: contradiction")
	// ErrIterationLimit reports that the search exceeded MaxIterations forward steps.
	ErrIterationLimit = errors.New("wfc: iteration limit exceeded")
	// ErrBacktrackLimit reports that the search exceeded MaxBacktrackSteps rollbacks.
	ErrBacktrackLimit = errors.New("wfc: backtrack limit exceeded")
	// ErrTimeBudget reports that the wall-clock budget ran out or the context ended.
	ErrTimeBudget = errors.New("wfc: time budget exceeded")
	// ErrInvalidGrid rejects empty areas and out-of-bounds constraints.
	ErrInvalidGrid = errors.New("wfc: invalid grid")
)

// ContradictionError identifies the cell that ran out of candidates.
type ContradictionError struct {
	X, Y  int
	Depth int
}

func (e *ContradictionError) Error() string {
	return fmt.Sprintf("wfc: contradiction at (%d,%d) depth %d", e.X, e.Y, e.Depth)
}

func (e *ContradictionError) Unwrap() error { return ErrContradiction }
