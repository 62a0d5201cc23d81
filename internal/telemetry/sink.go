// Package telemetry carries advisory progress events out of solver runs and
// the chunk manager. Sinks never influence control flow.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SolveEvent describes one point in a chunk solve. X/Y address a cell inside
// the chunk and are -1 when the event is not tied to a cell.
type SolveEvent struct {
	RunID      string
	ChunkX     int
	ChunkY     int
	X          int
	Y          int
	Depth      int
	Iterations int
	Backtracks int
	Elapsed    time.Duration
	Err        error
}

// NewRunID returns a fresh identifier correlating the events of one solve.
func NewRunID() string { return uuid.NewString() }

// Sink receives solver and chunk-manager events. Implementations must be safe
// for concurrent use; parallel chunk solves share one sink.
type Sink interface {
	// SolveBegin may attach per-solve state to the returned context.
	SolveBegin(ctx context.Context, ev SolveEvent) context.Context
	SolveEnd(ctx context.Context, ev SolveEvent)
	Contradiction(ctx context.Context, ev SolveEvent)
	Rollback(ctx context.Context, ev SolveEvent)
	ActiveChunks(n int)
	ChunkSaved()
	Shortlist(n int)
}

// Nop discards every event. It is the default sink.
type Nop struct{}

func (Nop) SolveBegin(ctx context.Context, _ SolveEvent) context.Context { return ctx }
func (Nop) SolveEnd(context.Context, SolveEvent)                         {}
func (Nop) Contradiction(context.Context, SolveEvent)                    {}
func (Nop) Rollback(context.Context, SolveEvent)                         {}
func (Nop) ActiveChunks(int)                                             {}
func (Nop) ChunkSaved()                                                  {}
func (Nop) Shortlist(int)                                                {}

// Multi fans events out to every sink in order.
type Multi []Sink

// Combine drops nil sinks and returns Nop when nothing remains.
func Combine(sinks ...Sink) Sink {
	var out Multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return Nop{}
	case 1:
		return out[0]
	}
	return out
}

func (m Multi) SolveBegin(ctx context.Context, ev SolveEvent) context.Context {
	for _, s := range m {
		ctx = s.SolveBegin(ctx, ev)
	}
	return ctx
}

func (m Multi) SolveEnd(ctx context.Context, ev SolveEvent) {
	for _, s := range m {
		s.SolveEnd(ctx, ev)
	}
}

func (m Multi) Contradiction(ctx context.Context, ev SolveEvent) {
	for _, s := range m {
		s.Contradiction(ctx, ev)
	}
}

func (m Multi) Rollback(ctx context.Context, ev SolveEvent) {
	for _, s := range m {
		s.Rollback(ctx, ev)
	}
}

func (m Multi) ActiveChunks(n int) {
	for _, s := range m {
		s.ActiveChunks(n)
	}
}

func (m Multi) ChunkSaved() {
	for _, s := range m {
		s.ChunkSaved()
	}
}

func (m Multi) Shortlist(n int) {
	for _, s := range m {
		s.Shortlist(n)
	}
}
