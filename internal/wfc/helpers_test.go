package wfc

import (
	"context"
	"sync"
	"testing"

	"terraingen/internal/config"
	"terraingen/internal/random"
	"terraingen/internal/telemetry"
	"terraingen/internal/terrain"
	"terraingen/internal/tiles"
)

var flat = terrain.Flat(terrain.Sample{Altitude: 0.5, MountainNoise: 0.5, DetailNoise: 0.5})

// adjacency builds a registry of generic tiles accepting any altitude, each
// restricted to the listed neighbours.
func adjacency(t *testing.T, neighbours map[tiles.TileID][]tiles.TileID) *tiles.Registry {
	t.Helper()
	rules := make(map[tiles.TileID]tiles.Rule, len(neighbours))
	for id, ns := range neighbours {
		rules[id] = tiles.GenericRule{P: tiles.RuleParams{MaxElevation: 1, Neighbors: tiles.SetOf(ns...)}}
	}
	reg, err := tiles.NewCustomRegistry(rules)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func permissive(t *testing.T, ids ...tiles.TileID) *tiles.Registry {
	t.Helper()
	ns := make(map[tiles.TileID][]tiles.TileID, len(ids))
	for _, id := range ids {
		ns[id] = ids
	}
	return adjacency(t, ns)
}

func testOptions() Options {
	cfg := config.Default()
	opts := OptionsFromConfig(cfg)
	opts.Heuristics.UniformPickFraction = 0
	opts.TimeBudget = 0
	return opts
}

func newTestSolver(t *testing.T, reg *tiles.Registry, w, h int, opts Options) *Solver {
	t.Helper()
	s, err := NewSolver(reg, flat, random.Fixed{}, Area{Width: w, Height: h}, opts)
	if err != nil {
		t.Fatalf("new solver: %v", err)
	}
	return s
}

func restrict(t *testing.T, s *Solver, x, y int, ids ...tiles.TileID) {
	t.Helper()
	if err := s.Restrict(x, y, tiles.SetOf(ids...)); err != nil {
		t.Fatalf("restrict (%d,%d): %v", x, y, err)
	}
}

type snapshot struct {
	domains []tiles.Set
	output  []tiles.TileID
}

func take(s *State) snapshot {
	snap := snapshot{
		domains: append([]tiles.Set(nil), s.domains...),
		output:  append([]tiles.TileID(nil), s.Output.Cells...),
	}
	return snap
}

// recordingSink counts events.
type recordingSink struct {
	telemetry.Nop
	mu             sync.Mutex
	begins, ends   int
	contradictions int
	rollbacks      int
	lastErr        error
	runIDs         map[string]struct{}
}

func (r *recordingSink) SolveBegin(ctx context.Context, ev telemetry.SolveEvent) context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.begins++
	if r.runIDs == nil {
		r.runIDs = make(map[string]struct{})
	}
	r.runIDs[ev.RunID] = struct{}{}
	return ctx
}

func (r *recordingSink) SolveEnd(_ context.Context, ev telemetry.SolveEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ends++
	r.lastErr = ev.Err
	r.runIDs[ev.RunID] = struct{}{}
}

func (r *recordingSink) Contradiction(context.Context, telemetry.SolveEvent) {
	r.mu.Lock()
	r.contradictions++
	r.mu.Unlock()
}

func (r *recordingSink) Rollback(context.Context, telemetry.SolveEvent) {
	r.mu.Lock()
	r.rollbacks++
	r.mu.Unlock()
}
