// Package wfc implements the wave function collapse solver: per-cell domains,
// constraint propagation, entropy-driven cell selection and a backtracking
// search over a reversible change log.
package wfc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"terraingen/internal/config"
	"terraingen/internal/random"
	"terraingen/internal/telemetry"
	"terraingen/internal/terrain"
	"terraingen/internal/tiles"
)

// Area is the rectangle of world tiles a solver fills.
type Area struct {
	OriginX int
	OriginY int
	Width   int
	Height  int
}

// Options are the immutable knobs of one solver.
type Options struct {
	Weights           config.WeightsConfig
	Heuristics        config.HeuristicsConfig
	Backtracking      bool
	Propagator        string
	MaxIterations     int
	MaxBacktrackSteps int
	MaxDepth          int
	TimeBudget        time.Duration

	// Table is required by the AC-3 propagator; it is built from the registry
	// when nil.
	Table *tiles.RuleTable
	// ChunkX and ChunkY label telemetry events.
	ChunkX, ChunkY int

	Sink   telemetry.Sink
	Logger *slog.Logger
	Now    func() time.Time
}

// OptionsFromConfig copies the solver-relevant parts of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Weights:           cfg.Weights,
		Heuristics:        cfg.Heuristics,
		Backtracking:      cfg.Solver.Backtracking,
		Propagator:        cfg.Solver.Propagator,
		MaxIterations:     cfg.Solver.MaxIterations,
		MaxBacktrackSteps: cfg.Solver.MaxBacktrackSteps,
		MaxDepth:          cfg.Solver.MaxDepth,
		TimeBudget:        cfg.Solver.TimeBudget.Duration(),
	}
}

// Stats summarises one solve.
type Stats struct {
	Iterations     int
	Backtracks     int
	MaxDepth       int
	Contradictions int
	PeakLogSize    int
	Elapsed        time.Duration
}

// Solver fills one Area. It is single-use and not safe for concurrent use;
// run independent solvers for parallel chunks.
type Solver struct {
	reg        *tiles.Registry
	rng        random.Source
	opts       Options
	heuristics Heuristics
	prop       Propagator
	state      *State
	log        *Log
	logger     *slog.Logger
	sink       telemetry.Sink

	stats  Stats
	runID  string
	start  time.Time
	solved bool
}

// NewSolver samples the area and computes every cell's starting domain: the
// placeable tiles whose rule accepts the cell's own height sample.
func NewSolver(reg *tiles.Registry, sampler terrain.HeightSampler, rng random.Source, area Area, opts Options) (*Solver, error) {
	if area.Width <= 0 || area.Height <= 0 {
		return nil, fmt.Errorf("%w: area %dx%d", ErrInvalidGrid, area.Width, area.Height)
	}
	if reg == nil || sampler == nil || rng == nil {
		return nil, errors.New("wfc: registry, sampler and random source are required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sink == nil {
		opts.Sink = telemetry.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Solver{
		reg:        reg,
		rng:        rng,
		opts:       opts,
		heuristics: Heuristics{Weights: opts.Weights, Config: opts.Heuristics},
		state:      newState(area, sampler),
		log:        &Log{},
		logger:     opts.Logger.With(slog.String("component", "wfc")),
		sink:       opts.Sink,
	}
	switch opts.Propagator {
	case "", config.PropagatorDirect:
		s.prop = DirectPropagator{Registry: reg}
	case config.PropagatorAC3:
		table := opts.Table
		if table == nil {
			table = tiles.BuildRuleTable(reg)
		}
		s.prop = AC3Propagator{Table: table}
	default:
		return nil, fmt.Errorf("wfc: unknown propagator %q", opts.Propagator)
	}

	placeable := reg.Placeable()
	for i := range s.state.domains {
		var domain tiles.Set
		for _, t := range placeable.IDs() {
			x, y := s.state.coords(i)
			ctx := tiles.Context{
				X: x, Y: y, NeighborX: x, NeighborY: y,
				Tile:     t,
				Neighbor: tiles.Undecided,
				Sample:   s.state.samples[i],
				Sampled:  true,
				Grid:     s.state.Output,
			}
			if reg.Allows(ctx) {
				domain = domain.Add(t)
			}
		}
		s.state.domains[i] = domain
	}
	return s, nil
}

// State exposes the live solve state for inspection.
func (s *Solver) State() *State { return s.state }

// Stats returns the counters of the last Solve.
func (s *Solver) Stats() Stats { return s.stats }

// Restrict intersects the domain of (x, y) with allowed before solving. A
// decided cell is rejected when its value is not in allowed.
func (s *Solver) Restrict(x, y int, allowed tiles.Set) error {
	if !s.state.inBounds(x, y) {
		return fmt.Errorf("%w: cell (%d,%d) outside %dx%d", ErrInvalidGrid, x, y, s.state.Width, s.state.Height)
	}
	i := s.state.index(x, y)
	if s.state.decided(i) {
		if !allowed.Has(s.state.Output.Cells[i]) {
			return &ContradictionError{X: x, Y: y}
		}
		return nil
	}
	s.state.domains[i] &= allowed
	return nil
}

// Fix pins (x, y) to tile before solving.
func (s *Solver) Fix(x, y int, tile tiles.TileID) error {
	return s.Restrict(x, y, tiles.SetOf(tile))
}

// Solve runs the search and returns the filled output grid. Failures never
// return partial output.
func (s *Solver) Solve(ctx context.Context) (*tiles.Grid, error) {
	if s.solved {
		return nil, errors.New("wfc: solver already used")
	}
	s.solved = true
	s.start = s.opts.Now()
	s.runID = telemetry.NewRunID()
	ctx = s.sink.SolveBegin(ctx, s.event(-1, 0))

	err := s.prepare()
	if err == nil {
		err = s.search(ctx)
	}

	s.stats.Elapsed = s.opts.Now().Sub(s.start)
	end := s.event(-1, 0)
	end.Err = err
	s.sink.SolveEnd(ctx, end)
	if err != nil {
		s.logger.Debug("solve failed",
			slog.Int("chunk_x", s.opts.ChunkX),
			slog.Int("chunk_y", s.opts.ChunkY),
			slog.Int("iterations", s.stats.Iterations),
			slog.Int("backtracks", s.stats.Backtracks),
			slog.Any("err", err))
		return nil, err
	}
	return s.state.Output.Clone(), nil
}

// prepare rejects empty starting domains and decides every pre-constrained
// singleton before the search starts.
func (s *Solver) prepare() error {
	st := s.state
	var seeds []int
	for i := range st.domains {
		if st.decided(i) {
			continue
		}
		if st.domains[i].Empty() {
			x, y := st.coords(i)
			return &ContradictionError{X: x, Y: y}
		}
		if !st.domains[i].Single() {
			continue
		}
		t := st.domains[i].First()
		if !validAt(s.reg, st, i, t) {
			x, y := st.coords(i)
			return &ContradictionError{X: x, Y: y}
		}
		st.collapse(i, t, s.log)
		seeds = append(seeds, i)
	}
	if len(seeds) == 0 {
		return nil
	}
	if err := s.prop.Propagate(st, seeds, s.log); err != nil {
		s.stats.Contradictions++
		return err
	}
	return nil
}

func (s *Solver) event(cell, depth int) telemetry.SolveEvent {
	x, y := -1, -1
	if cell >= 0 {
		x, y = s.state.coords(cell)
	}
	return telemetry.SolveEvent{
		RunID:      s.runID,
		ChunkX:     s.opts.ChunkX,
		ChunkY:     s.opts.ChunkY,
		X:          x,
		Y:          y,
		Depth:      depth,
		Iterations: s.stats.Iterations,
		Backtracks: s.stats.Backtracks,
		Elapsed:    s.opts.Now().Sub(s.start),
	}
}

func (s *Solver) checkBudget(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrTimeBudget, err)
	}
	if s.opts.TimeBudget > 0 && s.opts.Now().Sub(s.start) > s.opts.TimeBudget {
		return fmt.Errorf("%w after %s", ErrTimeBudget, s.opts.TimeBudget)
	}
	return nil
}
