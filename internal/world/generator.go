package world

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"terraingen/internal/config"
	"terraingen/internal/random"
	"terraingen/internal/telemetry"
	"terraingen/internal/terrain"
	"terraingen/internal/tiles"
	"terraingen/internal/wfc"
)

// SeamHints carries the facing edge of already-active neighbour chunks, keyed
// by the side of the new chunk they touch.
type SeamHints map[tiles.Direction][]tiles.TileID

// Generator fills chunks with the solver and falls back to the height
// classifier whenever a solve fails. It is safe for concurrent use; every call
// builds its own solver.
type Generator struct {
	registry   *tiles.Registry
	table      *tiles.RuleTable
	sampler    terrain.HeightSampler
	options    wfc.Options
	budget     time.Duration
	seed       int64
	size       int
	thresholds tiles.Thresholds
	logger     *slog.Logger
}

// NewGenerator prepares shared, read-only solver inputs. sink and logger may be nil.
func NewGenerator(cfg *config.Config, registry *tiles.Registry, sampler terrain.HeightSampler, sink telemetry.Sink, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = telemetry.Nop{}
	}
	opts := wfc.OptionsFromConfig(cfg)
	opts.Table = tiles.BuildRuleTable(registry)
	opts.Sink = sink
	opts.Logger = logger
	// the budget is enforced per chunk through a context deadline so that a
	// hinted attempt and its retry share it
	budget := opts.TimeBudget
	opts.TimeBudget = 0
	return &Generator{
		registry:   registry,
		table:      opts.Table,
		sampler:    sampler,
		options:    opts,
		budget:     budget,
		seed:       cfg.Terrain.Seed,
		size:       cfg.Chunks.Size,
		thresholds: tiles.ThresholdsFromRules(cfg.Rules),
		logger:     logger.With(slog.String("component", "generator")),
	}
}

// Size returns the edge length of generated chunks.
func (g *Generator) Size() int { return g.size }

// Registry returns the tile registry shared by every solve.
func (g *Generator) Registry() *tiles.Registry { return g.registry }

// Generate fills the chunk at coord. The solver runs over the chunk's world
// rectangle with a seed derived from the chunk coordinate; seam hints are tried
// first and dropped when they make the chunk unsolvable. Both attempts share
// one time budget. Solver failures fall back to the height classifier, but a
// cancelled ctx is returned as an error and no chunk is produced.
func (g *Generator) Generate(ctx context.Context, coord ChunkCoord, hints SeamHints) (*Chunk, wfc.Stats, error) {
	solveCtx := ctx
	if g.budget > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, g.budget)
		defer cancel()
	}

	if len(hints) > 0 {
		grid, stats, err := g.solve(solveCtx, coord, hints)
		if err == nil {
			return chunkFromGrid(coord, grid), stats, nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return nil, stats, cerr
		}
		g.logger.Debug("seam hints unsatisfiable, retrying unconstrained",
			slog.String("chunk", coord.String()),
			slog.Any("err", err))
	}
	grid, stats, err := g.solve(solveCtx, coord, nil)
	if err == nil {
		return chunkFromGrid(coord, grid), stats, nil
	}
	if cerr := ctx.Err(); cerr != nil {
		return nil, stats, cerr
	}

	g.logger.Info("solver failed, using height classifier",
		slog.String("chunk", coord.String()),
		slog.String("reason", failureReason(err)),
		slog.Int("iterations", stats.Iterations),
		slog.Int("backtracks", stats.Backtracks))
	return g.classify(coord), stats, nil
}

func (g *Generator) solve(ctx context.Context, coord ChunkCoord, hints SeamHints) (*tiles.Grid, wfc.Stats, error) {
	ox, oy := coord.Origin(g.size)
	opts := g.options
	opts.ChunkX, opts.ChunkY = coord.X, coord.Y

	rng := random.NewPCG(ChunkSeed(g.seed, coord))
	solver, err := wfc.NewSolver(g.registry, g.sampler, rng, wfc.Area{OriginX: ox, OriginY: oy, Width: g.size, Height: g.size}, opts)
	if err != nil {
		return nil, wfc.Stats{}, err
	}
	if err := g.applyHints(solver, hints); err != nil {
		return nil, wfc.Stats{}, err
	}
	grid, err := solver.Solve(ctx)
	return grid, solver.Stats(), err
}

// applyHints restricts every border cell to tiles the rule table accepts next
// to the facing neighbour tile.
func (g *Generator) applyHints(solver *wfc.Solver, hints SeamHints) error {
	last := g.size - 1
	for side, edge := range hints {
		if len(edge) != g.size {
			continue
		}
		for k, neighbor := range edge {
			if !g.registry.Valid(neighbor) {
				continue
			}
			var x, y int
			switch side {
			case tiles.North:
				x, y = k, 0
			case tiles.South:
				x, y = k, last
			case tiles.West:
				x, y = 0, k
			default:
				x, y = last, k
			}
			if err := solver.Restrict(x, y, g.table.Allowed(neighbor, side.Opposite())); err != nil {
				return err
			}
		}
	}
	return nil
}

// classify fills the chunk tile by tile from height samples alone.
func (g *Generator) classify(coord ChunkCoord) *Chunk {
	ox, oy := coord.Origin(g.size)
	grid := tiles.NewGrid(g.size, g.size)
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			grid.Set(x, y, g.thresholds.Classify(g.sampler.GetSample(ox+x, oy+y)))
		}
	}
	c := chunkFromGrid(coord, grid)
	c.fallback = true
	return c
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, wfc.ErrTimeBudget):
		return "time budget"
	case errors.Is(err, wfc.ErrIterationLimit):
		return "iteration limit"
	case errors.Is(err, wfc.ErrBacktrackLimit):
		return "backtrack limit"
	case errors.Is(err, wfc.ErrContradiction):
		return "contradiction"
	default:
		return err.Error()
	}
}
