package tiles

import "terraingen/internal/terrain"

// RuleParams are the configured thresholds of one tile type. Zero group bounds
// disable the respective check.
type RuleParams struct {
	MinElevation      float64
	MaxElevation      float64
	NoiseThreshold    float64
	HasNoiseThreshold bool
	MinGroupWidth     int
	MinGroupHeight    int
	MaxGroupWidth     int
	MaxGroupHeight    int
	Neighbors         Set
}

func (p RuleParams) hasGroupBounds() bool {
	return p.MaxGroupWidth > 0 || p.MaxGroupHeight > 0
}

// Context is the immutable input of one rule evaluation: a candidate tile at a
// position tested against one neighbour. Neighbor == Undecided restricts the
// evaluation to the candidate's own checks. Sampled == false skips every check
// that needs height samples or region metrics (rule-table precomputation).
type Context struct {
	X, Y           int
	Tile           TileID
	NeighborX      int
	NeighborY      int
	Neighbor       TileID
	Dir            Direction // from candidate to neighbour
	Sample         terrain.Sample
	NeighborSample terrain.Sample
	Sampled        bool
	Grid           *Grid // read-only view for region metrics
}

// Reverse swaps candidate and neighbour.
func (c Context) Reverse() Context {
	r := c
	r.X, r.Y, r.NeighborX, r.NeighborY = c.NeighborX, c.NeighborY, c.X, c.Y
	r.Tile, r.Neighbor = c.Neighbor, c.Tile
	r.Sample, r.NeighborSample = c.NeighborSample, c.Sample
	r.Dir = c.Dir.Opposite()
	return r
}

// Kind names a rule variant.
type Kind uint8

const (
	KindVoid Kind = iota
	KindOcean
	KindBeach
	KindPlains
	KindForest
	KindSnow
	KindMountain
	KindGeneric
)

// Rule decides whether a candidate tile may sit next to a neighbour. Rules are
// pure and never fail; false removes the candidate.
type Rule interface {
	Kind() Kind
	Params() RuleParams
	EvaluateRules(ctx Context) bool
}

// VoidRule rejects every placement. It reserves id 0 so the solver never emits it.
type VoidRule struct{}

func (VoidRule) Kind() Kind                 { return KindVoid }
func (VoidRule) Params() RuleParams         { return RuleParams{} }
func (VoidRule) EvaluateRules(Context) bool { return false }

type OceanRule struct{ P RuleParams }

func (r OceanRule) Kind() Kind         { return KindOcean }
func (r OceanRule) Params() RuleParams { return r.P }

// EvaluateRules keeps oceans low and away from anything but water and sand.
func (r OceanRule) EvaluateRules(ctx Context) bool {
	return inBand(r.P, ctx) && neighborAllowed(r.P, ctx)
}

type BeachRule struct{ P RuleParams }

func (r BeachRule) Kind() Kind         { return KindBeach }
func (r BeachRule) Params() RuleParams { return r.P }

func (r BeachRule) EvaluateRules(ctx Context) bool {
	return inBand(r.P, ctx) && neighborAllowed(r.P, ctx)
}

type PlainsRule struct{ P RuleParams }

func (r PlainsRule) Kind() Kind         { return KindPlains }
func (r PlainsRule) Params() RuleParams { return r.P }

func (r PlainsRule) EvaluateRules(ctx Context) bool {
	return inBand(r.P, ctx) && neighborAllowed(r.P, ctx)
}

type ForestRule struct{ P RuleParams }

func (r ForestRule) Kind() Kind         { return KindForest }
func (r ForestRule) Params() RuleParams { return r.P }

func (r ForestRule) EvaluateRules(ctx Context) bool {
	return inBand(r.P, ctx) && neighborAllowed(r.P, ctx)
}

type SnowRule struct{ P RuleParams }

func (r SnowRule) Kind() Kind         { return KindSnow }
func (r SnowRule) Params() RuleParams { return r.P }

func (r SnowRule) EvaluateRules(ctx Context) bool {
	return inBand(r.P, ctx) && neighborAllowed(r.P, ctx)
}

// MountainRule adds a ridge-noise threshold and bounds on range size.
type MountainRule struct{ P RuleParams }

func (r MountainRule) Kind() Kind         { return KindMountain }
func (r MountainRule) Params() RuleParams { return r.P }

func (r MountainRule) EvaluateRules(ctx Context) bool {
	return inBand(r.P, ctx) &&
		aboveNoise(r.P, ctx) &&
		neighborAllowed(r.P, ctx) &&
		groupAllowed(r.P, ctx)
}

// GenericRule applies every configured check; used for tiles registered from
// configuration.
type GenericRule struct{ P RuleParams }

func (r GenericRule) Kind() Kind         { return KindGeneric }
func (r GenericRule) Params() RuleParams { return r.P }

func (r GenericRule) EvaluateRules(ctx Context) bool {
	return inBand(r.P, ctx) &&
		aboveNoise(r.P, ctx) &&
		neighborAllowed(r.P, ctx) &&
		groupAllowed(r.P, ctx)
}

func inBand(p RuleParams, ctx Context) bool {
	if !ctx.Sampled {
		return true
	}
	alt := ctx.Sample.Altitude
	return alt >= p.MinElevation && alt <= p.MaxElevation
}

func aboveNoise(p RuleParams, ctx Context) bool {
	if !ctx.Sampled || !p.HasNoiseThreshold {
		return true
	}
	return ctx.Sample.MountainNoise >= p.NoiseThreshold
}

func neighborAllowed(p RuleParams, ctx Context) bool {
	if ctx.Neighbor == Undecided {
		return true
	}
	return p.Neighbors.Has(ctx.Neighbor)
}

// groupAllowed bounds the bounding box of the same-tile region the candidate
// would join. A region still smaller than the configured minimum may always grow.
func groupAllowed(p RuleParams, ctx Context) bool {
	if !ctx.Sampled || !p.hasGroupBounds() || ctx.Neighbor != ctx.Tile {
		return true
	}
	projected := Measure(ctx.Grid, ctx.X, ctx.Y, ctx.Tile)
	if projected.Empty() {
		return true
	}
	withinWidth := p.MaxGroupWidth <= 0 || projected.Width <= p.MaxGroupWidth
	withinHeight := p.MaxGroupHeight <= 0 || projected.Height <= p.MaxGroupHeight
	if withinWidth && withinHeight {
		return true
	}
	seed := Measure(ctx.Grid, ctx.NeighborX, ctx.NeighborY, Undecided)
	if seed.Empty() {
		return true
	}
	return seed.Width < p.MinGroupWidth || seed.Height < p.MinGroupHeight
}
