package tiles

import (
	"fmt"
	"sort"

	"terraingen/internal/config"
)

// Registry maps tile ids to rules. It is immutable after construction and safe
// for concurrent use.
type Registry struct {
	rules  [MaxTiles]Rule
	names  [MaxTiles]string
	byName map[string]TileID
	all    Set
}

// NewRegistry builds the built-in terrain set plus any generic tiles from cfg.
func NewRegistry(cfg config.RulesConfig) (*Registry, error) {
	r := &Registry{byName: make(map[string]TileID)}
	r.register(Void, "void", VoidRule{})

	names := map[string]TileID{
		"void": Void, "ocean": Ocean, "beach": Beach, "plains": Plains,
		"forest": Forest, "snow": Snow, "mountain": Mountain,
	}
	for _, g := range cfg.Generic {
		if _, dup := names[g.Name]; dup {
			return nil, fmt.Errorf("generic tile %q: name already registered", g.Name)
		}
		names[g.Name] = TileID(g.ID)
	}

	builtins := []struct {
		id    TileID
		name  string
		cfg   config.TileRuleConfig
		build func(RuleParams) Rule
	}{
		{Ocean, "ocean", cfg.Ocean, func(p RuleParams) Rule { return OceanRule{P: p} }},
		{Beach, "beach", cfg.Beach, func(p RuleParams) Rule { return BeachRule{P: p} }},
		{Plains, "plains", cfg.Plains, func(p RuleParams) Rule { return PlainsRule{P: p} }},
		{Forest, "forest", cfg.Forest, func(p RuleParams) Rule { return ForestRule{P: p} }},
		{Snow, "snow", cfg.Snow, func(p RuleParams) Rule { return SnowRule{P: p} }},
		{Mountain, "mountain", cfg.Mountain, func(p RuleParams) Rule { return MountainRule{P: p} }},
	}
	for _, b := range builtins {
		params, err := paramsFromConfig(b.cfg, names)
		if err != nil {
			return nil, fmt.Errorf("tile %s: %w", b.name, err)
		}
		r.register(b.id, b.name, b.build(params))
	}
	for _, g := range cfg.Generic {
		id := TileID(g.ID)
		if id < FirstGenericID || id >= MaxTiles {
			return nil, fmt.Errorf("generic tile %q: id %d out of range", g.Name, g.ID)
		}
		if r.rules[id] != nil {
			return nil, fmt.Errorf("generic tile %q: id %d already registered", g.Name, g.ID)
		}
		params, err := paramsFromConfig(g.Rule, names)
		if err != nil {
			return nil, fmt.Errorf("tile %s: %w", g.Name, err)
		}
		r.register(id, g.Name, GenericRule{P: params})
	}
	return r, nil
}

// DefaultRegistry builds the registry for config.Default().
func DefaultRegistry() *Registry {
	r, err := NewRegistry(config.Default().Rules)
	if err != nil {
		panic(fmt.Sprintf("default rules invalid: %v", err))
	}
	return r
}

// NewCustomRegistry builds a registry holding only the given rules. Void is
// always registered at id 0.
func NewCustomRegistry(rules map[TileID]Rule) (*Registry, error) {
	r := &Registry{byName: make(map[string]TileID)}
	r.register(Void, "void", VoidRule{})
	ids := make([]TileID, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if id <= Void || id >= MaxTiles {
			return nil, fmt.Errorf("tile id %d out of range", id)
		}
		r.register(id, fmt.Sprintf("tile%d", id), rules[id])
	}
	return r, nil
}

func (r *Registry) register(id TileID, name string, rule Rule) {
	r.rules[id] = rule
	r.names[id] = name
	r.byName[name] = id
	r.all = r.all.Add(id)
}

func paramsFromConfig(c config.TileRuleConfig, names map[string]TileID) (RuleParams, error) {
	p := RuleParams{
		MinElevation:      c.MinElevation,
		MaxElevation:      c.MaxElevation,
		NoiseThreshold:    c.NoiseThreshold,
		HasNoiseThreshold: c.NoiseThreshold > 0,
		MinGroupWidth:     c.MinGroupWidth,
		MinGroupHeight:    c.MinGroupHeight,
		MaxGroupWidth:     c.MaxGroupWidth,
		MaxGroupHeight:    c.MaxGroupHeight,
	}
	for _, n := range c.Neighbors {
		id, ok := names[n]
		if !ok {
			return RuleParams{}, fmt.Errorf("unknown neighbour %q", n)
		}
		p.Neighbors = p.Neighbors.Add(id)
	}
	return p, nil
}

// Rule returns the rule registered for id.
func (r *Registry) Rule(id TileID) (Rule, bool) {
	if id < 0 || id >= MaxTiles || r.rules[id] == nil {
		return nil, false
	}
	return r.rules[id], true
}

func (r *Registry) ParamsFor(id TileID) (RuleParams, bool) {
	rule, ok := r.Rule(id)
	if !ok {
		return RuleParams{}, false
	}
	return rule.Params(), true
}

// Name returns the registered name of id, or "" when unknown.
func (r *Registry) Name(id TileID) string {
	if id < 0 || id >= MaxTiles {
		return ""
	}
	return r.names[id]
}

// Lookup resolves a tile name.
func (r *Registry) Lookup(name string) (TileID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// All returns every registered id including Void.
func (r *Registry) All() Set { return r.all }

// Placeable returns the ids a solver may emit.
func (r *Registry) Placeable() Set { return r.all.Remove(Void) }

// Valid reports whether id is registered.
func (r *Registry) Valid(id TileID) bool { return r.all.Has(id) }

// Evaluate runs the candidate tile's rule. Unknown ids evaluate to false.
func (r *Registry) Evaluate(ctx Context) bool {
	rule, ok := r.Rule(ctx.Tile)
	if !ok {
		return false
	}
	return rule.EvaluateRules(ctx)
}

// Allows checks ctx from both sides: the candidate's rule against the
// neighbour and, when the neighbour is known, the neighbour's rule against the
// candidate.
func (r *Registry) Allows(ctx Context) bool {
	if !r.Evaluate(ctx) {
		return false
	}
	if ctx.Neighbor == Undecided {
		return true
	}
	return r.Evaluate(ctx.Reverse())
}
