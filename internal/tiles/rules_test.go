package tiles

import (
	"testing"

	"terraingen/internal/terrain"
)

func TestBandAndNeighbourChecks(t *testing.T) {
	rule := OceanRule{P: RuleParams{MinElevation: 0, MaxElevation: 0.4, Neighbors: SetOf(Ocean, Beach)}}
	tests := []struct {
		name string
		ctx  Context
		want bool
	}{
		{
			name: "inside band without neighbour",
			ctx:  Context{Tile: Ocean, Neighbor: Undecided, Sampled: true, Sample: terrain.Sample{Altitude: 0.2}},
			want: true,
		},
		{
			name: "above band",
			ctx:  Context{Tile: Ocean, Neighbor: Undecided, Sampled: true, Sample: terrain.Sample{Altitude: 0.6}},
			want: false,
		},
		{
			name: "allowed neighbour",
			ctx:  Context{Tile: Ocean, Neighbor: Beach, Sampled: true, Sample: terrain.Sample{Altitude: 0.2}},
			want: true,
		},
		{
			name: "forbidden neighbour",
			ctx:  Context{Tile: Ocean, Neighbor: Snow, Sampled: true, Sample: terrain.Sample{Altitude: 0.2}},
			want: false,
		},
		{
			name: "unsampled skips band",
			ctx:  Context{Tile: Ocean, Neighbor: Beach, Sample: terrain.Sample{Altitude: 0.9}},
			want: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := rule.EvaluateRules(tc.ctx); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestVoidRuleRejectsEverything(t *testing.T) {
	if (VoidRule{}).EvaluateRules(Context{Neighbor: Undecided}) {
		t.Fatalf("void must never be placeable")
	}
}

func TestMountainNoiseThreshold(t *testing.T) {
	rule := MountainRule{P: RuleParams{
		MinElevation:      0.5,
		MaxElevation:      1,
		NoiseThreshold:    0.6,
		HasNoiseThreshold: true,
		Neighbors:         SetOf(Mountain),
	}}
	low := Context{Tile: Mountain, Neighbor: Undecided, Sampled: true, Sample: terrain.Sample{Altitude: 0.8, MountainNoise: 0.3}}
	if rule.EvaluateRules(low) {
		t.Fatalf("ridge noise below threshold should reject")
	}
	high := low
	high.Sample.MountainNoise = 0.7
	if !rule.EvaluateRules(high) {
		t.Fatalf("ridge noise above threshold should accept")
	}
}

func TestGroupBounds(t *testing.T) {
	const U = Undecided
	sample := terrain.Sample{Altitude: 0.8, MountainNoise: 1}
	rule := func(minW, maxW int) MountainRule {
		return MountainRule{P: RuleParams{
			MinElevation:   0,
			MaxElevation:   1,
			MinGroupWidth:  minW,
			MinGroupHeight: 1,
			MaxGroupWidth:  maxW,
			MaxGroupHeight: 3,
			Neighbors:      SetOf(Mountain, Plains),
		}}
	}
	ctxAt := func(g *Grid, x int) Context {
		return Context{
			X: x, Y: 0, NeighborX: x - 1, NeighborY: 0,
			Tile: Mountain, Neighbor: Mountain, Dir: West,
			Sample: sample, NeighborSample: sample, Sampled: true, Grid: g,
		}
	}

	tests := []struct {
		name string
		rule MountainRule
		grid *Grid
		x    int
		want bool
	}{
		{
			name: "within max",
			rule: rule(1, 3),
			grid: gridFromRows([]TileID{Mountain, Mountain, U, U}),
			x:    2,
			want: true,
		},
		{
			name: "exceeds max",
			rule: rule(2, 3),
			grid: gridFromRows([]TileID{Mountain, Mountain, Mountain, U}),
			x:    3,
			want: false,
		},
		{
			name: "undersized seed may grow",
			rule: rule(2, 1),
			grid: gridFromRows([]TileID{Mountain, U}),
			x:    1,
			want: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rule.EvaluateRules(ctxAt(tc.grid, tc.x)); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	other := ctxAt(gridFromRows([]TileID{Mountain, Mountain, Mountain, U}), 3)
	other.Neighbor = Plains
	if !rule(2, 3).EvaluateRules(other) {
		t.Fatalf("group bounds only apply to same-tile neighbours")
	}
}

func TestContextReverse(t *testing.T) {
	ctx := Context{X: 1, Y: 2, NeighborX: 2, NeighborY: 2, Tile: Ocean, Neighbor: Beach, Dir: East,
		Sample: terrain.Sample{Altitude: 0.1}, NeighborSample: terrain.Sample{Altitude: 0.4}}
	r := ctx.Reverse()
	if r.X != 2 || r.NeighborX != 1 || r.Tile != Beach || r.Neighbor != Ocean || r.Dir != West {
		t.Fatalf("unexpected reverse %+v", r)
	}
	if r.Sample.Altitude != 0.4 || r.NeighborSample.Altitude != 0.1 {
		t.Fatalf("samples not swapped: %+v", r)
	}
}
