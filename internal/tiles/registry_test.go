package tiles

import (
	"strings"
	"testing"

	"terraingen/internal/config"
	"terraingen/internal/terrain"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	for name, want := range map[string]TileID{
		"void": Void, "ocean": Ocean, "beach": Beach, "plains": Plains,
		"forest": Forest, "snow": Snow, "mountain": Mountain,
	} {
		id, ok := reg.Lookup(name)
		if !ok || id != want {
			t.Fatalf("lookup %s: got %d, %v", name, id, ok)
		}
		if reg.Name(want) != name {
			t.Fatalf("name of %d: got %q", want, reg.Name(want))
		}
	}
	if reg.Placeable().Has(Void) {
		t.Fatalf("void must not be placeable")
	}
	if reg.Placeable().Count() != 6 {
		t.Fatalf("expected six placeable tiles, got %v", reg.Placeable())
	}
	rule, ok := reg.Rule(Mountain)
	if !ok || rule.Kind() != KindMountain {
		t.Fatalf("mountain rule not registered")
	}
	if _, ok := reg.Rule(40); ok {
		t.Fatalf("unregistered id should not resolve")
	}
}

func TestRegistryGenericTiles(t *testing.T) {
	cfg := config.Default().Rules
	cfg.Generic = []config.GenericTileConfig{{
		ID:   9,
		Name: "swamp",
		Rule: config.TileRuleConfig{MinElevation: 0.3, MaxElevation: 0.5, Neighbors: []string{"swamp", "plains"}},
	}}
	cfg.Plains.Neighbors = append(cfg.Plains.Neighbors, "swamp")

	reg, err := NewRegistry(cfg)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	id, ok := reg.Lookup("swamp")
	if !ok || id != 9 {
		t.Fatalf("swamp not registered: %d %v", id, ok)
	}
	p, _ := reg.ParamsFor(Plains)
	if !p.Neighbors.Has(9) {
		t.Fatalf("plains should accept swamp neighbours")
	}
	ctx := Context{Tile: Plains, Neighbor: 9, Dir: East, Grid: StubGrid()}
	if !reg.Allows(ctx) {
		t.Fatalf("plains and swamp should be mutually compatible")
	}
}

func TestRegistryRejectsBadGenericTiles(t *testing.T) {
	tests := []struct {
		name    string
		generic []config.GenericTileConfig
		wantErr string
	}{
		{
			name:    "duplicate name",
			generic: []config.GenericTileConfig{{ID: 8, Name: "ocean"}},
			wantErr: "name already registered",
		},
		{
			name:    "id out of range",
			generic: []config.GenericTileConfig{{ID: 2, Name: "lava"}},
			wantErr: "out of range",
		},
		{
			name: "unknown neighbour",
			generic: []config.GenericTileConfig{{
				ID: 8, Name: "lava", Rule: config.TileRuleConfig{Neighbors: []string{"magma"}},
			}},
			wantErr: `unknown neighbour "magma"`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default().Rules
			cfg.Generic = tc.generic
			_, err := NewRegistry(cfg)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAllowsChecksBothSides(t *testing.T) {
	reg, err := NewCustomRegistry(map[TileID]Rule{
		1: GenericRule{P: RuleParams{MaxElevation: 1, Neighbors: SetOf(1, 2)}},
		2: GenericRule{P: RuleParams{MaxElevation: 1, Neighbors: SetOf(2)}},
	})
	if err != nil {
		t.Fatalf("custom registry: %v", err)
	}
	ctx := Context{Tile: 1, Neighbor: 2, Dir: East, Grid: StubGrid()}
	if !reg.Evaluate(ctx) {
		t.Fatalf("tile 1 accepts tile 2 from its own side")
	}
	if reg.Allows(ctx) {
		t.Fatalf("tile 2 rejects tile 1, so the pair must be disallowed")
	}
	sampled := Context{Tile: 2, Neighbor: Undecided, Sampled: true, Sample: terrain.Sample{Altitude: 0.5}}
	if !reg.Allows(sampled) {
		t.Fatalf("undecided neighbour only checks the candidate")
	}
	if reg.Evaluate(Context{Tile: 30, Neighbor: Undecided}) {
		t.Fatalf("unknown tile must evaluate to false")
	}
	if reg.Name(2) != "tile2" {
		t.Fatalf("unexpected custom name %q", reg.Name(2))
	}
}

func TestRuleTableFromDefaults(t *testing.T) {
	table := BuildRuleTable(DefaultRegistry())
	for _, dir := range Directions {
		if got := table.Allowed(Ocean, dir); got != SetOf(Ocean, Beach) {
			t.Fatalf("ocean %s: got %v", dir, got)
		}
		if got := table.Allowed(Snow, dir); got != SetOf(Plains, Forest, Snow, Mountain) {
			t.Fatalf("snow %s: got %v", dir, got)
		}
		// beach lists plains, but snow does not list beach
		if table.Compatible(Beach, Snow, dir) || table.Compatible(Snow, Beach, dir) {
			t.Fatalf("beach and snow must be incompatible (%s)", dir)
		}
	}
	if table.Allowed(Void, North) != 0 {
		t.Fatalf("void has no allowed neighbours")
	}
	supported := table.Supported(SetOf(Ocean), East)
	if supported != SetOf(Ocean, Beach) {
		t.Fatalf("tiles supported by ocean: got %v", supported)
	}
}
