package tiles

import (
	"reflect"
	"testing"

	"terraingen/internal/config"
	"terraingen/internal/terrain"
)

func TestSetOperations(t *testing.T) {
	s := SetOf(Ocean, Plains, Mountain)
	if s.Count() != 3 {
		t.Fatalf("expected 3 members, got %d", s.Count())
	}
	if !s.Has(Plains) || s.Has(Beach) {
		t.Fatalf("unexpected membership in %v", s)
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []TileID{Ocean, Plains, Mountain}) {
		t.Fatalf("ids not ascending: %v", got)
	}
	if s.First() != Ocean {
		t.Fatalf("expected first %d, got %d", Ocean, s.First())
	}
	s = s.Remove(Ocean).Remove(Mountain)
	if !s.Single() || s.First() != Plains {
		t.Fatalf("expected singleton {plains}, got %v", s)
	}
	if Set(0).First() != Undecided {
		t.Fatalf("empty set should report undecided")
	}
	if SetOf(-1, MaxTiles) != 0 {
		t.Fatalf("out-of-range ids must be ignored")
	}
	if got := SetOf(1, 3).String(); got != "{1,3}" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestDirectionOppositeAndOffset(t *testing.T) {
	for _, d := range Directions {
		dx, dy := d.Offset()
		ox, oy := d.Opposite().Offset()
		if dx+ox != 0 || dy+oy != 0 {
			t.Fatalf("%s and its opposite do not cancel", d)
		}
		if d.Opposite().Opposite() != d {
			t.Fatalf("opposite is not an involution for %s", d)
		}
	}
}

func TestGridDefaults(t *testing.T) {
	g := NewGrid(3, 2)
	if g.Complete() {
		t.Fatalf("new grid should be undecided")
	}
	if g.At(-1, 0) != Undecided || g.At(3, 0) != Undecided {
		t.Fatalf("out-of-bounds reads must be undecided")
	}
	if g.Set(5, 5, Ocean) {
		t.Fatalf("out-of-bounds write should be rejected")
	}
	for i := range g.Cells {
		g.Cells[i] = Plains
	}
	clone := g.Clone()
	clone.Set(0, 0, Ocean)
	if g.At(0, 0) != Plains {
		t.Fatalf("clone aliases the original")
	}
	if !g.Complete() {
		t.Fatalf("filled grid should be complete")
	}
}

func TestClassifyStaysInsideBands(t *testing.T) {
	rules := config.Default().Rules
	bands := map[TileID]config.TileRuleConfig{
		Ocean:    rules.Ocean,
		Beach:    rules.Beach,
		Plains:   rules.Plains,
		Forest:   rules.Forest,
		Snow:     rules.Snow,
		Mountain: rules.Mountain,
	}
	th := ThresholdsFromRules(rules)
	for i := 0; i <= 100; i++ {
		for _, noise := range []float64{0, 0.5, 1} {
			s := terrain.Sample{Altitude: float64(i) / 100, MountainNoise: noise}
			id := th.Classify(s)
			band := bands[id]
			if s.Altitude < band.MinElevation || s.Altitude > band.MaxElevation {
				t.Fatalf("altitude %.2f classified as %d outside [%.2f, %.2f]", s.Altitude, id, band.MinElevation, band.MaxElevation)
			}
			if id == Mountain && noise < band.NoiseThreshold {
				t.Fatalf("mountain at noise %.2f below threshold %.2f", noise, band.NoiseThreshold)
			}
		}
	}
}

func TestClassifyFollowsConfiguredBands(t *testing.T) {
	rules := config.Default().Rules
	rules.Ocean.MaxElevation = 0.5
	rules.Beach.MinElevation = 0.46
	rules.Beach.MaxElevation = 0.56
	rules.Plains.MinElevation = 0.54

	if got := DefaultThresholds().Classify(terrain.Sample{Altitude: 0.45}); got != Plains {
		t.Fatalf("default bands: expected plains, got %d", got)
	}
	th := ThresholdsFromRules(rules)
	tests := []struct {
		altitude float64
		want     TileID
	}{
		{altitude: 0.45, want: Ocean},
		{altitude: 0.5, want: Beach},
		{altitude: 0.56, want: Plains},
	}
	for _, tc := range tests {
		if got := th.Classify(terrain.Sample{Altitude: tc.altitude}); got != tc.want {
			t.Fatalf("altitude %.2f: expected %d, got %d", tc.altitude, tc.want, got)
		}
	}
}

func TestClassifyFallback(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name   string
		sample terrain.Sample
		want   TileID
	}{
		{name: "deep water", sample: terrain.Sample{Altitude: 0.1}, want: Ocean},
		{name: "shore", sample: terrain.Sample{Altitude: 0.35}, want: Beach},
		{name: "lowland", sample: terrain.Sample{Altitude: 0.5}, want: Plains},
		{name: "woods", sample: terrain.Sample{Altitude: 0.65}, want: Forest},
		{name: "ridge", sample: terrain.Sample{Altitude: 0.7, MountainNoise: 0.9}, want: Mountain},
		{name: "peak", sample: terrain.Sample{Altitude: 0.95}, want: Snow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := th.Classify(tc.sample); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
