package terrain

import (
	"testing"

	"terraingen/internal/config"
)

func TestNoiseSamplerStaysInUnitRange(t *testing.T) {
	s := NewNoiseSampler(config.Default().Terrain)
	for y := -40; y < 40; y += 3 {
		for x := -40; x < 40; x += 3 {
			sample := s.GetSample(x, y)
			for name, v := range map[string]float64{
				"altitude": sample.Altitude,
				"mountain": sample.MountainNoise,
				"detail":   sample.DetailNoise,
			} {
				if v < 0 || v > 1 {
					t.Fatalf("%s at (%d,%d) = %v, want [0,1]", name, x, y, v)
				}
			}
		}
	}
}

func TestNoiseSamplerIsDeterministic(t *testing.T) {
	cfg := config.Default().Terrain
	a := NewNoiseSampler(cfg)
	b := NewNoiseSampler(cfg)
	for i := 0; i < 50; i++ {
		x, y := i*7-120, i*13-90
		if a.GetSample(x, y) != b.GetSample(x, y) {
			t.Fatalf("samplers with equal config diverged at (%d,%d)", x, y)
		}
	}
}

func TestNoiseSamplerVariesWithSeed(t *testing.T) {
	cfg := config.Default().Terrain
	a := NewNoiseSampler(cfg)
	cfg.Seed++
	b := NewNoiseSampler(cfg)
	differs := false
	for i := 0; i < 64 && !differs; i++ {
		if a.GetSample(i*11, i*5) != b.GetSample(i*11, i*5) {
			differs = true
		}
	}
	if !differs {
		t.Fatalf("expected different seeds to produce different terrain")
	}
}

func TestValueNoiseMatchesLatticeAtIntegerPoints(t *testing.T) {
	for _, p := range [][2]int{{0, 0}, {3, -2}, {-7, 11}} {
		got := valueNoise(float64(p[0]), float64(p[1]), 5)
		want := random2D(p[0], p[1], 5)
		if got != want {
			t.Fatalf("valueNoise at lattice %v = %v, want %v", p, got, want)
		}
	}
}

func TestFlatSampler(t *testing.T) {
	want := Sample{Altitude: 0.4, MountainNoise: 0.2, DetailNoise: 0.9}
	if got := Flat(want).GetSample(-5, 17); got != want {
		t.Fatalf("Flat sampler returned %+v, want %+v", got, want)
	}
}
