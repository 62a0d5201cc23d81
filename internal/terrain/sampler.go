// Package terrain produces the read-only height context consulted by tile rules.
package terrain

import (
	"math"

	perlin "github.com/aquilax/go-perlin"

	"terraingen/internal/config"
)

// Sample is the layered noise reading at one world tile. Every field lies in [0, 1].
type Sample struct {
	Altitude      float64
	MountainNoise float64
	DetailNoise   float64
}

// HeightSampler maps world tile coordinates to a Sample. Implementations must be
// pure so a single sampler can be shared by concurrent chunk solves.
type HeightSampler interface {
	GetSample(worldX, worldY int) Sample
}

// SamplerFunc adapts a function to HeightSampler.
type SamplerFunc func(worldX, worldY int) Sample

func (f SamplerFunc) GetSample(worldX, worldY int) Sample { return f(worldX, worldY) }

// Flat returns a sampler that reports the same sample everywhere.
func Flat(s Sample) HeightSampler {
	return SamplerFunc(func(int, int) Sample { return s })
}

// NoiseSampler layers perlin altitude, ridged perlin mountain noise and hashed
// value-noise detail.
type NoiseSampler struct {
	cfg      config.TerrainConfig
	altitude *perlin.Perlin
	ridges   *perlin.Perlin
}

func NewNoiseSampler(cfg config.TerrainConfig) *NoiseSampler {
	alpha, beta := cfg.Alpha, cfg.Beta
	if alpha <= 0 {
		alpha = 2
	}
	if beta <= 0 {
		beta = 2
	}
	octaves := cfg.AltitudeOctaves
	if octaves <= 0 {
		octaves = 1
	}
	return &NoiseSampler{
		cfg:      cfg,
		altitude: perlin.NewPerlin(alpha, beta, int32(octaves), cfg.Seed),
		ridges:   perlin.NewPerlin(alpha, beta, 2, cfg.Seed^0x5bd1e995),
	}
}

func (s *NoiseSampler) GetSample(worldX, worldY int) Sample {
	x := float64(worldX)
	y := float64(worldY)

	alt := s.altitude.Noise2D(x*s.cfg.AltitudeFrequency, y*s.cfg.AltitudeFrequency)
	ridge := s.ridges.Noise2D(x*s.cfg.MountainFrequency, y*s.cfg.MountainFrequency)

	return Sample{
		Altitude:      clamp01(0.5 + 0.75*alt),
		MountainNoise: clamp01(1 - math.Abs(ridge)*1.5),
		DetailNoise:   clamp01((s.fractalNoise(x, y) + 1) * 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
