package tiles

import (
	"terraingen/internal/config"
	"terraingen/internal/terrain"
)

// Thresholds drive the closed-form classifier used when a solve fails.
type Thresholds struct {
	Ocean         float64 // altitude below is ocean
	Beach         float64
	Plains        float64 // altitude below is plains, above is forest
	Snow          float64 // altitude at or above is snow
	MountainAlt   float64
	MountainNoise float64
}

// ThresholdsFromRules places each altitude cut halfway through the overlap of
// the two neighbouring elevation bands, so every classified tile stays inside
// its configured band as long as consecutive bands touch.
func ThresholdsFromRules(r config.RulesConfig) Thresholds {
	mid := func(lower, upper config.TileRuleConfig) float64 {
		return (lower.MaxElevation + upper.MinElevation) / 2
	}
	return Thresholds{
		Ocean:         mid(r.Ocean, r.Beach),
		Beach:         mid(r.Beach, r.Plains),
		Plains:        mid(r.Plains, r.Forest),
		Snow:          mid(r.Forest, r.Snow),
		MountainAlt:   r.Mountain.MinElevation,
		MountainNoise: r.Mountain.NoiseThreshold,
	}
}

// DefaultThresholds derives the cuts from the default rule bands.
func DefaultThresholds() Thresholds {
	return ThresholdsFromRules(config.Default().Rules)
}

// Classify picks a tile from the height sample alone.
func (t Thresholds) Classify(s terrain.Sample) TileID {
	switch {
	case s.Altitude < t.Ocean:
		return Ocean
	case s.Altitude < t.Beach:
		return Beach
	case s.Altitude >= t.Snow:
		return Snow
	case s.Altitude >= t.MountainAlt && s.MountainNoise >= t.MountainNoise:
		return Mountain
	case s.Altitude < t.Plains:
		return Plains
	default:
		return Forest
	}
}
