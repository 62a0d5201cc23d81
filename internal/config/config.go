package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a config-friendly wrapper around time.Duration that accepts human
// readable strings such as "150ms" in JSON and YAML files while still allowing
// numeric nanosecond values.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// MarshalYAML encodes the duration as its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration: expected scalar at line %d", node.Line)
	}
	if node.Tag == "!!int" {
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("duration: decode int: %w", err)
		}
		*d = Duration(time.Duration(n))
		return nil
	}
	if node.Tag == "!!null" {
		*d = 0
		return nil
	}
	return d.parse(node.Value)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config captures every tunable of the terrain generator. Values are copied
// into immutable option structs when solvers and managers are constructed.
type Config struct {
	Terrain    TerrainConfig    `json:"terrain" yaml:"terrain"`
	Rules      RulesConfig      `json:"rules" yaml:"rules"`
	Weights    WeightsConfig    `json:"weights" yaml:"weights"`
	Heuristics HeuristicsConfig `json:"heuristics" yaml:"heuristics"`
	Solver     SolverConfig     `json:"solver" yaml:"solver"`
	Chunks     ChunkConfig      `json:"chunks" yaml:"chunks"`
	Telemetry  TelemetryConfig  `json:"telemetry" yaml:"telemetry"`
}

// TerrainConfig drives the layered height sampler.
type TerrainConfig struct {
	Seed              int64   `json:"seed" yaml:"seed"`
	AltitudeFrequency float64 `json:"altitudeFrequency" yaml:"altitudeFrequency"`
	AltitudeOctaves   int     `json:"altitudeOctaves" yaml:"altitudeOctaves"`
	Alpha             float64 `json:"alpha" yaml:"alpha"` // perlin amplitude falloff per octave
	Beta              float64 `json:"beta" yaml:"beta"`   // perlin frequency growth per octave
	MountainFrequency float64 `json:"mountainFrequency" yaml:"mountainFrequency"`
	DetailFrequency   float64 `json:"detailFrequency" yaml:"detailFrequency"`
	DetailOctaves     int     `json:"detailOctaves" yaml:"detailOctaves"`
	Persistence       float64 `json:"persistence" yaml:"persistence"`
	Lacunarity        float64 `json:"lacunarity" yaml:"lacunarity"`
}

// TileRuleConfig holds the thresholds of one tile type. Zero group bounds
// disable the corresponding check; a zero NoiseThreshold disables the ridge test.
type TileRuleConfig struct {
	MinElevation   float64  `json:"minElevation" yaml:"minElevation"`
	MaxElevation   float64  `json:"maxElevation" yaml:"maxElevation"`
	NoiseThreshold float64  `json:"noiseThreshold,omitempty" yaml:"noiseThreshold,omitempty"`
	MinGroupWidth  int      `json:"minGroupWidth,omitempty" yaml:"minGroupWidth,omitempty"`
	MinGroupHeight int      `json:"minGroupHeight,omitempty" yaml:"minGroupHeight,omitempty"`
	MaxGroupWidth  int      `json:"maxGroupWidth,omitempty" yaml:"maxGroupWidth,omitempty"`
	MaxGroupHeight int      `json:"maxGroupHeight,omitempty" yaml:"maxGroupHeight,omitempty"`
	Neighbors      []string `json:"neighbors" yaml:"neighbors"`
}

// GenericTileConfig registers an extra tile beyond the built-in terrain set.
type GenericTileConfig struct {
	ID   int            `json:"id" yaml:"id"`
	Name string         `json:"name" yaml:"name"`
	Rule TileRuleConfig `json:"rule" yaml:"rule"`
}

type RulesConfig struct {
	Ocean    TileRuleConfig      `json:"ocean" yaml:"ocean"`
	Beach    TileRuleConfig      `json:"beach" yaml:"beach"`
	Plains   TileRuleConfig      `json:"plains" yaml:"plains"`
	Forest   TileRuleConfig      `json:"forest" yaml:"forest"`
	Snow     TileRuleConfig      `json:"snow" yaml:"snow"`
	Mountain TileRuleConfig      `json:"mountain" yaml:"mountain"`
	Generic  []GenericTileConfig `json:"generic,omitempty" yaml:"generic,omitempty"`
}

// WeightsConfig shapes the per-tile priors: base + neighborMatchBoost * matches.
type WeightsConfig struct {
	Base               float64 `json:"base" yaml:"base"`
	NeighborMatchBoost float64 `json:"neighborMatchBoost" yaml:"neighborMatchBoost"`
}

type HeuristicsConfig struct {
	DomainEntropy                    bool    `json:"domainEntropy" yaml:"domainEntropy"`
	ShannonEntropy                   bool    `json:"shannonEntropy" yaml:"shannonEntropy"`
	MostConstraining                 bool    `json:"mostConstraining" yaml:"mostConstraining"`
	ApplyInfluenceForSingleHeuristic bool    `json:"applyInfluenceForSingleHeuristic" yaml:"applyInfluenceForSingleHeuristic"`
	PreferCentralCell                bool    `json:"preferCentralCell" yaml:"preferCentralCell"`
	UniformPickFraction              float64 `json:"uniformPickFraction" yaml:"uniformPickFraction"`
	MostConstrainingBias             float64 `json:"mostConstrainingBias" yaml:"mostConstrainingBias"`
}

type SolverConfig struct {
	Backtracking      bool     `json:"backtracking" yaml:"backtracking"`
	Propagator        string   `json:"propagator" yaml:"propagator"` // "direct" or "ac3"
	MaxIterations     int      `json:"maxIterations" yaml:"maxIterations"`
	MaxBacktrackSteps int      `json:"maxBacktrackSteps" yaml:"maxBacktrackSteps"`
	MaxDepth          int      `json:"maxDepth" yaml:"maxDepth"`
	TimeBudget        Duration `json:"timeBudget" yaml:"timeBudget"` // e.g. "2s"; zero disables
}

type ChunkConfig struct {
	Size           int    `json:"size" yaml:"size"`
	SaveDir        string `json:"saveDir" yaml:"saveDir"`
	ViewportBuffer int    `json:"viewportBuffer" yaml:"viewportBuffer"` // chunks kept around the viewport
	Workers        int    `json:"workers" yaml:"workers"`               // parallel chunk solves during prefetch
	SeamHints      bool   `json:"seamHints" yaml:"seamHints"`
}

type TelemetryConfig struct {
	Metrics     bool   `json:"metrics" yaml:"metrics"`
	Tracing     bool   `json:"tracing" yaml:"tracing"`
	LogEvents   bool   `json:"logEvents" yaml:"logEvents"`
	MetricsAddr string `json:"metricsAddr" yaml:"metricsAddr"`
}

// Propagator names accepted by SolverConfig.Propagator.
const (
	PropagatorDirect = "direct"
	PropagatorAC3    = "ac3"
)

// Load reads configuration from a JSON or YAML file if provided. An empty path
// returns defaults. Files ending in .yaml or .yml are parsed as YAML.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := decode(cfg, data, isYAML(path)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// decode overlays data onto cfg, leaving fields the document omits untouched.
func decode(cfg *Config, data []byte, asYAML bool) error {
	if asYAML {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config yaml: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Seed:              1337,
			AltitudeFrequency: 0.01,
			AltitudeOctaves:   4,
			Alpha:             2,
			Beta:              2,
			MountainFrequency: 0.035,
			DetailFrequency:   0.15,
			DetailOctaves:     2,
			Persistence:       0.5,
			Lacunarity:        2.0,
		},
		Rules: RulesConfig{
			Ocean: TileRuleConfig{
				MinElevation: 0,
				MaxElevation: 0.36,
				Neighbors:    []string{"ocean", "beach"},
			},
			Beach: TileRuleConfig{
				MinElevation: 0.3,
				MaxElevation: 0.44,
				Neighbors:    []string{"ocean", "beach", "plains", "forest"},
			},
			Plains: TileRuleConfig{
				MinElevation: 0.38,
				MaxElevation: 0.72,
				Neighbors:    []string{"beach", "plains", "forest", "snow", "mountain"},
			},
			Forest: TileRuleConfig{
				MinElevation: 0.42,
				MaxElevation: 0.8,
				Neighbors:    []string{"beach", "plains", "forest", "snow", "mountain"},
			},
			Snow: TileRuleConfig{
				MinElevation: 0.68,
				MaxElevation: 1,
				Neighbors:    []string{"plains", "forest", "snow", "mountain"},
			},
			Mountain: TileRuleConfig{
				MinElevation:   0.6,
				MaxElevation:   1,
				NoiseThreshold: 0.55,
				MinGroupWidth:  2,
				MinGroupHeight: 2,
				MaxGroupWidth:  12,
				MaxGroupHeight: 12,
				Neighbors:      []string{"plains", "forest", "snow", "mountain"},
			},
		},
		Weights: WeightsConfig{
			Base:               1,
			NeighborMatchBoost: 3,
		},
		Heuristics: HeuristicsConfig{
			DomainEntropy:                    true,
			ShannonEntropy:                   false,
			MostConstraining:                 true,
			ApplyInfluenceForSingleHeuristic: true,
			PreferCentralCell:                false,
			UniformPickFraction:              0.1,
			MostConstrainingBias:             0,
		},
		Solver: SolverConfig{
			Backtracking:      true,
			Propagator:        PropagatorDirect,
			MaxIterations:     64 * 64 * 4,
			MaxBacktrackSteps: 2000,
			MaxDepth:          64 * 64,
			TimeBudget:        Duration(2 * time.Second),
		},
		Chunks: ChunkConfig{
			Size:           64,
			SaveDir:        "chunks",
			ViewportBuffer: 1,
			Workers:        4,
			SeamHints:      false,
		},
		Telemetry: TelemetryConfig{
			Metrics:     false,
			Tracing:     false,
			LogEvents:   false,
			MetricsAddr: ":9100",
		},
	}
}

var tileNames = map[string]struct{}{
	"ocean": {}, "beach": {}, "plains": {}, "forest": {}, "snow": {}, "mountain": {},
}

func (c *Config) Validate() error {
	if c.Terrain.AltitudeFrequency <= 0 {
		return errors.New("terrain.altitudeFrequency must be positive")
	}
	if c.Terrain.AltitudeOctaves <= 0 || c.Terrain.DetailOctaves < 0 {
		return errors.New("terrain octaves must be positive")
	}
	names := make(map[string]struct{}, len(tileNames)+len(c.Rules.Generic))
	for name := range tileNames {
		names[name] = struct{}{}
	}
	ids := make(map[int]struct{}, len(c.Rules.Generic))
	for i, g := range c.Rules.Generic {
		if g.Name == "" {
			return fmt.Errorf("rules.generic[%d].name must be set", i)
		}
		if g.ID < 7 || g.ID > 63 {
			return fmt.Errorf("rules.generic[%d].id must be within [7, 63]", i)
		}
		if _, dup := ids[g.ID]; dup {
			return fmt.Errorf("rules.generic[%d].id %d is duplicated", i, g.ID)
		}
		ids[g.ID] = struct{}{}
		names[g.Name] = struct{}{}
	}
	rules := map[string]TileRuleConfig{
		"ocean":    c.Rules.Ocean,
		"beach":    c.Rules.Beach,
		"plains":   c.Rules.Plains,
		"forest":   c.Rules.Forest,
		"snow":     c.Rules.Snow,
		"mountain": c.Rules.Mountain,
	}
	for _, g := range c.Rules.Generic {
		rules[g.Name] = g.Rule
	}
	for name, rule := range rules {
		if rule.MinElevation > rule.MaxElevation {
			return fmt.Errorf("rules.%s.minElevation must be <= maxElevation", name)
		}
		if rule.MaxGroupWidth > 0 && rule.MinGroupWidth > rule.MaxGroupWidth {
			return fmt.Errorf("rules.%s.minGroupWidth must be <= maxGroupWidth", name)
		}
		if rule.MaxGroupHeight > 0 && rule.MinGroupHeight > rule.MaxGroupHeight {
			return fmt.Errorf("rules.%s.minGroupHeight must be <= maxGroupHeight", name)
		}
		for _, n := range rule.Neighbors {
			if _, ok := names[n]; !ok {
				return fmt.Errorf("rules.%s.neighbors: unknown tile %q", name, n)
			}
		}
	}
	if c.Weights.Base <= 0 {
		return errors.New("weights.base must be positive")
	}
	if c.Weights.NeighborMatchBoost < 0 {
		return errors.New("weights.neighborMatchBoost cannot be negative")
	}
	if c.Heuristics.UniformPickFraction < 0 || c.Heuristics.UniformPickFraction > 1 {
		return errors.New("heuristics.uniformPickFraction must be within [0, 1]")
	}
	if c.Heuristics.MostConstrainingBias < 0 {
		return errors.New("heuristics.mostConstrainingBias cannot be negative")
	}
	if c.Solver.Propagator != PropagatorDirect && c.Solver.Propagator != PropagatorAC3 {
		return fmt.Errorf("solver.propagator must be %q or %q", PropagatorDirect, PropagatorAC3)
	}
	if c.Solver.MaxIterations <= 0 {
		return errors.New("solver.maxIterations must be positive")
	}
	if c.Solver.MaxBacktrackSteps < 0 || c.Solver.MaxDepth < 0 {
		return errors.New("solver backtrack limits cannot be negative")
	}
	if c.Solver.TimeBudget < 0 {
		return errors.New("solver.timeBudget cannot be negative")
	}
	if c.Chunks.Size <= 0 {
		return errors.New("chunks.size must be positive")
	}
	if c.Chunks.ViewportBuffer < 0 {
		return errors.New("chunks.viewportBuffer cannot be negative")
	}
	if c.Chunks.Workers < 0 {
		return errors.New("chunks.workers cannot be negative")
	}
	return nil
}
