package wfc

import (
	"terraingen/internal/terrain"
	"terraingen/internal/tiles"
)

// State is the mutable part of one solve: the per-cell domains, the output
// grid and the cached height samples. Decided cells keep an empty domain and
// carry their value in Output.
type State struct {
	Width   int
	Height  int
	OriginX int
	OriginY int
	Output  *tiles.Grid

	domains []tiles.Set
	samples []terrain.Sample
}

func newState(area Area, sampler terrain.HeightSampler) *State {
	s := &State{
		Width:   area.Width,
		Height:  area.Height,
		OriginX: area.OriginX,
		OriginY: area.OriginY,
		Output:  tiles.NewGrid(area.Width, area.Height),
		domains: make([]tiles.Set, area.Width*area.Height),
		samples: make([]terrain.Sample, area.Width*area.Height),
	}
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			s.samples[s.index(x, y)] = sampler.GetSample(s.OriginX+x, s.OriginY+y)
		}
	}
	return s
}

func (s *State) index(x, y int) int { return y*s.Width + x }

func (s *State) coords(i int) (int, int) { return i % s.Width, i / s.Width }

func (s *State) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.Width && y < s.Height
}

// neighbor returns the index of the cell next to i in direction d, or -1.
func (s *State) neighbor(i int, d tiles.Direction) int {
	x, y := s.coords(i)
	dx, dy := d.Offset()
	if !s.inBounds(x+dx, y+dy) {
		return -1
	}
	return s.index(x+dx, y+dy)
}

func (s *State) decided(i int) bool { return s.Output.Cells[i] != tiles.Undecided }

// Domain returns the candidates of cell i; a decided cell reports the
// singleton of its value.
func (s *State) Domain(i int) tiles.Set {
	if v := s.Output.Cells[i]; v != tiles.Undecided {
		return tiles.SetOf(v)
	}
	return s.domains[i]
}

// DomainAt is Domain by coordinates.
func (s *State) DomainAt(x, y int) tiles.Set {
	if !s.inBounds(x, y) {
		return 0
	}
	return s.Domain(s.index(x, y))
}

// Sample returns the cached height sample of cell i.
func (s *State) Sample(i int) terrain.Sample { return s.samples[i] }

// undecidedNeighbors counts in-bounds neighbours of i that are still open.
func (s *State) undecidedNeighbors(i int) int {
	n := 0
	for _, d := range tiles.Directions {
		if j := s.neighbor(i, d); j >= 0 && !s.decided(j) {
			n++
		}
	}
	return n
}

// matches counts decided neighbours of i holding tile.
func (s *State) matches(i int, tile tiles.TileID) int {
	n := 0
	for _, d := range tiles.Directions {
		if j := s.neighbor(i, d); j >= 0 && s.Output.Cells[j] == tile {
			n++
		}
	}
	return n
}

// removeTiles narrows the domain of i to keep, one record per removed tile.
func (s *State) removeTiles(i int, keep tiles.Set, log *Log) {
	removed := s.domains[i] &^ keep
	for _, t := range removed.IDs() {
		log.record(Change{Kind: DomainRemoved, Cell: i, Tile: t})
	}
	s.domains[i] &= keep
}

// collapse decides cell i, clearing its domain and writing the output grid.
func (s *State) collapse(i int, tile tiles.TileID, log *Log) {
	log.record(Change{Kind: CellCollapsed, Cell: i, Prev: s.domains[i], Tile: tile})
	s.domains[i] = 0
	log.record(Change{Kind: OutputSet, Cell: i, PrevValue: s.Output.Cells[i], Tile: tile})
	s.Output.Cells[i] = tile
}

// context builds a sampled rule context for tile at i against the decided
// neighbour j lying in direction d.
func (s *State) context(i int, tile tiles.TileID, j int, d tiles.Direction) tiles.Context {
	x, y := s.coords(i)
	nx, ny := s.coords(j)
	return tiles.Context{
		X:              x,
		Y:              y,
		Tile:           tile,
		NeighborX:      nx,
		NeighborY:      ny,
		Neighbor:       s.Output.Cells[j],
		Dir:            d,
		Sample:         s.samples[i],
		NeighborSample: s.samples[j],
		Sampled:        true,
		Grid:           s.Output,
	}
}
