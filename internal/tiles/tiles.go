// Package tiles defines tile identities, the output grid, region metrics and the
// adjacency rules every solver consults.
package tiles

import (
	"math/bits"
	"strconv"
	"strings"
)

// TileID identifies a tile type. Undecided marks an empty output cell.
type TileID int

const Undecided TileID = -1

// Built-in terrain tiles. Generic tiles registered from configuration use ids
// from FirstGenericID up to MaxTiles-1.
const (
	Void TileID = iota
	Ocean
	Beach
	Plains
	Forest
	Snow
	Mountain

	FirstGenericID TileID = 7
	MaxTiles              = 64
)

// Direction points from a cell to one of its four grid neighbours.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists the four neighbour directions in a fixed order.
var Directions = [4]Direction{North, East, South, West}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction { return (d + 2) & 3 }

// Offset returns the grid delta for d; y grows southwards.
func (d Direction) Offset() (int, int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	default:
		return -1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "unknown"
}

// Set is a bitset of tile ids in [0, MaxTiles).
type Set uint64

// SetOf builds a set from ids; ids outside the valid range are ignored.
func SetOf(ids ...TileID) Set {
	var s Set
	for _, id := range ids {
		s = s.Add(id)
	}
	return s
}

func (s Set) Has(id TileID) bool {
	return id >= 0 && id < MaxTiles && s&(1<<uint(id)) != 0
}

func (s Set) Add(id TileID) Set {
	if id < 0 || id >= MaxTiles {
		return s
	}
	return s | 1<<uint(id)
}

func (s Set) Remove(id TileID) Set {
	if id < 0 || id >= MaxTiles {
		return s
	}
	return s &^ (1 << uint(id))
}

func (s Set) Count() int { return bits.OnesCount64(uint64(s)) }

func (s Set) Empty() bool { return s == 0 }

// Single reports whether exactly one id is present.
func (s Set) Single() bool { return s != 0 && s&(s-1) == 0 }

func (s Set) Intersect(o Set) Set { return s & o }

// First returns the lowest id in the set, or Undecided when empty.
func (s Set) First() TileID {
	if s == 0 {
		return Undecided
	}
	return TileID(bits.TrailingZeros64(uint64(s)))
}

// IDs returns the members in ascending order.
func (s Set) IDs() []TileID {
	out := make([]TileID, 0, s.Count())
	for m := uint64(s); m != 0; m &= m - 1 {
		out = append(out, TileID(bits.TrailingZeros64(m)))
	}
	return out
}

func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range s.IDs() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	b.WriteByte('}')
	return b.String()
}
