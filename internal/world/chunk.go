package world

import (
	"sync"

	"terraingen/internal/tiles"
)

// Chunk stores a square tile grid plus a dirty flag. The manager owns active
// chunks; tile access is synchronised so readers may hold a chunk while edits
// land.
type Chunk struct {
	Coord ChunkCoord
	Size  int

	mu       sync.RWMutex
	tiles    []tiles.TileID
	dirty    bool
	fallback bool
}

// NewChunk allocates an undecided chunk.
func NewChunk(coord ChunkCoord, size int) *Chunk {
	c := &Chunk{Coord: coord, Size: size, tiles: make([]tiles.TileID, size*size)}
	for i := range c.tiles {
		c.tiles[i] = tiles.Undecided
	}
	return c
}

// chunkFromGrid copies a solved grid into a new dirty chunk.
func chunkFromGrid(coord ChunkCoord, g *tiles.Grid) *Chunk {
	c := &Chunk{Coord: coord, Size: g.Width, tiles: make([]tiles.TileID, len(g.Cells)), dirty: true}
	copy(c.tiles, g.Cells)
	return c
}

func (c *Chunk) index(localX, localY int) (int, bool) {
	if localX < 0 || localY < 0 || localX >= c.Size || localY >= c.Size {
		return 0, false
	}
	return localY*c.Size + localX, true
}

// Tile returns the tile at a local position.
func (c *Chunk) Tile(localX, localY int) (tiles.TileID, bool) {
	idx, ok := c.index(localX, localY)
	if !ok {
		return tiles.Undecided, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tiles[idx], true
}

// SetTile writes a tile and marks the chunk dirty when the value changes.
func (c *Chunk) SetTile(localX, localY int, id tiles.TileID) bool {
	idx, ok := c.index(localX, localY)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tiles[idx] != id {
		c.tiles[idx] = id
		c.dirty = true
	}
	return true
}

// Tiles returns a copy of the row-major tile array.
func (c *Chunk) Tiles() []tiles.TileID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]tiles.TileID, len(c.tiles))
	copy(out, c.tiles)
	return out
}

// Edge returns the tiles along one side, ordered by ascending x for north and
// south and ascending y for east and west.
func (c *Chunk) Edge(side tiles.Direction) []tiles.TileID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]tiles.TileID, c.Size)
	last := c.Size - 1
	for k := 0; k < c.Size; k++ {
		var x, y int
		switch side {
		case tiles.North:
			x, y = k, 0
		case tiles.South:
			x, y = k, last
		case tiles.West:
			x, y = 0, k
		default:
			x, y = last, k
		}
		out[k] = c.tiles[y*c.Size+x]
	}
	return out
}

func (c *Chunk) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

func (c *Chunk) markClean() {
	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()
}

// Fallback reports whether the chunk was filled by the height classifier
// instead of the solver.
func (c *Chunk) Fallback() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fallback
}
