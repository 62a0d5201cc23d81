package world

import (
	"fmt"
	"sort"
)

// ChunkCoord identifies a chunk in global chunk space.
type ChunkCoord struct {
	X int
	Y int
}

func (c ChunkCoord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Origin returns the world tile coordinates of the chunk's top-left tile.
func (c ChunkCoord) Origin(size int) (int, int) { return c.X * size, c.Y * size }

// Neighbor returns the adjacent chunk in direction (dx, dy).
func (c ChunkCoord) Neighbor(dx, dy int) ChunkCoord { return ChunkCoord{X: c.X + dx, Y: c.Y + dy} }

// TileToChunk maps a world tile to its chunk, rounding towards negative infinity.
func TileToChunk(worldX, worldY, size int) ChunkCoord {
	return ChunkCoord{X: floorDiv(worldX, size), Y: floorDiv(worldY, size)}
}

// TileToLocal returns the chunk holding a world tile and the tile's offset
// inside it.
func TileToLocal(worldX, worldY, size int) (ChunkCoord, int, int) {
	c := TileToChunk(worldX, worldY, size)
	ox, oy := c.Origin(size)
	return c, worldX - ox, worldY - oy
}

func floorDiv(value, size int) int {
	if size <= 0 {
		return 0
	}
	if value >= 0 {
		return value / size
	}
	return -((-value - 1) / size) - 1
}

// ChunkSeed derives a reproducible per-chunk seed from the master seed.
func ChunkSeed(master int64, c ChunkCoord) int64 {
	h := uint64(master)
	h ^= uint64(int64(c.X)) * 0x9e3779b97f4a7c15
	h = splitmix(h)
	h ^= uint64(int64(c.Y)) * 0xc2b2ae3d27d4eb4f
	return int64(splitmix(h))
}

func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Viewport is an inclusive rectangle of world tiles.
type Viewport struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// Chunks lists the chunks covering v grown by buffer chunks on every side, in
// row-major order.
func (v Viewport) Chunks(size, buffer int) []ChunkCoord {
	if v.MaxX < v.MinX {
		v.MinX, v.MaxX = v.MaxX, v.MinX
	}
	if v.MaxY < v.MinY {
		v.MinY, v.MaxY = v.MaxY, v.MinY
	}
	if buffer < 0 {
		buffer = 0
	}
	lo := TileToChunk(v.MinX, v.MinY, size)
	hi := TileToChunk(v.MaxX, v.MaxY, size)
	out := make([]ChunkCoord, 0, (hi.X-lo.X+1+2*buffer)*(hi.Y-lo.Y+1+2*buffer))
	for y := lo.Y - buffer; y <= hi.Y+buffer; y++ {
		for x := lo.X - buffer; x <= hi.X+buffer; x++ {
			out = append(out, ChunkCoord{X: x, Y: y})
		}
	}
	return out
}

func sortCoords(coords []ChunkCoord) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})
}
