package world

import (
	"reflect"
	"testing"
)

func TestTileToChunk(t *testing.T) {
	tests := []struct {
		x, y int
		want ChunkCoord
	}{
		{x: -1, y: -1, want: ChunkCoord{X: -1, Y: -1}},
		{x: 0, y: 0, want: ChunkCoord{X: 0, Y: 0}},
		{x: 63, y: 63, want: ChunkCoord{X: 0, Y: 0}},
		{x: 64, y: 64, want: ChunkCoord{X: 1, Y: 1}},
		{x: -64, y: 65, want: ChunkCoord{X: -1, Y: 1}},
		{x: -65, y: -128, want: ChunkCoord{X: -2, Y: -2}},
	}
	for _, tc := range tests {
		if got := TileToChunk(tc.x, tc.y, 64); got != tc.want {
			t.Fatalf("TileToChunk(%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}

	coord, lx, ly := TileToLocal(-1, 70, 64)
	if coord != (ChunkCoord{X: -1, Y: 1}) || lx != 63 || ly != 6 {
		t.Fatalf("unexpected local mapping %v (%d,%d)", coord, lx, ly)
	}
}

func TestChunkSeed(t *testing.T) {
	a := ChunkSeed(1337, ChunkCoord{X: 2, Y: -3})
	if a != ChunkSeed(1337, ChunkCoord{X: 2, Y: -3}) {
		t.Fatalf("chunk seed must be reproducible")
	}
	seen := map[int64]ChunkCoord{}
	for y := -4; y <= 4; y++ {
		for x := -4; x <= 4; x++ {
			c := ChunkCoord{X: x, Y: y}
			s := ChunkSeed(1337, c)
			if prev, dup := seen[s]; dup {
				t.Fatalf("chunks %v and %v share seed %d", prev, c, s)
			}
			seen[s] = c
		}
	}
	if ChunkSeed(1, ChunkCoord{}) == ChunkSeed(2, ChunkCoord{}) {
		t.Fatalf("master seed must influence the chunk seed")
	}
}

func TestViewportChunks(t *testing.T) {
	v := Viewport{MinX: 0, MinY: 0, MaxX: 63, MaxY: 63}
	if got := v.Chunks(64, 0); !reflect.DeepEqual(got, []ChunkCoord{{X: 0, Y: 0}}) {
		t.Fatalf("unexpected chunks without buffer: %v", got)
	}
	got := v.Chunks(64, 1)
	if len(got) != 9 || got[0] != (ChunkCoord{X: -1, Y: -1}) || got[8] != (ChunkCoord{X: 1, Y: 1}) {
		t.Fatalf("unexpected buffered chunks: %v", got)
	}

	swapped := Viewport{MinX: 10, MinY: 10, MaxX: -10, MaxY: -10}
	if got := swapped.Chunks(8, 0); len(got) != 9 {
		t.Fatalf("inverted viewport should be normalised, got %v", got)
	}
}
