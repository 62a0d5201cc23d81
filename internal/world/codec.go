package world

import (
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"terraingen/internal/tiles"
)

const (
	chunkMagic   = "CHNK"
	chunkVersion = 1
	headerSize   = 16

	// fallbackComment tags the gzip header of classifier chunks; the record
	// layout itself is unchanged.
	fallbackComment = "terraingen:classifier"
)

// ErrChunkFormat marks a chunk record that cannot be trusted: wrong magic,
// unknown version, coordinates that do not match, or a truncated payload.
var ErrChunkFormat = errors.New("chunk format")

// EncodeChunk writes the gzip-compressed record of c:
//
//	"CHNK" | version u32 | x i32 | y i32 | size*size tile ids i32, row-major
//
// All integers are little-endian. Classifier chunks carry fallbackComment in
// the gzip header.
func EncodeChunk(w io.Writer, c *Chunk) error {
	cells := c.Tiles()
	buf := make([]byte, headerSize+4*len(cells))
	copy(buf[0:4], chunkMagic)
	binary.LittleEndian.PutUint32(buf[4:8], chunkVersion)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(int32(c.Coord.X)))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(int32(c.Coord.Y)))
	for i, id := range cells {
		binary.LittleEndian.PutUint32(buf[headerSize+4*i:], uint32(int32(id)))
	}

	zw := gzip.NewWriter(w)
	if c.Fallback() {
		zw.Comment = fallbackComment
	}
	if _, err := zw.Write(buf); err != nil {
		zw.Close()
		return fmt.Errorf("write chunk record: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush chunk record: %w", err)
	}
	return nil
}

// DecodeChunk reads a record written by EncodeChunk and checks it against the
// expected coordinates and chunk size.
func DecodeChunk(r io.Reader, want ChunkCoord, size int) (*Chunk, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChunkFormat, err)
	}
	defer zr.Close()

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(zr, header); err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrChunkFormat, err)
	}
	if string(header[0:4]) != chunkMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrChunkFormat, header[0:4])
	}
	if v := binary.LittleEndian.Uint32(header[4:8]); v != chunkVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrChunkFormat, v)
	}
	got := ChunkCoord{
		X: int(int32(binary.LittleEndian.Uint32(header[8:12]))),
		Y: int(int32(binary.LittleEndian.Uint32(header[12:16]))),
	}
	if got != want {
		return nil, fmt.Errorf("%w: stored coordinates %v, want %v", ErrChunkFormat, got, want)
	}

	payload := make([]byte, 4*size*size)
	if _, err := io.ReadFull(zr, payload); err != nil {
		return nil, fmt.Errorf("%w: read tiles: %v", ErrChunkFormat, err)
	}
	var extra [1]byte
	if n, _ := zr.Read(extra[:]); n != 0 {
		return nil, fmt.Errorf("%w: trailing data", ErrChunkFormat)
	}

	c := NewChunk(want, size)
	for i := range c.tiles {
		id := tiles.TileID(int32(binary.LittleEndian.Uint32(payload[4*i:])))
		if id < 0 || id >= tiles.MaxTiles {
			return nil, fmt.Errorf("%w: tile id %d out of range", ErrChunkFormat, id)
		}
		c.tiles[i] = id
	}
	c.fallback = zr.Comment == fallbackComment
	return c, nil
}
