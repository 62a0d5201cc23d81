package world

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// DiskStore persists one compressed record per chunk beneath basePath.
type DiskStore struct {
	basePath string
	size     int
}

// NewDiskStore creates basePath if needed.
func NewDiskStore(basePath string, size int) (*DiskStore, error) {
	if basePath == "" {
		return nil, errors.New("chunk store path is empty")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create chunk directory: %w", err)
	}
	return &DiskStore{basePath: basePath, size: size}, nil
}

// Path returns the file holding coord.
func (s *DiskStore) Path(coord ChunkCoord) string {
	dir := filepath.Join(s.basePath, strconv.Itoa(coord.X))
	return filepath.Join(dir, fmt.Sprintf("chunk_%d_%d.chnk", coord.X, coord.Y))
}

func (s *DiskStore) Load(coord ChunkCoord) (*Chunk, bool, error) {
	f, err := os.Open(s.Path(coord))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open chunk file: %w", err)
	}
	defer f.Close()

	chunk, err := DecodeChunk(f, coord, s.size)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", f.Name(), err)
	}
	return chunk, true, nil
}

// Save writes to a temporary file and renames it over the previous record, so
// readers never observe a half-written chunk.
func (s *DiskStore) Save(chunk *Chunk) error {
	path := s.Path(chunk.Coord)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chunk directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".chunk-*")
	if err != nil {
		return fmt.Errorf("create chunk file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeChunk(tmp, chunk); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync chunk file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close chunk file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace chunk file: %w", err)
	}
	return nil
}

func (s *DiskStore) Delete(coord ChunkCoord) error {
	err := os.Remove(s.Path(coord))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete chunk file: %w", err)
	}
	return nil
}

func (s *DiskStore) Close() error {
	return nil
}
