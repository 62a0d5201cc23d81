package world

import (
	"bytes"
	"sync"
)

// MemoryStore keeps encoded chunk records in memory. It stores the same byte
// format as DiskStore.
type MemoryStore struct {
	size    int
	mu      sync.RWMutex
	records map[ChunkCoord][]byte
}

func NewMemoryStore(size int) *MemoryStore {
	return &MemoryStore{size: size, records: make(map[ChunkCoord][]byte)}
}

func (m *MemoryStore) Load(coord ChunkCoord) (*Chunk, bool, error) {
	m.mu.RLock()
	data, ok := m.records[coord]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	chunk, err := DecodeChunk(bytes.NewReader(data), coord, m.size)
	if err != nil {
		return nil, false, err
	}
	return chunk, true, nil
}

func (m *MemoryStore) Save(chunk *Chunk) error {
	var buf bytes.Buffer
	if err := EncodeChunk(&buf, chunk); err != nil {
		return err
	}
	m.mu.Lock()
	m.records[chunk.Coord] = buf.Bytes()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(coord ChunkCoord) error {
	m.mu.Lock()
	delete(m.records, coord)
	m.mu.Unlock()
	return nil
}

// Put stores a raw record, bypassing the encoder.
func (m *MemoryStore) Put(coord ChunkCoord, data []byte) {
	m.mu.Lock()
	m.records[coord] = append([]byte(nil), data...)
	m.mu.Unlock()
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *MemoryStore) Close() error {
	return nil
}
