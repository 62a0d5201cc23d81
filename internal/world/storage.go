package world

// ChunkStore provides durable storage for chunk records. Load reports ok=false
// for chunks that were never saved.
type ChunkStore interface {
	Load(coord ChunkCoord) (*Chunk, bool, error)
	Save(chunk *Chunk) error
	Delete(coord ChunkCoord) error
	Close() error
}
