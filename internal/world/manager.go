package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"terraingen/internal/config"
	"terraingen/internal/telemetry"
	"terraingen/internal/tiles"
)

// Manager keeps the active chunk set: it loads chunks from the store,
// generates missing ones and evicts chunks that leave the buffered viewport.
type Manager struct {
	generator *Generator
	store     ChunkStore
	size      int
	buffer    int
	workers   int
	seamHints bool
	sink      telemetry.Sink
	logger    *slog.Logger

	mu     sync.RWMutex
	chunks map[ChunkCoord]*Chunk
}

// NewManager wires a generator to a store. sink and logger may be nil.
func NewManager(cfg config.ChunkConfig, generator *Generator, store ChunkStore, sink telemetry.Sink, logger *slog.Logger) *Manager {
	if sink == nil {
		sink = telemetry.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Manager{
		generator: generator,
		store:     store,
		size:      generator.Size(),
		buffer:    cfg.ViewportBuffer,
		workers:   workers,
		seamHints: cfg.SeamHints,
		sink:      sink,
		logger:    logger.With(slog.String("component", "chunks")),
		chunks:    make(map[ChunkCoord]*Chunk),
	}
}

// ChunkSize returns the edge length of every chunk.
func (m *Manager) ChunkSize() int { return m.size }

// GetChunk returns the active chunk at coord, materialising it from storage
// or the generator on first access.
func (m *Manager) GetChunk(ctx context.Context, coord ChunkCoord) (*Chunk, error) {
	m.mu.RLock()
	ch, ok := m.chunks[coord]
	m.mu.RUnlock()
	if ok {
		return ch, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch, err := m.materialize(ctx, coord, m.hintsFor(coord))
	if err != nil {
		return nil, err
	}
	return m.insert(ch), nil
}

// materialize loads coord or generates it. Any storage failure counts as
// "not stored"; only cancellation of ctx fails.
func (m *Manager) materialize(ctx context.Context, coord ChunkCoord, hints SeamHints) (*Chunk, error) {
	if m.store != nil {
		ch, ok, err := m.store.Load(coord)
		switch {
		case err != nil:
			m.logger.Warn("chunk load failed, regenerating",
				slog.String("chunk", coord.String()),
				slog.Any("err", err))
		case ok:
			return ch, nil
		}
	}
	ch, _, err := m.generator.Generate(ctx, coord, hints)
	return ch, err
}

func (m *Manager) insert(ch *Chunk) *Chunk {
	m.mu.Lock()
	if existing, ok := m.chunks[ch.Coord]; ok {
		m.mu.Unlock()
		return existing
	}
	m.chunks[ch.Coord] = ch
	n := len(m.chunks)
	m.mu.Unlock()
	m.sink.ActiveChunks(n)
	return ch
}

// hintsFor collects the facing edges of active neighbours when seam hints are
// enabled.
func (m *Manager) hintsFor(coord ChunkCoord) SeamHints {
	if !m.seamHints {
		return nil
	}
	hints := make(SeamHints)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, side := range tiles.Directions {
		dx, dy := side.Offset()
		if n, ok := m.chunks[coord.Neighbor(dx, dy)]; ok {
			hints[side] = n.Edge(side.Opposite())
		}
	}
	return hints
}

// TileAt returns the tile at a world position.
func (m *Manager) TileAt(ctx context.Context, worldX, worldY int) (tiles.TileID, error) {
	coord, lx, ly := TileToLocal(worldX, worldY, m.size)
	ch, err := m.GetChunk(ctx, coord)
	if err != nil {
		return tiles.Undecided, err
	}
	id, _ := ch.Tile(lx, ly)
	return id, nil
}

// SetTile edits one world tile and marks its chunk dirty.
func (m *Manager) SetTile(ctx context.Context, worldX, worldY int, id tiles.TileID) error {
	if !m.generator.Registry().Placeable().Has(id) {
		return fmt.Errorf("tile %d is not placeable", id)
	}
	coord, lx, ly := TileToLocal(worldX, worldY, m.size)
	ch, err := m.GetChunk(ctx, coord)
	if err != nil {
		return err
	}
	ch.SetTile(lx, ly, id)
	return nil
}

// Prefetch materialises every missing chunk in coords on a bounded worker
// pool. Each worker runs its own solver; results are inserted under the
// manager lock. Chunks whose generation was cancelled are not inserted.
func (m *Manager) Prefetch(ctx context.Context, coords []ChunkCoord) error {
	m.mu.RLock()
	missing := make([]ChunkCoord, 0, len(coords))
	seen := make(map[ChunkCoord]struct{}, len(coords))
	for _, c := range coords {
		if _, ok := m.chunks[c]; ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		missing = append(missing, c)
	}
	m.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for _, coord := range missing {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ch, err := m.materialize(gctx, coord, m.hintsFor(coord))
			if err != nil {
				return err
			}
			m.insert(ch)
			return nil
		})
	}
	return g.Wait()
}

// UpdateViewport evicts chunks outside the buffered viewport, saving dirty
// ones first, and materialises every chunk inside it. A chunk whose save
// fails stays active so its edits are not lost.
func (m *Manager) UpdateViewport(ctx context.Context, v Viewport) error {
	wanted := v.Chunks(m.size, m.buffer)
	keep := make(map[ChunkCoord]struct{}, len(wanted))
	for _, c := range wanted {
		keep[c] = struct{}{}
	}

	m.mu.RLock()
	var evict []*Chunk
	for coord, ch := range m.chunks {
		if _, ok := keep[coord]; !ok {
			evict = append(evict, ch)
		}
	}
	m.mu.RUnlock()

	var errs []error
	for _, ch := range evict {
		if err := m.save(ch); err != nil {
			errs = append(errs, err)
			continue
		}
		m.mu.Lock()
		delete(m.chunks, ch.Coord)
		m.mu.Unlock()
	}
	m.sink.ActiveChunks(m.ActiveCount())

	if err := m.Prefetch(ctx, wanted); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SaveAll persists every dirty active chunk.
func (m *Manager) SaveAll() error {
	var errs []error
	for _, ch := range m.snapshot() {
		if err := m.save(ch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) save(ch *Chunk) error {
	if m.store == nil || !ch.Dirty() {
		return nil
	}
	if err := m.store.Save(ch); err != nil {
		m.logger.Error("chunk save failed",
			slog.String("chunk", ch.Coord.String()),
			slog.Any("err", err))
		return fmt.Errorf("save chunk %v: %w", ch.Coord, err)
	}
	ch.markClean()
	m.sink.ChunkSaved()
	return nil
}

// ActiveCount returns the number of chunks currently held.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// Active lists the held chunk coordinates in row-major order.
func (m *Manager) Active() []ChunkCoord {
	m.mu.RLock()
	out := make([]ChunkCoord, 0, len(m.chunks))
	for c := range m.chunks {
		out = append(out, c)
	}
	m.mu.RUnlock()
	sortCoords(out)
	return out
}

// Chunks returns the active chunks in row-major order.
func (m *Manager) Chunks() []*Chunk { return m.snapshot() }

func (m *Manager) snapshot() []*Chunk {
	coords := m.Active()
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Chunk, 0, len(coords))
	for _, c := range coords {
		if ch, ok := m.chunks[c]; ok {
			out = append(out, ch)
		}
	}
	return out
}

// Close saves every dirty chunk and closes the store.
func (m *Manager) Close() error {
	err := m.SaveAll()
	if m.store != nil {
		err = errors.Join(err, m.store.Close())
	}
	return err
}
