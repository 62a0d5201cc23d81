package tiles

// Metrics describes a 4-connected region of identical tiles.
type Metrics struct {
	Count  int
	Width  int
	Height int
	MinX   int
	MinY   int
	MaxX   int
	MaxY   int
}

// Empty reports whether m is the sentinel for "no region".
func (m Metrics) Empty() bool { return m.Count == 0 }

// Measure flood-fills the region of tiles equal to assumed that contains (x, y).
// When assumed is Undecided the tile currently stored at (x, y) is used. The cell
// at (x, y) is treated as holding assumed even if the grid says otherwise, which
// lets callers project the region a candidate would join. Out-of-bounds points
// and undecided ids yield the empty sentinel.
func Measure(g *Grid, x, y int, assumed TileID) Metrics {
	if g == nil || !g.InBounds(x, y) {
		return Metrics{}
	}
	id := assumed
	if id == Undecided {
		id = g.At(x, y)
	}
	if id == Undecided {
		return Metrics{}
	}

	visited := make([]bool, len(g.Cells))
	// the worklist never holds more than one entry per cell
	queue := make([]int, 0, min(len(g.Cells), 64))
	start := g.Index(x, y)
	visited[start] = true
	queue = append(queue, start)

	m := Metrics{MinX: x, MinY: y, MaxX: x, MaxY: y}
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		cx := idx % g.Width
		cy := idx / g.Width
		m.Count++
		if cx < m.MinX {
			m.MinX = cx
		}
		if cx > m.MaxX {
			m.MaxX = cx
		}
		if cy < m.MinY {
			m.MinY = cy
		}
		if cy > m.MaxY {
			m.MaxY = cy
		}
		for _, d := range Directions {
			dx, dy := d.Offset()
			nx, ny := cx+dx, cy+dy
			if !g.InBounds(nx, ny) {
				continue
			}
			n := g.Index(nx, ny)
			if visited[n] || g.Cells[n] != id {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	m.Width = m.MaxX - m.MinX + 1
	m.Height = m.MaxY - m.MinY + 1
	return m
}
