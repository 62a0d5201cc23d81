package tiles

// Grid is a row-major width x height array of tile ids. Undecided cells hold
// Undecided.
type Grid struct {
	Width  int
	Height int
	Cells  []TileID
}

// NewGrid allocates a fully undecided grid. Non-positive sizes are clamped to 1.
func NewGrid(width, height int) *Grid {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	g := &Grid{Width: width, Height: height, Cells: make([]TileID, width*height)}
	for i := range g.Cells {
		g.Cells[i] = Undecided
	}
	return g
}

// StubGrid is the 1x1 undecided grid used when rules are evaluated without a
// live output grid.
func StubGrid() *Grid { return NewGrid(1, 1) }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.Width + x }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// At returns the tile at (x, y), or Undecided when out of bounds.
func (g *Grid) At(x, y int) TileID {
	if g == nil || !g.InBounds(x, y) {
		return Undecided
	}
	return g.Cells[g.Index(x, y)]
}

// Set writes a tile and reports whether (x, y) was in bounds.
func (g *Grid) Set(x, y int, id TileID) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.Cells[g.Index(x, y)] = id
	return true
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	out := &Grid{Width: g.Width, Height: g.Height, Cells: make([]TileID, len(g.Cells))}
	copy(out.Cells, g.Cells)
	return out
}

// Complete reports whether every cell is decided.
func (g *Grid) Complete() bool {
	for _, id := range g.Cells {
		if id == Undecided {
			return false
		}
	}
	return true
}
