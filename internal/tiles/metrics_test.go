package tiles

import "testing"

func gridFromRows(rows ...[]TileID) *Grid {
	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, id := range row {
			g.Set(x, y, id)
		}
	}
	return g
}

func TestMeasureRegion(t *testing.T) {
	const U = Undecided
	g := gridFromRows(
		[]TileID{Mountain, Mountain, U, Plains},
		[]TileID{U, Mountain, U, Plains},
		[]TileID{U, Mountain, Mountain, Plains},
	)

	m := Measure(g, 0, 0, Undecided)
	if m.Count != 5 || m.Width != 3 || m.Height != 3 {
		t.Fatalf("unexpected mountain region %+v", m)
	}
	if m.MinX != 0 || m.MaxX != 2 || m.MinY != 0 || m.MaxY != 2 {
		t.Fatalf("unexpected bounds %+v", m)
	}

	plains := Measure(g, 3, 1, Undecided)
	if plains.Count != 3 || plains.Width != 1 || plains.Height != 3 {
		t.Fatalf("unexpected plains region %+v", plains)
	}
}

func TestMeasureProjectsAssumedTile(t *testing.T) {
	const U = Undecided
	g := gridFromRows(
		[]TileID{Mountain, U, Mountain},
	)
	m := Measure(g, 1, 0, Mountain)
	if m.Count != 3 || m.Width != 3 {
		t.Fatalf("projection should bridge both mountains, got %+v", m)
	}
	if g.At(1, 0) != Undecided {
		t.Fatalf("measure must not write the grid")
	}
}

func TestMeasureSentinels(t *testing.T) {
	g := NewGrid(2, 2)
	if !Measure(g, 0, 0, Undecided).Empty() {
		t.Fatalf("undecided cell should yield empty metrics")
	}
	if !Measure(g, 5, 0, Ocean).Empty() {
		t.Fatalf("out-of-bounds point should yield empty metrics")
	}
	if !Measure(nil, 0, 0, Ocean).Empty() {
		t.Fatalf("nil grid should yield empty metrics")
	}

	stub := StubGrid()
	m := Measure(stub, 0, 0, Mountain)
	if m.Count != 1 || m.Width != 1 || m.Height != 1 {
		t.Fatalf("stub grid should measure a single cell, got %+v", m)
	}
}
