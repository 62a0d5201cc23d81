package tiles

// RuleTable caches, for every (tile, direction), the set of neighbour tiles the
// registry accepts under context-free defaults: no height samples and a 1x1
// stub grid for region metrics. It only reflects pure adjacency, so it is an
// approximation of a contextual evaluation.
type RuleTable struct {
	allowed [4][MaxTiles]Set
	tiles   Set
}

// BuildRuleTable evaluates the registry once for every ordered tile pair.
func BuildRuleTable(reg *Registry) *RuleTable {
	t := &RuleTable{tiles: reg.Placeable()}
	stub := StubGrid()
	ids := t.tiles.IDs()
	for _, dir := range Directions {
		dx, dy := dir.Offset()
		for _, a := range ids {
			var allowed Set
			for _, b := range ids {
				ctx := Context{
					Tile:      a,
					NeighborX: dx,
					NeighborY: dy,
					Neighbor:  b,
					Dir:       dir,
					Grid:      stub,
				}
				if reg.Allows(ctx) {
					allowed = allowed.Add(b)
				}
			}
			t.allowed[dir][a] = allowed
		}
	}
	return t
}

// Allowed returns the neighbours tile may have in direction dir.
func (t *RuleTable) Allowed(tile TileID, dir Direction) Set {
	if tile < 0 || tile >= MaxTiles {
		return 0
	}
	return t.allowed[dir][tile]
}

// Supported returns the tiles that have at least one compatible partner in
// neighbour, seen from a cell whose neighbour lies in direction dir.
func (t *RuleTable) Supported(neighbour Set, dir Direction) Set {
	var out Set
	for _, id := range t.tiles.IDs() {
		if t.allowed[dir][id]&neighbour != 0 {
			out = out.Add(id)
		}
	}
	return out
}

// Compatible reports whether a may have b as its neighbour in direction dir.
func (t *RuleTable) Compatible(a, b TileID, dir Direction) bool {
	return t.Allowed(a, dir).Has(b)
}
