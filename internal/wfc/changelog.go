package wfc

import "terraingen/internal/tiles"

// ChangeKind tags a Change record.
type ChangeKind uint8

const (
	DomainRemoved ChangeKind = iota + 1
	CellCollapsed
	OutputSet
)

// Change is one reversible mutation of a State.
//
//	DomainRemoved: Tile was removed from the domain of Cell.
//	CellCollapsed: the domain of Cell was Prev before being cleared for Tile.
//	OutputSet:     the output of Cell changed from PrevValue to Tile.
type Change struct {
	Kind      ChangeKind
	Cell      int
	Tile      tiles.TileID
	Prev      tiles.Set
	PrevValue tiles.TileID
}

// Log is an append-only undo trail. A nil *Log records nothing, which lets
// propagation run unlogged.
type Log struct {
	changes []Change
}

func (l *Log) record(c Change) {
	if l == nil {
		return
	}
	l.changes = append(l.changes, c)
}

// Mark returns a checkpoint for Rollback.
func (l *Log) Mark() int {
	if l == nil {
		return 0
	}
	return len(l.changes)
}

// Len returns the number of live records.
func (l *Log) Len() int { return l.Mark() }

// Rollback undoes every change recorded after mark, newest first, restoring s
// to its state when the mark was taken.
func (l *Log) Rollback(s *State, mark int) {
	if l == nil || mark < 0 || mark >= len(l.changes) {
		return
	}
	for i := len(l.changes) - 1; i >= mark; i-- {
		c := l.changes[i]
		switch c.Kind {
		case DomainRemoved:
			s.domains[c.Cell] = s.domains[c.Cell].Add(c.Tile)
		case CellCollapsed:
			s.domains[c.Cell] = c.Prev
		case OutputSet:
			s.Output.Cells[c.Cell] = c.PrevValue
		}
	}
	l.changes = l.changes[:mark]
}
