package gamemap

import "tilemosaic/internal/geom"

// MaxResolveSteps caps the number of map hops ResolveTile will make.
const MaxResolveSteps = 4096

// Location is a resolved tile: its identifier and where it lives.
type Location struct {
	Tile   Tile
	Map    *Map
	Row    int
	Column int
}

// Cell returns the map-local cell of l.
func (l Location) Cell() geom.Cell {
	return geom.Cell{Row: l.Row, Column: l.Column}
}

// ResolveTile translates (row, column), which may lie outside m, into a tile
// on whichever linked map contains it.
//
// Exactly one axis is corrected per hop and columns are always corrected
// before rows, so corner coordinates resolve reproducibly through the
// horizontal neighbour first. Each hop strictly shrinks the overflow, which
// keeps wrap-around worlds finite; the hop cap makes malformed graphs fail
// closed.
func (m *Map) ResolveTile(row, column int) (Location, bool) {
	cur := m
	for hops := 0; hops <= MaxResolveSteps; hops++ {
		var next *Map
		switch {
		case column < 0:
			next = cur.neighbors[geom.Left]
			if next == nil {
				return Location{}, false
			}
			column += next.Width()
		case column >= cur.Width():
			next = cur.neighbors[geom.Right]
			if next == nil {
				return Location{}, false
			}
			column -= cur.Width()
		case row < 0:
			next = cur.neighbors[geom.Up]
			if next == nil {
				return Location{}, false
			}
			row += next.Height()
		case row >= cur.Height():
			next = cur.neighbors[geom.Down]
			if next == nil {
				return Location{}, false
			}
			row -= cur.Height()
		default:
			return Location{Tile: cur.Grid.At(row, column), Map: cur, Row: row, Column: column}, true
		}
		cur = next
	}
	return Location{}, false
}

// ResolveCell is ResolveTile for a geom.Cell.
func (m *Map) ResolveCell(c geom.Cell) (Location, bool) {
	return m.ResolveTile(c.Row, c.Column)
}
