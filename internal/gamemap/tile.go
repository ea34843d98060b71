package gamemap

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyGrid  = errors.New("grid needs at least one row and one column")
	ErrRaggedGrid = errors.New("grid rows differ in length")
)

// Tile is an opaque terrain identifier. It only gains meaning through a
// map's Passability table and its tileset.
type Tile string

// Grid is a rectangular, row-major array of tiles. It is immutable once built.
type Grid struct {
	cells  [][]Tile
	width  int
	height int
}

// NewGrid validates rows and wraps them. rows must not be modified afterwards.
func NewGrid(rows [][]Tile) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d tiles, want %d: %w", i, len(row), width, ErrRaggedGrid)
		}
	}
	return &Grid{cells: rows, width: width, height: len(rows)}, nil
}

// Width is the number of columns.
func (g *Grid) Width() int { return g.width }

// Height is the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (row, column) is within the grid.
func (g *Grid) InBounds(row, column int) bool {
	return row >= 0 && row < g.height && column >= 0 && column < g.width
}

// At returns the tile at (row, column). Panics if out of bounds.
func (g *Grid) At(row, column int) Tile {
	return g.cells[row][column]
}

// Tiles calls fn for every cell in row-major order.
func (g *Grid) Tiles(fn func(row, column int, t Tile)) {
	for r, row := range g.cells {
		for c, t := range row {
			fn(r, c, t)
		}
	}
}

// Passability maps a movement mode (e.g. "walk") to the set of tiles that
// mode may enter.
type Passability map[string]map[Tile]struct{}

// NewPassability builds a table from mode → permitted tiles.
func NewPassability(modes map[string][]Tile) Passability {
	p := make(Passability, len(modes))
	for mode, tiles := range modes {
		set := make(map[Tile]struct{}, len(tiles))
		for _, t := range tiles {
			set[t] = struct{}{}
		}
		p[mode] = set
	}
	return p
}

// HasMode reports whether the table defines mode at all.
func (p Passability) HasMode(mode string) bool {
	_, ok := p[mode]
	return ok
}

// CanTraverse reports whether mode may enter tile t.
func (p Passability) CanTraverse(mode string, t Tile) bool {
	_, ok := p[mode][t]
	return ok
}
