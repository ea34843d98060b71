// Package geom holds the small value types shared by maps, entities and the
// viewport: real-valued points for sub-tile positions and integer cells for
// grid addressing.
package geom

import (
	"fmt"
	"math"
)

// Point is a position in tile space. One unit is one grid cell.
type Point struct {
	X, Y float64
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Floor returns the cell containing p.
func (p Point) Floor() Cell {
	return Cell{Row: int(math.Floor(p.Y)), Column: int(math.Floor(p.X))}
}

// Round returns the cell nearest to p.
func (p Point) Round() Cell {
	return Cell{Row: int(math.Round(p.Y)), Column: int(math.Round(p.X))}
}

// Axis returns the coordinate of p along a.
func (p Point) Axis(a Axis) float64 {
	if a == AxisX {
		return p.X
	}
	return p.Y
}

// WithAxis returns p with the coordinate along a replaced by v.
func (p Point) WithAxis(a Axis, v float64) Point {
	if a == AxisX {
		p.X = v
	} else {
		p.Y = v
	}
	return p
}

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Size is an extent in tiles.
type Size struct {
	Width, Height float64
}

// Rect is a tile-space position plus the number of cells it covers.
type Rect struct {
	Point
	Size
}

// NewRect builds a Rect from its components.
func NewRect(x, y, w, h float64) Rect {
	return Rect{Point: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

// Contains reports whether cell (row, column) lies in the footprint that
// starts at the floored origin of r. A fractional size still covers the
// cell it reaches into.
func (r Rect) Contains(row, column int) bool {
	origin := r.Point.Floor()
	return column >= origin.Column && float64(column) < float64(origin.Column)+r.Width &&
		row >= origin.Row && float64(row) < float64(origin.Row)+r.Height
}

// Cell addresses one grid square.
type Cell struct {
	Row, Column int
}

// Step returns the neighbouring cell in direction d.
func (c Cell) Step(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{Row: c.Row + dy, Column: c.Column + dx}
}

// Point converts c to the tile-space point at its top-left corner.
func (c Cell) Point() Point {
	return Point{X: float64(c.Column), Y: float64(c.Row)}
}

func (c Cell) String() string { return fmt.Sprintf("[%d,%d]", c.Row, c.Column) }
