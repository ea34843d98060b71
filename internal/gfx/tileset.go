package gfx

import (
	"errors"
	"fmt"
	"image"

	"tilemosaic/internal/geom"
)

var ErrShapeMismatch = errors.New("tile ids and image differ in shape")

// Tileset maps tile identifiers to cells of an Image.
type Tileset struct {
	Key   string
	Image *Image
	tiles map[string]geom.Cell
}

// NewTileset pairs each id in ids with the glyph at the same position in img.
func NewTileset(key string, ids [][]string, img *Image) (*Tileset, error) {
	if len(ids) != img.Rows() {
		return nil, fmt.Errorf("tileset %q: %d id rows for %d image rows: %w", key, len(ids), img.Rows(), ErrShapeMismatch)
	}
	ts := &Tileset{Key: key, Image: img, tiles: make(map[string]geom.Cell)}
	for r, row := range ids {
		if len(row) != img.Columns() {
			return nil, fmt.Errorf("tileset %q row %d: %w", key, r, ErrShapeMismatch)
		}
		for c, id := range row {
			ts.tiles[id] = geom.Cell{Row: r, Column: c}
		}
	}
	return ts, nil
}

// Has reports whether tile has a glyph in this set.
func (t *Tileset) Has(tile string) bool {
	_, ok := t.tiles[tile]
	return ok
}

// DrawTile draws tile into dest. Unknown tiles draw nothing.
func (t *Tileset) DrawTile(c Canvas, tile string, dest, clip image.Rectangle) {
	cell, ok := t.tiles[tile]
	if !ok {
		return
	}
	c.DrawCell(t.Image, cell.Row, cell.Column, dest, clip)
}
