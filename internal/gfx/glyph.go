// Package gfx provides the terminal analogue of image resources: glyph
// sheets addressed by (row, column), the Canvas capability that draws one
// sheet cell into a clipped screen region, and the tileset / sprite types
// built on top of it.
package gfx

import (
	"errors"
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

var (
	ErrEmptyGlyph  = errors.New("glyph is empty")
	ErrMultiGlyph  = errors.New("glyph must be a single grapheme cluster")
	ErrGlyphWidth  = errors.New("glyph must be one or two columns wide")
	ErrEmptyImage  = errors.New("image has no cells")
	ErrRaggedImage = errors.New("image rows differ in length")
)

// Glyph is one cell of an Image: a single grapheme drawn with a style.
type Glyph struct {
	Text  string
	Style tcell.Style
	Width int // terminal columns occupied by Text
}

// ParseGlyph validates text as a single printable grapheme cluster.
func ParseGlyph(text string, style tcell.Style) (Glyph, error) {
	if text == "" {
		return Glyph{}, ErrEmptyGlyph
	}
	if n := uniseg.GraphemeClusterCount(text); n != 1 {
		return Glyph{}, fmt.Errorf("%q has %d clusters: %w", text, n, ErrMultiGlyph)
	}
	w := runewidth.StringWidth(text)
	if w < 1 || w > 2 {
		return Glyph{}, fmt.Errorf("%q is %d wide: %w", text, w, ErrGlyphWidth)
	}
	return Glyph{Text: text, Style: style, Width: w}, nil
}

// Image is a named, rectangular grid of glyphs.
type Image struct {
	Name  string
	Cells [][]Glyph
}

// NewImage checks that cells is non-empty and rectangular.
func NewImage(name string, cells [][]Glyph) (*Image, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, fmt.Errorf("image %q: %w", name, ErrEmptyImage)
	}
	for i, row := range cells[1:] {
		if len(row) != len(cells[0]) {
			return nil, fmt.Errorf("image %q row %d: %w", name, i+1, ErrRaggedImage)
		}
	}
	return &Image{Name: name, Cells: cells}, nil
}

// Rows returns the number of glyph rows.
func (img *Image) Rows() int { return len(img.Cells) }

// Columns returns the number of glyphs per row.
func (img *Image) Columns() int { return len(img.Cells[0]) }

// At returns the glyph at (row, column), or false when out of range.
func (img *Image) At(row, column int) (Glyph, bool) {
	if row < 0 || row >= len(img.Cells) || column < 0 || column >= len(img.Cells[row]) {
		return Glyph{}, false
	}
	return img.Cells[row][column], true
}

// Canvas is the drawing capability the engine consumes.
//
// DrawCell draws cell (row, column) of img into dest, restricted to clip.
// Fill paints area with a solid background. Shade blends everything already
// drawn in area toward color by amount in [0, 1].
type Canvas interface {
	DrawCell(img *Image, row, column int, dest, clip image.Rectangle)
	Fill(area image.Rectangle, color tcell.Color)
	Shade(area image.Rectangle, color tcell.Color, amount float64)
}
