package render

import (
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"tilemosaic/internal/gfx"
)

// TermCanvas implements gfx.Canvas on a tcell screen. One screen cell is
// one terminal column on one row.
type TermCanvas struct {
	Screen tcell.Screen
}

// NewTermCanvas wraps screen.
func NewTermCanvas(screen tcell.Screen) *TermCanvas {
	return &TermCanvas{Screen: screen}
}

func (c *TermCanvas) bounds() image.Rectangle {
	w, h := c.Screen.Size()
	return image.Rect(0, 0, w, h)
}

// DrawCell puts the glyph at the top-left of dest and pads the rest of dest
// with blanks in the glyph's style. A wide glyph that would be cut by clip
// is replaced by blanks.
func (c *TermCanvas) DrawCell(img *gfx.Image, row, column int, dest, clip image.Rectangle) {
	g, ok := img.At(row, column)
	if !ok {
		return
	}
	area := dest.Intersect(clip).Intersect(c.bounds())
	if area.Empty() {
		return
	}
	covered := image.Rectangle{}
	at := dest.Min
	if at.In(area) && at.X+g.Width <= area.Max.X {
		putGlyph(c.Screen, at.X, at.Y, g.Text, g.Style)
		covered = image.Rect(at.X, at.Y, at.X+g.Width, at.Y+1)
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if image.Pt(x, y).In(covered) {
				continue
			}
			c.Screen.SetContent(x, y, ' ', nil, g.Style)
		}
	}
}

// Fill paints area with blanks on color.
func (c *TermCanvas) Fill(area image.Rectangle, color tcell.Color) {
	area = area.Intersect(c.bounds())
	style := tcell.StyleDefault.Background(color)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			c.Screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// Shade blends the colours already on screen in area toward color.
func (c *TermCanvas) Shade(area image.Rectangle, color tcell.Color, amount float64) {
	if amount <= 0 {
		return
	}
	if amount > 1 {
		amount = 1
	}
	target := toColorful(color, colorful.Color{})
	area = area.Intersect(c.bounds())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			mainc, combc, style, _ := c.Screen.GetContent(x, y)
			fg, bg, _ := style.Decompose()
			style = style.
				Foreground(blend(fg, target, amount, colorful.Color{R: 1, G: 1, B: 1})).
				Background(blend(bg, target, amount, colorful.Color{}))
			c.Screen.SetContent(x, y, mainc, combc, style)
		}
	}
}

// blend mixes from toward to. Terminal default colours have no RGB value,
// so fallback stands in for them.
func blend(from tcell.Color, to colorful.Color, amount float64, fallback colorful.Color) tcell.Color {
	mixed := toColorful(from, fallback).BlendRgb(to, amount).Clamped()
	r, g, b := mixed.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func toColorful(c tcell.Color, fallback colorful.Color) colorful.Color {
	r, g, b := c.RGB()
	if r < 0 || g < 0 || b < 0 {
		return fallback
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen
// position (x, y).
func putGlyph(s tcell.Screen, x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	s.SetContent(x, y, runes[0], combc, style)
}
