package render

import (
	"image"
	"math"
	"time"

	"tilemosaic/internal/entity"
	"tilemosaic/internal/gamemap"
	"tilemosaic/internal/geom"
	"tilemosaic/internal/gfx"
)

// DefaultCell is the screen size of one tile: two columns so emoji line up.
var DefaultCell = image.Pt(2, 1)

// Drawable is implemented by occupants that can draw themselves. origin is
// the screen position of tile (0, 0) of the map they stand on.
type Drawable interface {
	Draw(c gfx.Canvas, origin, cell image.Point, clip image.Rectangle)
}

// Placement is one map of the visible mosaic and the screen position of
// its tile (0, 0).
type Placement struct {
	Map    *gamemap.Map
	Corner image.Point
}

// Viewport is a camera over the map mosaic around a tracked entity.
//
// Location is the camera's top-left in CurrentMap's tile frame. It is
// re-derived from the tracked entity every update and renormalised into
// whichever map contains it by Relocate.
type Viewport struct {
	Clip       image.Rectangle
	Cell       image.Point
	Location   geom.Point
	CurrentMap *gamemap.Map
	Tracked    *entity.Entity

	// Offset is added to the tracked position to get the camera's top-left;
	// by default it is minus half the view in tiles.
	Offset geom.Point

	Palette  Palette
	FadeTime time.Duration

	fade      time.Duration
	fadingOut bool
	corner    image.Point
}

// NewViewport returns a viewport over clip centred on tracked.
func NewViewport(clip image.Rectangle, cell image.Point, tracked *entity.Entity) *Viewport {
	if cell.X <= 0 || cell.Y <= 0 {
		cell = DefaultCell
	}
	v := &Viewport{
		Clip:     clip,
		Cell:     cell,
		Tracked:  tracked,
		Palette:  DefaultPalette(),
		FadeTime: 500 * time.Millisecond,
	}
	v.SetHalfExtent(
		float64(clip.Dx()/cell.X)/2,
		float64(clip.Dy()/cell.Y)/2,
	)
	if tracked != nil {
		v.follow()
	}
	return v
}

// SetHalfExtent sets how many tiles the tracked entity sits from the
// camera's top-left corner.
func (v *Viewport) SetHalfExtent(x, y float64) {
	v.Offset = geom.Point{X: -math.Floor(x), Y: -math.Floor(y)}
}

// Resize moves the viewport to clip and recentres the camera.
func (v *Viewport) Resize(clip image.Rectangle) {
	v.Clip = clip
	v.SetHalfExtent(float64(clip.Dx()/v.Cell.X)/2, float64(clip.Dy()/v.Cell.Y)/2)
	if v.Tracked != nil {
		v.follow()
	}
}

// follow puts the camera at the tracked entity's position plus Offset, in
// the frame of the entity's map, and renormalises it.
func (v *Viewport) follow() {
	v.CurrentMap = v.Tracked.Map
	v.Location = v.Tracked.Location.Point.Add(v.Offset.X, v.Offset.Y)
	v.Relocate()
}

// Relocate walks CurrentMap across adjacency until Location lies inside
// it. Columns are corrected before rows. At the edge of the world the walk
// stops and Location is left outside the map; drawing shows background
// there. It reports whether CurrentMap changed.
func (v *Viewport) Relocate() bool {
	moved := false
	if v.CurrentMap == nil {
		v.updateCorner()
		return false
	}
	for i := 0; i < gamemap.MaxResolveSteps && v.Location.X < 0 && v.step(geom.Left); i++ {
		moved = true
	}
	for i := 0; i < gamemap.MaxResolveSteps && v.Location.X >= float64(v.CurrentMap.Width()) && v.step(geom.Right); i++ {
		moved = true
	}
	for i := 0; i < gamemap.MaxResolveSteps && v.Location.Y < 0 && v.step(geom.Up); i++ {
		moved = true
	}
	for i := 0; i < gamemap.MaxResolveSteps && v.Location.Y >= float64(v.CurrentMap.Height()) && v.step(geom.Down); i++ {
		moved = true
	}
	v.updateCorner()
	return moved
}

// step moves the frame of reference one map in direction d, shifting
// Location by the extent of the map stepped across.
func (v *Viewport) step(d geom.Direction) bool {
	n := v.CurrentMap.Neighbor(d)
	if n == nil {
		return false
	}
	switch d {
	case geom.Left:
		v.Location.X += float64(n.Width())
	case geom.Right:
		v.Location.X -= float64(v.CurrentMap.Width())
	case geom.Up:
		v.Location.Y += float64(n.Height())
	case geom.Down:
		v.Location.Y -= float64(v.CurrentMap.Height())
	}
	v.CurrentMap = n
	return true
}

// updateCorner recomputes the screen position of CurrentMap's tile (0, 0).
func (v *Viewport) updateCorner() {
	v.corner = v.originFor(v.Location)
}

// originFor returns where tile (0, 0) lands on screen when the camera's
// top-left is at loc.
func (v *Viewport) originFor(loc geom.Point) image.Point {
	return image.Pt(
		v.Clip.Min.X-int(math.Floor(float64(v.Cell.X)*loc.X)),
		v.Clip.Min.Y-int(math.Floor(float64(v.Cell.Y)*loc.Y)),
	)
}

// Corner is the screen position of CurrentMap's tile (0, 0).
func (v *Viewport) Corner() image.Point { return v.corner }

// Mosaic lists the maps intersecting the clip, starting at CurrentMap and
// walking right along each row and down between rows. The walk stops at a
// missing neighbour. A map appears at most once per screen position.
func (v *Viewport) Mosaic() []Placement {
	var out []Placement
	seen := make(map[Placement]bool)
	rowStart, corner := v.CurrentMap, v.corner
	for rowStart != nil && corner.Y < v.Clip.Max.Y {
		m, at := rowStart, corner
		for m != nil && at.X < v.Clip.Max.X {
			p := Placement{Map: m, Corner: at}
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
			at.X += v.Cell.X * m.Width()
			m = m.Neighbor(geom.Right)
		}
		corner.Y += v.Cell.Y * rowStart.Height()
		rowStart = rowStart.Neighbor(geom.Down)
	}
	return out
}

// Update advances one frame: the tracked entity first, then the camera
// from its new position, then every visible map once.
func (v *Viewport) Update(frame uint64, elapsed time.Duration) {
	if v.fadingOut {
		v.fade += elapsed
	} else {
		v.fade -= elapsed
	}
	v.fade = min(max(v.fade, 0), v.FadeTime)

	if v.Tracked != nil {
		v.Tracked.Update(frame, elapsed)
		v.follow()
	}
	updated := make(map[*gamemap.Map]bool)
	for _, p := range v.Mosaic() {
		if updated[p.Map] {
			continue
		}
		updated[p.Map] = true
		p.Map.Update(frame, elapsed)
	}
}

// Draw renders the mosaic: all tiles, then all occupants, then the fade.
// The tracked entity is drawn on its own when the mosaic does not reach
// its map.
func (v *Viewport) Draw(c gfx.Canvas) {
	if v.FadeTime > 0 && v.fade >= v.FadeTime {
		c.Fill(v.Clip, v.Palette.Fade)
		return
	}
	c.Fill(v.Clip, v.Palette.Background)

	mosaic := v.Mosaic()
	trackedShown := false
	for _, p := range mosaic {
		v.drawTiles(c, p)
	}
	for _, p := range mosaic {
		for _, o := range p.Map.Occupants() {
			if d, ok := o.(Drawable); ok {
				d.Draw(c, p.Corner, v.Cell, v.Clip)
			}
		}
		if v.Tracked != nil && p.Map == v.Tracked.Map {
			trackedShown = true
		}
	}
	if v.Tracked != nil && !trackedShown {
		loc := v.Tracked.Location.Point.Add(v.Offset.X, v.Offset.Y)
		v.Tracked.Draw(c, v.originFor(loc), v.Cell, v.Clip)
	}

	if level := v.FadeLevel(); level > 0 {
		c.Shade(v.Clip, v.Palette.Fade, level)
	}
}

// drawTiles draws the part of p's grid that falls inside the clip.
func (v *Viewport) drawTiles(c gfx.Canvas, p Placement) {
	ts := p.Map.Tileset
	if ts == nil {
		return
	}
	r0 := max(0, floorDiv(v.Clip.Min.Y-p.Corner.Y, v.Cell.Y))
	r1 := min(p.Map.Height(), ceilDiv(v.Clip.Max.Y-p.Corner.Y, v.Cell.Y))
	c0 := max(0, floorDiv(v.Clip.Min.X-p.Corner.X, v.Cell.X))
	c1 := min(p.Map.Width(), ceilDiv(v.Clip.Max.X-p.Corner.X, v.Cell.X))
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			at := p.Corner.Add(image.Pt(col*v.Cell.X, row*v.Cell.Y))
			dest := image.Rectangle{Min: at, Max: at.Add(v.Cell)}
			ts.DrawTile(c, string(p.Map.Grid.At(row, col)), dest, v.Clip)
		}
	}
}

// FadeIn fades the overlay away.
func (v *Viewport) FadeIn() { v.fadingOut = false }

// FadeOut fades the overlay in until the view is covered.
func (v *Viewport) FadeOut() { v.fadingOut = true }

// Flash covers the view at once and fades back in.
func (v *Viewport) Flash() {
	v.fade = v.FadeTime
	v.fadingOut = false
}

// FadeLevel is the overlay opacity in [0, 1].
func (v *Viewport) FadeLevel() float64 {
	if v.FadeTime <= 0 {
		return 0
	}
	return float64(v.fade) / float64(v.FadeTime)
}

// TileAt returns the world tile under screen position pt, if any.
func (v *Viewport) TileAt(pt image.Point) (gamemap.Location, bool) {
	if v.CurrentMap == nil || !pt.In(v.Clip) {
		return gamemap.Location{}, false
	}
	d := pt.Sub(v.corner)
	return v.CurrentMap.ResolveTile(floorDiv(d.Y, v.Cell.Y), floorDiv(d.X, v.Cell.X))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
