// Package render draws the world to a terminal: the viewport over the map
// mosaic, the tcell canvas it draws through, and the HUD.
package render

import (
	"image"

	"github.com/gdamore/tcell/v2"
)

// Renderer owns the screen layout: the viewport on top and the HUD in the
// bottom HUDHeight rows.
type Renderer struct {
	screen tcell.Screen
	canvas *TermCanvas
	View   *Viewport
	HUD    *HUD
}

// NewRenderer lays view and hud out on screen.
func NewRenderer(screen tcell.Screen, view *Viewport, hud *HUD) *Renderer {
	r := &Renderer{screen: screen, canvas: NewTermCanvas(screen), View: view, HUD: hud}
	r.Resize()
	return r
}

// Layout splits a w×h screen into the viewport and HUD areas.
func Layout(w, h int) (view, hud image.Rectangle) {
	split := max(h-HUDHeight, 0)
	return image.Rect(0, 0, w, split), image.Rect(0, split, w, h)
}

// Resize recomputes the layout from the current screen size.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	view, _ := Layout(w, h)
	r.View.Resize(view)
}

// Canvas returns the canvas the viewport draws through.
func (r *Renderer) Canvas() *TermCanvas { return r.canvas }

// DrawFrame renders the viewport and HUD and shows the result.
func (r *Renderer) DrawFrame() {
	r.screen.Clear()
	r.View.Draw(r.canvas)
	if r.HUD != nil {
		w, h := r.screen.Size()
		_, area := Layout(w, h)
		r.HUD.Draw(r.screen, area, Status(r.View.Tracked), r.View.Palette)
	}
	r.screen.Show()
}
