package render

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"tilemosaic/internal/entity"
)

// HUDHeight is the number of screen rows the HUD reserves at the bottom.
const HUDHeight = 5

const maxMessages = 50

// HUD is the status line and message log under the viewport. It receives
// interaction messages through Post.
type HUD struct {
	messages []string
}

// Post appends msg to the log, keeping the most recent lines.
func (h *HUD) Post(msg string) {
	h.messages = append(h.messages, msg)
	if len(h.messages) > maxMessages {
		h.messages = h.messages[len(h.messages)-maxMessages:]
	}
}

// Messages returns the log, oldest first.
func (h *HUD) Messages() []string { return h.messages }

// Status describes the tracked entity for the status line.
func Status(e *entity.Entity) string {
	if e == nil || e.Map == nil {
		return ""
	}
	c := e.Cell()
	return fmt.Sprintf("%s  map %s  row %d col %d  facing %s", e, e.Map.Key, c.Row, c.Column, e.Facing())
}

// Draw renders the HUD into area: a separator, the status line and the
// last messages that fit.
func (h *HUD) Draw(screen tcell.Screen, area image.Rectangle, status string, p Palette) {
	if area.Empty() {
		return
	}
	drawHLine(screen, area.Min.X, area.Max.X, area.Min.Y, p.Separator)
	if area.Dy() < 2 {
		return
	}
	drawText(screen, area.Min.X, area.Max.X, area.Min.Y+1, status, tcell.StyleDefault.Foreground(p.Status))

	lines := area.Dy() - 2
	start := max(len(h.messages)-lines, 0)
	for i, msg := range h.messages[start:] {
		drawText(screen, area.Min.X, area.Max.X, area.Min.Y+2+i, msg, tcell.StyleDefault.Foreground(p.Message))
	}
}

func drawHLine(screen tcell.Screen, x0, x1, y int, color tcell.Color) {
	style := tcell.StyleDefault.Foreground(color)
	for x := x0; x < x1; x++ {
		screen.SetContent(x, y, '─', nil, style)
	}
}

// drawText writes text from x0, stopping before a rune would cross x1.
// Wide runes advance two columns.
func drawText(screen tcell.Screen, x0, x1, y int, text string, style tcell.Style) {
	col := x0
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if col+w > x1 {
			break
		}
		screen.SetContent(col, y, ch, nil, style)
		col += w
	}
}
