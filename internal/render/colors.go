package render

import "github.com/gdamore/tcell/v2"

// Palette holds the colours the renderer uses outside of tiles and sprites.
// Emoji carry their own colours, so only backgrounds and chrome are themed.
type Palette struct {
	Background tcell.Color // exposed past the edge of the world
	Fade       tcell.Color // transition overlay
	Separator  tcell.Color
	Status     tcell.Color
	Message    tcell.Color
}

// DefaultPalette is black space with a black fade and gray chrome.
func DefaultPalette() Palette {
	return Palette{
		Background: tcell.ColorBlack,
		Fade:       tcell.ColorBlack,
		Separator:  tcell.ColorGray,
		Status:     tcell.ColorWhite,
		Message:    tcell.ColorLightYellow,
	}
}

// ParsePalette overrides the defaults with any named colours in names,
// keyed by field name in lower case. Unknown colour names are ignored.
func ParsePalette(names map[string]string) Palette {
	p := DefaultPalette()
	set := func(key string, dst *tcell.Color) {
		if n, ok := names[key]; ok {
			if c := tcell.GetColor(n); c != tcell.ColorDefault {
				*dst = c
			}
		}
	}
	set("background", &p.Background)
	set("fade", &p.Fade)
	set("separator", &p.Separator)
	set("status", &p.Status)
	set("message", &p.Message)
	return p
}
