package generate

import (
	"sort"

	"tilemosaic/internal/content"
)

// Figure is a kind of entity a theme can place: who it is, how it looks
// and what it says when talked to.
type Figure struct {
	Key   string
	Name  string
	Glyph string
	Lines []string
}

// Theme dresses a generated pack: tile glyphs, the player, and the NPCs
// and items scattered through the rooms.
type Theme struct {
	Name    string
	Floor   string
	Wall    string
	Portal  string
	Styles  map[string]content.StyleDescriptor // by tile id
	Player  Figure
	NPCs    []Figure
	Items   []Figure
	Palette map[string]string
}

// Themes lists the built-in themes by name.
var Themes = map[string]Theme{
	"spire": {
		Name:   "Crystalline Labs",
		Floor:  "·",
		Wall:   "🧊",
		Portal: "🌀",
		Styles: map[string]content.StyleDescriptor{
			TileFloor: {Fg: "darkcyan"},
		},
		Player: Figure{Key: "player", Name: "Arcanist", Glyph: "🧙"},
		NPCs: []Figure{
			{Key: "crawl", Name: "Crystal Crawl", Glyph: "🦀", Lines: []string{
				"Frost-rimed walls hum with contained experiments.",
				"The crystals have started humming. It is not resonance.",
			}},
			{Key: "specter", Name: "Neon Specter", Glyph: "👻", Lines: []string{
				"Lab logs reference Phase III. Phase I and II are absent.",
				"DO NOT TOUCH THE CRYSTALS.",
			}},
			{Key: "golem", Name: "Fractal Golem", Glyph: "🗿", Lines: []string{
				"Every gear turns in perfect synchrony.",
			}},
		},
		Items: []Figure{
			{Key: "flask", Name: "Hyperflask", Glyph: "🧪"},
			{Key: "shard", Name: "Prism Shard", Glyph: "💎"},
			{Key: "scroll", Name: "Memory Scroll", Glyph: "📜"},
		},
		Palette: map[string]string{"background": "black", "fade": "navy"},
	},
	"warrens": {
		Name:   "Bioluminescent Warrens",
		Floor:  ",",
		Wall:   "🍄",
		Portal: "🕳️",
		Styles: map[string]content.StyleDescriptor{
			TileFloor: {Fg: "green"},
		},
		Player: Figure{Key: "player", Name: "Symbiont", Glyph: "🧬"},
		NPCs: []Figure{
			{Key: "leech", Name: "Thought Leech", Glyph: "🧠", Lines: []string{
				"Please do not think loudly.",
				"The walls breathe. This is not a metaphor.",
			}},
			{Key: "tendril", Name: "Void Tendril", Glyph: "🪱", Lines: []string{
				"The mycelium network has opinions about you specifically.",
			}},
		},
		Items: []Figure{
			{Key: "flask", Name: "Hyperflask", Glyph: "🧪"},
			{Key: "cube", Name: "Tesseract Cube", Glyph: "📦"},
		},
		Palette: map[string]string{"background": "black", "fade": "darkgreen"},
	},
}

// ThemeNames returns the built-in theme names in sorted order.
func ThemeNames() []string {
	out := make([]string, 0, len(Themes))
	for name := range Themes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// tileset describes the theme's three tiles.
func (t Theme) tileset() *content.TilesetDescriptor {
	return &content.TilesetDescriptor{
		Tiles:  [][]string{{TileFloor, TileWall, TilePortal}},
		Glyphs: [][]string{{t.Floor, t.Wall, t.Portal}},
		Styles: t.Styles,
	}
}

// figureSprite is a one-frame idle sheet.
func figureSprite(f Figure) *content.SpriteDescriptor {
	return &content.SpriteDescriptor{
		Frames:     1,
		Exposure:   250,
		Animations: []string{"idle"},
		Glyphs:     [][]string{{f.Glyph}},
	}
}

// playerSprite has a two-frame walk per direction; one play-through lasts
// 250ms, which sets the player's speed to one tile per 250ms.
func playerSprite(f Figure) *content.SpriteDescriptor {
	anims := []string{"walk-up", "walk-down", "walk-left", "walk-right"}
	glyphs := make([][]string, len(anims))
	for i := range glyphs {
		glyphs[i] = []string{f.Glyph, f.Glyph}
	}
	return &content.SpriteDescriptor{
		Frames:     2,
		Exposure:   125,
		Animations: anims,
		Glyphs:     glyphs,
	}
}
