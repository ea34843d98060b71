// Package content loads a world pack: a JSON manifest naming tilesets,
// sprite sheets and level descriptors. The Library it builds owns every
// Map for the session and resolves the keys maps use to refer to each
// other.
package content

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Manifest is the root file of a pack. Paths are relative to the manifest.
type Manifest struct {
	Name     string            `json:"name,omitempty"`
	Tilesets map[string]string `json:"tilesets"`
	Sprites  map[string]string `json:"sprites"`
	Maps     map[string]string `json:"maps"`
	Start    Start             `json:"start"`
	Palette  map[string]string `json:"palette,omitempty"`
}

// Start places the player.
type Start struct {
	Map    string  `json:"map"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Sprite string  `json:"sprite,omitempty"`
	Name   string  `json:"name,omitempty"`
}

// StyleDescriptor names tcell colours, e.g. "green" or "#336699".
type StyleDescriptor struct {
	Fg   string `json:"fg,omitempty"`
	Bg   string `json:"bg,omitempty"`
	Bold bool   `json:"bold,omitempty"`
}

// Style converts s to a tcell style. Empty or unknown colours keep the
// terminal default.
func (s StyleDescriptor) Style() tcell.Style {
	st := tcell.StyleDefault
	if s.Fg != "" {
		st = st.Foreground(tcell.GetColor(s.Fg))
	}
	if s.Bg != "" {
		st = st.Background(tcell.GetColor(s.Bg))
	}
	return st.Bold(s.Bold)
}

// TilesetDescriptor pairs tile ids with glyphs position by position.
// Styles are keyed by tile id.
type TilesetDescriptor struct {
	Tiles  [][]string                 `json:"tiles"`
	Glyphs [][]string                 `json:"glyphs"`
	Styles map[string]StyleDescriptor `json:"styles,omitempty"`
}

// SpriteDescriptor is a sheet whose rows are Animations and whose columns
// are Frames, each shown for Exposure milliseconds.
type SpriteDescriptor struct {
	Frames     int             `json:"frames"`
	Exposure   int             `json:"exposure"`
	Animations []string        `json:"animations"`
	Glyphs     [][]string      `json:"glyphs"`
	Style      StyleDescriptor `json:"style,omitempty"`
}

// LevelDescriptor is one map. Adjacency has exactly four entries in
// up, down, left, right order; null means no neighbour.
type LevelDescriptor struct {
	Tileset   string                    `json:"tileset"`
	Grid      [][]string                `json:"grid"`
	Adjacency []*string                 `json:"adjacency"`
	Entities  []EntityDescriptor        `json:"entities,omitempty"`
	TileType  map[string][]string       `json:"tileType,omitempty"`
	Warps     map[string]WarpDescriptor `json:"warps,omitempty"`
}

// Point is a tile-space position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is an extent in tiles.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EntityDescriptor places one entity. Type and the handler names select
// from the entity registry.
type EntityDescriptor struct {
	Name       string `json:"name,omitempty"`
	Sprite     string `json:"sprite,omitempty"`
	Position   Point  `json:"position"`
	Dimensions *Size  `json:"dimensions,omitempty"`
	Type       string `json:"type,omitempty"`
	Animation  string `json:"animation,omitempty"`
	OnUse      string `json:"onUse,omitempty"`
	OnHit      string `json:"onHit,omitempty"`
	Message    string `json:"message,omitempty"`
}

// WarpDescriptor links a tile to a named entry point on another map. A
// warp with no target map is only an entry point.
type WarpDescriptor struct {
	Row        int    `json:"row"`
	Column     int    `json:"column"`
	TargetMap  string `json:"targetMap,omitempty"`
	TargetWarp string `json:"targetWarp,omitempty"`
}

// Adjacent returns the neighbour key at index i of the adjacency list.
func (l *LevelDescriptor) Adjacent(i int) string {
	if i < 0 || i >= len(l.Adjacency) || l.Adjacency[i] == nil {
		return ""
	}
	return strings.TrimSpace(*l.Adjacency[i])
}

func (w WarpDescriptor) String() string {
	if w.TargetMap == "" {
		return fmt.Sprintf("entry [%d,%d]", w.Row, w.Column)
	}
	return fmt.Sprintf("[%d,%d] -> %s/%s", w.Row, w.Column, w.TargetMap, w.TargetWarp)
}
