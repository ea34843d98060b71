// Package entity implements the things that live on maps: their one-tile
// movement state machine, warp completion, facing interaction, and the
// registry that builds them from level descriptors.
package entity

import (
	"image"
	"math"
	"time"

	"tilemosaic/internal/gamemap"
	"tilemosaic/internal/geom"
	"tilemosaic/internal/gfx"
)

// DefaultSpeed is used when no sprite sheet sets the pace, in tiles per
// millisecond.
const DefaultSpeed = 1.0 / 250

// DefaultAttackTime is how long an attack lasts without a sprite sheet.
const DefaultAttackTime = 250 * time.Millisecond

// State is the movement state of an Entity.
type State uint8

const (
	Idle State = iota
	Moving
	Attacking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case Attacking:
		return "attacking"
	}
	return "unknown"
}

// Handler is an interaction bound to an entity at construction time.
// target is the entity that owns the handler; actor triggered it.
type Handler func(target, actor *Entity)

// Controller drives an entity each update. Control runs before the move
// advances; Moved runs on the frame a move completes, after warp
// resolution.
type Controller interface {
	Control(e *Entity, elapsed time.Duration)
	Moved(e *Entity, warped bool)
}

// Entity is an occupant of a map with a sub-tile position.
//
// While a move is in flight Location stays in the origin map's frame, even
// when the destination lies on a neighbour. The map changes only in
// CompleteMove.
type Entity struct {
	Name     string
	Type     string
	Location geom.Rect
	Map      *gamemap.Map
	Sprite   *gfx.Sprite
	Speed    float64 // tiles per millisecond

	OnUse      Handler
	OnHit      Handler
	Controller Controller

	state      State
	movement   geom.Direction
	facing     geom.Direction
	target     geom.Point
	targetData gamemap.Location
	attackLeft time.Duration
	lastFrame  uint64
}

// New returns an idle 1x1 entity at (x, y). It is not placed on m until
// Spawn is called.
func New(name string, m *gamemap.Map, x, y float64) *Entity {
	return &Entity{
		Name:     name,
		Location: geom.NewRect(x, y, 1, 1),
		Map:      m,
		Speed:    DefaultSpeed,
		movement: geom.None,
		facing:   geom.None,
	}
}

// SetSprite attaches s and derives the speed so that one play-through of a
// movement animation covers exactly one tile.
// A sprite without a sheet is ignored.
func (e *Entity) SetSprite(s *gfx.Sprite) {
	if s == nil || s.Sheet == nil {
		e.Sprite = nil
		return
	}
	e.Sprite = s
	if cycle := s.Sheet.Cycle(); cycle > 0 {
		e.Speed = float64(time.Millisecond) / float64(cycle)
	}
}

// Spawn places e on its map.
func (e *Entity) Spawn() {
	if e.Map != nil {
		e.Map.Place(e)
	}
}

// Footprint implements gamemap.Occupant.
func (e *Entity) Footprint() geom.Rect { return e.Location }

// State returns the current movement state.
func (e *Entity) State() State { return e.state }

// Movement returns the direction of the move in flight, or geom.None.
func (e *Entity) Movement() geom.Direction { return e.movement }

// Facing returns the last direction e moved, tried to move or attacked in.
func (e *Entity) Facing() geom.Direction { return e.facing }

// SetFacing turns e without moving it.
func (e *Entity) SetFacing(d geom.Direction) { e.facing = d }

// Target returns the resolved destination captured when the current move
// started.
func (e *Entity) Target() gamemap.Location { return e.targetData }

// Cell returns the tile e occupies, from its floored location.
func (e *Entity) Cell() geom.Cell { return e.Location.Point.Floor() }

// Update advances e by one frame: its controller, its move or attack, and
// its sprite. Repeated calls within the same frame are ignored, so the
// viewport can drive the tracked entity ahead of its map.
func (e *Entity) Update(frame uint64, elapsed time.Duration) {
	if frame != 0 && e.lastFrame == frame {
		return
	}
	e.lastFrame = frame
	if e.Controller != nil {
		e.Controller.Control(e, elapsed)
	}
	if e.Advance(elapsed) {
		warped := e.CompleteMove()
		if e.Controller != nil {
			e.Controller.Moved(e, warped)
		}
	}
	if e.Sprite != nil {
		e.Sprite.Update(elapsed)
	}
}

// Draw renders e relative to origin, the screen position of tile (0, 0) of
// the frame e's Location is expressed in. cell is the size of one tile in
// screen cells.
func (e *Entity) Draw(c gfx.Canvas, origin, cell image.Point, clip image.Rectangle) {
	if e.Sprite == nil {
		return
	}
	at := image.Pt(
		origin.X+int(math.Floor(e.Location.X*float64(cell.X))),
		origin.Y+int(math.Floor(e.Location.Y*float64(cell.Y))),
	)
	size := image.Pt(
		int(math.Ceil(e.Location.Width*float64(cell.X))),
		int(math.Ceil(e.Location.Height*float64(cell.Y))),
	)
	e.Sprite.Draw(c, image.Rectangle{Min: at, Max: at.Add(size)}, clip)
}

func (e *Entity) String() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Type
}
