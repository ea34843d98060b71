package entity

import (
	"time"

	"tilemosaic/internal/gamemap"
	"tilemosaic/internal/geom"
)

// MoveResult describes the outcome of a TryMove call.
type MoveResult uint8

const (
	MoveOK         MoveResult = iota // move accepted
	MoveBusy                         // already moving or attacking
	MoveNoTile                       // destination does not resolve
	MoveCrossMap                     // destination on another map and crossing not allowed
	MoveImpassable                   // tile not in the mode's passable set
	MoveOccupied                     // another entity holds or has claimed the tile
)

func (r MoveResult) String() string {
	switch r {
	case MoveOK:
		return "ok"
	case MoveBusy:
		return "busy"
	case MoveNoTile:
		return "no tile"
	case MoveCrossMap:
		return "cross-map"
	case MoveImpassable:
		return "impassable"
	case MoveOccupied:
		return "occupied"
	}
	return "unknown"
}

// RequestMove starts a one-tile move in direction d using movement mode
// mode. It reports whether the move was accepted; a rejected request leaves
// position and state unchanged.
func (e *Entity) RequestMove(d geom.Direction, mode string, allowCrossMap bool) bool {
	return e.TryMove(d, mode, allowCrossMap) == MoveOK
}

// TryMove is RequestMove with the reason for a rejection.
//
// Facing is updated even when the move is rejected, so bumping into a wall
// still turns the entity. The destination is reserved on its map until the
// move completes.
func (e *Entity) TryMove(d geom.Direction, mode string, allowCrossMap bool) MoveResult {
	if e.state != Idle {
		return MoveBusy
	}
	if !d.Valid() {
		return MoveNoTile
	}
	e.facing = d
	e.play(mode+d.Suffix(), false)
	if e.Sprite != nil {
		e.Sprite.Stop(true)
	}

	if e.Map == nil {
		return MoveNoTile
	}
	if !e.Map.TileTypes.HasMode(mode) {
		return MoveImpassable
	}
	dest := e.Cell().Step(d)
	loc, ok := e.Map.ResolveCell(dest)
	if !ok {
		return MoveNoTile
	}
	_, hasWarp := loc.Map.ResolveWarp(loc.Row, loc.Column)
	if !allowCrossMap && loc.Map != e.Map && !hasWarp {
		return MoveCrossMap
	}
	if loc.Map.QueryOccupant(loc.Row, loc.Column, e) != nil {
		return MoveOccupied
	}
	// Passability is judged by the map the entity stands on.
	if !e.Map.TileTypes.CanTraverse(mode, loc.Tile) && !(allowCrossMap && hasWarp) {
		return MoveImpassable
	}

	e.state = Moving
	e.movement = d
	e.target = dest.Point()
	e.targetData = loc
	loc.Map.Reserve(loc.Row, loc.Column, e)
	e.play(mode+d.Suffix(), false)
	return MoveOK
}

// Advance moves e along its current move by elapsed at e.Speed. It returns
// true exactly once, on the call that lands e on the target tile; the
// position is then snapped to the target so no fractional drift remains.
// Attacks also count down here.
func (e *Entity) Advance(elapsed time.Duration) bool {
	switch e.state {
	case Moving:
		speed := e.Speed
		if speed <= 0 {
			speed = DefaultSpeed
		}
		axis := e.movement.Axis()
		sign := e.movement.Sign()
		ms := float64(elapsed) / float64(time.Millisecond)
		pos := e.Location.Point.Axis(axis) + sign*speed*ms
		if pos*sign >= e.target.Axis(axis)*sign {
			e.Location.Point = e.target
			e.state = Idle
			e.movement = geom.None
			if e.Sprite != nil {
				e.Sprite.Stop(true)
			}
			return true
		}
		e.Location.Point = e.Location.Point.WithAxis(axis, pos)
	case Attacking:
		e.attackLeft -= elapsed
		if e.attackLeft <= 0 {
			e.state = Idle
			if e.Sprite != nil {
				e.Sprite.Stop(true)
			}
		}
	}
	return false
}

// CompleteMove commits the move that Advance just finished: e moves onto
// the destination's map at the destination tile, and if that tile holds a
// warp whose named entry point resolves and is free, on to the warp's
// target. Unresolvable warps leave e on the plain tile. It reports whether
// a warp was taken.
func (e *Entity) CompleteMove() bool {
	dest := e.targetData
	e.targetData = gamemap.Location{}
	if dest.Map == nil {
		return false
	}
	dest.Map.Release(dest.Row, dest.Column, e)
	e.relocate(dest.Map, dest.Cell())

	w, ok := dest.Map.ResolveWarp(dest.Row, dest.Column)
	if !ok || w.Target == nil {
		return false
	}
	cell, ok := w.Target.ResolveWarpNamed(w.TargetWarp)
	if !ok {
		return false
	}
	if w.Target.QueryOccupant(cell.Row, cell.Column, e) != nil {
		return false
	}
	e.relocate(w.Target, cell)
	return true
}

// WarpTo puts e directly at cell on m, bypassing movement. Any move in
// flight is abandoned.
func (e *Entity) WarpTo(m *gamemap.Map, cell geom.Cell) {
	if e.targetData.Map != nil {
		e.targetData.Map.Release(e.targetData.Row, e.targetData.Column, e)
		e.targetData = gamemap.Location{}
	}
	e.state = Idle
	e.movement = geom.None
	e.relocate(m, cell)
}

func (e *Entity) relocate(m *gamemap.Map, cell geom.Cell) {
	if m != e.Map {
		if e.Map != nil {
			e.Map.Remove(e)
		}
		e.Map = m
	}
	m.Place(e)
	e.Location.Point = cell.Point()
}

// Interact invokes the OnUse handler of the entity directly in front of e,
// with e as the actor. It reports whether a handler ran.
func (e *Entity) Interact() bool {
	front := e.inFront()
	if front == nil || front.OnUse == nil {
		return false
	}
	front.OnUse(front, e)
	return true
}

// Attack swings in direction d. Like a move it is refused unless e is idle.
// The entity in front, if any, receives OnHit.
func (e *Entity) Attack(d geom.Direction) bool {
	if e.state != Idle || !d.Valid() {
		return false
	}
	e.facing = d
	e.state = Attacking
	e.attackLeft = DefaultAttackTime
	if e.Sprite != nil && e.Sprite.Sheet != nil {
		e.attackLeft = e.Sprite.Sheet.Cycle()
	}
	e.play("attack"+d.Suffix(), false, "walk"+d.Suffix())
	if front := e.inFront(); front != nil && front.OnHit != nil {
		front.OnHit(front, e)
	}
	return true
}

// inFront returns the entity occupying the tile e faces.
func (e *Entity) inFront() *Entity {
	if e.Map == nil || !e.facing.Valid() {
		return nil
	}
	loc, ok := e.Map.ResolveCell(e.Cell().Step(e.facing))
	if !ok {
		return nil
	}
	o, _ := loc.Map.QueryOccupant(loc.Row, loc.Column, e).(*Entity)
	return o
}

// play starts the first animation in names the sprite sheet knows.
func (e *Entity) play(name string, loop bool, fallbacks ...string) {
	if e.Sprite == nil || e.Sprite.Sheet == nil {
		return
	}
	for _, n := range append([]string{name}, fallbacks...) {
		if _, ok := e.Sprite.Sheet.Animation(n); ok {
			e.Sprite.Play(n, loop, true)
			return
		}
	}
	e.Sprite.Play("", loop, true)
}
