// Package generate builds world packs procedurally: BSP rooms and corridors
// carved into each map of a lattice, with openings along every shared edge
// so walking off one map lands on floor in the next.
package generate

import (
	"errors"
	"fmt"
	"math/rand"
)

// CorridorStyle selects the shape of connecting tunnels.
type CorridorStyle uint8

const (
	CorridorLShaped CorridorStyle = iota
	CorridorZShaped
	CorridorStraight
)

var ErrBadConfig = errors.New("invalid generator config")

// Config drives generation of one pack.
type Config struct {
	// Columns and Rows size the lattice of maps.
	Columns, Rows int
	// Wrap links the last column back to the first and the last row back
	// to the first.
	Wrap bool

	MapWidth, MapHeight int
	MinLeafSize         int
	MaxLeafSize         int
	MinRoomSize         int
	RoomPadding         int
	CorridorStyle       CorridorStyle

	Theme       Theme
	NPCsPerMap  int
	ItemsPerMap int

	Rand *rand.Rand
}

// DefaultConfig returns a 3×2 lattice of 40×24 maps seeded with seed.
func DefaultConfig(seed int64) Config {
	return Config{
		Columns:     3,
		Rows:        2,
		MapWidth:    40,
		MapHeight:   24,
		MinLeafSize: 8,
		MaxLeafSize: 16,
		MinRoomSize: 4,
		RoomPadding: 1,
		Theme:       Themes["spire"],
		NPCsPerMap:  1,
		ItemsPerMap: 2,
		Rand:        rand.New(rand.NewSource(seed)),
	}
}

func (cfg *Config) validate() error {
	switch {
	case cfg.Columns < 1 || cfg.Rows < 1:
		return fmt.Errorf("%w: lattice %dx%d", ErrBadConfig, cfg.Columns, cfg.Rows)
	case cfg.MinLeafSize < cfg.MinRoomSize+2*max(cfg.RoomPadding, 1):
		return fmt.Errorf("%w: leaf size %d cannot hold a room", ErrBadConfig, cfg.MinLeafSize)
	case cfg.MapWidth < cfg.MinLeafSize || cfg.MapHeight < cfg.MinLeafSize:
		return fmt.Errorf("%w: map %dx%d smaller than a leaf", ErrBadConfig, cfg.MapWidth, cfg.MapHeight)
	case cfg.MinRoomSize < 3:
		return fmt.Errorf("%w: rooms must be at least 3 tiles", ErrBadConfig)
	case cfg.Rand == nil:
		return fmt.Errorf("%w: no random source", ErrBadConfig)
	}
	return nil
}

// bspLeaf is a node in the BSP tree.
type bspLeaf struct {
	X, Y, W, H  int
	left, right *bspLeaf
	room        *Rect
}

// split divides the leaf into two children, returning false when leaf is too small.
func (l *bspLeaf) split(cfg *Config) bool {
	if l.left != nil || l.right != nil {
		return false // already split
	}
	// Decide split direction: horizontal when taller, vertical when wider.
	splitH := cfg.Rand.Intn(2) == 0
	if l.W > l.H && float64(l.W)/float64(l.H) >= 1.25 {
		splitH = false
	} else if l.H > l.W && float64(l.H)/float64(l.W) >= 1.25 {
		splitH = true
	}

	maxSize := l.H
	if !splitH {
		maxSize = l.W
	}
	if maxSize <= cfg.MinLeafSize*2 {
		return false // too small to split
	}

	lo := cfg.MinLeafSize
	hi := maxSize - cfg.MinLeafSize
	if lo >= hi {
		return false
	}
	split := lo + cfg.Rand.Intn(hi-lo+1)

	if splitH {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: l.W, H: split}
		l.right = &bspLeaf{X: l.X, Y: l.Y + split, W: l.W, H: l.H - split}
	} else {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: split, H: l.H}
		l.right = &bspLeaf{X: l.X + split, Y: l.Y, W: l.W - split, H: l.H}
	}
	return true
}

// createRooms recursively carves rooms inside terminal leaves.
func (l *bspLeaf) createRooms(lv *level, cfg *Config) {
	if l.left != nil || l.right != nil {
		if l.left != nil {
			l.left.createRooms(lv, cfg)
		}
		if l.right != nil {
			l.right.createRooms(lv, cfg)
		}
		return
	}
	pad := cfg.RoomPadding
	minSize := cfg.MinRoomSize

	availW := max(l.W-2*pad, minSize)
	availH := max(l.H-2*pad, minSize)

	rw := minSize + cfg.Rand.Intn(max(1, availW-minSize+1))
	rh := minSize + cfg.Rand.Intn(max(1, availH-minSize+1))
	rw = max(min(rw, l.W-2*pad), 3)
	rh = max(min(rh, l.H-2*pad), 3)

	rx := l.X + pad + cfg.Rand.Intn(max(1, l.W-rw-2*pad+1))
	ry := l.Y + pad + cfg.Rand.Intn(max(1, l.H-rh-2*pad+1))

	// Keep a one-tile border so edges stay closed except at openings.
	rx, ry = max(rx, 1), max(ry, 1)
	if rx+rw >= lv.Width {
		rw = lv.Width - rx - 1
	}
	if ry+rh >= lv.Height {
		rh = lv.Height - ry - 1
	}
	if rw < 3 || rh < 3 {
		return
	}

	room := Rect{X1: rx, Y1: ry, X2: rx + rw - 1, Y2: ry + rh - 1}
	l.room = &room
	for y := room.Y1; y <= room.Y2; y++ {
		for x := room.X1; x <= room.X2; x++ {
			lv.Set(x, y, TileFloor)
		}
	}
	lv.Rooms = append(lv.Rooms, room)
}

// getRoom returns a room from this leaf or its descendants.
func (l *bspLeaf) getRoom() *Rect {
	if l.room != nil {
		return l.room
	}
	var lRoom, rRoom *Rect
	if l.left != nil {
		lRoom = l.left.getRoom()
	}
	if l.right != nil {
		rRoom = l.right.getRoom()
	}
	if lRoom == nil {
		return rRoom
	}
	return lRoom
}

// connectChildren carves corridors between the two children of a split leaf.
func (l *bspLeaf) connectChildren(lv *level, cfg *Config) {
	if l.left == nil || l.right == nil {
		return
	}
	l.left.connectChildren(lv, cfg)
	l.right.connectChildren(lv, cfg)

	lRoom := l.left.getRoom()
	rRoom := l.right.getRoom()
	if lRoom == nil || rRoom == nil {
		return
	}
	lCX, lCY := lRoom.Center()
	rCX, rCY := rRoom.Center()
	carveCorridor(lv, lCX, lCY, rCX, rCY, cfg)
}

// carveLevel runs BSP generation for one map.
func carveLevel(cfg *Config) *level {
	lv := newLevel(cfg.MapWidth, cfg.MapHeight)
	root := &bspLeaf{X: 0, Y: 0, W: cfg.MapWidth, H: cfg.MapHeight}

	leaves := []*bspLeaf{root}
	splitAny := true
	for splitAny {
		splitAny = false
		var next []*bspLeaf
		for _, leaf := range leaves {
			if leaf.left != nil || leaf.right != nil {
				next = append(next, leaf.left, leaf.right)
				continue
			}
			if leaf.W > cfg.MaxLeafSize || leaf.H > cfg.MaxLeafSize ||
				cfg.Rand.Float64() > 0.25 {
				if leaf.split(cfg) {
					next = append(next, leaf.left, leaf.right)
					splitAny = true
					continue
				}
			}
			next = append(next, leaf)
		}
		leaves = next
	}

	root.createRooms(lv, cfg)
	root.connectChildren(lv, cfg)
	if len(lv.Rooms) == 0 {
		// Leaves too cramped for padding; fall back to one central room.
		room := Rect{X1: 1, Y1: 1, X2: lv.Width - 2, Y2: lv.Height - 2}
		for y := room.Y1; y <= room.Y2; y++ {
			for x := room.X1; x <= room.X2; x++ {
				lv.Set(x, y, TileFloor)
			}
		}
		lv.Rooms = append(lv.Rooms, room)
	}
	return lv
}
