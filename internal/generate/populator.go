package generate

import (
	"tilemosaic/internal/content"
)

// populate places the theme's NPCs and items in lv's rooms. Tiles in
// occupied are never used and are claimed as placements are made.
func populate(lv *level, cfg *Config, occupied map[[2]int]bool) []content.EntityDescriptor {
	var out []content.EntityDescriptor
	if len(lv.Rooms) == 0 {
		return out
	}
	pick := func() (int, int, bool) {
		room := lv.Rooms[cfg.Rand.Intn(len(lv.Rooms))]
		x, y := pickFreeInRoom(room, cfg, occupied)
		if occupied[[2]int{x, y}] || !lv.IsWalkable(x, y) || lv.At(x, y) == TilePortal {
			return 0, 0, false
		}
		occupied[[2]int{x, y}] = true
		return x, y, true
	}

	for i := 0; i < cfg.NPCsPerMap && len(cfg.Theme.NPCs) > 0; i++ {
		f := cfg.Theme.NPCs[cfg.Rand.Intn(len(cfg.Theme.NPCs))]
		x, y, ok := pick()
		if !ok {
			continue
		}
		var line string
		if len(f.Lines) > 0 {
			line = f.Lines[cfg.Rand.Intn(len(f.Lines))]
		}
		out = append(out, content.EntityDescriptor{
			Name:      f.Name,
			Sprite:    f.Key,
			Position:  content.Point{X: float64(x), Y: float64(y)},
			Type:      "npc",
			Animation: "idle",
			OnUse:     "talk",
			Message:   line,
		})
	}

	for i := 0; i < cfg.ItemsPerMap && len(cfg.Theme.Items) > 0; i++ {
		f := cfg.Theme.Items[cfg.Rand.Intn(len(cfg.Theme.Items))]
		x, y, ok := pick()
		if !ok {
			continue
		}
		out = append(out, content.EntityDescriptor{
			Name:     f.Name,
			Sprite:   f.Key,
			Position: content.Point{X: float64(x), Y: float64(y)},
			Type:     "item",
			OnUse:    "pickup",
			OnHit:    "break",
		})
	}
	return out
}

// pickFreeInRoom tries up to 20 times to find an unoccupied position inside
// room. If all attempts hit an occupied tile it returns the last one tried
// and the caller rejects it.
func pickFreeInRoom(room Rect, cfg *Config, occupied map[[2]int]bool) (int, int) {
	const maxAttempts = 20
	var x, y int
	for range maxAttempts {
		x, y = randomInRoom(room, cfg)
		if !occupied[[2]int{x, y}] {
			return x, y
		}
	}
	return x, y
}

func randomInRoom(room Rect, cfg *Config) (int, int) {
	// Shrink by 1 from each edge so nothing blocks a corridor mouth.
	x1, y1 := room.X1+1, room.Y1+1
	x2, y2 := room.X2-1, room.Y2-1
	// Fall back to full room bounds for very small rooms.
	if x1 > x2 || y1 > y2 {
		x1, y1 = room.X1, room.Y1
		x2, y2 = room.X2, room.Y2
	}
	w := x2 - x1 + 1
	h := y2 - y1 + 1
	x := x1 + cfg.Rand.Intn(max(1, w))
	y := y1 + cfg.Rand.Intn(max(1, h))
	return x, y
}
