package generate

// carveCorridor digs a tunnel between (x1,y1) and (x2,y2) in the configured
// style.
func carveCorridor(l *level, x1, y1, x2, y2 int, cfg *Config) {
	switch cfg.CorridorStyle {
	case CorridorZShaped:
		carveZShaped(l, x1, y1, x2, y2)
	case CorridorStraight:
		carveH(l, x1, x2, y1)
		carveV(l, y1, y2, x2)
	default: // LShaped
		if cfg.Rand.Intn(2) == 0 {
			carveH(l, x1, x2, y1)
			carveV(l, y1, y2, x2)
		} else {
			carveV(l, y1, y2, x1)
			carveH(l, x1, x2, y2)
		}
	}
}

func carveH(l *level, x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		if l.InBounds(x, y) && l.At(x, y) == TileWall {
			l.Set(x, y, TileFloor)
		}
	}
}

func carveV(l *level, y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		if l.InBounds(x, y) && l.At(x, y) == TileWall {
			l.Set(x, y, TileFloor)
		}
	}
}

func carveZShaped(l *level, x1, y1, x2, y2 int) {
	midY := (y1 + y2) / 2
	carveV(l, y1, midY, x1)
	carveH(l, x1, x2, midY)
	carveV(l, midY, y2, x2)
}
