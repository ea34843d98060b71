package generate

// Tile ids used by generated levels.
const (
	TileFloor  = "floor"
	TileWall   = "wall"
	TilePortal = "portal"
)

// Rect is an inclusive rectangle of tiles.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// Center returns the middle tile of r.
func (r Rect) Center() (int, int) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// Intersects reports whether r and o share a tile.
func (r Rect) Intersects(o Rect) bool {
	return r.X1 <= o.X2 && r.X2 >= o.X1 && r.Y1 <= o.Y2 && r.Y2 >= o.Y1
}

// Contains reports whether (x, y) lies in r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X1 && x <= r.X2 && y >= r.Y1 && y <= r.Y2
}

// level is a map being carved: walls everywhere until rooms and corridors
// are dug out.
type level struct {
	Width, Height int
	Rooms         []Rect
	tiles         [][]string
}

func newLevel(w, h int) *level {
	tiles := make([][]string, h)
	for y := range tiles {
		tiles[y] = make([]string, w)
		for x := range tiles[y] {
			tiles[y][x] = TileWall
		}
	}
	return &level{Width: w, Height: h, tiles: tiles}
}

func (l *level) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

func (l *level) At(x, y int) string { return l.tiles[y][x] }

func (l *level) Set(x, y int, id string) { l.tiles[y][x] = id }

// IsWalkable reports whether (x, y) is floor or portal.
func (l *level) IsWalkable(x, y int) bool {
	if !l.InBounds(x, y) {
		return false
	}
	t := l.tiles[y][x]
	return t == TileFloor || t == TilePortal
}

// Grid returns a copy of the tiles, row-major.
func (l *level) Grid() [][]string {
	out := make([][]string, l.Height)
	for y, row := range l.tiles {
		out[y] = append([]string(nil), row...)
	}
	return out
}

// nearestRoom returns the room whose centre is closest to (x, y).
func (l *level) nearestRoom(x, y int) (Rect, bool) {
	best, bestD := Rect{}, -1
	for _, r := range l.Rooms {
		cx, cy := r.Center()
		d := abs(cx-x) + abs(cy-y)
		if bestD < 0 || d < bestD {
			best, bestD = r, d
		}
	}
	return best, bestD >= 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
