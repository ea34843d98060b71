package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"tilemosaic/internal/content"
)

// PortalWarp names the warp pair linking the first and last maps.
const PortalWarp = "portal"

// Pack is a generated world in descriptor form, ready to write to disk or
// to load straight into a Library.
type Pack struct {
	Manifest content.Manifest
	Tilesets map[string]*content.TilesetDescriptor
	Sprites  map[string]*content.SpriteDescriptor
	Levels   map[string]*content.LevelDescriptor
}

// MapKey names the map at row, column of the lattice.
func MapKey(row, column int) string { return fmt.Sprintf("r%dc%d", row, column) }

// Generate carves every map of the lattice, opens the edges between
// neighbours, links the first and last maps by a portal pair and places
// the theme's figures.
func Generate(cfg Config) (*Pack, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	levels := make([][]*level, cfg.Rows)
	for r := range levels {
		levels[r] = make([]*level, cfg.Columns)
		for c := range levels[r] {
			levels[r][c] = carveLevel(&cfg)
		}
	}

	at := func(r, c int) (*level, string, bool) {
		if cfg.Wrap {
			r = (r + cfg.Rows) % cfg.Rows
			c = (c + cfg.Columns) % cfg.Columns
		}
		if r < 0 || r >= cfg.Rows || c < 0 || c >= cfg.Columns {
			return nil, "", false
		}
		return levels[r][c], MapKey(r, c), true
	}

	// Open each shared edge at the same offset on both sides.
	for r := range cfg.Rows {
		for c := range cfg.Columns {
			here := levels[r][c]
			if there, _, ok := at(r, c+1); ok {
				y := 1 + cfg.Rand.Intn(cfg.MapHeight-2)
				openTo(here, cfg.MapWidth-1, y, &cfg)
				openTo(there, 0, y, &cfg)
			}
			if there, _, ok := at(r+1, c); ok {
				x := 1 + cfg.Rand.Intn(cfg.MapWidth-2)
				openTo(here, x, cfg.MapHeight-1, &cfg)
				openTo(there, x, 0, &cfg)
			}
		}
	}

	first := levels[0][0]
	startX, startY := first.Rooms[0].Center()
	occupied := make(map[keyedCell]bool)
	occupied[keyedCell{MapKey(0, 0), startX, startY}] = true

	p := &Pack{
		Manifest: content.Manifest{
			Name:     cfg.Theme.Name,
			Tilesets: map[string]string{"terrain": "tilesets/terrain.json"},
			Sprites:  make(map[string]string),
			Maps:     make(map[string]string),
			Start: content.Start{
				Map:    MapKey(0, 0),
				X:      float64(startX),
				Y:      float64(startY),
				Sprite: cfg.Theme.Player.Key,
				Name:   cfg.Theme.Player.Name,
			},
			Palette: cfg.Theme.Palette,
		},
		Tilesets: map[string]*content.TilesetDescriptor{"terrain": cfg.Theme.tileset()},
		Sprites:  make(map[string]*content.SpriteDescriptor),
		Levels:   make(map[string]*content.LevelDescriptor),
	}
	if cfg.Theme.Player.Glyph != "" {
		p.Sprites[cfg.Theme.Player.Key] = playerSprite(cfg.Theme.Player)
	} else {
		p.Manifest.Start.Sprite = ""
	}
	for _, f := range append(append([]Figure(nil), cfg.Theme.NPCs...), cfg.Theme.Items...) {
		p.Sprites[f.Key] = figureSprite(f)
	}
	for key := range p.Sprites {
		p.Manifest.Sprites[key] = "sprites/" + key + ".json"
	}

	for r := range cfg.Rows {
		for c := range cfg.Columns {
			key := MapKey(r, c)
			adj := make([]*string, 4)
			for i, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				if _, k, ok := at(r+d[0], c+d[1]); ok {
					adj[i] = &k
				}
			}
			p.Levels[key] = &content.LevelDescriptor{
				Tileset:   "terrain",
				Adjacency: adj,
				TileType:  map[string][]string{"walk": {TileFloor, TilePortal}},
			}
			p.Manifest.Maps[key] = "maps/" + key + ".json"
		}
	}

	if cfg.Rows*cfg.Columns > 1 {
		lastKey := MapKey(cfg.Rows-1, cfg.Columns-1)
		last := levels[cfg.Rows-1][cfg.Columns-1]
		fx, fy := first.Rooms[len(first.Rooms)-1].Center()
		if fx == startX && fy == startY {
			fx++ // one-room map: stand the portal beside the start
		}
		lx, ly := last.Rooms[0].Center()
		first.Set(fx, fy, TilePortal)
		last.Set(lx, ly, TilePortal)
		occupied[keyedCell{MapKey(0, 0), fx, fy}] = true
		occupied[keyedCell{lastKey, lx, ly}] = true
		p.Levels[MapKey(0, 0)].Warps = map[string]content.WarpDescriptor{
			PortalWarp: {Row: fy, Column: fx, TargetMap: lastKey, TargetWarp: PortalWarp},
		}
		p.Levels[lastKey].Warps = map[string]content.WarpDescriptor{
			PortalWarp: {Row: ly, Column: lx, TargetMap: MapKey(0, 0), TargetWarp: PortalWarp},
		}
	}

	for r := range cfg.Rows {
		for c := range cfg.Columns {
			key := MapKey(r, c)
			lv := levels[r][c]
			claimed := make(map[[2]int]bool)
			for cell := range occupied {
				if cell.Map == key {
					claimed[[2]int{cell.X, cell.Y}] = true
				}
			}
			d := p.Levels[key]
			d.Entities = populate(lv, &cfg, claimed)
			d.Grid = lv.Grid()
		}
	}
	return p, nil
}

// keyedCell is a tile on a named map.
type keyedCell struct {
	Map  string
	X, Y int
}

// openTo carves from the room nearest (x, y) out to the edge tile (x, y).
func openTo(lv *level, x, y int, cfg *Config) {
	room, ok := lv.nearestRoom(x, y)
	if !ok {
		return
	}
	cx, cy := room.Center()
	// Tunnel to the tile just inside the border, then break through, so the
	// border stays closed everywhere else.
	ix := min(max(x, 1), lv.Width-2)
	iy := min(max(y, 1), lv.Height-2)
	carveCorridor(lv, cx, cy, ix, iy, cfg)
	if lv.At(x, y) == TileWall {
		lv.Set(x, y, TileFloor)
	}
}

// Files returns every file of the pack keyed by its path relative to the
// manifest.
func (p *Pack) Files() map[string]any {
	files := map[string]any{"manifest.json": p.Manifest}
	for key, ts := range p.Tilesets {
		files[p.Manifest.Tilesets[key]] = ts
	}
	for key, sp := range p.Sprites {
		files[p.Manifest.Sprites[key]] = sp
	}
	for key, lv := range p.Levels {
		files[p.Manifest.Maps[key]] = lv
	}
	return files
}

// Write stores the pack under dir as indented JSON.
func (p *Pack) Write(dir string) error {
	var errs []error
	for name, v := range p.Files() {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			errs = append(errs, err)
			continue
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", name, err))
			continue
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Library builds the pack in memory without going through files.
func (p *Pack) Library(log logrus.FieldLogger) (*content.Library, error) {
	lib := content.NewLibrary(p.Manifest, log)
	var errs []error
	for key, d := range p.Tilesets {
		ts, err := content.BuildTileset(key, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lib.Tilesets[key] = ts
	}
	for key, d := range p.Sprites {
		sheet, err := content.BuildSpriteSheet(key, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lib.Sprites[key] = sheet
	}
	for key, d := range p.Levels {
		if err := lib.AddLevel(key, d); err != nil {
			errs = append(errs, err)
		}
	}
	return lib, errors.Join(errs...)
}
