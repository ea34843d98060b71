package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"tilemosaic/internal/gamemap"
	"tilemosaic/internal/geom"
	"tilemosaic/internal/gfx"
)

var (
	ErrAdjacencyArity   = errors.New("adjacency must have exactly 4 entries")
	ErrUnknownKey       = errors.New("unknown key")
	ErrNoStart          = errors.New("manifest has no start map")
	ErrStartOutOfBounds = errors.New("start position outside its map")
)

// decode reads a JSON file from fsys into v.
func decode(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Load reads the manifest at name and every file it lists. Files that fail
// to load or validate are left out of the Library and reported together in
// the returned error; the Library is still usable for what did load.
func Load(fsys fs.FS, name string, log logrus.FieldLogger) (*Library, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	var m Manifest
	if err := decode(fsys, name, &m); err != nil {
		return nil, err
	}
	lib := newLibrary(m, log)
	dir := path.Dir(name)

	var errs []error
	for _, key := range sortedKeys(m.Tilesets) {
		var d TilesetDescriptor
		if err := decode(fsys, path.Join(dir, m.Tilesets[key]), &d); err != nil {
			errs = append(errs, fmt.Errorf("tileset %q: %w", key, err))
			continue
		}
		ts, err := BuildTileset(key, &d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lib.Tilesets[key] = ts
	}
	for _, key := range sortedKeys(m.Sprites) {
		var d SpriteDescriptor
		if err := decode(fsys, path.Join(dir, m.Sprites[key]), &d); err != nil {
			errs = append(errs, fmt.Errorf("sprite %q: %w", key, err))
			continue
		}
		sheet, err := BuildSpriteSheet(key, &d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lib.Sprites[key] = sheet
	}
	for _, key := range sortedKeys(m.Maps) {
		var d LevelDescriptor
		if err := decode(fsys, path.Join(dir, m.Maps[key]), &d); err != nil {
			errs = append(errs, fmt.Errorf("map %q: %w", key, err))
			continue
		}
		if err := lib.AddLevel(key, &d); err != nil {
			errs = append(errs, err)
		}
	}
	if m.Start.Map == "" {
		errs = append(errs, ErrNoStart)
	}

	log.WithFields(logrus.Fields{
		"tilesets": len(lib.Tilesets),
		"sprites":  len(lib.Sprites),
		"maps":     len(lib.Maps),
	}).Info("content loaded")
	return lib, errors.Join(errs...)
}

// BuildTileset validates d and turns it into a gfx.Tileset.
func BuildTileset(key string, d *TilesetDescriptor) (*gfx.Tileset, error) {
	cells := make([][]gfx.Glyph, len(d.Glyphs))
	for r, row := range d.Glyphs {
		cells[r] = make([]gfx.Glyph, len(row))
		for c, text := range row {
			var style StyleDescriptor
			if r < len(d.Tiles) && c < len(d.Tiles[r]) {
				style = d.Styles[d.Tiles[r][c]]
			}
			g, err := gfx.ParseGlyph(text, style.Style())
			if err != nil {
				return nil, fmt.Errorf("tileset %q glyph [%d,%d]: %w", key, r, c, err)
			}
			cells[r][c] = g
		}
	}
	img, err := gfx.NewImage(key, cells)
	if err != nil {
		return nil, fmt.Errorf("tileset %q: %w", key, err)
	}
	return gfx.NewTileset(key, d.Tiles, img)
}

// BuildSpriteSheet validates d and turns it into a gfx.SpriteSheet.
func BuildSpriteSheet(key string, d *SpriteDescriptor) (*gfx.SpriteSheet, error) {
	style := d.Style.Style()
	cells := make([][]gfx.Glyph, len(d.Glyphs))
	for r, row := range d.Glyphs {
		cells[r] = make([]gfx.Glyph, len(row))
		for c, text := range row {
			g, err := gfx.ParseGlyph(text, style)
			if err != nil {
				return nil, fmt.Errorf("sprite %q glyph [%d,%d]: %w", key, r, c, err)
			}
			cells[r][c] = g
		}
	}
	img, err := gfx.NewImage(key, cells)
	if err != nil {
		return nil, fmt.Errorf("sprite %q: %w", key, err)
	}
	return gfx.NewSpriteSheet(key, img, d.Frames, time.Duration(d.Exposure)*time.Millisecond, d.Animations)
}

// BuildMap checks a level descriptor's structure and creates its unlinked
// Map. Key references are resolved later by Library.Setup.
func BuildMap(key string, d *LevelDescriptor) (*gamemap.Map, error) {
	if len(d.Adjacency) != 4 {
		return nil, fmt.Errorf("map %q: got %d: %w", key, len(d.Adjacency), ErrAdjacencyArity)
	}
	rows := make([][]gamemap.Tile, len(d.Grid))
	for r, row := range d.Grid {
		rows[r] = make([]gamemap.Tile, len(row))
		for c, id := range row {
			rows[r][c] = gamemap.Tile(id)
		}
	}
	grid, err := gamemap.NewGrid(rows)
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", key, err)
	}

	m := gamemap.New(key, grid)
	for _, dir := range geom.Directions {
		m.AdjacencyKeys[dir] = d.Adjacent(int(dir))
	}
	modes := make(map[string][]gamemap.Tile, len(d.TileType))
	for mode, ids := range d.TileType {
		for _, id := range ids {
			modes[mode] = append(modes[mode], gamemap.Tile(id))
		}
	}
	m.TileTypes = gamemap.NewPassability(modes)

	var errs []error
	for _, name := range sortedKeys(d.Warps) {
		w := d.Warps[name]
		cell := geom.Cell{Row: w.Row, Column: w.Column}
		if err := m.AddWarp(name, cell, w.TargetMap, w.TargetWarp); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
