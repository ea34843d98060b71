package gamemap

import (
	"errors"
	"fmt"

	"tilemosaic/internal/geom"
)

var (
	ErrWarpOutOfBounds = errors.New("warp lies outside the map")
	ErrDuplicateWarp   = errors.New("duplicate warp")
)

// Warp is a named teleport link from one tile to a named entry point on a
// target map. Target is nil until Link resolves TargetKey.
type Warp struct {
	Name       string
	Cell       geom.Cell
	TargetKey  string
	Target     *Map
	TargetWarp string
}

// AddWarp registers a warp named name at cell. The name doubles as an entry
// point other warps can target.
func (m *Map) AddWarp(name string, cell geom.Cell, targetKey, targetWarp string) error {
	if !m.Grid.InBounds(cell.Row, cell.Column) {
		return fmt.Errorf("map %q warp %q at %v: %w", m.Key, name, cell, ErrWarpOutOfBounds)
	}
	if _, ok := m.warpNames[name]; ok {
		return fmt.Errorf("map %q warp %q: %w", m.Key, name, ErrDuplicateWarp)
	}
	if _, ok := m.warps[cell]; ok {
		return fmt.Errorf("map %q warp %q at %v: %w", m.Key, name, cell, ErrDuplicateWarp)
	}
	m.warpNames[name] = cell
	m.warps[cell] = &Warp{Name: name, Cell: cell, TargetKey: targetKey, TargetWarp: targetWarp}
	return nil
}

// ResolveWarp returns the warp authored at exactly (row, column) on m.
func (m *Map) ResolveWarp(row, column int) (*Warp, bool) {
	w, ok := m.warps[geom.Cell{Row: row, Column: column}]
	return w, ok
}

// ResolveWarpNamed returns the cell of the named entry point on m.
func (m *Map) ResolveWarpNamed(name string) (geom.Cell, bool) {
	c, ok := m.warpNames[name]
	return c, ok
}

// Warps returns every warp on m in no particular order.
func (m *Map) Warps() []*Warp {
	out := make([]*Warp, 0, len(m.warps))
	for _, w := range m.warps {
		out = append(out, w)
	}
	return out
}
