package gamemap

import (
	"time"

	"tilemosaic/internal/geom"
)

// Occupant is anything placed on a map that blocks the tiles under its
// footprint.
type Occupant interface {
	Footprint() geom.Rect
}

// Updater is implemented by occupants that advance every frame.
type Updater interface {
	Update(frame uint64, elapsed time.Duration)
}

// Place adds o to the map. Placing an occupant twice is a no-op.
func (m *Map) Place(o Occupant) {
	for _, existing := range m.occupants {
		if existing == o {
			return
		}
	}
	m.occupants = append(m.occupants, o)
}

// Remove takes o off the map and drops any reservation it holds here.
func (m *Map) Remove(o Occupant) bool {
	for cell, r := range m.reserved {
		if r == o {
			delete(m.reserved, cell)
		}
	}
	for i, existing := range m.occupants {
		if existing == o {
			m.occupants = append(m.occupants[:i], m.occupants[i+1:]...)
			return true
		}
	}
	return false
}

// Occupants returns the occupants in placement order. The slice is owned by
// the map and must not be modified.
func (m *Map) Occupants() []Occupant { return m.occupants }

// Reserve marks (row, column) as claimed by o, typically the destination of
// an in-flight move, so that no one else can enter it meanwhile.
func (m *Map) Reserve(row, column int, o Occupant) {
	m.reserved[geom.Cell{Row: row, Column: column}] = o
}

// Release drops o's claim on (row, column).
func (m *Map) Release(row, column int, o Occupant) {
	cell := geom.Cell{Row: row, Column: column}
	if m.reserved[cell] == o {
		delete(m.reserved, cell)
	}
}

// QueryOccupant returns the occupant whose footprint or reservation covers
// (row, column), ignoring exclude. The coordinates are local to m.
func (m *Map) QueryOccupant(row, column int, exclude Occupant) Occupant {
	for _, o := range m.occupants {
		if o == exclude {
			continue
		}
		if o.Footprint().Contains(row, column) {
			return o
		}
	}
	if o, ok := m.reserved[geom.Cell{Row: row, Column: column}]; ok && o != exclude {
		return o
	}
	return nil
}
