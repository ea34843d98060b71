// Package gamemap implements the map graph: fixed-size tile grids joined by
// directional adjacency links, with warps and the entities placed on them.
package gamemap

import (
	"errors"
	"fmt"
	"time"

	"tilemosaic/internal/geom"
	"tilemosaic/internal/gfx"
)

var ErrUnknownMap = errors.New("unknown map key")

// Registry resolves map keys during the link pass. The content library
// that owns every Map implements it.
type Registry interface {
	Lookup(key string) (*Map, bool)
}

// Map is one rectangular area of the world. Neighbours and warp targets are
// non-owning links; the content library owns every Map for the session.
type Map struct {
	Key       string
	Grid      *Grid
	Tileset   *gfx.Tileset
	TileTypes Passability

	// AdjacencyKeys holds the descriptor keys indexed by geom.Direction.
	// An empty key means no neighbour.
	AdjacencyKeys [4]string

	neighbors [4]*Map
	warps     map[geom.Cell]*Warp
	warpNames map[string]geom.Cell

	occupants []Occupant
	reserved  map[geom.Cell]Occupant
	lastFrame uint64
}

// New creates an unlinked map over grid.
func New(key string, grid *Grid) *Map {
	return &Map{
		Key:       key,
		Grid:      grid,
		TileTypes: Passability{},
		warps:     make(map[geom.Cell]*Warp),
		warpNames: make(map[string]geom.Cell),
		reserved:  make(map[geom.Cell]Occupant),
	}
}

// Width is the number of tile columns.
func (m *Map) Width() int { return m.Grid.Width() }

// Height is the number of tile rows.
func (m *Map) Height() int { return m.Grid.Height() }

// Neighbor returns the linked map in direction d, or nil.
func (m *Map) Neighbor(d geom.Direction) *Map {
	if !d.Valid() {
		return nil
	}
	return m.neighbors[d]
}

// SetNeighbor links n as the neighbour in direction d. Links are one-way.
func (m *Map) SetNeighbor(d geom.Direction, n *Map) {
	if !d.Valid() {
		return
	}
	m.neighbors[d] = n
	if n != nil {
		m.AdjacencyKeys[d] = n.Key
	} else {
		m.AdjacencyKeys[d] = ""
	}
}

// Link resolves adjacency and warp target keys through reg. Keys that do
// not resolve are left unlinked and reported together in the returned error.
func (m *Map) Link(reg Registry) error {
	var errs []error
	for _, d := range geom.Directions {
		key := m.AdjacencyKeys[d]
		if key == "" {
			m.neighbors[d] = nil
			continue
		}
		n, ok := reg.Lookup(key)
		if !ok {
			errs = append(errs, fmt.Errorf("map %q adjacency %s %q: %w", m.Key, d, key, ErrUnknownMap))
			continue
		}
		m.neighbors[d] = n
	}
	for _, w := range m.warps {
		if w.TargetKey == "" {
			// Entry point only.
			continue
		}
		t, ok := reg.Lookup(w.TargetKey)
		if !ok {
			errs = append(errs, fmt.Errorf("map %q warp %q target %q: %w", m.Key, w.Name, w.TargetKey, ErrUnknownMap))
			continue
		}
		w.Target = t
	}
	return errors.Join(errs...)
}

// Update advances every occupant that implements Updater. A map is updated
// at most once per frame no matter how many times it is reached.
func (m *Map) Update(frame uint64, elapsed time.Duration) {
	if frame != 0 && m.lastFrame == frame {
		return
	}
	m.lastFrame = frame
	// Occupants may move to another map while updating.
	snapshot := make([]Occupant, len(m.occupants))
	copy(snapshot, m.occupants)
	for _, o := range snapshot {
		if u, ok := o.(Updater); ok {
			u.Update(frame, elapsed)
		}
	}
}

func (m *Map) String() string {
	if m == nil {
		return "<nil map>"
	}
	return fmt.Sprintf("%s(%dx%d)", m.Key, m.Width(), m.Height())
}
