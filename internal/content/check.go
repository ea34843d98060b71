package content

import (
	"fmt"

	"tilemosaic/internal/gamemap"
	"tilemosaic/internal/geom"
)

// Severity ranks a Finding.
type Severity uint8

const (
	Info Severity = iota
	Warning
	Problem
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	}
	return "problem"
}

// Finding is one diagnostic about a linked library.
type Finding struct {
	Severity Severity
	Map      string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Severity, f.Map, f.Message)
}

// Check inspects the linked library for conditions that load but behave
// surprisingly: one-way adjacency, wrap-around loops, warps that lead
// nowhere and tiles the tileset cannot draw. Run it after Setup.
func (l *Library) Check() []Finding {
	var out []Finding
	add := func(sev Severity, key, format string, args ...any) {
		out = append(out, Finding{Severity: sev, Map: key, Message: fmt.Sprintf(format, args...)})
	}
	for _, key := range l.MapKeys() {
		m := l.Maps[key]
		for _, d := range geom.Directions {
			n := m.Neighbor(d)
			if n == nil {
				continue
			}
			if back := n.Neighbor(d.Opposite()); back != m {
				add(Info, key, "%s neighbour %s does not link %s back", d, n.Key, d.Opposite())
			}
			if loopsBack(m, d) {
				add(Info, key, "walking %s returns to %s", d, key)
			}
		}
		for _, w := range m.Warps() {
			if w.TargetKey == "" {
				continue
			}
			if w.Target == nil {
				add(Problem, key, "warp %q targets unknown map %q", w.Name, w.TargetKey)
				continue
			}
			if _, ok := w.Target.ResolveWarpNamed(w.TargetWarp); !ok {
				add(Warning, key, "warp %q targets unknown entry %q on %s", w.Name, w.TargetWarp, w.TargetKey)
			}
		}
		if m.Tileset == nil {
			add(Problem, key, "no tileset")
			continue
		}
		missing := map[gamemap.Tile]bool{}
		m.Grid.Tiles(func(_, _ int, t gamemap.Tile) {
			if !m.Tileset.Has(string(t)) {
				missing[t] = true
			}
		})
		for _, t := range sortedKeys(missingNames(missing)) {
			add(Warning, key, "tile %q has no glyph in tileset %s", t, m.Tileset.Key)
		}
	}
	return out
}

// loopsBack reports whether following d from m arrives at m again.
func loopsBack(m *gamemap.Map, d geom.Direction) bool {
	cur := m.Neighbor(d)
	for i := 0; cur != nil && i < gamemap.MaxResolveSteps; i++ {
		if cur == m {
			return true
		}
		cur = cur.Neighbor(d)
	}
	return false
}

func missingNames(set map[gamemap.Tile]bool) map[string]bool {
	out := make(map[string]bool, len(set))
	for t := range set {
		out[string(t)] = true
	}
	return out
}

// Problems counts findings of Problem severity.
func Problems(fs []Finding) int {
	n := 0
	for _, f := range fs {
		if f.Severity == Problem {
			n++
		}
	}
	return n
}
