package generate

import (
	"encoding/json"
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"tilemosaic/internal/content"
	"tilemosaic/internal/entity"
	"tilemosaic/internal/geom"
)

func quiet() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func small(seed int64) Config {
	cfg := DefaultConfig(seed)
	cfg.MapWidth, cfg.MapHeight = 30, 18
	return cfg
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(small(7))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(small(7))
	if err != nil {
		t.Fatal(err)
	}
	ja, _ := json.Marshal(a.Files())
	jb, _ := json.Marshal(b.Files())
	if string(ja) != string(jb) {
		t.Fatal("same seed produced different packs")
	}
	c, err := Generate(small(8))
	if err != nil {
		t.Fatal(err)
	}
	jc, _ := json.Marshal(c.Files())
	if string(ja) == string(jc) {
		t.Error("different seeds produced identical packs")
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	cfg := small(1)
	cfg.Rows = 0
	if _, err := Generate(cfg); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("Generate = %v, want ErrBadConfig", err)
	}
}

func TestGenerateAdjacency(t *testing.T) {
	cases := []struct {
		name string
		wrap bool
	}{
		{"bounded", false},
		{"wrapped", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := small(3)
			cfg.Wrap = tc.wrap
			p, err := Generate(cfg)
			if err != nil {
				t.Fatal(err)
			}
			for key, d := range p.Levels {
				if len(d.Adjacency) != 4 {
					t.Fatalf("%s: adjacency %d entries", key, len(d.Adjacency))
				}
				for i, dir := range geom.Directions {
					n := d.Adjacent(i)
					if n == "" {
						if tc.wrap {
							t.Errorf("%s: no %s neighbour in a wrapped lattice", key, dir)
						}
						continue
					}
					back := p.Levels[n].Adjacent(int(dir.Opposite()))
					if back != key {
						t.Errorf("%s %s -> %s, but %s %s -> %q", key, dir, n, n, dir.Opposite(), back)
					}
				}
			}
			if !tc.wrap {
				if got := p.Levels[MapKey(0, 0)].Adjacent(int(geom.Left)); got != "" {
					t.Errorf("r0c0 left = %q, want none", got)
				}
			}
		})
	}
}

// Every map must be enterable from each neighbour: the tile on one side of
// a shared edge that is walkable has a walkable partner on the other side.
func TestGenerateEdgesOpen(t *testing.T) {
	cfg := small(11)
	p, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	walk := func(id string) bool { return id == TileFloor || id == TilePortal }
	for r := range cfg.Rows {
		for c := range cfg.Columns {
			g := p.Levels[MapKey(r, c)].Grid
			if c+1 < cfg.Columns {
				right := p.Levels[MapKey(r, c+1)].Grid
				open := 0
				for y := range cfg.MapHeight {
					if walk(g[y][cfg.MapWidth-1]) {
						open++
						if !walk(right[y][0]) {
							t.Errorf("r%dc%d row %d opens onto a wall", r, c, y)
						}
					}
				}
				if open == 0 {
					t.Errorf("r%dc%d has no opening to the right", r, c)
				}
			}
			if r+1 < cfg.Rows {
				down := p.Levels[MapKey(r+1, c)].Grid
				open := 0
				for x := range cfg.MapWidth {
					if walk(g[cfg.MapHeight-1][x]) {
						open++
						if !walk(down[0][x]) {
							t.Errorf("r%dc%d column %d opens onto a wall", r, c, x)
						}
					}
				}
				if open == 0 {
					t.Errorf("r%dc%d has no opening downward", r, c)
				}
			}
		}
	}
}

func TestPackLibrary(t *testing.T) {
	p, err := Generate(small(5))
	if err != nil {
		t.Fatal(err)
	}
	lib, err := p.Library(quiet())
	if err != nil {
		t.Fatalf("Library: %v", err)
	}
	if err := lib.Setup(entity.DefaultRegistry(nil)); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if n := content.Problems(lib.Check()); n != 0 {
		t.Fatalf("Check found %d problems: %v", n, lib.Check())
	}
	if len(lib.Entities) == 0 {
		t.Error("no entities placed")
	}

	first, _ := lib.Lookup(MapKey(0, 0))
	last, _ := lib.Lookup(MapKey(1, 2))
	var portal bool
	for _, w := range first.Warps() {
		if w.Name == PortalWarp {
			portal = true
			if w.Target != last {
				t.Errorf("portal target = %v, want %v", w.Target, last)
			}
		}
	}
	if !portal {
		t.Fatal("first map has no portal")
	}

	pl, err := lib.SpawnStart()
	if err != nil {
		t.Fatalf("SpawnStart: %v", err)
	}
	if pl.Map != first {
		t.Errorf("player on %v, want %v", pl.Map, first)
	}
}

func TestSingleMapWrapsOntoItself(t *testing.T) {
	cfg := small(2)
	cfg.Columns, cfg.Rows, cfg.Wrap = 1, 1, true
	p, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	lib, err := p.Library(quiet())
	if err != nil {
		t.Fatal(err)
	}
	if err := lib.Setup(entity.DefaultRegistry(nil)); err != nil {
		t.Fatal(err)
	}
	m, _ := lib.Lookup(MapKey(0, 0))
	loc, ok := m.ResolveTile(-1, m.Width())
	if !ok || loc.Map != m || loc.Row != m.Height()-1 || loc.Column != 0 {
		t.Fatalf("ResolveTile(-1, w) = %+v, %v", loc, ok)
	}
	if len(m.Warps()) != 0 {
		t.Error("a one-map lattice should carry no portal")
	}
}

func TestWriteThenLoad(t *testing.T) {
	p, err := Generate(small(9))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := p.Write(dir); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lib, err := content.Load(os.DirFS(dir), "manifest.json", quiet())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(lib.MapKeys(), []string{"r0c0", "r0c1", "r0c2", "r1c0", "r1c1", "r1c2"}) {
		t.Errorf("MapKeys = %v", lib.MapKeys())
	}
	if got := lib.Manifest.Start; got != p.Manifest.Start {
		t.Errorf("start = %+v, want %+v", got, p.Manifest.Start)
	}
}

func TestThemeNames(t *testing.T) {
	got := ThemeNames()
	if !reflect.DeepEqual(got, []string{"spire", "warrens"}) {
		t.Fatalf("ThemeNames = %v", got)
	}
}
