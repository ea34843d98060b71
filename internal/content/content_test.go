package content

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"tilemosaic/internal/entity"
	"tilemosaic/internal/gamemap"
	"tilemosaic/internal/geom"
)

const (
	manifestJSON = `{
  "name": "test",
  "tilesets": {"terrain": "tiles/terrain.json"},
  "sprites": {"hero": "sprites/hero.json"},
  "maps": {"a": "maps/a.json", "b": "maps/b.json"},
  "start": {"map": "a", "x": 0, "y": 0, "sprite": "hero", "name": "ana"}
}`
	terrainJSON = `{
  "tiles": [["g", "#"]],
  "glyphs": [[".", "#"]],
  "styles": {"g": {"fg": "green"}}
}`
	heroJSON = `{"frames": 2, "exposure": 100, "animations": ["walk-down"], "glyphs": [["@", "@"]]}`
	mapAJSON = `{
  "tileset": "terrain",
  "grid": [["g","g","g"],["g","g","g"],["g","g","#"]],
  "adjacency": [null, null, null, "b"],
  "tileType": {"walk": ["g"]},
  "warps": {"door": {"row": 1, "column": 1, "targetMap": "b", "targetWarp": "entry"}}
}`
	mapBJSON = `{
  "tileset": "terrain",
  "grid": [["g","g","g"],["g","g","g"],["g","g","g"]],
  "adjacency": [null, null, "a", null],
  "tileType": {"walk": ["g"]},
  "warps": {"entry": {"row": 2, "column": 2}},
  "entities": [
    {"name": "sage", "position": {"x": 1, "y": 0}, "onUse": "talk", "message": "hello"}
  ]
}`
)

func pack() fstest.MapFS {
	return fstest.MapFS{
		"pack/manifest.json":      {Data: []byte(manifestJSON)},
		"pack/tiles/terrain.json": {Data: []byte(terrainJSON)},
		"pack/sprites/hero.json":  {Data: []byte(heroJSON)},
		"pack/maps/a.json":        {Data: []byte(mapAJSON)},
		"pack/maps/b.json":        {Data: []byte(mapBJSON)},
	}
}

func quiet() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func load(t *testing.T, fsys fstest.MapFS) *Library {
	t.Helper()
	lib, err := Load(fsys, "pack/manifest.json", quiet())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return lib
}

func TestLoad(t *testing.T) {
	lib := load(t, pack())
	if got := lib.MapKeys(); strings.Join(got, ",") != "a,b" {
		t.Fatalf("MapKeys = %v", got)
	}
	if _, ok := lib.Tilesets["terrain"]; !ok {
		t.Fatal("terrain tileset missing")
	}
	hero, ok := lib.Sprites["hero"]
	if !ok {
		t.Fatal("hero sprite missing")
	}
	if hero.Cycle().Milliseconds() != 200 {
		t.Fatalf("hero cycle = %v, want 200ms", hero.Cycle())
	}
	a := lib.Maps["a"]
	if a.AdjacencyKeys[geom.Right] != "b" || a.AdjacencyKeys[geom.Up] != "" {
		t.Fatalf("a adjacency = %v", a.AdjacencyKeys)
	}
	if !a.TileTypes.CanTraverse("walk", "g") || a.TileTypes.CanTraverse("walk", "#") {
		t.Fatal("walk passability wrong")
	}
	// Nothing is linked before Setup.
	if a.Neighbor(geom.Right) != nil {
		t.Fatal("a linked before Setup")
	}
}

func TestLoadLogsSummary(t *testing.T) {
	log, hook := test.NewNullLogger()
	if _, err := Load(pack(), "pack/manifest.json", log); err != nil {
		t.Fatalf("Load: %v", err)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Message != "content loaded" {
		t.Fatalf("last entry = %+v", entry)
	}
	if entry.Data["maps"] != 2 {
		t.Fatalf("maps field = %v", entry.Data["maps"])
	}
}

func TestLoadInvalidLevels(t *testing.T) {
	cases := []struct {
		name  string
		level string
		err   error
	}{
		{
			"adjacency arity",
			`{"tileset": "terrain", "grid": [["g"]], "adjacency": [null, null, null]}`,
			ErrAdjacencyArity,
		},
		{
			"ragged grid",
			`{"tileset": "terrain", "grid": [["g","g"],["g"]], "adjacency": [null, null, null, null]}`,
			gamemap.ErrRaggedGrid,
		},
		{
			"empty grid",
			`{"tileset": "terrain", "grid": [], "adjacency": [null, null, null, null]}`,
			gamemap.ErrEmptyGrid,
		},
		{
			"warp outside grid",
			`{"tileset": "terrain", "grid": [["g"]], "adjacency": [null, null, null, null],
			  "warps": {"w": {"row": 3, "column": 0}}}`,
			gamemap.ErrWarpOutOfBounds,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := pack()
			fsys["pack/maps/b.json"] = &fstest.MapFile{Data: []byte(tc.level)}
			lib, err := Load(fsys, "pack/manifest.json", quiet())
			if !errors.Is(err, tc.err) {
				t.Fatalf("Load err = %v, want %v", err, tc.err)
			}
			if lib == nil {
				t.Fatal("Load returned no library")
			}
			if _, ok := lib.Maps["b"]; ok {
				t.Fatal("invalid map b was added")
			}
			if _, ok := lib.Maps["a"]; !ok {
				t.Fatal("valid map a was dropped")
			}
		})
	}
}

func TestLoadMissingFiles(t *testing.T) {
	fsys := pack()
	delete(fsys, "pack/sprites/hero.json")
	if _, err := Load(fsys, "pack/manifest.json", quiet()); err == nil || !strings.Contains(err.Error(), `sprite "hero"`) {
		t.Fatalf("Load err = %v", err)
	}
	if _, err := Load(fsys, "pack/missing.json", quiet()); err == nil {
		t.Fatal("Load of missing manifest succeeded")
	}
}

func TestSetupLinks(t *testing.T) {
	lib := load(t, pack())
	if err := lib.Setup(entity.DefaultRegistry(nil)); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	a, b := lib.Maps["a"], lib.Maps["b"]
	if a.Neighbor(geom.Right) != b || b.Neighbor(geom.Left) != a {
		t.Fatal("a and b not linked")
	}
	if a.Tileset == nil || a.Tileset.Key != "terrain" {
		t.Fatalf("a tileset = %v", a.Tileset)
	}
	w, ok := a.ResolveWarp(1, 1)
	if !ok || w.Target != b {
		t.Fatalf("door warp = %+v", w)
	}
	// Past the right edge of a resolves into b.
	loc, ok := a.ResolveTile(0, 3)
	if !ok || loc.Map != b || loc.Column != 0 {
		t.Fatalf("ResolveTile(0,3) = %+v, %v", loc, ok)
	}
	// Setup runs once.
	if err := lib.Setup(entity.DefaultRegistry(nil)); err != nil {
		t.Fatalf("second Setup: %v", err)
	}
	if len(lib.Entities) != 1 {
		t.Fatalf("entities = %d, want 1", len(lib.Entities))
	}
}

type inbox []string

func (i *inbox) Post(msg string) { *i = append(*i, msg) }

func TestSetupEntities(t *testing.T) {
	lib := load(t, pack())
	var msgs inbox
	if err := lib.Setup(entity.DefaultRegistry(&msgs)); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	b := lib.Maps["b"]
	o := b.QueryOccupant(0, 1, nil)
	sage, ok := o.(*entity.Entity)
	if !ok || sage.Name != "sage" || sage.Type != "npc" {
		t.Fatalf("occupant at b[0,1] = %v", o)
	}
	sage.OnUse(sage, entity.New("ana", b, 0, 0))
	if len(msgs) != 1 || !strings.Contains(msgs[0], "hello") {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestSetupReportsUnresolvedKeys(t *testing.T) {
	fsys := pack()
	fsys["pack/maps/b.json"] = &fstest.MapFile{Data: []byte(`{
  "tileset": "nope",
  "grid": [["g"]],
  "adjacency": ["zz", null, "a", null],
  "entities": [{"name": "ghost", "type": "spectre"}]
}`)}
	lib := load(t, fsys)
	err := lib.Setup(entity.DefaultRegistry(nil))
	for _, want := range []error{ErrUnknownKey, gamemap.ErrUnknownMap, entity.ErrUnknownType} {
		if !errors.Is(err, want) {
			t.Errorf("Setup err = %v, want %v in chain", err, want)
		}
	}
	b := lib.Maps["b"]
	if b.Neighbor(geom.Up) != nil || b.Neighbor(geom.Left) != lib.Maps["a"] {
		t.Fatal("resolvable links should survive unresolved ones")
	}
}

func TestSpawnStart(t *testing.T) {
	lib := load(t, pack())
	if err := lib.Setup(entity.DefaultRegistry(nil)); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	p, err := lib.SpawnStart()
	if err != nil {
		t.Fatalf("SpawnStart: %v", err)
	}
	if p.Name != "ana" || p.Type != "player" || p.Sprite == nil {
		t.Fatalf("player = %+v", p)
	}
	if p.Map != lib.Maps["a"] || lib.Maps["a"].QueryOccupant(0, 0, nil) != p {
		t.Fatal("player not placed on a")
	}

	lib.Manifest.Start.X = 9
	if _, err := lib.SpawnStart(); !errors.Is(err, ErrStartOutOfBounds) {
		t.Fatalf("out of bounds start err = %v", err)
	}
	lib.Manifest.Start = Start{Map: "zz"}
	if _, err := lib.SpawnStart(); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("unknown start map err = %v", err)
	}
	lib.Manifest.Start = Start{}
	if _, err := lib.SpawnStart(); !errors.Is(err, ErrNoStart) {
		t.Fatalf("empty start err = %v", err)
	}
}

func TestAddLevel(t *testing.T) {
	lib := NewLibrary(Manifest{}, quiet())
	road := "road"
	err := lib.AddLevel("road", &LevelDescriptor{
		Grid:      [][]string{{"g", "g"}},
		Adjacency: []*string{nil, nil, &road, &road},
	})
	if err != nil {
		t.Fatalf("AddLevel: %v", err)
	}
	if err := lib.AddLevel("bad", &LevelDescriptor{Grid: [][]string{{"g"}}}); !errors.Is(err, ErrAdjacencyArity) {
		t.Fatalf("AddLevel err = %v", err)
	}
	if got := lib.MapKeys(); len(got) != 1 || got[0] != "road" {
		t.Fatalf("MapKeys = %v", got)
	}
}

func TestCheck(t *testing.T) {
	fsys := pack()
	// b only links back to a; a's left loops to itself; c has a stray tile
	// and a warp to nowhere.
	fsys["pack/manifest.json"] = &fstest.MapFile{Data: []byte(strings.Replace(manifestJSON,
		`"b": "maps/b.json"`, `"b": "maps/b.json", "c": "maps/c.json"`, 1))}
	fsys["pack/maps/a.json"] = &fstest.MapFile{Data: []byte(strings.Replace(mapAJSON,
		`[null, null, null, "b"]`, `[null, null, "a", null]`, 1))}
	fsys["pack/maps/c.json"] = &fstest.MapFile{Data: []byte(`{
  "tileset": "terrain",
  "grid": [["g", "?"]],
  "adjacency": [null, null, null, null],
  "warps": {"hole": {"row": 0, "column": 0, "targetMap": "zz", "targetWarp": "x"}}
}`)}
	lib := load(t, fsys)
	_ = lib.Setup(entity.DefaultRegistry(nil))

	findings := lib.Check()
	want := []struct {
		sev  Severity
		key  string
		text string
	}{
		{Info, "a", "walking left returns to a"},
		{Info, "b", "left neighbour a does not link right back"},
		{Problem, "c", `warp "hole" targets unknown map "zz"`},
		{Warning, "c", `tile "?" has no glyph`},
	}
	for _, w := range want {
		found := false
		for _, f := range findings {
			if f.Severity == w.sev && f.Map == w.key && strings.Contains(f.Message, w.text) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing %s finding on %s containing %q in %v", w.sev, w.key, w.text, findings)
		}
	}
	if got := Problems(findings); got != 1 {
		t.Fatalf("Problems = %d, want 1", got)
	}
}

func TestCheckCleanPack(t *testing.T) {
	lib := load(t, pack())
	if err := lib.Setup(entity.DefaultRegistry(nil)); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if findings := lib.Check(); len(findings) != 0 {
		t.Fatalf("Check = %v", findings)
	}
}
