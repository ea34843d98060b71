package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"tilemosaic/internal/gamemap"
	"tilemosaic/internal/geom"
	"tilemosaic/internal/gfx"
	"tilemosaic/internal/input"
)

type maps map[string]*gamemap.Map

func (m maps) Lookup(key string) (*gamemap.Map, bool) {
	v, ok := m[key]
	return v, ok
}

type inbox []string

func (b *inbox) Post(msg string) { *b = append(*b, msg) }

// field builds a w×h map of walkable "g" tiles with "#" walls at the given
// cells.
func field(t *testing.T, key string, w, h int, walls ...geom.Cell) *gamemap.Map {
	t.Helper()
	rows := make([][]gamemap.Tile, h)
	for r := range rows {
		rows[r] = make([]gamemap.Tile, w)
		for c := range rows[r] {
			rows[r][c] = "g"
		}
	}
	for _, c := range walls {
		rows[c.Row][c.Column] = "#"
	}
	g, err := gamemap.NewGrid(rows)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	m := gamemap.New(key, g)
	m.TileTypes = gamemap.NewPassability(map[string][]gamemap.Tile{WalkMode: {"g"}})
	return m
}

func spawn(m *gamemap.Map, name string, x, y float64) *Entity {
	e := New(name, m, x, y)
	e.Spawn()
	return e
}

// finish advances e in one large step and commits the move.
func finish(t *testing.T, e *Entity) bool {
	t.Helper()
	if !e.Advance(time.Second) {
		t.Fatalf("%s: move did not complete", e)
	}
	return e.CompleteMove()
}

func TestCrossMapMoveLandsOnNeighbour(t *testing.T) {
	a := field(t, "A", 10, 10)
	b := field(t, "B", 10, 10)
	a.SetNeighbor(geom.Right, b)
	e := spawn(a, "hero", 9, 9)

	if !e.RequestMove(geom.Right, WalkMode, true) {
		t.Fatal("move to B(9,0) should be accepted")
	}
	if e.Map != a {
		t.Fatal("map must not change before the move completes")
	}
	if got := e.Target(); got.Map != b || got.Row != 9 || got.Column != 0 {
		t.Fatalf("target = %v %d,%d; want B 9,0", got.Map, got.Row, got.Column)
	}
	e.Advance(100 * time.Millisecond)
	if e.Location.X <= 9 || e.Location.X >= 10 {
		t.Fatalf("mid-move X = %v, want in (9,10) in A's frame", e.Location.X)
	}
	if warped := finish(t, e); warped {
		t.Fatal("plain crossing reported a warp")
	}
	if e.Map != b || e.Location.Point != (geom.Point{X: 0, Y: 9}) {
		t.Fatalf("after move: map %v at %v; want B at (0, 9)", e.Map, e.Location.Point)
	}
	if len(a.Occupants()) != 0 || len(b.Occupants()) != 1 {
		t.Fatalf("occupants A=%d B=%d; want 0 and 1", len(a.Occupants()), len(b.Occupants()))
	}
}

func TestMoveOntoWarpTeleports(t *testing.T) {
	a := field(t, "A", 10, 10)
	c := field(t, "C", 10, 10)
	if err := a.AddWarp("door", geom.Cell{Row: 2, Column: 2}, "C", "entrance"); err != nil {
		t.Fatal(err)
	}
	if err := c.AddWarp("entrance", geom.Cell{Row: 5, Column: 5}, "", ""); err != nil {
		t.Fatal(err)
	}
	if err := a.Link(maps{"A": a, "C": c}); err != nil {
		t.Fatal(err)
	}
	e := spawn(a, "hero", 2, 1)

	if !e.RequestMove(geom.Down, WalkMode, true) {
		t.Fatal("move onto warp rejected")
	}
	if !finish(t, e) {
		t.Fatal("CompleteMove should report the warp")
	}
	if e.Map != c || e.Location.Point != (geom.Point{X: 5, Y: 5}) {
		t.Fatalf("after warp: %v at %v; want C at (5, 5)", e.Map, e.Location.Point)
	}
	if len(a.Occupants()) != 0 {
		t.Fatal("entity still listed on A")
	}
}

func TestWarpFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, a, c *gamemap.Map)
	}{
		{"unknown target warp name", func(t *testing.T, a, c *gamemap.Map) {
			if err := a.AddWarp("door", geom.Cell{Row: 2, Column: 2}, "C", "nowhere"); err != nil {
				t.Fatal(err)
			}
		}},
		{"unlinked target map", func(t *testing.T, a, c *gamemap.Map) {
			if err := a.AddWarp("door", geom.Cell{Row: 2, Column: 2}, "missing", "entrance"); err != nil {
				t.Fatal(err)
			}
		}},
		{"entry point occupied", func(t *testing.T, a, c *gamemap.Map) {
			if err := a.AddWarp("door", geom.Cell{Row: 2, Column: 2}, "C", "entrance"); err != nil {
				t.Fatal(err)
			}
			spawn(c, "guard", 5, 5)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := field(t, "A", 10, 10)
			c := field(t, "C", 10, 10)
			if err := c.AddWarp("entrance", geom.Cell{Row: 5, Column: 5}, "", ""); err != nil {
				t.Fatal(err)
			}
			tc.setup(t, a, c)
			_ = a.Link(maps{"A": a, "C": c})
			e := spawn(a, "hero", 2, 1)
			if !e.RequestMove(geom.Down, WalkMode, true) {
				t.Fatal("move rejected")
			}
			if finish(t, e) {
				t.Fatal("warp should not have been taken")
			}
			if e.Map != a || e.Location.Point != (geom.Point{X: 2, Y: 2}) {
				t.Fatalf("entity at %v %v; want A (2, 2)", e.Map, e.Location.Point)
			}
		})
	}
}

func TestRejectedMovesLeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		dir   geom.Direction
		mode  string
		cross bool
		want  MoveResult
	}{
		{"wall", geom.Right, WalkMode, true, MoveImpassable},
		{"unknown mode", geom.Left, "swim", true, MoveImpassable},
		{"world edge", geom.Up, WalkMode, true, MoveNoTile},
		{"occupied", geom.Down, WalkMode, true, MoveOccupied},
		{"cross-map disallowed", geom.Left, WalkMode, false, MoveCrossMap},
		{"no direction", geom.None, WalkMode, true, MoveNoTile},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := field(t, "A", 5, 5, geom.Cell{Row: 0, Column: 1})
			left := field(t, "L", 5, 5)
			a.SetNeighbor(geom.Left, left)
			spawn(a, "rock", 0, 1)
			e := spawn(a, "hero", 0, 0)

			if got := e.TryMove(tc.dir, tc.mode, tc.cross); got != tc.want {
				t.Fatalf("TryMove = %v, want %v", got, tc.want)
			}
			if e.State() != Idle || e.Location.Point != (geom.Point{}) || e.Map != a {
				t.Fatalf("state %v at %v on %v; want idle at origin on A", e.State(), e.Location.Point, e.Map)
			}
			if tc.dir.Valid() && e.Facing() != tc.dir {
				t.Fatalf("facing = %v, want %v after a rejected move", e.Facing(), tc.dir)
			}
		})
	}
}

func TestCrossMapDisallowedExceptThroughWarp(t *testing.T) {
	a := field(t, "A", 3, 3)
	b := field(t, "B", 3, 3)
	a.SetNeighbor(geom.Right, b)
	if err := b.AddWarp("gate", geom.Cell{Row: 0, Column: 0}, "", ""); err != nil {
		t.Fatal(err)
	}
	e := spawn(a, "hero", 2, 0)
	if !e.RequestMove(geom.Right, WalkMode, false) {
		t.Fatal("a destination holding a warp may be entered without crossing permission")
	}
}

func TestExactLandingForAnyStepSize(t *testing.T) {
	steps := []time.Duration{
		time.Millisecond, 7 * time.Millisecond, 16 * time.Millisecond,
		33 * time.Millisecond, 120 * time.Millisecond, 249 * time.Millisecond,
		250 * time.Millisecond, 3 * time.Second,
	}
	for _, step := range steps {
		t.Run(step.String(), func(t *testing.T) {
			for _, d := range geom.Directions {
				a := field(t, "A", 5, 5)
				e := spawn(a, "hero", 2, 2)
				if !e.RequestMove(d, WalkMode, true) {
					t.Fatalf("%v: rejected", d)
				}
				completions := 0
				for i := 0; i < 1000 && e.State() == Moving; i++ {
					if e.Advance(step) {
						completions++
					}
				}
				if completions != 1 {
					t.Fatalf("%v: %d completions, want 1", d, completions)
				}
				dx, dy := d.Delta()
				want := geom.Point{X: float64(2 + dx), Y: float64(2 + dy)}
				if e.Location.Point != want {
					t.Fatalf("%v: landed at %v, want exactly %v", d, e.Location.Point, want)
				}
				if e.Advance(step) {
					t.Fatal("completion signalled twice")
				}
			}
		})
	}
}

func TestBusyWhileMovingOrAttacking(t *testing.T) {
	a := field(t, "A", 5, 5)
	e := spawn(a, "hero", 2, 2)
	if !e.RequestMove(geom.Right, WalkMode, true) {
		t.Fatal("first move rejected")
	}
	if got := e.TryMove(geom.Down, WalkMode, true); got != MoveBusy {
		t.Fatalf("second move = %v, want busy", got)
	}
	if e.Facing() != geom.Right {
		t.Fatal("a busy request must not turn the entity")
	}
	if e.Attack(geom.Up) {
		t.Fatal("attack accepted while moving")
	}
	finish(t, e)

	if !e.Attack(geom.Up) || e.State() != Attacking {
		t.Fatal("attack from idle should be accepted")
	}
	if e.RequestMove(geom.Left, WalkMode, true) {
		t.Fatal("move accepted while attacking")
	}
	e.Advance(DefaultAttackTime)
	if e.State() != Idle {
		t.Fatalf("state = %v after the attack time, want idle", e.State())
	}
}

func TestDestinationIsReserved(t *testing.T) {
	a := field(t, "A", 5, 5)
	first := spawn(a, "first", 1, 2)
	second := spawn(a, "second", 3, 2)
	if !first.RequestMove(geom.Right, WalkMode, true) {
		t.Fatal("first move rejected")
	}
	if got := second.TryMove(geom.Left, WalkMode, true); got != MoveOccupied {
		t.Fatalf("second move into the claimed tile = %v, want occupied", got)
	}
	finish(t, first)
	if got := a.QueryOccupant(2, 2, nil); got != first {
		t.Fatalf("occupant at (2,2) = %v, want first", got)
	}
	if got := a.QueryOccupant(2, 1, nil); got != nil {
		t.Fatalf("origin tile still occupied by %v", got)
	}
}

func TestInteract(t *testing.T) {
	a := field(t, "A", 5, 5)
	hero := spawn(a, "hero", 1, 1)
	if hero.Interact() {
		t.Fatal("interact without a facing should do nothing")
	}

	var gotTarget, gotActor *Entity
	sign := spawn(a, "sign", 2, 1)
	sign.OnUse = func(target, actor *Entity) { gotTarget, gotActor = target, actor }
	spawn(a, "mute", 1, 2)

	hero.SetFacing(geom.Right)
	if !hero.Interact() || gotTarget != sign || gotActor != hero {
		t.Fatalf("handler got target=%v actor=%v", gotTarget, gotActor)
	}
	hero.SetFacing(geom.Down)
	if hero.Interact() {
		t.Fatal("occupant without a handler should not report interaction")
	}
	hero.SetFacing(geom.Up)
	if hero.Interact() {
		t.Fatal("empty front tile should not report interaction")
	}
}

func TestAttackHitsFront(t *testing.T) {
	a := field(t, "A", 5, 5)
	hero := spawn(a, "hero", 1, 1)
	pot := spawn(a, "pot", 1, 2)
	hit := false
	pot.OnHit = func(target, actor *Entity) { hit = target == pot && actor == hero }
	if !hero.Attack(geom.Down) || !hit {
		t.Fatal("OnHit should run for the entity in front")
	}
}

func TestSheetlessSpriteIgnored(t *testing.T) {
	a := field(t, "A", 5, 5)
	e := spawn(a, "hero", 0, 0)
	e.SetSprite(&gfx.Sprite{})
	if e.Sprite != nil {
		t.Fatal("sprite without a sheet should not be attached")
	}
	if e.Speed != DefaultSpeed {
		t.Fatalf("speed = %v, want default", e.Speed)
	}
	if !e.RequestMove(geom.Right, WalkMode, true) {
		t.Fatal("move rejected")
	}
	// A sheetless sprite assigned directly must not break animation either.
	e.Sprite = &gfx.Sprite{}
	e.WarpTo(a, geom.Cell{Row: 2, Column: 2})
	if !e.Attack(geom.Down) {
		t.Fatal("attack rejected while idle")
	}
	e.Update(1, 10*time.Millisecond)
	if e.Sprite.Playing() {
		t.Error("sheetless sprite should not play")
	}
}

func TestSpeedFromSpriteSheet(t *testing.T) {
	cells := make([][]gfx.Glyph, 4)
	for r := range cells {
		g, err := gfx.ParseGlyph("@", tcell.StyleDefault)
		if err != nil {
			t.Fatal(err)
		}
		cells[r] = []gfx.Glyph{g, g, g, g, g}
	}
	img, err := gfx.NewImage("hero", cells)
	if err != nil {
		t.Fatal(err)
	}
	sheet, err := gfx.NewSpriteSheet("hero", img, 5, 40*time.Millisecond,
		[]string{"walk-up", "walk-down", "walk-left", "walk-right"})
	if err != nil {
		t.Fatal(err)
	}
	a := field(t, "A", 5, 5)
	e := spawn(a, "hero", 0, 0)
	e.SetSprite(gfx.NewSprite(sheet))
	if e.Speed != 1.0/200 {
		t.Fatalf("speed = %v, want 1/200", e.Speed)
	}
	if !e.RequestMove(geom.Right, WalkMode, true) {
		t.Fatal("move rejected")
	}
	if anim, _ := e.Sprite.Frame(); anim != 3 || !e.Sprite.Playing() {
		t.Fatalf("animation = %d playing=%v, want walk-right playing", anim, e.Sprite.Playing())
	}
	if e.Advance(190 * time.Millisecond) {
		t.Fatal("completed early")
	}
	if !e.Advance(20 * time.Millisecond) {
		t.Fatal("should complete after one animation cycle")
	}
	if e.Sprite.Playing() {
		t.Fatal("animation should halt on completion")
	}
}

func TestUpdateOncePerFrame(t *testing.T) {
	a := field(t, "A", 5, 5)
	e := spawn(a, "hero", 0, 0)
	e.RequestMove(geom.Right, WalkMode, true)
	e.Update(1, 100*time.Millisecond)
	x := e.Location.X
	e.Update(1, 100*time.Millisecond)
	if e.Location.X != x {
		t.Fatal("second Update in the same frame advanced the entity")
	}
	a.Update(1, 100*time.Millisecond)
	if e.Location.X != x {
		t.Fatal("map update re-advanced an entity already updated this frame")
	}
}

func TestPlayerController(t *testing.T) {
	a := field(t, "A", 5, 5)
	c := field(t, "C", 5, 5)
	if err := a.AddWarp("door", geom.Cell{Row: 0, Column: 2}, "C", "entrance"); err != nil {
		t.Fatal(err)
	}
	if err := c.AddWarp("entrance", geom.Cell{Row: 4, Column: 4}, "", ""); err != nil {
		t.Fatal(err)
	}
	if err := a.Link(maps{"A": a, "C": c}); err != nil {
		t.Fatal(err)
	}
	in := input.NewState()
	hero := spawn(a, "hero", 1, 0)
	p := NewPlayer(hero, in, nil)
	var moves, warps int
	p.OnMoved = func(_ *Entity, warped bool) {
		moves++
		if warped {
			warps++
		}
	}

	in.Press(input.ButtonRight)
	hero.Update(1, 16*time.Millisecond)
	in.EndTick()
	if hero.State() != Moving || hero.Movement() != geom.Right {
		t.Fatalf("held right: state %v %v", hero.State(), hero.Movement())
	}
	in.Release(input.ButtonRight)
	for frame := uint64(2); frame < 40 && hero.State() == Moving; frame++ {
		hero.Update(frame, 16*time.Millisecond)
		in.EndTick()
	}
	if moves != 1 || warps != 1 || hero.Map != c {
		t.Fatalf("moves=%d warps=%d map=%v; want 1, 1, C", moves, warps, hero.Map)
	}

	var used bool
	npc := spawn(c, "npc", 4, 3)
	npc.OnUse = func(_, _ *Entity) { used = true }
	hero.SetFacing(geom.Up)
	in.Press(input.ButtonAction)
	hero.Update(100, 16*time.Millisecond)
	if !used {
		t.Fatal("action press should interact with the entity in front")
	}
}

func TestRegistryBuild(t *testing.T) {
	var out inbox
	r := DefaultRegistry(&out)
	a := field(t, "A", 5, 5)

	if _, err := r.Build(Spec{Name: "x", Type: "dragon"}, a); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
	if _, err := r.Build(Spec{Name: "x", OnUse: "explode"}, a); !errors.Is(err, ErrUnknownHandler) {
		t.Fatalf("err = %v, want ErrUnknownHandler", err)
	}

	npc, err := r.Build(Spec{Name: "Old Man", X: 1, Y: 1, OnUse: "talk", Message: "It's dangerous to go alone."}, a)
	if err != nil {
		t.Fatal(err)
	}
	if npc.Type != "npc" || npc.Location.Point != (geom.Point{X: 1, Y: 1}) {
		t.Fatalf("built %+v", npc)
	}
	npc.Spawn()
	hero := spawn(a, "hero", 0, 1)
	hero.SetFacing(geom.Right)
	if !hero.Interact() {
		t.Fatal("talk handler did not run")
	}
	if len(out) != 1 || out[0] != "Old Man: It's dangerous to go alone." {
		t.Fatalf("messages = %q", out)
	}
	if npc.Facing() != geom.Left {
		t.Fatalf("npc facing = %v, want left toward the speaker", npc.Facing())
	}

	gem, err := r.Build(Spec{Name: "gem", Type: "item", X: 0, Y: 2, OnUse: "pickup"}, a)
	if err != nil {
		t.Fatal(err)
	}
	gem.Spawn()
	hero.SetFacing(geom.Down)
	hero.Interact()
	if a.QueryOccupant(2, 0, nil) != nil {
		t.Fatal("picked up item should leave the map")
	}
}
