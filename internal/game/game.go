// Package game runs a play session: it links a loaded pack, spawns the
// player and drives the update-then-draw frame loop on a tcell screen.
package game

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"tilemosaic/internal/content"
	"tilemosaic/internal/entity"
	"tilemosaic/internal/input"
	"tilemosaic/internal/render"
)

// Game is the top-level orchestrator. All world state is touched only by
// the goroutine running Run.
type Game struct {
	cfg      Config
	screen   tcell.Screen
	lib      *content.Library
	player   *entity.Entity
	input    *input.State
	tracker  *input.Tracker
	renderer *render.Renderer
	hud      *render.HUD
	log      logrus.FieldLogger

	frame   uint64
	last    time.Time
	lastMap string
	runLog  RunLog
	quit    bool
}

// New links lib, spawns the player and lays the view out on screen, which
// must already be initialised. Unresolved references in the pack are
// logged and play continues without them; a missing start is fatal.
func New(cfg Config, screen tcell.Screen, lib *content.Library, log logrus.FieldLogger) (*Game, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultConfig().FrameInterval
	}
	g := &Game{
		cfg:    cfg,
		screen: screen,
		lib:    lib,
		hud:    &render.HUD{},
		log:    log,
	}

	if err := lib.Setup(entity.DefaultRegistry(g.hud)); err != nil {
		log.WithError(err).Warn("pack has unresolved references")
	}
	if cfg.StartMap != "" {
		lib.Manifest.Start.Map = cfg.StartMap
		lib.Manifest.Start.X, lib.Manifest.Start.Y = cfg.StartX, cfg.StartY
	}
	player, err := lib.SpawnStart()
	if err != nil {
		return nil, fmt.Errorf("spawn player: %w", err)
	}
	g.player = player

	g.input = input.NewState()
	g.tracker = input.NewTracker(g.input, input.DefaultKeymap(), cfg.HoldTimeout)
	ctl := entity.NewPlayer(player, g.input, log)
	ctl.OnMoved = g.moved

	w, h := screen.Size()
	area, _ := render.Layout(w, h)
	view := render.NewViewport(area, cfg.Cell, player)
	if cfg.FadeTime > 0 {
		view.FadeTime = cfg.FadeTime
	}
	view.Palette = render.ParsePalette(lib.Manifest.Palette)
	g.renderer = render.NewRenderer(screen, view, g.hud)

	g.lastMap = player.Map.Key
	g.runLog = newRunLog(lib.Manifest.Name, player.Name, g.lastMap)
	if lib.Manifest.Name != "" {
		g.hud.Post(fmt.Sprintf("Welcome to %s.", lib.Manifest.Name))
	}
	g.hud.Post("Arrows/WASD move, space talks, x attacks, q quits.")
	log.WithFields(logrus.Fields{"map": g.lastMap, "player": player.Name}).Info("session started")
	return g, nil
}

// Player returns the user's entity.
func (g *Game) Player() *entity.Entity { return g.player }

// View returns the camera.
func (g *Game) View() *render.Viewport { return g.renderer.View }

// HUD returns the message log.
func (g *Game) HUD() *render.HUD { return g.hud }

// RunLog returns the statistics gathered so far.
func (g *Game) RunLog() RunLog { return g.runLog }

// Run is the frame loop. Terminal events are read on their own goroutine
// and handed over a channel; updates and drawing happen here on each tick.
// Run returns when the player quits, the screen closes or ctx ends.
func (g *Game) Run(ctx context.Context) {
	done := make(chan struct{})
	defer close(done)

	eventCh := make(chan tcell.Event, 32)
	go func() {
		defer close(eventCh)
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			select {
			case eventCh <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(g.cfg.FrameInterval)
	defer ticker.Stop()

	g.last = time.Now()
	g.renderer.DrawFrame()
	for !g.quit {
		select {
		case <-ctx.Done():
			g.quit = true
		case ev, ok := <-eventCh:
			if !ok {
				g.quit = true
				break
			}
			g.HandleEvent(ev, time.Now())
		case now := <-ticker.C:
			g.Tick(now)
		}
	}
	g.finish()
}

// HandleEvent applies one terminal event. It reports false once the
// session should end.
func (g *Game) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
		g.renderer.Resize()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			g.quit = true
			break
		}
		if b, ok := g.tracker.HandleKey(ev, now); ok && b == input.ButtonQuit {
			g.quit = true
		}
	}
	return !g.quit
}

// Tick advances the world by the time since the previous tick, capped at
// MaxDelta, and draws the frame.
func (g *Game) Tick(now time.Time) {
	elapsed := now.Sub(g.last)
	g.last = now
	if elapsed < 0 {
		elapsed = 0
	}
	if g.cfg.MaxDelta > 0 && elapsed > g.cfg.MaxDelta {
		elapsed = g.cfg.MaxDelta
	}

	g.frame++
	g.tracker.Expire(now)
	g.renderer.View.Update(g.frame, elapsed)
	g.renderer.DrawFrame()
	g.input.EndTick()
	g.runLog.PlayTime += elapsed
}

// moved runs after each of the player's completed moves.
func (g *Game) moved(e *entity.Entity, warped bool) {
	key := e.Map.Key
	g.runLog.record(key, g.lastMap, warped)
	if warped {
		g.renderer.View.Flash()
	}
	if key != g.lastMap {
		g.log.WithFields(logrus.Fields{"map": key, "from": g.lastMap, "warped": warped}).Debug("entered map")
		g.lastMap = key
	}
}

// finish records the session summary.
func (g *Game) finish() {
	g.runLog.Ended = time.Now()
	g.log.WithFields(logrus.Fields{
		"steps": g.runLog.Steps,
		"warps": g.runLog.Warps,
		"maps":  len(g.runLog.MapsVisited),
	}).Info("session ended")
	if !g.cfg.RecordRun {
		return
	}
	if err := saveRunLog(g.runLog); err != nil {
		g.log.WithError(err).Warn("run log not saved")
	}
}

// ErrScreenTooSmall is returned by CheckSize when the terminal cannot
// show a single tile above the HUD.
var ErrScreenTooSmall = errors.New("terminal too small")

// CheckSize reports whether a w×h terminal leaves room for the view.
func CheckSize(w, h int, cell image.Point) error {
	view, _ := render.Layout(w, h)
	if view.Dx() < cell.X || view.Dy() < cell.Y {
		return fmt.Errorf("%dx%d: %w", w, h, ErrScreenTooSmall)
	}
	return nil
}
