package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"tilemosaic/assets"
	"tilemosaic/internal/content"
	"tilemosaic/internal/game"
	"tilemosaic/internal/generate"
	"tilemosaic/internal/logger"
)

func main() {
	cfg := game.DefaultConfig()
	flag.StringVar(&cfg.ContentDir, "content", "", "pack directory (default: embedded demo pack)")
	flag.StringVar(&cfg.Manifest, "manifest", cfg.Manifest, "manifest path inside the pack directory")
	flag.StringVar(&cfg.StartMap, "map", "", "start on this map instead of the manifest's")
	flag.Float64Var(&cfg.StartX, "x", 0, "start column when -map is set")
	flag.Float64Var(&cfg.StartY, "y", 0, "start row when -map is set")
	flag.DurationVar(&cfg.FrameInterval, "frame", cfg.FrameInterval, "frame interval")
	flag.BoolVar(&cfg.RecordRun, "record", cfg.RecordRun, "append a session summary to runs.jsonl")
	flag.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level")
	flag.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "log format: text or json")
	flag.StringVar(&cfg.Log.File, "log-file", cfg.Log.File, "log file")
	seed := flag.Int64("seed", 0, "play a generated world from this seed instead of a pack")
	theme := flag.String("theme", "spire", "theme for generated worlds")
	flag.Parse()

	if err := run(cfg, *seed, *theme); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg game.Config, seed int64, theme string) error {
	log, closeLog, err := logger.Init(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	lib, err := loadPack(cfg, seed, theme, log)
	if err != nil {
		if lib == nil {
			return err
		}
		log.WithError(err).Warn("pack loaded with errors")
	}
	return play(cfg, lib, log)
}

// loadPack picks the world: a generated one when seed is set, a pack
// directory when one is configured, otherwise the embedded demo.
func loadPack(cfg game.Config, seed int64, theme string, log logrus.FieldLogger) (*content.Library, error) {
	switch {
	case seed != 0:
		t, ok := generate.Themes[theme]
		if !ok {
			return nil, fmt.Errorf("unknown theme %q (have %v)", theme, generate.ThemeNames())
		}
		gc := generate.DefaultConfig(seed)
		gc.Theme = t
		p, err := generate.Generate(gc)
		if err != nil {
			return nil, err
		}
		return p.Library(log)
	case cfg.ContentDir != "":
		return content.Load(os.DirFS(cfg.ContentDir), cfg.Manifest, log)
	}
	return assets.Load(log)
}

func play(cfg game.Config, lib *content.Library, log logrus.FieldLogger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	w, h := screen.Size()
	if err := game.CheckSize(w, h, cfg.Cell); err != nil {
		return err
	}

	g, err := game.New(cfg, screen, lib, log)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g.Run(ctx)
	return nil
}
