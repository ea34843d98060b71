package game

import (
	"image"
	"time"

	"tilemosaic/internal/input"
	"tilemosaic/internal/logger"
	"tilemosaic/internal/render"
)

// Config holds the parameters of one play session.
type Config struct {
	// ContentDir is a pack directory on disk. Empty means the embedded
	// demo pack.
	ContentDir string
	Manifest   string

	// StartMap, when set, overrides the manifest's start record.
	StartMap string
	StartX   float64
	StartY   float64

	// Cell is the screen size of one tile.
	Cell image.Point

	FrameInterval time.Duration
	// MaxDelta caps the elapsed time fed to one update, so a stalled
	// terminal does not teleport entities across several tiles.
	MaxDelta    time.Duration
	FadeTime    time.Duration
	HoldTimeout time.Duration

	// RecordRun appends a summary of the session to runs.jsonl.
	RecordRun bool

	Log logger.Config
}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Manifest:      "manifest.json",
		Cell:          render.DefaultCell,
		FrameInterval: 16 * time.Millisecond,
		MaxDelta:      120 * time.Millisecond,
		FadeTime:      500 * time.Millisecond,
		HoldTimeout:   input.DefaultHoldTimeout,
		RecordRun:     true,
		Log: logger.Config{
			Level:  "info",
			Format: "text",
			File:   "tilemosaic.log",
		},
	}
}
