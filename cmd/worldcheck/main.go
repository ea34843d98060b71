// worldcheck loads a pack, links it and reports anything that would make
// it behave unexpectedly in play. Build:
//
//	go build -o worldcheck ./cmd/worldcheck
//
// Usage:
//
//	./worldcheck [-content dir] [-manifest manifest.json] [-strict]
//
// With no -content the embedded demo pack is checked. The exit status is 1
// when the pack fails to load or has problems (or warnings, with -strict).
package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"

	"tilemosaic/assets"
	"tilemosaic/internal/content"
	"tilemosaic/internal/entity"
	"tilemosaic/internal/logger"
)

func main() {
	dir := flag.String("content", "", "pack directory (default: embedded demo pack)")
	manifest := flag.String("manifest", "manifest.json", "manifest path inside the pack directory")
	strict := flag.Bool("strict", false, "fail on warnings too")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log, _, err := logger.Init(logger.Config{Level: *level, Format: "text", Output: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fsys, name := fs.FS(assets.FS), assets.Manifest
	if *dir != "" {
		fsys, name = os.DirFS(*dir), *manifest
	}
	if !check(fsys, name, *strict, os.Stdout, log) {
		os.Exit(1)
	}
}

// check loads and links the pack at name, writes each finding to out and
// reports whether the pack passed.
func check(fsys fs.FS, name string, strict bool, out io.Writer, log logrus.FieldLogger) bool {
	lib, err := content.Load(fsys, name, log)
	if lib == nil {
		log.WithError(err).Error("manifest unreadable")
		return false
	}
	ok := true
	if err != nil {
		log.WithError(err).Error("pack failed to load cleanly")
		ok = false
	}
	if err := lib.Setup(entity.DefaultRegistry(nil)); err != nil {
		log.WithError(err).Error("pack failed to link")
		ok = false
	}

	findings := lib.Check()
	var warnings int
	for _, f := range findings {
		fmt.Fprintln(out, f)
		if f.Severity == content.Warning {
			warnings++
		}
	}
	problems := content.Problems(findings)
	if problems > 0 || (strict && warnings > 0) {
		ok = false
	}

	if _, err := lib.SpawnStart(); err != nil {
		log.WithError(err).Error("player cannot spawn")
		ok = false
	}
	log.WithFields(logrus.Fields{
		"maps":     len(lib.Maps),
		"entities": len(lib.Entities),
		"problems": problems,
		"warnings": warnings,
	}).Info("check finished")
	return ok
}
