// Package assets embeds the Emberveil demo pack so the binary runs without
// a content directory.
package assets

import (
	"embed"

	"github.com/sirupsen/logrus"

	"tilemosaic/internal/content"
)

// Manifest is the path of the demo manifest inside FS.
const Manifest = "pack/manifest.json"

//go:embed pack
var FS embed.FS

// Load reads the demo pack.
func Load(log logrus.FieldLogger) (*content.Library, error) {
	return content.Load(FS, Manifest, log)
}
