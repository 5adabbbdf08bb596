// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/enexmark/internal/refs"
	"github.com/pdiddy/enexmark/internal/render"
	"github.com/pdiddy/enexmark/internal/resource"
	"github.com/pdiddy/enexmark/pkg/types"
)

// invalidFilenameChars are replaced by underscores in output filenames.
const invalidFilenameChars = `<>:"/\|?*`

// DefaultAssetsDir is the conventional resource subdirectory name.
const DefaultAssetsDir = "assets"

// Writer persists Notes as markdown files plus an assets subdirectory.
// Within one writer session resource files are append-only: a file already
// on disk is never rewritten (equal names imply equal hashes), and markdown
// filename collisions get a numeric suffix.
type Writer struct {
	outDir    string
	assetsDir string
	assetsRel string
	renderer  *render.Renderer
	log       *logrus.Logger
}

// NewWriter creates the output and assets directories and returns a writer.
func NewWriter(cfg types.UnpackConfig, log *logrus.Logger) (*Writer, error) {
	assetsName := cfg.AssetsDirName
	if assetsName == "" {
		assetsName = DefaultAssetsDir
	}

	outDir := cfg.OutputDir
	assetsDir := filepath.Join(outDir, assetsName)
	for _, dir := range []string{outDir, assetsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	return &Writer{
		outDir:    outDir,
		assetsDir: assetsDir,
		assetsRel: assetsName,
		renderer:  render.New(log),
		log:       log,
	}, nil
}

// WriteNote converts one note's ENML body to markdown and writes the .md
// file and its resource files. The markdown document is fully built in
// memory before anything is written, so a failed note leaves no partial
// output. The written path is returned.
func (w *Writer) WriteNote(note *types.Note) (string, error) {
	tree, err := ParseFragment(note.Body)
	if err != nil {
		return "", fmt.Errorf("note %q: %w", note.Title, err)
	}

	refs.Forward(tree, note, w.assetsRel, w.log)

	body := w.renderer.Render(tree)
	header, err := serializeHeader(note)
	if err != nil {
		return "", fmt.Errorf("note %q: %w", note.Title, err)
	}

	if err := w.writeResources(note); err != nil {
		return "", fmt.Errorf("note %q: %w", note.Title, err)
	}

	path := w.uniquePath(SanitizeFilename(note.Title))
	if err := os.WriteFile(path, []byte(header+body), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	w.log.WithFields(logrus.Fields{
		"note":      note.Title,
		"file":      filepath.Base(path),
		"resources": len(note.Resources),
	}).Info("wrote note")
	return path, nil
}

// writeResources persists each resource under the assets directory using
// its resolved filename. Existing files are left alone: same resolved name
// means same content hash.
func (w *Writer) writeResources(note *types.Note) error {
	for _, res := range note.Resources {
		name := SanitizeFilename(resource.ResolvedFilename(res))
		path := filepath.Join(w.assetsDir, name)

		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, res.Data, 0o644); err != nil {
			return fmt.Errorf("writing resource %s: %w", name, err)
		}
	}
	return nil
}

// uniquePath returns outDir/<stem>.md, appending _1, _2, ... while the
// name is taken.
func (w *Writer) uniquePath(stem string) string {
	path := filepath.Join(w.outDir, stem+".md")
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(w.outDir, fmt.Sprintf("%s_%d.md", stem, i))
	}
}

// SanitizeFilename replaces characters that are invalid in filenames with
// underscores and trims surrounding whitespace.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, c := range name {
		if strings.ContainsRune(invalidFilenameChars, c) {
			b.WriteByte('_')
		} else {
			b.WriteRune(c)
		}
	}
	return strings.TrimSpace(b.String())
}
