// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resource ingests attachment payloads, resolves referenced files
// against ordered search directories, and assigns stable filenames.
package resource

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/enexmark/pkg/types"
)

// ErrNotFound reports that a referenced file exists in none of the search
// directories. Callers treat it as a per-resource failure.
var ErrNotFound = errors.New("resource file not found")

// DefaultSearchSubdirs are the conventional asset subdirectories checked
// beside a markdown file, in order.
var DefaultSearchSubdirs = []string{"assets", "images", "attachments"}

// Store builds Resource records and locates referenced files on disk.
type Store struct {
	log *logrus.Logger
}

// NewStore returns a store logging through log. A nil log disables logging.
func NewStore(log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Store{log: log}
}

// Ingest builds a Resource from a payload. The content hash is computed from
// data unless the caller supplies one; size always comes from the payload
// length. Image dimensions are probed best-effort for image MIME types.
// Ingest has no failure mode.
func (s *Store) Ingest(data []byte, mimeType, filename, hash string) *types.Resource {
	if hash == "" {
		sum := md5.Sum(data)
		hash = hex.EncodeToString(sum[:])
	}

	r := &types.Resource{
		Mime:     mimeType,
		Data:     data,
		Hash:     hash,
		FileName: filename,
		Size:     len(data),
	}

	if r.IsImage() {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			r.Width = cfg.Width
			r.Height = cfg.Height
		}
	}

	return r
}

// SearchDirs returns the ordered resource search list for a markdown file:
// the file's own directory, the conventional asset subdirectories beneath
// it, then any caller-supplied extras.
func SearchDirs(markdownPath string, extra []string) []string {
	base := filepath.Dir(markdownPath)
	dirs := []string{base}
	for _, sub := range DefaultSearchSubdirs {
		dirs = append(dirs, filepath.Join(base, sub))
	}
	return append(dirs, extra...)
}

// Resolve returns the contents of the first existing file named name under
// the ordered search directories, and the path it was read from. When no
// directory holds the file it returns ErrNotFound.
func (s *Store) Resolve(name string, searchDirs []string) ([]byte, string, error) {
	for _, dir := range searchDirs {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", path, err)
		}
		return data, path, nil
	}
	return nil, "", fmt.Errorf("%q: %w", name, ErrNotFound)
}

// ResolvedFilename returns the resource's filename, or a synthetic
// "<hash><ext>" name when the source record carried none.
func ResolvedFilename(r *types.Resource) string {
	if r.FileName != "" {
		return r.FileName
	}
	return r.Hash + ExtensionByMime(r.Mime)
}

// curatedExts pins extensions for common types where the platform MIME
// table is ambiguous (image/jpeg maps to .jpe on some systems).
var curatedExts = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/svg+xml":   ".svg",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
	"audio/mpeg":      ".mp3",
}

// ExtensionByMime guesses a file extension (with leading dot) for a MIME
// type, defaulting to ".bin".
func ExtensionByMime(mimeType string) string {
	if ext, ok := curatedExts[mimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// MimeByExtension guesses a MIME type from a filename, defaulting to
// "application/octet-stream".
func MimeByExtension(name string) string {
	if mt := mime.TypeByExtension(filepath.Ext(name)); mt != "" {
		for i := 0; i < len(mt); i++ {
			if mt[i] == ';' {
				return mt[:i]
			}
		}
		return mt
	}
	return "application/octet-stream"
}
