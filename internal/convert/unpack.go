// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/enexmark/internal/enex"
	"github.com/pdiddy/enexmark/internal/manifest"
	"github.com/pdiddy/enexmark/internal/mark"
	"github.com/pdiddy/enexmark/internal/resource"
	"github.com/pdiddy/enexmark/pkg/types"
)

// Unpack converts ENEX files to markdown files under cfg.OutputDir,
// printing per-note status to w. A malformed ENEX document aborts that file
// (counted as one failure) but later files still run; a malformed note
// record only skips that note.
func Unpack(paths []string, cfg types.UnpackConfig, log *logrus.Logger, w io.Writer) (BatchResult, error) {
	store := resource.NewStore(log)
	reader := enex.NewReader(store, log)

	writer, err := mark.NewWriter(cfg, log)
	if err != nil {
		return BatchResult{}, err
	}

	var mf *manifest.Store
	if cfg.UseManifest {
		mf, err = manifest.Open(cfg.OutputDir)
		if err != nil {
			return BatchResult{}, err
		}
		defer mf.Close()
	}

	var result BatchResult
	for _, path := range paths {
		result.add(unpackFile(path, reader, writer, mf, log, w))
	}
	result.summarize(w)

	return result, nil
}

func unpackFile(path string, reader *enex.Reader, writer *mark.Writer, mf *manifest.Store, log *logrus.Logger, w io.Writer) BatchResult {
	var result BatchResult

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(path), err)
		result.Failed++
		return result
	}
	defer f.Close()

	notes, skipped, err := reader.Read(f)
	if err != nil {
		// Structural failure: the whole file is unusable.
		fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(path), err)
		result.Failed++
		return result
	}
	result.Failed += skipped

	log.WithFields(logrus.Fields{
		"file":  filepath.Base(path),
		"notes": len(notes),
	}).Info("parsed enex file")

	for _, note := range notes {
		digest := ""
		if mf != nil {
			digest = manifest.Digest(note)
			if mf.Unchanged(note.Title, digest) {
				fmt.Fprintf(w, "skipped: %s (unchanged)\n", note.Title)
				result.Skipped++
				continue
			}
		}

		outPath, err := writer.WriteNote(note)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", note.Title, err)
			log.WithError(err).WithField("title", note.Title).Warn("note conversion failed")
			result.Failed++
			continue
		}

		if mf != nil {
			if err := mf.Record(note.Title, digest, filepath.Base(outPath)); err != nil {
				log.WithError(err).Warn("manifest update failed")
			}
		}

		fmt.Fprintf(w, "converted: %s\n", note.Title)
		result.Converted++
	}

	return result
}
