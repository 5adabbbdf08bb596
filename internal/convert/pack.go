// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/enexmark/internal/enex"
	"github.com/pdiddy/enexmark/internal/mark"
	"github.com/pdiddy/enexmark/internal/resource"
	"github.com/pdiddy/enexmark/pkg/types"
)

// Pack converts markdown files into a single ENEX document at
// cfg.OutputFile. Every note is built in memory first; the document is
// written only after the whole batch has been processed, so a failed note
// never leaves a partial export behind.
func Pack(ctx context.Context, paths []string, cfg types.PackConfig, log *logrus.Logger, w io.Writer) (BatchResult, error) {
	store := resource.NewStore(log)
	reader := mark.NewReader(store, cfg, log)
	writer := enex.NewWriter(log)

	var result BatchResult
	for _, path := range paths {
		note, err := reader.ReadFile(ctx, path)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(path), err)
			log.WithError(err).WithField("file", path).Warn("markdown parse failed")
			result.Failed++
			continue
		}

		if note.Author == "" {
			note.Author = cfg.Author
		}

		writer.Add(note)
		fmt.Fprintf(w, "converted: %s\n", note.Title)
		result.Converted++
	}

	if writer.Len() == 0 {
		result.summarize(w)
		return result, fmt.Errorf("no markdown files could be converted")
	}

	if err := writeDocument(writer, cfg.OutputFile); err != nil {
		return result, err
	}

	log.WithFields(logrus.Fields{
		"file":  cfg.OutputFile,
		"notes": writer.Len(),
	}).Info("wrote enex file")
	result.summarize(w)

	return result, nil
}

func writeDocument(writer *enex.Writer, outputFile string) error {
	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputFile, err)
	}

	if err := writer.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CollectMarkdownFiles expands the argument list: directories contribute
// every .md file beneath them (sorted walk order), plain paths pass
// through.
func CollectMarkdownFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".md" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}
	return files, nil
}
