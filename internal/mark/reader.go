// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mark

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/enexmark/internal/enex"
	"github.com/pdiddy/enexmark/internal/refs"
	"github.com/pdiddy/enexmark/internal/resource"
	"github.com/pdiddy/enexmark/pkg/types"
)

// Reader parses markdown files into Notes, loading referenced resources
// from the file's search directories.
type Reader struct {
	store  *resource.Store
	cfg    types.PackConfig
	log    *logrus.Logger
	md     goldmark.Markdown
	client *http.Client
}

// NewReader builds a reader for the pack direction. The goldmark engine is
// configured with GFM (tables, strikethrough, autolinks) and raw HTML
// passthrough so ENML survives inside markdown bodies.
func NewReader(store *resource.Store, cfg types.PackConfig, log *logrus.Logger) *Reader {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Reader{
		store: store,
		cfg:   cfg,
		log:   log,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
		client: &http.Client{Timeout: timeout},
	}
}

// ReadFile parses one markdown file into a Note: metadata block, body
// converted to a document tree, inline resource references resolved against
// the search directories and rewritten to media markers.
func (r *Reader) ReadFile(ctx context.Context, mdPath string) (*types.Note, error) {
	src, err := os.ReadFile(mdPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", mdPath, err)
	}

	var meta metaEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return nil, fmt.Errorf("parsing metadata block of %s: %w", mdPath, err)
	}

	note := &types.Note{
		Title:     strings.TrimSpace(meta.Title),
		Author:    meta.Author,
		SourceURL: meta.Source,
		Notebook:  meta.Notebook,
	}
	if note.Title == "" {
		note.Title = strings.TrimSuffix(filepath.Base(mdPath), filepath.Ext(mdPath))
	}
	for _, tag := range meta.tagList() {
		note.AddTag(tag)
	}

	fallback := fileModTime(mdPath)
	note.Created = enex.ParseTime(meta.Created, fallback)
	note.Updated = enex.ParseTime(meta.Updated, fallback)

	var rendered bytes.Buffer
	if err := r.md.Convert(body, &rendered); err != nil {
		return nil, fmt.Errorf("rendering markdown body of %s: %w", mdPath, err)
	}

	tree, err := ParseFragment(rendered.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mdPath, err)
	}

	r.loadResources(ctx, tree, note, mdPath)
	refs.Reverse(tree, note.Resources, r.log)

	fragment, err := RenderFragment(tree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mdPath, err)
	}
	note.Body = fragment

	return note, nil
}

// loadResources scans the tree for image and link references and resolves
// each against the ordered search directories (the file's own directory,
// conventional asset subdirectories, then configured extras). A reference
// that resolves nowhere is left as literal text with a warning; the note's
// resource list is unaffected by it.
func (r *Reader) loadResources(ctx context.Context, tree *html.Node, note *types.Note, mdPath string) {
	searchDirs := resource.SearchDirs(mdPath, r.cfg.ResourceDirs)

	for _, target := range referenceTargets(tree) {
		if isRemote(target) {
			if !r.cfg.FetchRemote {
				continue
			}
			res, err := r.store.FetchRemote(ctx, r.client, target, r.cfg.HTTPConfig)
			if err != nil {
				r.log.WithError(err).WithField("url", target).Warn("remote resource unavailable, leaving reference as text")
				continue
			}
			if res.FileName == "" {
				r.log.WithField("url", target).Warn("remote resource has no usable filename, leaving reference as text")
				continue
			}
			if note.ResourceByHash(res.Hash) == nil {
				note.AddResource(res)
			}
			continue
		}

		name := path.Base(target)
		data, resolvedPath, err := r.store.Resolve(name, searchDirs)
		if err != nil {
			r.log.WithError(err).WithField("reference", target).Warn("resource not found, leaving reference as text")
			continue
		}

		res := r.store.Ingest(data, resource.MimeByExtension(resolvedPath), name, "")
		if note.ResourceByHash(res.Hash) == nil {
			note.AddResource(res)
		}
	}
}

// referenceTargets collects the src/href of every image and link node, in
// document order and deduplicated.
func referenceTargets(tree *html.Node) []string {
	var targets []string
	seen := map[string]bool{}

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				var target string
				switch c.DataAtom {
				case atom.Img:
					target = nodeAttr(c, "src")
				case atom.A:
					target = nodeAttr(c, "href")
				}
				if target != "" && !seen[target] && !strings.HasPrefix(target, "#") && !strings.HasPrefix(target, "mailto:") {
					seen[target] = true
					targets = append(targets, target)
				}
			}
			visit(c.FirstChild)
		}
	}
	visit(tree.FirstChild)

	return targets
}

func isRemote(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

func fileModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Now()
	}
	return info.ModTime()
}

func nodeAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
