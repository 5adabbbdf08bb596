// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refs translates between ENML inline media markers (hash + mime)
// and Markdown image/link references, in both directions.
package refs

import (
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/enexmark/internal/resource"
	"github.com/pdiddy/enexmark/pkg/types"
)

// mediaTag is the ENML inline marker element name.
const mediaTag = "en-media"

// Forward replaces every en-media marker in the tree with an image or link
// node pointing into the assets directory. Image MIME types become
// ![filename](assetsDir/filename); everything else becomes a link. A marker
// whose hash matches no resource on the note is a dangling reference: it is
// left in place and logged, and the rest of the note proceeds.
func Forward(root *html.Node, note *types.Note, assetsDir string, log *logrus.Logger) {
	for _, n := range findMarkers(root) {
		hash := attrValue(n, "hash")
		res := note.ResourceByHash(hash)
		if res == nil {
			if log != nil {
				log.WithField("hash", hash).Warn("media marker references unknown resource")
			}
			continue
		}

		name := resource.ResolvedFilename(res)
		target := path.Join(assetsDir, name)

		var repl *html.Node
		if res.IsImage() {
			repl = &html.Node{
				Type:     html.ElementNode,
				DataAtom: atom.Img,
				Data:     "img",
				Attr: []html.Attribute{
					{Key: "alt", Val: name},
					{Key: "src", Val: target},
				},
			}
		} else {
			repl = &html.Node{
				Type:     html.ElementNode,
				DataAtom: atom.A,
				Data:     "a",
				Attr:     []html.Attribute{{Key: "href", Val: target}},
			}
			repl.AppendChild(&html.Node{Type: html.TextNode, Data: name})
		}

		replaceNode(n, repl)
	}
}

// Reverse replaces image and link nodes whose path component matches a
// loaded resource's resolved filename with an en-media marker carrying that
// resource's hash and MIME type. References that match no resource are left
// untouched (their file was absent from every search directory).
func Reverse(root *html.Node, resources []*types.Resource, log *logrus.Logger) {
	byName := make(map[string]*types.Resource, len(resources))
	for _, r := range resources {
		byName[resource.ResolvedFilename(r)] = r
	}

	var refs []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if n.DataAtom == atom.Img || n.DataAtom == atom.A {
			refs = append(refs, n)
		}
	})

	for _, n := range refs {
		target := attrValue(n, "src")
		if n.DataAtom == atom.A {
			target = attrValue(n, "href")
		}
		res, ok := byName[path.Base(target)]
		if !ok {
			continue
		}

		marker := &html.Node{
			Type: html.ElementNode,
			Data: mediaTag,
			Attr: []html.Attribute{
				{Key: "type", Val: res.Mime},
				{Key: "hash", Val: res.Hash},
			},
		}
		replaceNode(n, marker)
	}
}

// findMarkers collects en-media nodes before mutation so replacement does
// not disturb the walk.
func findMarkers(root *html.Node) []*html.Node {
	var markers []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, mediaTag) {
			markers = append(markers, n)
		}
	})
	return markers
}

// walk visits every node iteratively, so arbitrarily deep trees cannot
// exhaust the stack.
func walk(root *html.Node, fn func(*html.Node)) {
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			stack = append(stack, c)
		}
	}
}

func replaceNode(old, repl *html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	parent.InsertBefore(repl, old)
	parent.RemoveChild(old)
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
