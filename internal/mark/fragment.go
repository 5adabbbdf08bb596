// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mark reads and writes the Markdown representation: a frontmatter
// metadata block followed by body text, with resource files stored in an
// assets subdirectory alongside.
package mark

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses an HTML/ENML fragment and returns the body node
// whose children are the fragment's top-level nodes. The lenient parser
// tolerates ENML's XML prolog and unknown elements like en-note and
// en-media; failures here are the note-level structural failure.
func ParseFragment(fragment string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parsing document tree: %w", err)
	}

	body := findElement(doc, atom.Body)
	if body == nil {
		return nil, fmt.Errorf("parsing document tree: no body produced")
	}
	return body, nil
}

// RenderFragment serializes the children of root back to markup text.
func RenderFragment(root *html.Node) (string, error) {
	var buf bytes.Buffer
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("serializing document tree: %w", err)
		}
	}
	return buf.String(), nil
}

func findElement(root *html.Node, a atom.Atom) *html.Node {
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == html.ElementNode && n.DataAtom == a {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			stack = append(stack, c)
		}
	}
	return nil
}
