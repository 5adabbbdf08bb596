// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/enexmark/internal/tabular"
)

var spaceRun = regexp.MustCompile(`\s+`)

// DefaultMaxDepth bounds tree recursion. A subtree nested deeper than this
// is flattened to its plain text content instead of being walked further.
const DefaultMaxDepth = 64

// Renderer converts a parsed document tree into Markdown. Rendering never
// fails: unrecognized structure degrades to pass-through text.
type Renderer struct {
	log      *logrus.Logger
	maxDepth int
}

// New returns a renderer logging through log (nil disables logging).
func New(log *logrus.Logger) *Renderer {
	return &Renderer{log: log, maxDepth: DefaultMaxDepth}
}

// Render walks root's children and returns cleaned Markdown with a single
// trailing newline, or the empty string for an empty tree.
func (r *Renderer) Render(root *html.Node) string {
	out := Cleanup(r.renderChildren(root, 0))
	if out == "" {
		return ""
	}
	return out + "\n"
}

// renderChildren renders root's child list in document order.
func (r *Renderer) renderChildren(root *html.Node, depth int) string {
	var b strings.Builder
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		b.WriteString(r.renderNode(n, depth))
	}
	return b.String()
}

func (r *Renderer) renderNode(n *html.Node, depth int) string {
	if depth > r.maxDepth {
		// Too deep: flatten rather than recurse further.
		return flattenText(n)
	}

	kind, level := Classify(n)
	switch kind {
	case KindSkip:
		return ""

	case KindText:
		return collapseText(n.Data)

	case KindHeading:
		content := strings.TrimSpace(r.renderChildren(n, depth+1))
		return fmt.Sprintf("\n%s %s\n\n", strings.Repeat("#", level), content)

	case KindBlock:
		content := strings.TrimSpace(r.renderChildren(n, depth+1))
		if content == "" {
			return ""
		}
		return content + "\n"

	case KindLineBreak:
		return "\n"

	case KindInline, KindUnknown:
		content := r.renderChildren(n, depth+1)
		if strings.TrimSpace(content) == "" {
			return ""
		}
		return content

	case KindList:
		content := r.renderList(n, depth)
		if content == "" {
			return ""
		}
		// Leading newline keeps a nested list on its own line under its
		// parent item; Cleanup collapses any surplus at the top level.
		return "\n" + content

	case KindListItem:
		// A listitem outside a list renders like a block.
		return r.renderChildren(n, depth+1)

	case KindImage:
		alt := attrValue(n, "alt")
		if alt == "" {
			alt = "image"
		}
		return fmt.Sprintf("![%s](%s)", alt, attrValue(n, "src"))

	case KindLink:
		text := strings.TrimSpace(r.renderChildren(n, depth+1))
		href := attrValue(n, "href")
		if href == "" {
			return text
		}
		return fmt.Sprintf("[%s](%s)", text, href)

	case KindBold:
		return wrapInline(r.renderChildren(n, depth+1), "**")

	case KindItalic:
		return wrapInline(r.renderChildren(n, depth+1), "*")

	case KindCode:
		return wrapInline(r.renderChildren(n, depth+1), "`")

	case KindCodeBlock:
		return r.renderCodeBlock(n)

	case KindBlockquote:
		return r.renderBlockquote(n, depth)

	case KindRule:
		return "\n\n---\n\n"

	case KindTable:
		return tabular.Convert(n, r.log) + "\n"
	}

	return ""
}

// renderList handles ordered and unordered lists. Only direct item children
// are considered; nested lists render through their own item's recursion.
// Continuation lines of a multi-line item are re-indented by two spaces.
func (r *Renderer) renderList(list *html.Node, depth int) string {
	ordered := list.DataAtom == atom.Ol

	var lines []string
	idx := 0
	for n := list.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode || n.DataAtom != atom.Li {
			continue
		}
		idx++

		content := strings.TrimSpace(r.renderChildren(n, depth+1))
		itemLines := strings.Split(content, "\n")
		for i := 1; i < len(itemLines); i++ {
			itemLines[i] = "  " + strings.TrimRight(itemLines[i], " ")
		}
		content = strings.Join(itemLines, "\n")

		if ordered {
			lines = append(lines, fmt.Sprintf("%d. %s", idx, content))
		} else {
			lines = append(lines, "- "+content)
		}
	}

	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// renderCodeBlock emits a fenced block for a <pre>, using the inner <code>
// element's class to derive a language tag when one is recognizable.
func (r *Renderer) renderCodeBlock(pre *html.Node) string {
	code := pre
	for n := pre.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.DataAtom == atom.Code {
			code = n
			break
		}
	}

	lang := ""
	if code != pre {
		lang = languageFromClass(attrValue(code, "class"))
	}

	text := strings.Trim(rawText(code), "\n")
	return fmt.Sprintf("\n```%s\n%s\n```\n", lang, text)
}

// knownLanguages are bare class tokens accepted as a fence language when no
// "language-" prefix is present.
var knownLanguages = map[string]bool{
	"bash": true, "c": true, "cpp": true, "css": true, "go": true,
	"html": true, "java": true, "javascript": true, "json": true,
	"python": true, "ruby": true, "rust": true, "shell": true,
	"sql": true, "typescript": true, "xml": true, "yaml": true,
}

func languageFromClass(class string) string {
	for _, token := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(token, "language-"); ok {
			return lang
		}
		if knownLanguages[strings.ToLower(token)] {
			return strings.ToLower(token)
		}
	}
	return ""
}

// renderBlockquote prefixes every non-blank rendered line with "> ".
func (r *Renderer) renderBlockquote(n *html.Node, depth int) string {
	content := strings.TrimSpace(r.renderChildren(n, depth+1))
	if content == "" {
		return ""
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = "> " + line
		}
	}
	return "\n" + strings.Join(lines, "\n") + "\n"
}

// collapseText reduces a text node to single-spaced content. A run that is
// pure inter-element formatting (whitespace with a newline) is dropped; a
// plain space between inline siblings is kept.
func collapseText(s string) string {
	if strings.TrimSpace(s) == "" {
		if strings.Contains(s, "\n") {
			return ""
		}
		if s == "" {
			return ""
		}
		return " "
	}
	return spaceRun.ReplaceAllString(s, " ")
}

// wrapInline wraps non-blank content in an inline marker pair.
func wrapInline(content, mark string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	return mark + content + mark
}

// flattenText is the depth-guard degradation: concatenated text content of
// the subtree, collected iteratively so the guard itself cannot overflow.
func flattenText(n *html.Node) string {
	var b strings.Builder
	stack := []*html.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type == html.TextNode {
			if t := strings.TrimSpace(cur.Data); t != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(t)
			}
			continue
		}
		// Push children in reverse to preserve document order.
		var children []*html.Node
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return b.String()
}

// rawText collects text content verbatim, preserving internal whitespace.
// Used for code blocks where indentation matters.
func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node, int)
	walk = func(c *html.Node, depth int) {
		if depth > DefaultMaxDepth {
			return
		}
		for ; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
				continue
			}
			if c.Type == html.ElementNode && c.DataAtom == atom.Br {
				b.WriteByte('\n')
				continue
			}
			walk(c.FirstChild, depth+1)
		}
	}
	walk(n.FirstChild, 0)
	return b.String()
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
