// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tabular normalizes HTML table structure (merged cells, column
// alignment) and emits pipe-delimited Markdown tables.
package tabular

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/enexmark/pkg/types"
)

// maxCellDepth bounds recursion while extracting cell text. Deeper content
// is ignored rather than risking stack exhaustion on adversarial input.
const maxCellDepth = 64

var spaceRun = regexp.MustCompile(`\s+`)

// parseTable reads a <table> node into source rows plus any alignments
// declared by a <colgroup>.
func parseTable(table *html.Node) ([]types.TableRow, []types.Alignment) {
	var rows []types.TableRow

	for n := table.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.DataAtom {
		case atom.Thead:
			rows = append(rows, parseRowGroup(n, true)...)
		case atom.Tbody:
			rows = append(rows, parseRowGroup(n, false)...)
		}
	}

	// No thead/tbody grouping: take every row in document order.
	if len(rows) == 0 {
		rows = collectRows(table, false)
	}

	return rows, colgroupAlignments(table)
}

// parseRowGroup reads the direct <tr> children of a thead or tbody.
func parseRowGroup(group *html.Node, header bool) []types.TableRow {
	var rows []types.TableRow
	for n := group.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			if row, ok := parseRow(n, header); ok {
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// collectRows gathers <tr> descendants anywhere under n.
func collectRows(n *html.Node, header bool) []types.TableRow {
	var rows []types.TableRow
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Tr {
				if row, ok := parseRow(c, header); ok {
					rows = append(rows, row)
				}
				continue
			}
			walk(c.FirstChild)
		}
	}
	walk(n.FirstChild)
	return rows
}

// parseRow reads the direct td/th children of a <tr>. Rows with no cells
// are dropped.
func parseRow(tr *html.Node, header bool) (types.TableRow, bool) {
	var cells []types.TableCell

	for n := tr.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		if n.DataAtom != atom.Td && n.DataAtom != atom.Th {
			continue
		}

		cells = append(cells, types.TableCell{
			Content: cellContent(n),
			RowSpan: spanAttr(n, "rowspan"),
			ColSpan: spanAttr(n, "colspan"),
			Header:  header || n.DataAtom == atom.Th,
			Align:   cellAlignment(n),
		})
	}

	if len(cells) == 0 {
		return types.TableRow{}, false
	}
	return types.TableRow{Cells: cells, Header: header}, true
}

// spanAttr parses a rowspan/colspan attribute. A missing attribute defaults
// to 1; a malformed or non-positive value is recorded as 0 so the grid
// builder can reject the table and fall back.
func spanAttr(n *html.Node, name string) int {
	raw := attrValue(n, name)
	if raw == "" {
		return 1
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return 0
	}
	return v
}

// cellContent flattens a cell to single-line text, keeping inline
// formatting (bold, italic, code, links) as Markdown. Line breaks inside a
// cell become spaces since pipe tables are line-oriented.
func cellContent(cell *html.Node) string {
	var parts []string

	for n := cell.FirstChild; n != nil; n = n.NextSibling {
		switch {
		case n.Type == html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		case n.Type != html.ElementNode:
			// comments etc.
		case n.DataAtom == atom.Br:
			// flattened below
		case n.DataAtom == atom.Strong || n.DataAtom == atom.B:
			if t := strings.TrimSpace(nodeText(n, 0)); t != "" {
				parts = append(parts, "**"+t+"**")
			}
		case n.DataAtom == atom.Em || n.DataAtom == atom.I:
			if t := strings.TrimSpace(nodeText(n, 0)); t != "" {
				parts = append(parts, "*"+t+"*")
			}
		case n.DataAtom == atom.Code:
			if t := strings.TrimSpace(nodeText(n, 0)); t != "" {
				parts = append(parts, "`"+t+"`")
			}
		case n.DataAtom == atom.A:
			t := strings.TrimSpace(nodeText(n, 0))
			href := attrValue(n, "href")
			switch {
			case t != "" && href != "":
				parts = append(parts, fmt.Sprintf("[%s](%s)", t, href))
			case t != "":
				parts = append(parts, t)
			}
		default:
			if t := strings.TrimSpace(nodeText(n, 0)); t != "" {
				parts = append(parts, t)
			}
		}
	}

	out := spaceRun.ReplaceAllString(strings.Join(parts, " "), " ")
	out = strings.TrimSpace(out)
	if out == "" {
		return " "
	}
	return out
}

// nodeText concatenates all text content under n, space-separated, with a
// depth bound.
func nodeText(n *html.Node, depth int) string {
	if depth > maxCellDepth {
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if t := strings.TrimSpace(c.Data); t != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(t)
			}
		case html.ElementNode:
			if t := nodeText(c, depth+1); t != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(t)
			}
		}
	}
	return b.String()
}

// cellAlignment resolves a cell or col element's alignment from its align
// attribute or an inline text-align style.
func cellAlignment(n *html.Node) types.Alignment {
	switch strings.ToLower(attrValue(n, "align")) {
	case "left":
		return types.AlignLeft
	case "center":
		return types.AlignCenter
	case "right":
		return types.AlignRight
	}

	style := strings.ToLower(attrValue(n, "style"))
	if strings.Contains(style, "text-align") {
		switch {
		case strings.Contains(style, "center"):
			return types.AlignCenter
		case strings.Contains(style, "right"):
			return types.AlignRight
		case strings.Contains(style, "left"):
			return types.AlignLeft
		}
	}
	return types.AlignNone
}

// colgroupAlignments reads per-column alignment from a <colgroup>, if the
// table declares one.
func colgroupAlignments(table *html.Node) []types.Alignment {
	var group *html.Node
	for n := table.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.DataAtom == atom.Colgroup {
			group = n
			break
		}
	}
	if group == nil {
		return nil
	}

	var aligns []types.Alignment
	for n := group.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.DataAtom == atom.Col {
			aligns = append(aligns, cellAlignment(n))
		}
	}
	return aligns
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
