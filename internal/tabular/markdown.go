// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tabular

import (
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/pdiddy/enexmark/pkg/types"
)

// Convert renders a <table> node as a Markdown pipe table. Structural
// failures (malformed span arithmetic) degrade to a single-column dump of
// the table's text so the surrounding note conversion never aborts.
func Convert(table *html.Node, log *logrus.Logger) string {
	rows, colgroup := parseTable(table)
	if len(rows) == 0 {
		return ""
	}

	normalized, err := Normalize(rows)
	if err != nil {
		if log != nil {
			log.WithError(err).Warn("table normalization failed, using fallback")
		}
		return Fallback(table)
	}

	if markHeaderRows(normalized) && log != nil {
		log.Warn("table has no header row, promoting first row")
	}

	cols := len(normalized[0].Cells)
	aligns := columnAlignments(normalized, colgroup, cols)

	return Markdown(normalized, aligns)
}

// Markdown emits normalized rows as a pipe table: the leading run of header
// rows, a separator row encoding column alignment, then the body rows.
func Markdown(rows []types.TableRow, aligns []types.Alignment) string {
	if len(rows) == 0 {
		return ""
	}

	var lines []string
	separatorDone := false

	for i, row := range rows {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = escapeCell(c.Content)
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")

		lastHeader := row.Header && (i+1 >= len(rows) || !rows[i+1].Header)
		if !separatorDone && lastHeader {
			lines = append(lines, separatorRow(len(row.Cells), aligns))
			separatorDone = true
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

// separatorRow builds the alignment separator: ":---:" center, "---:"
// right, "---" left or default.
func separatorRow(cols int, aligns []types.Alignment) string {
	marks := make([]string, cols)
	for i := 0; i < cols; i++ {
		align := types.AlignLeft
		if i < len(aligns) {
			align = aligns[i]
		}
		switch align {
		case types.AlignCenter:
			marks[i] = ":---:"
		case types.AlignRight:
			marks[i] = "---:"
		default:
			marks[i] = "---"
		}
	}
	return "| " + strings.Join(marks, " | ") + " |"
}

// escapeCell makes cell text safe for a pipe table: pipes escaped, newlines
// flattened to spaces, runs of whitespace collapsed.
func escapeCell(content string) string {
	content = strings.ReplaceAll(content, "|", `\|`)
	content = strings.ReplaceAll(content, "\n", " ")
	content = spaceRun.ReplaceAllString(content, " ")
	content = strings.TrimSpace(content)
	if content == "" {
		return " "
	}
	return content
}

// Fallback dumps a table it could not normalize as a one-column Markdown
// table, one row per source row with cell text joined by " | ". Still valid
// Markdown, so the note conversion continues.
func Fallback(table *html.Node) string {
	lines := []string{"| Content |", "| --- |"}

	for _, row := range collectRows(table, false) {
		texts := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			texts[i] = strings.TrimSpace(c.Content)
		}
		lines = append(lines, "| "+strings.Join(texts, " | ")+" |")
	}

	return strings.Join(lines, "\n") + "\n"
}
