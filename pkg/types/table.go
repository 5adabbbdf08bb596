// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Alignment is a table column or cell alignment.
type Alignment string

const (
	AlignNone   Alignment = ""
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// TableCell is one cell of a source table. RowSpan and ColSpan are the
// merge extents declared on the cell, both at least 1.
type TableCell struct {
	// Content is the cell text with inline formatting already flattened
	// to Markdown and surrounding whitespace trimmed.
	Content string

	// RowSpan and ColSpan are the merge extents (default 1).
	RowSpan int
	ColSpan int

	// Header marks a header-styled cell.
	Header bool

	// Align is the cell's explicit alignment, if any.
	Align Alignment
}

// TableRow is an ordered run of cells. Header marks rows that came from an
// explicit header grouping.
type TableRow struct {
	Cells  []TableCell
	Header bool
}

// SpanWidth is the number of grid columns the row's cells claim, counting
// column spans. The normalizer's max_cols is the maximum over all rows.
func (r TableRow) SpanWidth() int {
	w := 0
	for _, c := range r.Cells {
		span := c.ColSpan
		if span < 1 {
			span = 1
		}
		w += span
	}
	return w
}
