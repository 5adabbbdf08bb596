// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tabular

import (
	"errors"
	"fmt"

	"github.com/pdiddy/enexmark/pkg/types"
)

// ErrTableStructure reports malformed span arithmetic during grid
// construction. The caller degrades to the single-column fallback.
var ErrTableStructure = errors.New("malformed table structure")

// Normalize expands merged cells into a dense grid. Every output row has
// exactly maxCols cells, where maxCols is the maximum over source rows of
// the sum of that row's column spans. A cell spanning R rows and C columns
// contributes its content to all R×C grid positions.
func Normalize(rows []types.TableRow) ([]types.TableRow, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	maxCols := 0
	for _, row := range rows {
		if w := row.SpanWidth(); w > maxCols {
			maxCols = w
		}
	}
	if maxCols == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrTableStructure)
	}

	// grid[r][c] points at the source cell occupying that position.
	grid := make([][]*types.TableCell, len(rows))
	for i := range grid {
		grid[i] = make([]*types.TableCell, maxCols)
	}

	for rowIdx := range rows {
		col := 0
		for cellIdx := range rows[rowIdx].Cells {
			cell := &rows[rowIdx].Cells[cellIdx]
			if cell.RowSpan < 1 || cell.ColSpan < 1 {
				return nil, fmt.Errorf("%w: non-positive span at row %d", ErrTableStructure, rowIdx)
			}

			// Advance past positions claimed by spans from earlier rows.
			for col < maxCols && grid[rowIdx][col] != nil {
				col++
			}
			if col >= maxCols || col+cell.ColSpan > maxCols {
				return nil, fmt.Errorf("%w: cell at row %d exceeds column bound %d", ErrTableStructure, rowIdx, maxCols)
			}
			if rowIdx+cell.RowSpan > len(rows) {
				return nil, fmt.Errorf("%w: cell at row %d exceeds row bound %d", ErrTableStructure, rowIdx, len(rows))
			}

			for r := rowIdx; r < rowIdx+cell.RowSpan; r++ {
				for c := col; c < col+cell.ColSpan; c++ {
					if grid[r][c] == nil {
						grid[r][c] = cell
					}
				}
			}
			col += cell.ColSpan
		}
	}

	// Rebuild dense rows: one output cell per grid position, duplicating
	// spanned content, blank where nothing claimed the slot.
	normalized := make([]types.TableRow, len(rows))
	for r := range rows {
		cells := make([]types.TableCell, maxCols)
		for c := 0; c < maxCols; c++ {
			if src := grid[r][c]; src != nil {
				cells[c] = types.TableCell{
					Content: src.Content,
					RowSpan: 1,
					ColSpan: 1,
					Header:  src.Header,
					Align:   src.Align,
				}
			} else {
				cells[c] = types.TableCell{Content: " ", RowSpan: 1, ColSpan: 1}
			}
		}
		normalized[r] = types.TableRow{Cells: cells, Header: rows[r].Header}
	}

	return normalized, nil
}

// markHeaderRows applies header detection in precedence order: rows from an
// explicit header grouping win; otherwise rows whose cells are all
// header-styled; otherwise the first row is promoted. It reports whether
// promotion occurred so the caller can log it.
func markHeaderRows(rows []types.TableRow) (promoted bool) {
	for _, row := range rows {
		if row.Header {
			return false
		}
	}

	found := false
	for i, row := range rows {
		all := len(row.Cells) > 0
		for _, c := range row.Cells {
			if !c.Header {
				all = false
				break
			}
		}
		if all {
			rows[i].Header = true
			found = true
		}
	}
	if found {
		return false
	}

	if len(rows) > 0 {
		rows[0].Header = true
	}
	return true
}

// columnAlignments resolves each column's alignment: an explicit colgroup
// declaration wins, then the per-column majority of explicit cell
// alignments, then left.
func columnAlignments(rows []types.TableRow, colgroup []types.Alignment, cols int) []types.Alignment {
	aligns := make([]types.Alignment, cols)

	for i := 0; i < cols; i++ {
		if i < len(colgroup) && colgroup[i] != types.AlignNone {
			aligns[i] = colgroup[i]
			continue
		}

		counts := map[types.Alignment]int{}
		for _, row := range rows {
			if i < len(row.Cells) && row.Cells[i].Align != types.AlignNone {
				counts[row.Cells[i].Align]++
			}
		}
		best, bestCount := types.AlignLeft, 0
		for _, a := range []types.Alignment{types.AlignLeft, types.AlignCenter, types.AlignRight} {
			if counts[a] > bestCount {
				best, bestCount = a, counts[a]
			}
		}
		aligns[i] = best
	}

	return aligns
}
