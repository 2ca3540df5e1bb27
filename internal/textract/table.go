package textract

import (
	"sort"

	"github.com/gestordocs/docanalyzer/internal/entity"
)

// Table is one TABLE block resolved into a row -> column -> cell-text grid.
// Row and column indexes are the engine's 1-based values.
type Table struct {
	Rows map[int]map[int]string
}

// RowNumbers returns the grid's row indexes in ascending order.
func (t Table) RowNumbers() []int {
	nums := make([]int, 0, len(t.Rows))
	for r := range t.Rows {
		nums = append(nums, r)
	}
	sort.Ints(nums)
	return nums
}

// ColumnNumbers returns the column indexes of one row in ascending order.
func (t Table) ColumnNumbers(row int) []int {
	cols := make([]int, 0, len(t.Rows[row]))
	for c := range t.Rows[row] {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

// ExtractTables recovers every TABLE block as a grid, preserving document
// order of tables. Cells are collected via the TABLE block's CHILD
// relationship; a table with no cells is omitted.
func ExtractTables(resp *entity.AnalysisResponse) []Table {
	if resp == nil {
		return nil
	}
	ix := NewIndex(resp)

	var tables []Table
	for _, b := range resp.Blocks {
		if b.BlockType != entity.BlockTypeTable {
			continue
		}
		t := Table{Rows: make(map[int]map[int]string)}
		for _, cellID := range ix.ChildIDs(b.ID) {
			cell, ok := ix.Block(cellID)
			if !ok || cell.BlockType != entity.BlockTypeCell {
				continue
			}
			row := t.Rows[cell.RowIndex]
			if row == nil {
				row = make(map[int]string)
				t.Rows[cell.RowIndex] = row
			}
			row[cell.ColumnIndex] = ix.AssembleText(cell)
		}
		if len(t.Rows) > 0 {
			tables = append(tables, t)
		}
	}
	return tables
}
