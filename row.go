// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import "sort"

// row.go implements Row, a sparse collection of Cells (spec §3). Grounded on
// adnsv-go-xl/xl/row.go's slice-of-cells model, replaced with a sparse
// col-index map since the spec requires addressing any of the 16,384
// columns directly rather than only appending sequentially.

// Row carries its 0-based row number, a sparse col_index -> Cell mapping, an
// optional custom height (points; nil means "automatic"), and a hidden
// flag.
type Row struct {
	Index  int
	Height *float64
	Hidden bool

	cells map[int]Cell
}

// NewRow constructs an empty Row at the given 0-based row index.
func NewRow(index int) *Row {
	return &Row{Index: index, cells: map[int]Cell{}}
}

// Cell returns the cell at col and whether it has been set. Touching a
// column that was never written returns (Cell{}, false), distinct from a
// cell explicitly set to an empty CellValue.
func (r *Row) Cell(col int) (Cell, bool) {
	c, ok := r.cells[col]
	return c, ok
}

// SetCell sets the cell at col, validating col is within [0, MaxCol].
func (r *Row) SetCell(col int, value CellValue) error {
	if col < 0 || col > MaxCol {
		return newErr(KindInvalidArgument, "column index out of range")
	}
	if r.cells == nil {
		r.cells = map[int]Cell{}
	}
	c := r.cells[col]
	c.Col = col
	c.Value = value
	r.cells[col] = c
	return nil
}

// SetCellStyle sets the StyleId of the cell at col, creating an empty cell
// there first if none exists yet.
func (r *Row) SetCellStyle(col int, style StyleId) error {
	if col < 0 || col > MaxCol {
		return newErr(KindInvalidArgument, "column index out of range")
	}
	if r.cells == nil {
		r.cells = map[int]Cell{}
	}
	c := r.cells[col]
	c.Col = col
	c.Style = style
	r.cells[col] = c
	return nil
}

// Cells returns every set cell, ordered ascending by column.
func (r *Row) Cells() []Cell {
	out := make([]Cell, 0, len(r.cells))
	for _, c := range r.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Col < out[j].Col })
	return out
}

// Len reports how many columns are set in the row.
func (r *Row) Len() int { return len(r.cells) }
