// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

// cell.go implements Cell, the leaf of the data model (spec §3). Grounded on
// adnsv-go-xl/xl/cell.go's field layout, replacing its CellType+raw-string
// pair and embedded XF with this package's CellValue tagged union
// (cellvalue.go) and StyleId (style.go).

// Cell carries its 0-based column number, a CellValue, and a StyleId. A zero
// StyleId denotes the default style. An "empty" CellValue is a distinct,
// addressable value, not an absent Cell: a Row only omits entries for
// columns nobody has touched.
type Cell struct {
	Col   int
	Value CellValue
	Style StyleId
}

// NewCell builds a Cell at the given 0-based column holding value under the
// default style.
func NewCell(col int, value CellValue) Cell {
	return Cell{Col: col, Value: value}
}

// WithStyle returns a copy of c with its StyleId replaced.
func (c Cell) WithStyle(style StyleId) Cell {
	c.Style = style
	return c
}
