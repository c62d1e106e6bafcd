// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// sheet.go implements Sheet (spec §3). Grounded on adnsv-go-xl/xl/sheet.go's
// AddRow/SetColumnWidth/Merge family, generalized from 1-based sequential
// row/column slices to sparse 0-based maps, and from a single Ref-string
// MergeCell to the explicit MergedRegion/CellRange type (cellref.go).

// Sheet is identified by a 1-based persistence id and a 0-based display
// index; it carries its name, a sparse row_index -> Row mapping, a sparse
// col_index -> column-width mapping, merged regions, conditional-format and
// data-validation rules, an optional auto-filter, an optional protection
// record, and a hidden flag.
type Sheet struct {
	Id     int
	Index  int
	Name   string
	Hidden bool

	Merges              []MergedRegion
	ConditionalFormats  []ConditionalFormat
	DataValidations     []DataValidation
	AutoFilter          *AutoFilter
	Protection          *SheetProtection

	rows        map[int]*Row
	colWidths   map[int]float64
}

func newSheet(id, index int, name string) *Sheet {
	return &Sheet{
		Id:        id,
		Index:     index,
		Name:      name,
		rows:      map[int]*Row{},
		colWidths: map[int]float64{},
	}
}

// ValidateSheetName checks Excel's worksheet-name rules: 1-31 characters,
// no leading/trailing single quote, none of : \ / ? * [ ].
func ValidateSheetName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return newErr(KindInvalidArgument, "sheet name must not be empty")
	}
	if n > 31 {
		return newErr(KindInvalidArgument, "sheet name must be 31 characters or fewer")
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return newErr(KindInvalidArgument, "sheet name must not start or end with a single quote")
	}
	if strings.ContainsAny(name, ":\\/?*[]") {
		return newErr(KindInvalidArgument, `sheet name must not contain : \ / ? * [ ]`)
	}
	return nil
}

// Row returns the row at index, creating it if absent. Row indices outside
// [0, MaxRow] are rejected.
func (s *Sheet) Row(index int) (*Row, error) {
	if index < 0 || index > MaxRow {
		return nil, newErr(KindInvalidArgument, "row index out of range")
	}
	r, ok := s.rows[index]
	if !ok {
		r = NewRow(index)
		s.rows[index] = r
	}
	return r, nil
}

// RowIfSet returns the row at index without creating it.
func (s *Sheet) RowIfSet(index int) (*Row, bool) {
	r, ok := s.rows[index]
	return r, ok
}

// Rows returns every row that has been touched, ordered ascending by index.
func (s *Sheet) Rows() []*Row {
	out := make([]*Row, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// SetCell sets the value of the cell at (row, col), creating the row on
// first access.
func (s *Sheet) SetCell(row, col int, value CellValue) error {
	r, err := s.Row(row)
	if err != nil {
		return err
	}
	return r.SetCell(col, value)
}

// Cell returns the cell at (row, col) and whether it has been set.
func (s *Sheet) Cell(row, col int) (Cell, bool) {
	r, ok := s.rows[row]
	if !ok {
		return Cell{}, false
	}
	return r.Cell(col)
}

// SetColumnWidth sets the width (in Excel character units) of a 0-based
// column. A width <= 0 removes the custom width, reverting to automatic.
func (s *Sheet) SetColumnWidth(col int, width float64) error {
	if col < 0 || col > MaxCol {
		return newErr(KindInvalidArgument, "column index out of range")
	}
	if width <= 0 {
		delete(s.colWidths, col)
		return nil
	}
	s.colWidths[col] = width
	return nil
}

// ColumnWidth returns the custom width of col and whether one is set.
func (s *Sheet) ColumnWidth(col int) (float64, bool) {
	w, ok := s.colWidths[col]
	return w, ok
}

// ColumnWidths returns every custom column width, ordered ascending by
// column index.
func (s *Sheet) ColumnWidths() []struct {
	Col   int
	Width float64
} {
	cols := make([]int, 0, len(s.colWidths))
	for c := range s.colWidths {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	out := make([]struct {
		Col   int
		Width float64
	}, len(cols))
	for i, c := range cols {
		out[i] = struct {
			Col   int
			Width float64
		}{c, s.colWidths[c]}
	}
	return out
}

// Merge adds a merged region, rejecting it if it overlaps any existing
// merge (spec §3 invariant).
func (s *Sheet) Merge(region MergedRegion) error {
	if region.StartRow > region.EndRow || region.StartCol > region.EndCol {
		return newErr(KindInvalidArgument, "merged region must have start <= end on both axes")
	}
	for _, m := range s.Merges {
		if m.Overlaps(region) {
			return newErr(KindInvalidArgument, "merged region overlaps an existing merge")
		}
	}
	s.Merges = append(s.Merges, region)
	return nil
}

// AddConditionalFormat appends a conditional-formatting rule.
func (s *Sheet) AddConditionalFormat(cf ConditionalFormat) {
	s.ConditionalFormats = append(s.ConditionalFormats, cf)
}

// AddDataValidation appends a data-validation rule.
func (s *Sheet) AddDataValidation(dv DataValidation) {
	s.DataValidations = append(s.DataValidations, dv)
}

// Protect sets the sheet's protection record, deriving its password hash
// from a cleartext password (empty string means "no password").
func (s *Sheet) Protect(password string, perms SheetProtection) error {
	if password != "" {
		h, err := hashSheetPassword(password)
		if err != nil {
			return err
		}
		perms.Password = h
	}
	s.Protection = &perms
	return nil
}

// Unprotect removes the sheet's protection record entirely.
func (s *Sheet) Unprotect() { s.Protection = nil }
