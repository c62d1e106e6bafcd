// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"sync"

	"github.com/mohae/deepcopy"
)

// workbook.go implements Workbook, the top-level aggregate (spec §3).
// Grounded on adnsv-go-xl/xl/workbook.go's sheetMap-for-uniqueness pattern,
// extended with a sync.Mutex since this package's concurrency model (spec
// §5) allows concurrent readers and serializes writers per Workbook.

// Workbook is an ordered sequence of sheets, addressable by 0-based index
// or by case-sensitive name (names are unique), plus a shared style table.
type Workbook struct {
	mu sync.Mutex

	sheets   []*Sheet
	byName   map[string]*Sheet
	styles   *styleTable
	nextId   int
	sharedStrings *sharedStringTable
}

// NewWorkbook builds an empty workbook: no sheets, a style table seeded
// with DefaultStyle at StyleId 0.
func NewWorkbook() *Workbook {
	wb := &Workbook{
		byName:        map[string]*Sheet{},
		styles:        newStyleTable(),
		nextId:        1,
		sharedStrings: newSharedStringTable(),
	}
	return wb
}

// AddSheet appends a new sheet named name. Returns an error if the name is
// invalid or already used.
func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	if err := ValidateSheetName(name); err != nil {
		return nil, err
	}
	if _, exists := wb.byName[name]; exists {
		return nil, newErr(KindInvalidArgument, "duplicate sheet name: "+name)
	}

	s := newSheet(wb.nextId, len(wb.sheets), name)
	wb.nextId++
	wb.sheets = append(wb.sheets, s)
	wb.byName[name] = s
	return s, nil
}

// SheetByIndex returns the sheet at the given 0-based display index.
func (wb *Workbook) SheetByIndex(index int) (*Sheet, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	if index < 0 || index >= len(wb.sheets) {
		return nil, newErr(KindInvalidArgument, "sheet index out of range")
	}
	return wb.sheets[index], nil
}

// SheetByName returns the sheet with the given case-sensitive name.
func (wb *Workbook) SheetByName(name string) (*Sheet, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	s, ok := wb.byName[name]
	if !ok {
		return nil, newErr(KindInvalidArgument, "no sheet named: "+name)
	}
	return s, nil
}

// SheetCount returns the number of sheets in the workbook.
func (wb *Workbook) SheetCount() int {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return len(wb.sheets)
}

// Sheets returns the workbook's sheets in insertion/display order. The
// returned slice is a copy; mutating it does not affect the workbook.
func (wb *Workbook) Sheets() []*Sheet {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	out := make([]*Sheet, len(wb.sheets))
	copy(out, wb.sheets)
	return out
}

// RenameSheet changes a sheet's name, rejecting a rename that collides with
// another sheet.
func (wb *Workbook) RenameSheet(oldName, newName string) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	s, ok := wb.byName[oldName]
	if !ok {
		return newErr(KindInvalidArgument, "no sheet named: "+oldName)
	}
	if newName == oldName {
		return nil
	}
	if err := ValidateSheetName(newName); err != nil {
		return err
	}
	if _, exists := wb.byName[newName]; exists {
		return newErr(KindInvalidArgument, "duplicate sheet name: "+newName)
	}
	delete(wb.byName, oldName)
	s.Name = newName
	wb.byName[newName] = s
	return nil
}

// AddStyle registers a Style and returns its StyleId, reusing an existing
// slot under structural equality.
func (wb *Workbook) AddStyle(s Style) StyleId {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.styles.addStyle(s)
}

// Style looks up a previously registered Style by its StyleId.
func (wb *Workbook) Style(id StyleId) (Style, bool) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.styles.style(id)
}

// Clone returns a deep copy of wb: every sheet, the style table, and the
// shared-string table are independent of the original's backing memory, so
// mutating the clone never affects wb. The clone carries no encryption
// state; it is a copy of the in-memory model only, not of any persisted
// form (grounded on the copySheet/deepcopy.Copy idiom the fork cluster uses
// for duplicating a single xlsxWorksheet, generalized here to the whole
// Workbook).
func (wb *Workbook) Clone() *Workbook {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	sheets := deepcopy.Copy(wb.sheets).([]*Sheet)
	// deepcopy skips unexported fields, so the sparse maps and the two
	// tables' contents are copied explicitly.
	for i, s := range sheets {
		s.rows = make(map[int]*Row, len(wb.sheets[i].rows))
		for k, r := range wb.sheets[i].rows {
			s.rows[k] = deepcopy.Copy(r).(*Row)
			s.rows[k].cells = deepcopy.Copy(r.cells).(map[int]Cell)
		}
		s.colWidths = deepcopy.Copy(wb.sheets[i].colWidths).(map[int]float64)
	}
	wb.styles.mu.Lock()
	styles := &styleTable{styles: deepcopy.Copy(wb.styles.styles).([]Style), index: deepcopy.Copy(wb.styles.index).(map[Style]StyleId)}
	wb.styles.mu.Unlock()
	sharedStrings := &sharedStringTable{strings: deepcopy.Copy(wb.sharedStrings.strings).([]string), index: deepcopy.Copy(wb.sharedStrings.index).(map[string]int)}

	byName := make(map[string]*Sheet, len(sheets))
	for _, s := range sheets {
		byName[s.Name] = s
	}

	return &Workbook{
		sheets:        sheets,
		byName:        byName,
		styles:        styles,
		nextId:        wb.nextId,
		sharedStrings: sharedStrings,
	}
}
