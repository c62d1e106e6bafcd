// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCellOmitsEmptyUnstyledCell(t *testing.T) {
	s := newSheet(1, 0, "S1")
	require.NoError(t, s.SetCell(0, 0, EmptyValue()))

	data, err := marshalWorksheet(s, useInlineStrings, nil)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `r="A1"`)
}

func TestWriteCellKeepsEmptyStyledCell(t *testing.T) {
	s := newSheet(1, 0, "S1")
	require.NoError(t, s.SetCell(0, 0, EmptyValue()))
	row, err := s.Row(0)
	require.NoError(t, err)
	require.NoError(t, row.SetCellStyle(0, StyleId(2)))

	data, err := marshalWorksheet(s, useInlineStrings, nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), `r="A1"`)
	assert.Contains(t, string(data), `s="2"`)
}

func TestInlineStringPreservesEdgeWhitespace(t *testing.T) {
	s := newSheet(1, 0, "S1")
	require.NoError(t, s.SetCell(0, 0, TextValue(" padded ")))

	data, err := marshalWorksheet(s, useInlineStrings, nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), `xml:space="preserve"`)
}

func TestSharedStringPolicyEmitsIndexReference(t *testing.T) {
	s := newSheet(1, 0, "S1")
	require.NoError(t, s.SetCell(0, 0, TextValue("hello")))
	strings := newSharedStringTable()

	data, err := marshalWorksheet(s, useSharedStrings, strings)
	require.NoError(t, err)
	xmlStr := string(data)
	assert.Contains(t, xmlStr, `t="s"`)
	assert.Equal(t, 1, strings.count())
}

func TestWorksheetCellKindRoundTrip(t *testing.T) {
	s := newSheet(1, 0, "S1")
	require.NoError(t, s.SetCell(0, 0, TextValue("Label")))
	require.NoError(t, s.SetCell(0, 1, NumberValue(3.25)))
	require.NoError(t, s.SetCell(0, 2, BoolValue(true)))
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SetCell(0, 3, DateValue(date)))
	fv, err := FormulaValue("SUM(A1:A2)", nil)
	require.NoError(t, err)
	require.NoError(t, s.SetCell(1, 0, fv))
	require.NoError(t, s.SetCell(1, 1, ErrorValue(ErrDiv0)))

	data, err := marshalWorksheet(s, useInlineStrings, nil)
	require.NoError(t, err)

	rebuilt := newSheet(1, 0, "S1")
	require.NoError(t, unmarshalWorksheet(data, rebuilt, nil))

	c, ok := rebuilt.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, "Label", c.Value.Text)

	c, ok = rebuilt.Cell(0, 1)
	require.True(t, ok)
	assert.Equal(t, 3.25, c.Value.Number)

	c, ok = rebuilt.Cell(0, 2)
	require.True(t, ok)
	assert.True(t, c.Value.Bool)

	c, ok = rebuilt.Cell(0, 3)
	require.True(t, ok)
	assert.Equal(t, ValueNumber, c.Value.Kind)

	c, ok = rebuilt.Cell(1, 0)
	require.True(t, ok)
	assert.Equal(t, ValueFormula, c.Value.Kind)
	assert.Equal(t, "SUM(A1:A2)", c.Value.FormulaExpr)

	c, ok = rebuilt.Cell(1, 1)
	require.True(t, ok)
	assert.Equal(t, ValueError, c.Value.Kind)
	assert.Equal(t, ErrDiv0, c.Value.ErrorCode)
}

func TestFormulaCachedValueRoundTrip(t *testing.T) {
	s := newSheet(1, 0, "S1")
	cached := NumberValue(42)
	fv, err := FormulaValue("A1*2", &cached)
	require.NoError(t, err)
	require.NoError(t, s.SetCell(0, 0, fv))

	data, err := marshalWorksheet(s, useInlineStrings, nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<f>A1*2</f>")

	rebuilt := newSheet(1, 0, "S1")
	require.NoError(t, unmarshalWorksheet(data, rebuilt, nil))
	c, ok := rebuilt.Cell(0, 0)
	require.True(t, ok)
	require.NotNil(t, c.Value.FormulaCached)
	assert.Equal(t, float64(42), c.Value.FormulaCached.Number)
}

func TestWorksheetSectionOrdering(t *testing.T) {
	s := newSheet(1, 0, "S1")
	require.NoError(t, s.SetCell(0, 0, TextValue("x")))
	require.NoError(t, s.SetColumnWidth(0, 20))
	r, err := NewCellRange(0, 0, 1, 1)
	require.NoError(t, err)
	require.NoError(t, s.Merge(r))
	require.NoError(t, s.Protect("", SheetProtection{}))

	data, err := marshalWorksheet(s, useInlineStrings, nil)
	require.NoError(t, err)
	xmlStr := string(data)

	colsPos := strings.Index(xmlStr, "<cols>")
	sheetDataPos := strings.Index(xmlStr, "<sheetData>")
	protectionPos := strings.Index(xmlStr, "<sheetProtection")
	mergePos := strings.Index(xmlStr, "<mergeCells")

	require.True(t, colsPos >= 0 && sheetDataPos >= 0 && protectionPos >= 0 && mergePos >= 0)
	assert.Less(t, colsPos, sheetDataPos)
	assert.Less(t, sheetDataPos, protectionPos)
	assert.Less(t, protectionPos, mergePos)
}

func TestMergeCellsRoundTrip(t *testing.T) {
	s := newSheet(1, 0, "S1")
	r, err := NewCellRange(0, 0, 1, 2)
	require.NoError(t, err)
	require.NoError(t, s.Merge(r))

	data, err := marshalWorksheet(s, useInlineStrings, nil)
	require.NoError(t, err)

	rebuilt := newSheet(1, 0, "S1")
	require.NoError(t, unmarshalWorksheet(data, rebuilt, nil))
	require.Len(t, rebuilt.Merges, 1)
	assert.Equal(t, r, rebuilt.Merges[0])
}

func TestColumnWidthRoundTrip(t *testing.T) {
	s := newSheet(1, 0, "S1")
	require.NoError(t, s.SetColumnWidth(4, 22.5))

	data, err := marshalWorksheet(s, useInlineStrings, nil)
	require.NoError(t, err)

	rebuilt := newSheet(1, 0, "S1")
	require.NoError(t, unmarshalWorksheet(data, rebuilt, nil))
	w, ok := rebuilt.ColumnWidth(4)
	require.True(t, ok)
	assert.Equal(t, 22.5, w)
}

func TestConditionalFormatRoundTrip(t *testing.T) {
	s := newSheet(1, 0, "S1")
	rng, err := ParseRange("A1:A8")
	require.NoError(t, err)
	s.AddConditionalFormat(ConditionalFormat{
		Range:    rng,
		Type:     CFCellIs,
		Operator: OpGreaterThan,
		Formula1: "79.0",
		StyleId:  3,
	})

	data, err := marshalWorksheet(s, useInlineStrings, nil)
	require.NoError(t, err)
	xmlStr := string(data)
	assert.Contains(t, xmlStr, `sqref="A1:A8"`)
	assert.Contains(t, xmlStr, `type="cellIs"`)
	assert.Contains(t, xmlStr, `operator="greaterThan"`)
	assert.Contains(t, xmlStr, `dxfId="2"`)
	assert.Contains(t, xmlStr, "<formula>79.0</formula>")

	rebuilt := newSheet(1, 0, "S1")
	require.NoError(t, unmarshalWorksheet(data, rebuilt, nil))
	require.Len(t, rebuilt.ConditionalFormats, 1)
	cf := rebuilt.ConditionalFormats[0]
	assert.Equal(t, rng, cf.Range)
	assert.Equal(t, CFCellIs, cf.Type)
	assert.Equal(t, OpGreaterThan, cf.Operator)
	assert.Equal(t, "79.0", cf.Formula1)
	assert.Equal(t, StyleId(3), cf.StyleId)
}

func TestDataValidationRoundTrip(t *testing.T) {
	s := newSheet(1, 0, "S1")
	rng, err := ParseRange("B2:B10")
	require.NoError(t, err)
	s.AddDataValidation(DataValidation{
		Range:        rng,
		Type:         DVWhole,
		Operator:     OpBetween,
		Formula1:     "1",
		Formula2:     "100",
		ErrorTitle:   "Out of range",
		ErrorMessage: "Enter a value between 1 and 100",
	})
	listRng, err := ParseRange("C1:C4")
	require.NoError(t, err)
	s.AddDataValidation(NewListValidation(listRng, []string{"red", "green", "blue"}, true))

	data, err := marshalWorksheet(s, useInlineStrings, nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), `count="2"`)

	rebuilt := newSheet(1, 0, "S1")
	require.NoError(t, unmarshalWorksheet(data, rebuilt, nil))
	require.Len(t, rebuilt.DataValidations, 2)

	dv := rebuilt.DataValidations[0]
	assert.Equal(t, rng, dv.Range)
	assert.Equal(t, DVWhole, dv.Type)
	assert.Equal(t, OpBetween, dv.Operator)
	assert.Equal(t, "1", dv.Formula1)
	assert.Equal(t, "100", dv.Formula2)
	assert.Equal(t, "Out of range", dv.ErrorTitle)
	assert.Equal(t, "Enter a value between 1 and 100", dv.ErrorMessage)

	list := rebuilt.DataValidations[1]
	assert.Equal(t, DVList, list.Type)
	assert.Equal(t, `"red,green,blue"`, list.Formula1)
	assert.True(t, list.ShowDropdown)
}

func TestAutoFilterRoundTrip(t *testing.T) {
	s := newSheet(1, 0, "S1")
	rng, err := ParseRange("A1:C20")
	require.NoError(t, err)
	s.AutoFilter = &AutoFilter{
		Range: rng,
		Columns: []AutoFilterColumn{
			{Index: 0, Values: []string{"yes", "no"}},
			{Index: 2, Custom: &CustomFilter{
				Op1: FilterGreaterThan, Val1: "10",
				Op2: FilterLessThanOrEqual, Val2: "50",
				HasOp2: true, Combine: CombineAnd,
			}},
		},
	}

	data, err := marshalWorksheet(s, useInlineStrings, nil)
	require.NoError(t, err)

	rebuilt := newSheet(1, 0, "S1")
	require.NoError(t, unmarshalWorksheet(data, rebuilt, nil))
	require.NotNil(t, rebuilt.AutoFilter)
	assert.Equal(t, rng, rebuilt.AutoFilter.Range)
	require.Len(t, rebuilt.AutoFilter.Columns, 2)

	assert.Equal(t, []string{"yes", "no"}, rebuilt.AutoFilter.Columns[0].Values)

	custom := rebuilt.AutoFilter.Columns[1].Custom
	require.NotNil(t, custom)
	assert.Equal(t, FilterGreaterThan, custom.Op1)
	assert.Equal(t, "10", custom.Val1)
	assert.True(t, custom.HasOp2)
	assert.Equal(t, FilterLessThanOrEqual, custom.Op2)
	assert.Equal(t, "50", custom.Val2)
	assert.Equal(t, CombineAnd, custom.Combine)
}

func TestSheetProtectionRoundTrip(t *testing.T) {
	s := newSheet(1, 0, "S1")
	require.NoError(t, s.Protect("", SheetProtection{
		SelectLockedCells:   true,
		SelectUnlockedCells: true,
		Sort:                true,
	}))

	data, err := marshalWorksheet(s, useInlineStrings, nil)
	require.NoError(t, err)

	rebuilt := newSheet(1, 0, "S1")
	require.NoError(t, unmarshalWorksheet(data, rebuilt, nil))
	require.NotNil(t, rebuilt.Protection)
	assert.True(t, rebuilt.Protection.SelectLockedCells)
	assert.True(t, rebuilt.Protection.Sort)
	assert.False(t, rebuilt.Protection.FormatCells)
	assert.False(t, rebuilt.Protection.InsertRows)
}

func TestParseCellRejectsUnrecognizedTypeAttribute(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
		`<sheetData><row r="1"><c r="A1" t="weird"><v>42</v></c></row></sheetData>` +
		`</worksheet>`

	s := newSheet(1, 0, "S1")
	err := unmarshalWorksheet([]byte(doc), s, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindFileCorrupt))
	assert.Contains(t, err.Error(), "weird")
}

func TestParseCellSharedStringWithoutTableIsCorrupt(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
		`<sheetData><row r="1"><c r="A1" t="s"><v>0</v></c></row></sheetData>` +
		`</worksheet>`

	s := newSheet(1, 0, "S1")
	err := unmarshalWorksheet([]byte(doc), s, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindFileCorrupt))
}
