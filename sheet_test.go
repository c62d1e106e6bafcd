// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSheetNameRules(t *testing.T) {
	assert.NoError(t, ValidateSheetName("Sheet1"))
	assert.Error(t, ValidateSheetName(""))
	assert.Error(t, ValidateSheetName("'quoted"))
	assert.Error(t, ValidateSheetName("quoted'"))
	assert.Error(t, ValidateSheetName("has:colon"))
	assert.Error(t, ValidateSheetName("has/slash"))
	assert.Error(t, ValidateSheetName(
		"this sheet name is 32 chars long",
	))
}

func TestRowMaxBoundaries(t *testing.T) {
	s := newSheet(1, 0, "S1")
	_, err := s.Row(MaxRow)
	assert.NoError(t, err)
	_, err = s.Row(MaxRow + 1)
	assert.Error(t, err)
	_, err = s.Row(-1)
	assert.Error(t, err)
}

func TestSetCellCreatesRowOnFirstAccess(t *testing.T) {
	s := newSheet(1, 0, "S1")
	_, ok := s.Cell(3, 3)
	assert.False(t, ok)

	require.NoError(t, s.SetCell(3, 3, NumberValue(1)))
	c, ok := s.Cell(3, 3)
	require.True(t, ok)
	assert.Equal(t, float64(1), c.Value.Number)
}

func TestEmptyCellValueIsDistinctFromAbsent(t *testing.T) {
	s := newSheet(1, 0, "S1")
	require.NoError(t, s.SetCell(0, 0, TextValue("")))

	c, ok := s.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, ValueText, c.Value.Kind)
	assert.Equal(t, "", c.Value.Text)

	_, ok = s.Cell(1, 1)
	assert.False(t, ok)
}

func TestColumnWidthSetAndClear(t *testing.T) {
	s := newSheet(1, 0, "S1")
	require.NoError(t, s.SetColumnWidth(2, 15.5))
	w, ok := s.ColumnWidth(2)
	require.True(t, ok)
	assert.Equal(t, 15.5, w)

	require.NoError(t, s.SetColumnWidth(2, 0))
	_, ok = s.ColumnWidth(2)
	assert.False(t, ok)
}

func TestMergeRejectsOverlap(t *testing.T) {
	s := newSheet(1, 0, "S1")
	r1, _ := NewCellRange(0, 0, 2, 2)
	require.NoError(t, s.Merge(r1))

	r2, _ := NewCellRange(1, 1, 3, 3)
	assert.Error(t, s.Merge(r2))

	r3, _ := NewCellRange(3, 3, 4, 4)
	assert.NoError(t, s.Merge(r3))
}

func TestProtectAndUnprotect(t *testing.T) {
	s := newSheet(1, 0, "S1")
	require.NoError(t, s.Protect("pw", SheetProtection{Sort: true}))
	require.NotNil(t, s.Protection)
	require.NotNil(t, s.Protection.Password)

	s.Unprotect()
	assert.Nil(t, s.Protection)
}
