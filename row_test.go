// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowSetCellRejectsOutOfRangeColumn(t *testing.T) {
	r := NewRow(0)
	assert.Error(t, r.SetCell(-1, NumberValue(1)))
	assert.Error(t, r.SetCell(MaxCol+1, NumberValue(1)))
	assert.NoError(t, r.SetCell(MaxCol, NumberValue(1)))
}

func TestRowCellsOrderedAscendingByColumn(t *testing.T) {
	r := NewRow(0)
	require.NoError(t, r.SetCell(5, NumberValue(5)))
	require.NoError(t, r.SetCell(1, NumberValue(1)))
	require.NoError(t, r.SetCell(3, NumberValue(3)))

	cells := r.Cells()
	require.Len(t, cells, 3)
	assert.Equal(t, 1, cells[0].Col)
	assert.Equal(t, 3, cells[1].Col)
	assert.Equal(t, 5, cells[2].Col)
}

func TestRowSetCellStyleCreatesCellIfAbsent(t *testing.T) {
	r := NewRow(0)
	require.NoError(t, r.SetCellStyle(2, StyleId(7)))

	c, ok := r.Cell(2)
	require.True(t, ok)
	assert.Equal(t, StyleId(7), c.Style)
	assert.True(t, c.Value.IsEmpty())
}

func TestRowLenCountsSetColumnsOnly(t *testing.T) {
	r := NewRow(0)
	assert.Equal(t, 0, r.Len())
	require.NoError(t, r.SetCell(0, NumberValue(1)))
	require.NoError(t, r.SetCell(1, NumberValue(2)))
	assert.Equal(t, 2, r.Len())
}
