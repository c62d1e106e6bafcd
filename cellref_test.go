// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColToLettersAndBack(t *testing.T) {
	cases := []struct {
		col  int
		want string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "AA"},
		{51, "AZ"},
		{26*26 + 26 - 1, "ZZ"},
	}
	for _, c := range cases {
		letters, err := colToLetters(c.col)
		require.NoError(t, err)
		assert.Equal(t, c.want, letters)

		col, err := lettersToCol(letters)
		require.NoError(t, err)
		assert.Equal(t, c.col, col)
	}
}

func TestLettersToColCaseInsensitive(t *testing.T) {
	upper, err := lettersToCol("AA")
	require.NoError(t, err)
	lower, err := lettersToCol("aa")
	require.NoError(t, err)
	assert.Equal(t, upper, lower)
}

func TestToRefParseRefRoundTrip(t *testing.T) {
	for row := 0; row <= MaxRow; row += 97531 {
		for col := 0; col <= MaxCol; col += 577 {
			ref, err := ToRef(row, col)
			require.NoError(t, err)
			gotRow, gotCol, err := ParseRef(ref)
			require.NoError(t, err)
			assert.Equal(t, row, gotRow)
			assert.Equal(t, col, gotCol)
		}
	}
}

func TestToRefExample(t *testing.T) {
	ref, err := ToRef(26, 26)
	require.NoError(t, err)
	assert.Equal(t, "AA27", ref)

	ref, err = ToRef(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "B2", ref)
}

func TestParseRefRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "1A", "A", "A-1", "A0", "$A$1"} {
		_, _, err := ParseRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestColToLettersRejectsNegative(t *testing.T) {
	_, err := colToLetters(-1)
	assert.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidArgument))
}

func TestNewCellRangeValidatesOrder(t *testing.T) {
	_, err := NewCellRange(5, 0, 2, 0)
	assert.Error(t, err)

	r, err := NewCellRange(0, 0, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, r.StartRow)
	assert.Equal(t, 5, r.EndRow)
}

func TestNormalizeRangeSwapsReversedCorners(t *testing.T) {
	r, err := NormalizeRange(5, 3, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, CellRange{StartRow: 0, StartCol: 0, EndRow: 5, EndCol: 3}, r)
}

func TestCellRangeStringAndParse(t *testing.T) {
	r, err := NewCellRange(0, 0, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, "A1:D6", r.String())

	single, err := NewCellRange(1, 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "B2", single.String())

	parsed, err := ParseRange("A1:D6")
	require.NoError(t, err)
	assert.Equal(t, r, parsed)

	parsedSingle, err := ParseRange("B2")
	require.NoError(t, err)
	assert.Equal(t, single, parsedSingle)
}

func TestCellRangeOverlaps(t *testing.T) {
	a, _ := NewCellRange(0, 0, 5, 5)
	b, _ := NewCellRange(4, 4, 10, 10)
	c, _ := NewCellRange(6, 6, 10, 10)
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
}
