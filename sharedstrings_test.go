// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedStringTableAddDedupesAndPreservesOrder(t *testing.T) {
	tbl := newSharedStringTable()
	i1 := tbl.add("Alpha")
	i2 := tbl.add("Beta")
	i3 := tbl.add("Alpha")
	assert.Equal(t, i1, i3)
	assert.NotEqual(t, i1, i2)
	assert.Equal(t, 2, tbl.count())

	s, ok := tbl.get(i2)
	require.True(t, ok)
	assert.Equal(t, "Beta", s)

	_, ok = tbl.get(99)
	assert.False(t, ok)
}

func TestSharedStringsMarshalUnmarshalRoundTrip(t *testing.T) {
	tbl := newSharedStringTable()
	tbl.add("first")
	tbl.add(" padded ")
	tbl.add("third")

	data, err := marshalSharedStrings(tbl)
	require.NoError(t, err)
	assert.Contains(t, string(data), `xml:space="preserve"`)

	rebuilt, err := unmarshalSharedStrings(data)
	require.NoError(t, err)
	require.Equal(t, 3, rebuilt.count())

	s, ok := rebuilt.get(1)
	require.True(t, ok)
	assert.Equal(t, " padded ", s)
}

func TestSharedStringRefFormatsDecimalIndex(t *testing.T) {
	assert.Equal(t, "0", sharedStringRef(0))
	assert.Equal(t, "42", sharedStringRef(42))
}
